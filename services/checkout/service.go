package checkout

import (
	"context"

	"github.com/tickethub/storefront/lib/myblobstore"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mypublisher"
	"github.com/tickethub/storefront/lib/myqueue"
	"github.com/tickethub/storefront/lib/myrandom"
	"github.com/tickethub/storefront/lib/mytime"
	"github.com/tickethub/storefront/services/cart"
)

// CartEngine is the slice of the cart component this service needs.
type CartEngine interface {
	LinesForEvent(c context.Context, visitorUID string, eventUID string) ([]cart.Line, error)
	Clear(c context.Context, visitorUID string) error
}

type service struct {
	blobStore  myblobstore.BlobStore
	cartEngine CartEngine
	publisher  mypublisher.Publisher
	queue      myqueue.TaskQueuer
	nower      mytime.Nower
	randomer   myrandom.Randomer
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(blobStore myblobstore.BlobStore, cartEngine CartEngine, publisher mypublisher.Publisher, queue myqueue.TaskQueuer, nower mytime.Nower, randomer myrandom.Randomer, logger mylog.Logger) *service {
	return &service{
		blobStore:  blobStore,
		cartEngine: cartEngine,
		publisher:  publisher,
		queue:      queue,
		nower:      nower,
		randomer:   randomer,
		logger:     logger,
	}
}
