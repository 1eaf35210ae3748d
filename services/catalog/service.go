package catalog

import (
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mypubsub"
	"github.com/tickethub/storefront/lib/mystore"
)

type service struct {
	salesStore mystore.Store[EventSales]
	pubsub     mypubsub.PubSub
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(salesStore mystore.Store[EventSales], pubsub mypubsub.PubSub, logger mylog.Logger) *service {
	return &service{
		salesStore: salesStore,
		pubsub:     pubsub,
		logger:     logger,
	}
}
