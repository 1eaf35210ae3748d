package orders

import (
	"github.com/tickethub/storefront/lib/myblobstore"
	"github.com/tickethub/storefront/lib/mylog"
)

type service struct {
	blobStore myblobstore.BlobStore
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(blobStore myblobstore.BlobStore, logger mylog.Logger) *service {
	return &service{
		blobStore: blobStore,
		logger:    logger,
	}
}
