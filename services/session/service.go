package session

import (
	"github.com/go-playground/validator/v10"

	"github.com/tickethub/storefront/lib/myhttpclient"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mystore"
	"github.com/tickethub/storefront/lib/mytime"
	"github.com/tickethub/storefront/lib/myuuid"
)

type service struct {
	sessionStore mystore.Store[Session]
	client       authClient
	validate     *validator.Validate
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(sessionStore mystore.Store[Session], sender myhttpclient.HTTPSender, authAPIURL string, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *service {
	return &service{
		sessionStore: sessionStore,
		client:       newAuthClient(sender, authAPIURL),
		validate:     validator.New(),
		nower:        nower,
		uuider:       uuider,
		logger:       logger,
	}
}
