package orders

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tickethub/storefront/lib/myblobstore"
	"github.com/tickethub/storefront/lib/mycontext"
	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/myhttp"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/myuuid"
	"github.com/tickethub/storefront/services/visitor"
)

type webService struct {
	service *service
	uuider  myuuid.UUIDer
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(blobStore myblobstore.BlobStore, uuider myuuid.UUIDer, logger mylog.Logger) *webService {
	return &webService{
		service: newService(blobStore, logger),
		uuider:  uuider,
		logger:  logger,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	// Endpoints that compose the userinterface
	router.HandleFunc("/orders", s.orderHistoryPage()).Methods("GET")
	router.HandleFunc("/order/confirmed", s.orderConfirmedPage()).Methods("GET")

	// Task queue will call this endpoint to deliver the confirmation mail
	router.HandleFunc("/api/order/{orderUID}/confirmation", s.confirmationTaskCallback()).Methods("PUT")
}

//go:embed templates
var templateFolder embed.FS
var (
	orderHistoryPageTemplate   *template.Template
	orderConfirmedPageTemplate *template.Template
)

func init() {
	orderHistoryPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/order_history.html"))
	orderConfirmedPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/order_confirmed.html"))
}

func (s webService) orderHistoryPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		visitorUID := visitor.UIDFromRequest(w, r, s.uuider)

		orders, err := s.service.listOrders(c, visitorUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = orderHistoryPageTemplate.Execute(w, orders)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s webService) orderConfirmedPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		visitorUID := visitor.UIDFromRequest(w, r, s.uuider)

		order, err := s.service.lastOrder(c, visitorUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}
		if order == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = orderConfirmedPageTemplate.Execute(w, order)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s webService) confirmationTaskCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		err := s.service.sendConfirmation(c, orderUID, r.Body)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.EmptyResponse{})
	}
}
