package catalog

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tickethub/storefront/lib/mycontext"
	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/myhttp"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mypubsub"
	"github.com/tickethub/storefront/lib/mystore"
	"github.com/tickethub/storefront/services/checkout/checkoutevents"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(salesStore mystore.Store[EventSales], pubsub mypubsub.PubSub, logger mylog.Logger) *webService {
	return &webService{
		service: newService(salesStore, pubsub, logger),
		logger:  logger,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	// Endpoints that compose the userinterface
	router.HandleFunc("/", s.eventListPage()).Methods("GET")
	router.HandleFunc("/event", s.eventListPage()).Methods("GET")
	router.HandleFunc("/event/{eventUID}", s.eventDetailPage()).Methods("GET")

	// Checkout component will push order events to this endpoint
	router.HandleFunc("/api/catalog/event", s.eventReceiver()).Methods("POST")

	return s.service.Subscribe(c)
}

//go:embed templates
var templateFolder embed.FS
var (
	eventListPageTemplate   *template.Template
	eventDetailPageTemplate *template.Template
)

func init() {
	eventListPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/event_list.html"))
	eventDetailPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/event_detail.html"))
}

func (s webService) eventListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		events := s.service.listEvents(c)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := eventListPageTemplate.Execute(w, events)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}
	}
}

type eventDetailPageData struct {
	Event Event
	Sales EventSales
}

func (s webService) eventDetailPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		eventUID := mux.Vars(r)["eventUID"]

		event, sales, err := s.service.getEvent(c, eventUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = eventDetailPageTemplate.Execute(w, eventDetailPageData{Event: event, Sales: sales})
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s webService) eventReceiver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.EmptyResponse{})
	}
}
