package checkout

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/tickethub/storefront/lib/myblobstore"
	"github.com/tickethub/storefront/lib/mycontext"
	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/myhttp"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mypublisher"
	"github.com/tickethub/storefront/lib/myqueue"
	"github.com/tickethub/storefront/lib/myrandom"
	"github.com/tickethub/storefront/lib/mytime"
	"github.com/tickethub/storefront/lib/myuuid"
	"github.com/tickethub/storefront/services/catalog"
	"github.com/tickethub/storefront/services/checkout/checkoutevents"
	"github.com/tickethub/storefront/services/session"
	"github.com/tickethub/storefront/services/visitor"
)

// SessionResolver is the slice of the session component this service needs.
type SessionResolver interface {
	SessionFromRequest(c context.Context, r *http.Request) (*session.Session, error)
}

type webService struct {
	service     *service
	sessions    SessionResolver
	uuider      myuuid.UUIDer
	formDecoder *form.Decoder
	logger      mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(blobStore myblobstore.BlobStore, cartEngine CartEngine, sessions SessionResolver, publisher mypublisher.Publisher, queue myqueue.TaskQueuer, nower mytime.Nower, randomer myrandom.Randomer, uuider myuuid.UUIDer, logger mylog.Logger) *webService {
	return &webService{
		service:     newService(blobStore, cartEngine, publisher, queue, nower, randomer, logger),
		sessions:    sessions,
		uuider:      uuider,
		formDecoder: form.NewDecoder(),
		logger:      logger,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/checkout", s.checkoutPage()).Methods("GET")
	router.HandleFunc("/checkout", s.startFromCartPage()).Methods("POST")
	router.HandleFunc("/checkout/buynow", s.buyNowPage()).Methods("POST")
	router.HandleFunc("/checkout/finalize", s.finalizePage()).Methods("POST")

	return s.service.publisher.CreateTopic(c, checkoutevents.TopicName)
}

//go:embed templates
var templateFolder embed.FS
var (
	checkoutPageTemplate *template.Template
)

func init() {
	checkoutPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/checkout.html"))
}

type checkoutPageData struct {
	Event          catalog.Event
	Items          []OrderLineItem
	Totals         Totals
	RefundTotals   Totals
	PaymentMethods []PaymentMethodOption
	UserName       string
}

func (s webService) checkoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		userSession, proceed := s.requireSession(c, w, r)
		if !proceed {
			return
		}

		visitorUID := visitor.UIDFromRequest(w, r, s.uuider)

		event, items, err := s.service.loadCheckoutContext(c, visitorUID)
		if err != nil {
			if errors.Is(err, ErrNoCheckoutContext) {
				// Nothing to check out, back to the storefront
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = checkoutPageTemplate.Execute(w, checkoutPageData{
			Event:          event,
			Items:          items,
			Totals:         ComputeTotals(items, false),
			RefundTotals:   ComputeTotals(items, true),
			PaymentMethods: PaymentMethodOptions(),
			UserName:       userSession.Name,
		})
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s webService) startFromCartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		visitorUID := visitor.UIDFromRequest(w, r, s.uuider)
		eventUID := r.PostFormValue("eventUID")

		err := s.service.snapshotFromCart(c, visitorUID, eventUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
	}
}

type buyNowForm struct {
	EventUID      string `form:"eventUID"`
	SectorUID     string `form:"sectorUID"`
	TicketTypeUID string `form:"ticketTypeUID"`
	Quantity      int    `form:"quantity"`
}

func (s webService) buyNowPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		visitorUID := visitor.UIDFromRequest(w, r, s.uuider)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		input := buyNowForm{}
		err = s.formDecoder.Decode(&input, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		err = s.service.snapshotDirect(c, visitorUID, input.EventUID, input.SectorUID, input.TicketTypeUID, input.Quantity)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
	}
}

func (s webService) finalizePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		userSession, proceed := s.requireSession(c, w, r)
		if !proceed {
			return
		}

		visitorUID := visitor.UIDFromRequest(w, r, s.uuider)
		paymentMethod := r.PostFormValue("paymentMethod")
		refundAddOnSelected := r.PostFormValue("refundAddOn") != ""

		_, err := s.service.finalizeOrder(c, visitorUID, userSession.UserUID, paymentMethod, refundAddOnSelected)
		if err != nil {
			if errors.Is(err, ErrNoCheckoutContext) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/order/confirmed", http.StatusSeeOther)
	}
}

func (s webService) requireSession(c context.Context, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	userSession, err := s.sessions.SessionFromRequest(c, r)
	if err != nil {
		myhttp.NewWriter(s.logger).WriteError(c, w, 9, err)
		return nil, false
	}
	if userSession == nil {
		http.Redirect(w, r, "/login?return=/checkout", http.StatusSeeOther)
		return nil, false
	}

	return userSession, true
}
