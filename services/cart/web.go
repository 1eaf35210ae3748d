package cart

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-playground/form/v4"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tickethub/storefront/lib/mycontext"
	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/myhttp"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/myuuid"
	"github.com/tickethub/storefront/services/catalog"
	"github.com/tickethub/storefront/services/visitor"
)

type webService struct {
	engine      *Engine
	uuider      myuuid.UUIDer
	formDecoder *form.Decoder
	logger      mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(engine *Engine, uuider myuuid.UUIDer, logger mylog.Logger) *webService {
	return &webService{
		engine:      engine,
		uuider:      uuider,
		formDecoder: form.NewDecoder(),
		logger:      logger,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/cart", s.cartPage()).Methods("GET")
	router.HandleFunc("/cart/line", s.updateLinePage()).Methods("POST")
	router.HandleFunc("/cart/{eventUID}/{ticketTypeUID}/remove", s.removeLinePage()).Methods("POST")
}

//go:embed templates
var templateFolder embed.FS
var (
	cartPageTemplate *template.Template
)

func init() {
	cartPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/cart.html"))
}

func (s webService) cartPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		visitorUID := visitor.UIDFromRequest(w, r, s.uuider)

		cart, err := s.engine.Get(c, visitorUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = cartPageTemplate.Execute(w, cart)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

type lineForm struct {
	EventUID       string `form:"eventUID"`
	EventTitle     string `form:"eventTitle"`
	EventDate      string `form:"eventDate"`
	EventTime      string `form:"eventTime"`
	SectorUID      string `form:"sectorUID"`
	SectorName     string `form:"sectorName"`
	TicketTypeUID  string `form:"ticketTypeUID"`
	TicketTypeName string `form:"ticketTypeName"`
	UnitPrice      string `form:"unitPrice"`
	Quantity       int    `form:"quantity"`
}

func (s webService) updateLinePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		visitorUID := visitor.UIDFromRequest(w, r, s.uuider)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		input := lineForm{}
		err = s.formDecoder.Decode(&input, r.PostForm)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		meta, err := lineMetadataFromForm(input)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		_, err = s.engine.AddOrUpdateLine(c, visitorUID, input.EventUID, input.TicketTypeUID, input.Quantity, sectorCeiling(input.EventUID, input.SectorUID), meta)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		redirectBack(w, r)
	}
}

func (s webService) removeLinePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		visitorUID := visitor.UIDFromRequest(w, r, s.uuider)
		eventUID := mux.Vars(r)["eventUID"]
		ticketTypeUID := mux.Vars(r)["ticketTypeUID"]

		_, err := s.engine.RemoveLine(c, visitorUID, eventUID, ticketTypeUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

// The sector ceiling comes from the catalog, never from the form: a tampered
// form can at most lower its own quantity.
func sectorCeiling(eventUID string, sectorUID string) int {
	event, found := catalog.FindEvent(eventUID)
	if !found {
		return -1
	}
	sector, found := event.FindSector(sectorUID)
	if !found {
		return -1
	}
	return sector.Available
}

func lineMetadataFromForm(input lineForm) (*LineMetadata, error) {
	if input.EventTitle == "" && input.TicketTypeName == "" {
		// Quantity update on an existing line
		return nil, nil
	}

	unitPrice, err := decimal.NewFromString(input.UnitPrice)
	if err != nil {
		return nil, myerrors.NewInvalidInputError(fmt.Errorf("invalid unit price %s: %s", input.UnitPrice, err))
	}

	return &LineMetadata{
		EventTitle:     input.EventTitle,
		EventDate:      input.EventDate,
		EventTime:      input.EventTime,
		SectorUID:      input.SectorUID,
		SectorName:     input.SectorName,
		TicketTypeName: input.TicketTypeName,
		UnitPrice:      unitPrice,
	}, nil
}

func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := r.Header.Get("Referer")
	if target == "" {
		target = "/cart"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
