package cart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/tickethub/storefront/lib/myblobstore"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mytime"
	"github.com/tickethub/storefront/lib/myuuid"
)

func addToCartForm() url.Values {
	return url.Values{
		"eventUID":       {"event_aurora_tour"},
		"eventTitle":     {"Aurora Nights Tour"},
		"eventDate":      {"2025-04-12"},
		"eventTime":      {"21:00"},
		"sectorUID":      {"sector_floor"},
		"sectorName":     {"Floor"},
		"ticketTypeUID":  {"ticket_floor_full"},
		"ticketTypeName": {"Full price"},
		"unitPrice":      {"150.00"},
		"quantity":       {"2"},
	}
}

func TestCartWebService(t *testing.T) {

	t.Run("Empty cart page", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setupWeb(t, ctrl)

		// when
		response := doGet(router, "/cart")

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "Your cart is empty")
	})

	t.Run("Add line to cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setupWeb(t, ctrl)

		// when
		response := doPost(router, "/cart/line", addToCartForm())

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/cart", response.Header().Get("Location"))

		cartResponse := doGet(router, "/cart")
		assert.Equal(t, 200, cartResponse.Code)
		got := cartResponse.Body.String()
		assert.Contains(t, got, "Aurora Nights Tour")
		assert.Contains(t, got, "Full price")
		assert.Contains(t, got, "300.00")
	})

	t.Run("Redirect back to the referring page", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setupWeb(t, ctrl)

		// when
		request, _ := http.NewRequest(http.MethodPost, "/cart/line", strings.NewReader(addToCartForm().Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		request.Header.Set("Referer", "/event/event_aurora_tour")
		request.AddCookie(&http.Cookie{Name: "tickethub_visitor", Value: visitorUID})
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/event/event_aurora_tour", response.Header().Get("Location"))
	})

	t.Run("Update quantity without metadata", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, engine := setupWeb(t, ctrl)

		// given
		doPost(router, "/cart/line", addToCartForm())

		// when: the cart page stepper only posts the keys and the quantity
		response := doPost(router, "/cart/line", url.Values{
			"eventUID":      {"event_aurora_tour"},
			"sectorUID":     {"sector_floor"},
			"ticketTypeUID": {"ticket_floor_full"},
			"quantity":      {"5"},
		})

		// then
		assert.Equal(t, 303, response.Code)
		cart, err := engine.Get(ctx, visitorUID)
		assert.NoError(t, err)
		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, 5, cart.Lines[0].Quantity)
	})

	t.Run("Catalog availability caps the quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, engine := setupWeb(t, ctrl)

		// when: eight VIP tickets wanted, the catalog has five left
		response := doPost(router, "/cart/line", url.Values{
			"eventUID":       {"event_aurora_tour"},
			"eventTitle":     {"Aurora Nights Tour"},
			"sectorUID":      {"sector_vip_lounge"},
			"sectorName":     {"VIP Lounge"},
			"ticketTypeUID":  {"ticket_vip_full"},
			"ticketTypeName": {"Full price"},
			"unitPrice":      {"350.00"},
			"quantity":       {"8"},
		})

		// then
		assert.Equal(t, 303, response.Code)
		cart, err := engine.Get(ctx, visitorUID)
		assert.NoError(t, err)
		assert.Len(t, cart.Lines, 1)
		assert.Equal(t, 5, cart.Lines[0].Quantity)
	})

	t.Run("Add line with unparsable price fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setupWeb(t, ctrl)

		// when
		form := addToCartForm()
		form.Set("unitPrice", "a-lot")
		response := doPost(router, "/cart/line", form)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Remove line", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, engine := setupWeb(t, ctrl)

		// given
		doPost(router, "/cart/line", addToCartForm())

		// when
		response := doPost(router, "/cart/event_aurora_tour/ticket_floor_full/remove", url.Values{})

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/cart", response.Header().Get("Location"))
		cart, err := engine.Get(ctx, visitorUID)
		assert.NoError(t, err)
		assert.Empty(t, cart.Lines)
	})
}

func setupWeb(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, *Engine) {
	c := context.TODO()
	blobStore, _, err := myblobstore.New(c)
	assert.NoError(t, err)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	uuider := myuuid.NewMockUUIDer(ctrl)

	engine := NewEngine(blobStore, nower, mylog.New("cart"))
	sut := NewService(engine, uuider, mylog.New("cart"))
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return c, router, engine
}

func doGet(router *mux.Router, path string) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodGet, path, nil)
	request.AddCookie(&http.Cookie{Name: "tickethub_visitor", Value: visitorUID})
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func doPost(router *mux.Router, path string, values url.Values) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.AddCookie(&http.Cookie{Name: "tickethub_visitor", Value: visitorUID})
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}
