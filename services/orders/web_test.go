package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/tickethub/storefront/lib/myblobstore"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mytime"
	"github.com/tickethub/storefront/lib/myuuid"
	"github.com/tickethub/storefront/services/checkout"
)

const visitorUID = "visitor_1"

func testOrder(orderUID string) checkout.Order {
	return checkout.Order{
		OrderUID:      orderUID,
		VisitorUID:    visitorUID,
		UserUID:       "user_1",
		EventUID:      "event_aurora_tour",
		EventTitle:    "Aurora Nights Tour",
		Date:          "08 March 2025",
		CreatedAt:     mytime.ExampleTime,
		PaymentMethod: checkout.PaymentMethodPix,
		PaymentStatus: checkout.PaymentStatusApproved,
		Items: []checkout.OrderLineItem{
			{
				EventUID:      "event_aurora_tour",
				SectorUID:     "sector_floor",
				TicketTypeUID: "ticket_floor_full",
				Description:   "Floor - Full price",
				UnitPrice:     decimal.NewFromInt(150),
				Quantity:      2,
			},
		},
		Subtotal:   decimal.NewFromInt(300),
		ServiceFee: decimal.NewFromInt(30),
		Total:      decimal.NewFromInt(330),
	}
}

func TestOrderService(t *testing.T) {

	t.Run("Order history is newest first", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, blobStore := setup(t, ctrl)

		// given: stored oldest last, uids embed the finalization millis
		older := testOrder("TH-1741469400000-1")
		newer := testOrder("TH-1741555800000-2")
		err := blobStore.Put(ctx, checkout.OrdersBlobKey(visitorUID), []checkout.Order{newer, older})
		assert.NoError(t, err)

		// when
		response := doGet(router, "/orders")

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		newerIdx := strings.Index(got, newer.OrderUID)
		olderIdx := strings.Index(got, older.OrderUID)
		assert.True(t, newerIdx >= 0)
		assert.True(t, olderIdx >= 0)
		assert.Less(t, newerIdx, olderIdx)
	})

	t.Run("Empty order history", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		response := doGet(router, "/orders")

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "No orders yet")
	})

	t.Run("Confirmed page shows the latest order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, blobStore := setup(t, ctrl)

		// given
		order := testOrder("TH-1741469400000-1")
		err := blobStore.Put(ctx, checkout.OrdersBlobKey(visitorUID), []checkout.Order{order})
		assert.NoError(t, err)

		// when
		response := doGet(router, "/order/confirmed")

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, order.OrderUID)
		assert.Contains(t, got, "330.00")
	})

	t.Run("Confirmed page without orders redirects home", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		response := doGet(router, "/order/confirmed")

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/", response.Header().Get("Location"))
	})

	t.Run("Confirmation task callback", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// given
		order := testOrder("TH-1741469400000-1")
		payload, err := json.Marshal(order)
		assert.NoError(t, err)

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/order/"+order.OrderUID+"/confirmation", strings.NewReader(string(payload)))
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, myblobstore.BlobStore) {
	c := context.TODO()
	blobStore, _, err := myblobstore.New(c)
	assert.NoError(t, err)

	uuider := myuuid.NewMockUUIDer(ctrl)

	sut := NewService(blobStore, uuider, mylog.New("orders"))
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return c, router, blobStore
}

func doGet(router *mux.Router, path string) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodGet, path, nil)
	request.AddCookie(&http.Cookie{Name: "tickethub_visitor", Value: visitorUID})
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}
