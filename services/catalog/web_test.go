package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/tickethub/storefront/lib/myevents"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mypubsub"
	"github.com/tickethub/storefront/lib/mystore"
	"github.com/tickethub/storefront/lib/mytime"
	"github.com/tickethub/storefront/services/checkout/checkoutevents"
)

func TestCatalogService(t *testing.T) {

	t.Run("List events", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodGet, "/", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Aurora Nights Tour")
		assert.Contains(t, got, "Harbour Jazz Festival")
		assert.Contains(t, got, "Midwinter Stand-up Gala")
	})

	t.Run("Get event details", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodGet, "/event/event_aurora_tour", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := response.Body.String()
		assert.Contains(t, got, "Aurora Nights Tour")
		assert.Contains(t, got, "VIP Lounge")
		assert.Contains(t, got, "150.00")
	})

	t.Run("Get event that does not exist", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodGet, "/event/event_no_such", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Order finalized bumps sales exactly once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, salesStore := setup(t, ctrl)

		// given
		message := createPubsubMessage(checkoutevents.OrderFinalized{
			OrderUID:    "TH-1741469400000-42",
			EventUID:    "event_aurora_tour",
			TicketCount: 3,
		})

		// when: the same event is delivered twice
		for i := 0; i < 2; i++ {
			request, err := http.NewRequest(http.MethodPost, "/api/catalog/event", strings.NewReader(message))
			assert.NoError(t, err)
			response := httptest.NewRecorder()
			router.ServeHTTP(response, request)
			assert.Equal(t, 200, response.Code)
		}

		// then
		sales, found, err := salesStore.Get(ctx, "event_aurora_tour")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 3, sales.TicketsSold)
		assert.Len(t, sales.ProcessedOrders, 1)
	})
}

func createPubsubMessage(event checkoutevents.OrderFinalized) string {
	eventBytes, _ := json.Marshal(event)
	envelope := myevents.EventEnvelope{
		UID:           "event_1",
		CreatedAt:     mytime.ExampleTime,
		Topic:         checkoutevents.TopicName,
		AggregateUID:  event.OrderUID,
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(eventBytes),
	}
	envelopeBytes, _ := json.Marshal(envelope)

	req := myevents.PushRequest{
		Message: myevents.PushMessage{
			Data: envelopeBytes,
		},
		Subscription: checkoutevents.TopicName,
	}

	reqBytes, _ := json.Marshal(req)

	return string(reqBytes)
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[EventSales]) {
	c := context.TODO()
	salesStore, _, err := mystore.New[EventSales](c)
	assert.NoError(t, err)

	pubsub := mypubsub.NewMockPubSub(ctrl)

	sut := NewService(salesStore, pubsub, mylog.New("catalog"))
	router := mux.NewRouter()

	// This is called by the following call to RegisterEndpoints()
	pubsub.EXPECT().Subscribe(c, checkoutevents.TopicName, "http://localhost:8080/api/catalog/event").Return(nil)

	err = sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, salesStore
}
