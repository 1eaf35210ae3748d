package checkout

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/tickethub/storefront/lib/myblobstore"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mypublisher"
	"github.com/tickethub/storefront/lib/myqueue"
	"github.com/tickethub/storefront/lib/myrandom"
	"github.com/tickethub/storefront/lib/mytime"
	"github.com/tickethub/storefront/lib/myuuid"
	"github.com/tickethub/storefront/services/cart"
	"github.com/tickethub/storefront/services/checkout/checkoutevents"
	"github.com/tickethub/storefront/services/session"
)

const visitorUID = "visitor_1"

var loggedIn = &session.Session{
	UID:     "session_1",
	UserUID: "user_1",
	Name:    "Eva",
	Email:   "eva@example.com",
}

type sessionStub struct {
	session *session.Session
}

func (s *sessionStub) SessionFromRequest(c context.Context, r *http.Request) (*session.Session, error) {
	return s.session, nil
}

func TestCheckoutService(t *testing.T) {

	t.Run("Checkout page requires login", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)
		f.sessions.session = nil

		// when
		response := doGet(f.router, "/checkout")

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/login?return=/checkout", response.Header().Get("Location"))
	})

	t.Run("Checkout page without intent redirects home", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// when
		response := doGet(f.router, "/checkout")

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/", response.Header().Get("Location"))
	})

	t.Run("Start checkout from cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		seedCart(t, f)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			VisitorUID:  visitorUID,
			EventUID:    "event_aurora_tour",
			TicketCount: 3,
		}).Return(nil)

		// when
		response := doPost(f.router, "/checkout", url.Values{"eventUID": {"event_aurora_tour"}})

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/checkout", response.Header().Get("Location"))

		pageResponse := doGet(f.router, "/checkout")
		assert.Equal(t, 200, pageResponse.Code)
		got := pageResponse.Body.String()
		assert.Contains(t, got, "Floor - Full price")
		assert.Contains(t, got, "Floor - Student")
		assert.Contains(t, got, "380.00")
		assert.Contains(t, got, "38.00")
		assert.Contains(t, got, "418.00")
		assert.Contains(t, got, "456.00")
	})

	t.Run("Start checkout with empty cart fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// when
		response := doPost(f.router, "/checkout", url.Values{"eventUID": {"event_aurora_tour"}})

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Buy now snapshots a single ticket type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			VisitorUID:  visitorUID,
			EventUID:    "event_aurora_tour",
			TicketCount: 2,
		}).Return(nil)

		// when
		response := doPost(f.router, "/checkout/buynow", url.Values{
			"eventUID":      {"event_aurora_tour"},
			"sectorUID":     {"sector_floor"},
			"ticketTypeUID": {"ticket_floor_full"},
			"quantity":      {"2"},
		})

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/checkout", response.Header().Get("Location"))

		pageResponse := doGet(f.router, "/checkout")
		assert.Equal(t, 200, pageResponse.Code)
		assert.Contains(t, pageResponse.Body.String(), "Floor - Full price")
	})

	t.Run("Buy now for unknown event fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// when
		response := doPost(f.router, "/checkout/buynow", url.Values{
			"eventUID":      {"event_no_such"},
			"sectorUID":     {"sector_floor"},
			"ticketTypeUID": {"ticket_floor_full"},
			"quantity":      {"2"},
		})

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Finalize order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		seedCart(t, f)
		seedIntent(t, f)
		expectedOrderUID := fmt.Sprintf("TH-%d-42", mytime.ExampleTime.UnixMilli())
		f.randomer.EXPECT().IntN(1000).Return(42)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.OrderFinalized{
			OrderUID:         expectedOrderUID,
			VisitorUID:       visitorUID,
			UserUID:          "user_1",
			EventUID:         "event_aurora_tour",
			TicketCount:      3,
			SectorQuantities: map[string]int{"sector_floor": 3},
			TotalAmount:      "418.00",
			PaymentMethod:    "pix",
		}).Return(nil)
		f.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(func(c context.Context, task myqueue.Task) error {
			assert.Equal(t, expectedOrderUID, task.UID)
			assert.Equal(t, fmt.Sprintf("/api/order/%s/confirmation", expectedOrderUID), task.WebhookURLPath)
			return nil
		})

		// when
		response := doPost(f.router, "/checkout/finalize", url.Values{"paymentMethod": {"pix"}})

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/order/confirmed", response.Header().Get("Location"))

		orders := []Order{}
		found, err := f.blobStore.Get(f.ctx, OrdersBlobKey(visitorUID), &orders)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Len(t, orders, 1)
		assert.Equal(t, expectedOrderUID, orders[0].OrderUID)
		assert.Equal(t, "user_1", orders[0].UserUID)
		assert.Equal(t, "08 March 2025", orders[0].Date)
		assert.Equal(t, PaymentStatusApproved, orders[0].PaymentStatus)
		assert.Equal(t, "380.00", orders[0].SubtotalDisplay())
		assert.Equal(t, "38.00", orders[0].ServiceFeeDisplay())
		assert.Equal(t, "418.00", orders[0].TotalDisplay())

		// intent is gone
		intent := PurchaseIntent{}
		found, err = f.blobStore.Get(f.ctx, intentBlobKey(visitorUID), &intent)
		assert.NoError(t, err)
		assert.False(t, found)

		// cart is cleared
		cleared, err := f.engine.Get(f.ctx, visitorUID)
		assert.NoError(t, err)
		assert.Empty(t, cleared.Lines)
	})

	t.Run("Finalize order with refund add-on", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		seedIntent(t, f)
		f.randomer.EXPECT().IntN(1000).Return(7)
		f.publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, gomock.Any()).Return(nil)
		f.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)

		// when
		response := doPost(f.router, "/checkout/finalize", url.Values{
			"paymentMethod": {"credit-card"},
			"refundAddOn":   {"on"},
		})

		// then
		assert.Equal(t, 303, response.Code)

		orders := []Order{}
		_, err := f.blobStore.Get(f.ctx, OrdersBlobKey(visitorUID), &orders)
		assert.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.True(t, orders[0].RefundAddOnSelected)
		assert.Equal(t, "38.00", orders[0].RefundAddOnFeeDisplay())
		assert.Equal(t, "456.00", orders[0].TotalDisplay())
	})

	t.Run("Finalize with unknown payment method fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// given
		seedIntent(t, f)

		// when
		response := doPost(f.router, "/checkout/finalize", url.Values{"paymentMethod": {"cheque"}})

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Finalize without intent redirects home", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		f := setup(t, ctrl)

		// when
		response := doPost(f.router, "/checkout/finalize", url.Values{"paymentMethod": {"pix"}})

		// then
		assert.Equal(t, 303, response.Code)
		assert.Equal(t, "/", response.Header().Get("Location"))
	})
}

type fixture struct {
	ctx       context.Context
	router    *mux.Router
	blobStore myblobstore.BlobStore
	engine    *cart.Engine
	publisher *mypublisher.MockPublisher
	queue     *myqueue.MockTaskQueuer
	randomer  *myrandom.MockRandomer
	sessions  *sessionStub
}

func setup(t *testing.T, ctrl *gomock.Controller) fixture {
	c := context.TODO()
	blobStore, _, err := myblobstore.New(c)
	assert.NoError(t, err)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	uuider := myuuid.NewMockUUIDer(ctrl)
	randomer := myrandom.NewMockRandomer(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)
	queue := myqueue.NewMockTaskQueuer(ctrl)
	sessions := &sessionStub{session: loggedIn}

	engine := cart.NewEngine(blobStore, nower, mylog.New("cart"))
	sut := NewService(blobStore, engine, sessions, publisher, queue, nower, randomer, uuider, mylog.New("checkout"))
	router := mux.NewRouter()

	// This is called by the following call to RegisterEndpoints()
	publisher.EXPECT().CreateTopic(c, checkoutevents.TopicName).Return(nil)

	err = sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return fixture{
		ctx:       c,
		router:    router,
		blobStore: blobStore,
		engine:    engine,
		publisher: publisher,
		queue:     queue,
		randomer:  randomer,
		sessions:  sessions,
	}
}

func seedCart(t *testing.T, f fixture) {
	meta := &cart.LineMetadata{
		EventTitle:     "Aurora Nights Tour",
		SectorUID:      "sector_floor",
		SectorName:     "Floor",
		TicketTypeName: "Full price",
		UnitPrice:      decimal.NewFromInt(150),
	}
	_, err := f.engine.AddOrUpdateLine(f.ctx, visitorUID, "event_aurora_tour", "ticket_floor_full", 2, -1, meta)
	assert.NoError(t, err)

	studentMeta := *meta
	studentMeta.TicketTypeName = "Student"
	studentMeta.UnitPrice = decimal.NewFromInt(80)
	_, err = f.engine.AddOrUpdateLine(f.ctx, visitorUID, "event_aurora_tour", "ticket_floor_student", 1, -1, &studentMeta)
	assert.NoError(t, err)
}

func seedIntent(t *testing.T, f fixture) {
	err := f.blobStore.Put(f.ctx, intentBlobKey(visitorUID), PurchaseIntent{
		VisitorUID: visitorUID,
		EventUID:   "event_aurora_tour",
		SectorQuantities: map[string]map[string]int{
			"sector_floor": {
				"ticket_floor_full":    2,
				"ticket_floor_student": 1,
			},
		},
		CreatedAt: mytime.ExampleTime,
	})
	assert.NoError(t, err)
}

func doGet(router *mux.Router, path string) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodGet, path, nil)
	request.Host = "localhost:8888"
	request.AddCookie(&http.Cookie{Name: "tickethub_visitor", Value: visitorUID})
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func doPost(router *mux.Router, path string, values url.Values) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	request.Host = "localhost:8888"
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.AddCookie(&http.Cookie{Name: "tickethub_visitor", Value: visitorUID})
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}
