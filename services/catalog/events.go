package catalog

import (
	"context"
	"fmt"

	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/myhttp"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/services/checkout/checkoutevents"
)

func (s *service) Subscribe(c context.Context) error {
	err := s.pubsub.Subscribe(c, checkoutevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/catalog/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

func (s *service) OnCheckoutStarted(c context.Context, topic string, event checkoutevents.CheckoutStarted) error {
	s.logger.Log(c, event.EventUID, mylog.SeverityInfo, "Checkout started for event %s (%d tickets)", event.EventUID, event.TicketCount)

	return nil
}

func (s *service) OnOrderFinalized(c context.Context, topic string, event checkoutevents.OrderFinalized) error {
	s.logger.Log(c, event.EventUID, mylog.SeverityInfo, "Webhook: order %s finalized for event %s (%d tickets)", event.OrderUID, event.EventUID, event.TicketCount)

	err := s.salesStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		sales, found, err := s.salesStore.Get(c, event.EventUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			sales = EventSales{EventUID: event.EventUID}
		}

		for _, orderUID := range sales.ProcessedOrders {
			if orderUID == event.OrderUID {
				return nil
			}
		}

		sales.TicketsSold += event.TicketCount
		sales.ProcessedOrders = append(sales.ProcessedOrders, event.OrderUID)

		err = s.salesStore.Put(c, event.EventUID, sales)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}
