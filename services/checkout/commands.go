package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/myqueue"
	"github.com/tickethub/storefront/services/catalog"
	"github.com/tickethub/storefront/services/checkout/checkoutevents"
)

const orderUIDPrefix = "TH"

// snapshotFromCart freezes the cart lines of one event into a purchase
// intent. The cart itself is left untouched until the order is finalized.
func (s *service) snapshotFromCart(c context.Context, visitorUID string, eventUID string) error {
	lines, err := s.cartEngine.LinesForEvent(c, visitorUID, eventUID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return myerrors.NewInvalidInputError(fmt.Errorf("no tickets for event %s in cart", eventUID))
	}

	quantities := map[string]map[string]int{}
	ticketCount := 0
	for _, line := range lines {
		if quantities[line.SectorUID] == nil {
			quantities[line.SectorUID] = map[string]int{}
		}
		quantities[line.SectorUID][line.TicketTypeUID] += line.Quantity
		ticketCount += line.Quantity
	}

	return s.storeIntent(c, PurchaseIntent{
		VisitorUID:       visitorUID,
		EventUID:         eventUID,
		SectorQuantities: quantities,
		CreatedAt:        s.nower.Now(),
	}, ticketCount)
}

// snapshotDirect is the buy-now path: a single ticket type straight to
// checkout, bypassing the cart.
func (s *service) snapshotDirect(c context.Context, visitorUID string, eventUID string, sectorUID string, ticketTypeUID string, quantity int) error {
	event, found := catalog.FindEvent(eventUID)
	if !found {
		return myerrors.NewNotFoundError(fmt.Errorf("event with uid %s not found", eventUID))
	}
	sector, found := event.FindSector(sectorUID)
	if !found {
		return myerrors.NewNotFoundError(fmt.Errorf("sector with uid %s not found", sectorUID))
	}
	_, found = sector.FindTicketType(ticketTypeUID)
	if !found {
		return myerrors.NewNotFoundError(fmt.Errorf("ticket type with uid %s not found", ticketTypeUID))
	}

	if quantity < 1 {
		return myerrors.NewInvalidInputError(fmt.Errorf("quantity must be positive"))
	}
	if quantity > 10 {
		quantity = 10
	}
	if quantity > sector.Available {
		quantity = sector.Available
	}
	if quantity == 0 {
		return myerrors.NewInvalidInputError(fmt.Errorf("sector %s is sold out", sectorUID))
	}

	return s.storeIntent(c, PurchaseIntent{
		VisitorUID: visitorUID,
		EventUID:   eventUID,
		SectorQuantities: map[string]map[string]int{
			sectorUID: {ticketTypeUID: quantity},
		},
		CreatedAt: s.nower.Now(),
	}, quantity)
}

func (s *service) storeIntent(c context.Context, intent PurchaseIntent, ticketCount int) error {
	s.logger.Log(c, intent.VisitorUID, mylog.SeverityInfo, "Snapshot checkout of %d tickets for event %s", ticketCount, intent.EventUID)

	return s.blobStore.RunInTransaction(c, func(c context.Context) error {
		err := s.blobStore.Put(c, intentBlobKey(intent.VisitorUID), intent)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			VisitorUID:  intent.VisitorUID,
			EventUID:    intent.EventUID,
			TicketCount: ticketCount,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
}

// loadCheckoutContext resolves the stored purchase intent against the
// catalog. Items follow catalog order, so the page is deterministic no
// matter how the intent map serializes.
func (s *service) loadCheckoutContext(c context.Context, visitorUID string) (catalog.Event, []OrderLineItem, error) {
	intent := PurchaseIntent{}
	found, err := s.blobStore.Get(c, intentBlobKey(visitorUID), &intent)
	if err != nil {
		return catalog.Event{}, nil, myerrors.NewInternalError(err)
	}
	if !found {
		return catalog.Event{}, nil, ErrNoCheckoutContext
	}

	event, found := catalog.FindEvent(intent.EventUID)
	if !found {
		return catalog.Event{}, nil, ErrNoCheckoutContext
	}

	items := []OrderLineItem{}
	for _, sector := range event.Sectors {
		for _, ticketType := range sector.TicketTypes {
			quantity := intent.SectorQuantities[sector.UID][ticketType.UID]
			if quantity <= 0 {
				continue
			}
			items = append(items, OrderLineItem{
				EventUID:      event.UID,
				SectorUID:     sector.UID,
				TicketTypeUID: ticketType.UID,
				Description:   fmt.Sprintf("%s - %s", sector.Name, ticketType.Name),
				UnitPrice:     ticketType.Price,
				Quantity:      quantity,
			})
		}
	}
	if len(items) == 0 {
		return catalog.Event{}, nil, ErrNoCheckoutContext
	}

	return event, items, nil
}

// finalizeOrder turns the pending checkout into an order: it derives the
// amounts, appends the order to the visitor's history, clears the purchase
// intent and the cart, and announces the order on the checkout topic.
func (s *service) finalizeOrder(c context.Context, visitorUID string, userUID string, paymentMethod string, refundAddOnSelected bool) (Order, error) {
	if !IsValidPaymentMethod(paymentMethod) {
		return Order{}, myerrors.NewInvalidInputError(fmt.Errorf("unknown payment method %s", paymentMethod))
	}

	event, items, err := s.loadCheckoutContext(c, visitorUID)
	if err != nil {
		return Order{}, err
	}

	totals := ComputeTotals(items, refundAddOnSelected)

	now := s.nower.Now()
	order := Order{
		OrderUID:            fmt.Sprintf("%s-%d-%d", orderUIDPrefix, now.UnixMilli(), s.randomer.IntN(1000)),
		VisitorUID:          visitorUID,
		UserUID:             userUID,
		EventUID:            event.UID,
		EventTitle:          event.Title,
		Date:                now.Format("02 January 2006"),
		CreatedAt:           now,
		Items:               items,
		Subtotal:            totals.Subtotal,
		ServiceFee:          totals.ServiceFee,
		RefundAddOnSelected: refundAddOnSelected,
		RefundAddOnFee:      totals.RefundAddOnFee,
		PaymentMethod:       paymentMethod,
		PaymentStatus:       PaymentStatusApproved,
		Total:               totals.Total,
	}

	s.logger.Log(c, order.OrderUID, mylog.SeverityInfo, "Finalizing order %s for visitor %s (%d tickets, total %s)", order.OrderUID, visitorUID, order.TicketCount(), order.TotalDisplay())

	err = s.blobStore.RunInTransaction(c, func(c context.Context) error {
		orders := []Order{}
		_, err := s.blobStore.Get(c, OrdersBlobKey(visitorUID), &orders)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		orders = append(orders, order)
		err = s.blobStore.Put(c, OrdersBlobKey(visitorUID), orders)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.blobStore.Delete(c, intentBlobKey(visitorUID))
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.cartEngine.Clear(c, visitorUID)
		if err != nil {
			return err
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.OrderFinalized{
			OrderUID:         order.OrderUID,
			VisitorUID:       visitorUID,
			UserUID:          userUID,
			EventUID:         event.UID,
			TicketCount:      order.TicketCount(),
			SectorQuantities: sectorTotals(items),
			TotalAmount:      order.TotalDisplay(),
			PaymentMethod:    paymentMethod,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	err = s.enqueueConfirmationMail(c, order)
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (s *service) enqueueConfirmationMail(c context.Context, order Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error marshalling order %s: %s", order.OrderUID, err))
	}

	err = s.queue.Enqueue(c, myqueue.Task{
		UID:            order.OrderUID,
		WebhookURLPath: fmt.Sprintf("/api/order/%s/confirmation", order.OrderUID),
		Payload:        payload,
	})
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error queueing confirmation for order %s: %s", order.OrderUID, err))
	}

	return nil
}

func sectorTotals(items []OrderLineItem) map[string]int {
	totals := map[string]int{}
	for _, item := range items {
		totals[item.SectorUID] += item.Quantity
	}
	return totals
}
