package orders

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/services/checkout"
)

// listOrders returns the order history of this visitor, newest first. An
// absent or unreadable history reads as empty.
func (s *service) listOrders(c context.Context, visitorUID string) ([]checkout.Order, error) {
	s.logger.Log(c, visitorUID, mylog.SeverityInfo, "Fetch order history of visitor %s", visitorUID)

	orders := []checkout.Order{}
	_, err := s.blobStore.Get(c, checkout.OrdersBlobKey(visitorUID), &orders)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orderTimestamp(orders[i]) > orderTimestamp(orders[j])
	})

	return orders, nil
}

// lastOrder returns nil when the visitor has no orders yet.
func (s *service) lastOrder(c context.Context, visitorUID string) (*checkout.Order, error) {
	orders, err := s.listOrders(c, visitorUID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	return &orders[0], nil
}

// sendConfirmation handles the queued confirmation task. Mail delivery is
// simulated: the order is logged as confirmed.
func (s *service) sendConfirmation(c context.Context, orderUID string, payload io.Reader) error {
	order := checkout.Order{}
	err := json.NewDecoder(payload).Decode(&order)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Confirmation mail for order %s (%d tickets, total %s) sent to user %s", orderUID, order.TicketCount(), order.TotalDisplay(), order.UserUID)

	return nil
}

// The order uid embeds the finalization timestamp in millis, which is the
// ordering key of the history page.
func orderTimestamp(order checkout.Order) int64 {
	parts := strings.Split(order.OrderUID, "-")
	if len(parts) >= 2 {
		millis, err := strconv.ParseInt(parts[1], 10, 64)
		if err == nil {
			return millis
		}
	}
	return order.CreatedAt.UnixMilli()
}
