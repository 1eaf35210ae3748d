package checkoutevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/myevents"
)

const (
	TopicName           = "checkout"
	checkoutStartedName = TopicName + ".started"
	orderFinalizedName  = TopicName + ".orderFinalized"
)

type CheckoutEventService interface {
	Subscribe(c context.Context) error
	OnCheckoutStarted(c context.Context, topic string, event CheckoutStarted) error
	OnOrderFinalized(c context.Context, topic string, event OrderFinalized) error
}

func DispatchEvent(c context.Context, reader io.Reader, service CheckoutEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case checkoutStartedName:
		{
			event := CheckoutStarted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCheckoutStarted(c, envelope.Topic, event)
		}
	case orderFinalizedName:
		{
			event := OrderFinalized{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnOrderFinalized(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event type %s", envelope.EventTypeName))
	}
}

type CheckoutStarted struct {
	VisitorUID  string
	EventUID    string
	TicketCount int
}

func (e CheckoutStarted) GetEventTypeName() string {
	return checkoutStartedName
}

func (e CheckoutStarted) GetAggregateName() string {
	return e.EventUID
}

type OrderFinalized struct {
	OrderUID         string
	VisitorUID       string
	UserUID          string
	EventUID         string
	TicketCount      int
	SectorQuantities map[string]int
	TotalAmount      string
	PaymentMethod    string
}

func (e OrderFinalized) GetEventTypeName() string {
	return orderFinalizedName
}

func (e OrderFinalized) GetAggregateName() string {
	return e.OrderUID
}
