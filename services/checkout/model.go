package checkout

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoCheckoutContext signals that there is nothing to check out: no
// purchase intent, or one pointing at an event that no longer resolves.
var ErrNoCheckoutContext = errors.New("no pending checkout")

const (
	PaymentMethodCreditCard = "credit-card"
	PaymentMethodPix        = "pix"
	PaymentMethodBoleto     = "boleto"

	// The actual charge happens out of band, orders are recorded as approved
	PaymentStatusApproved = "Approved"
)

var paymentMethodLabels = map[string]string{
	PaymentMethodCreditCard: "Credit card",
	PaymentMethodPix:        "Pix",
	PaymentMethodBoleto:     "Boleto",
}

func IsValidPaymentMethod(method string) bool {
	_, found := paymentMethodLabels[method]
	return found
}

func PaymentMethodLabel(method string) string {
	label, found := paymentMethodLabels[method]
	if !found {
		return method
	}
	return label
}

type PaymentMethodOption struct {
	Code  string
	Label string
}

func PaymentMethodOptions() []PaymentMethodOption {
	return []PaymentMethodOption{
		{Code: PaymentMethodCreditCard, Label: paymentMethodLabels[PaymentMethodCreditCard]},
		{Code: PaymentMethodPix, Label: paymentMethodLabels[PaymentMethodPix]},
		{Code: PaymentMethodBoleto, Label: paymentMethodLabels[PaymentMethodBoleto]},
	}
}

// PurchaseIntent is the snapshot taken when the visitor starts a checkout.
// Quantities are kept per sector per ticket type.
type PurchaseIntent struct {
	VisitorUID       string
	EventUID         string
	SectorQuantities map[string]map[string]int
	CreatedAt        time.Time
}

type OrderLineItem struct {
	EventUID      string
	SectorUID     string
	TicketTypeUID string
	Description   string
	UnitPrice     decimal.Decimal
	Quantity      int
}

func (i OrderLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i OrderLineItem) UnitPriceDisplay() string {
	return i.UnitPrice.StringFixed(2)
}

func (i OrderLineItem) LineTotalDisplay() string {
	return i.LineTotal().StringFixed(2)
}

type Order struct {
	OrderUID            string
	VisitorUID          string
	UserUID             string
	EventUID            string
	EventTitle          string
	Date                string // display date, derived at finalization
	CreatedAt           time.Time
	Items               []OrderLineItem
	Subtotal            decimal.Decimal
	ServiceFee          decimal.Decimal
	RefundAddOnSelected bool
	RefundAddOnFee      decimal.Decimal
	PaymentMethod       string
	PaymentStatus       string
	Total               decimal.Decimal
}

func (o Order) TicketCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func (o Order) SubtotalDisplay() string {
	return o.Subtotal.StringFixed(2)
}

func (o Order) ServiceFeeDisplay() string {
	return o.ServiceFee.StringFixed(2)
}

func (o Order) RefundAddOnFeeDisplay() string {
	return o.RefundAddOnFee.StringFixed(2)
}

func (o Order) TotalDisplay() string {
	return o.Total.StringFixed(2)
}

func (o Order) PaymentMethodLabel() string {
	return PaymentMethodLabel(o.PaymentMethod)
}

func intentBlobKey(visitorUID string) string {
	return "currentPurchase/" + visitorUID
}

// OrdersBlobKey is shared with the order-history component.
func OrdersBlobKey(visitorUID string) string {
	return "userOrders/" + visitorUID
}
