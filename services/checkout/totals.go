package checkout

import (
	"github.com/shopspring/decimal"
)

var (
	serviceFeeRate  = decimal.RequireFromString("0.10")
	refundAddOnRate = decimal.RequireFromString("0.10")
)

type Totals struct {
	Subtotal       decimal.Decimal
	ServiceFee     decimal.Decimal
	RefundAddOnFee decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals derives the order amounts from the line items. Each fee is
// rounded to cents on its own before the components are summed, so the total
// always equals the sum of the amounts shown to the visitor.
func ComputeTotals(items []OrderLineItem, refundAddOnSelected bool) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	subtotal = subtotal.Round(2)

	serviceFee := subtotal.Mul(serviceFeeRate).Round(2)

	refundAddOnFee := decimal.Zero
	if refundAddOnSelected {
		refundAddOnFee = subtotal.Mul(refundAddOnRate).Round(2)
	}

	return Totals{
		Subtotal:       subtotal,
		ServiceFee:     serviceFee,
		RefundAddOnFee: refundAddOnFee,
		Total:          subtotal.Add(serviceFee).Add(refundAddOnFee),
	}
}

func (t Totals) SubtotalDisplay() string {
	return t.Subtotal.StringFixed(2)
}

func (t Totals) ServiceFeeDisplay() string {
	return t.ServiceFee.StringFixed(2)
}

func (t Totals) RefundAddOnFeeDisplay() string {
	return t.RefundAddOnFee.StringFixed(2)
}

func (t Totals) TotalDisplay() string {
	return t.Total.StringFixed(2)
}
