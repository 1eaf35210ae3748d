package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(unitPrice string, quantity int) OrderLineItem {
	return OrderLineItem{
		UnitPrice: decimal.RequireFromString(unitPrice),
		Quantity:  quantity,
	}
}

func TestComputeTotals(t *testing.T) {

	t.Run("Service fee is ten percent of the subtotal", func(t *testing.T) {
		totals := ComputeTotals([]OrderLineItem{
			item("150.00", 2),
			item("80.00", 1),
		}, false)

		assert.Equal(t, "380.00", totals.SubtotalDisplay())
		assert.Equal(t, "38.00", totals.ServiceFeeDisplay())
		assert.Equal(t, "0.00", totals.RefundAddOnFeeDisplay())
		assert.Equal(t, "418.00", totals.TotalDisplay())
	})

	t.Run("Refund add-on adds another ten percent", func(t *testing.T) {
		totals := ComputeTotals([]OrderLineItem{
			item("150.00", 2),
			item("80.00", 1),
		}, true)

		assert.Equal(t, "380.00", totals.SubtotalDisplay())
		assert.Equal(t, "38.00", totals.ServiceFeeDisplay())
		assert.Equal(t, "38.00", totals.RefundAddOnFeeDisplay())
		assert.Equal(t, "456.00", totals.TotalDisplay())
	})

	t.Run("Components are rounded before summing", func(t *testing.T) {
		// 3 x 33.33 = 99.99, fee 9.999 rounds to 10.00
		totals := ComputeTotals([]OrderLineItem{
			item("33.33", 3),
		}, true)

		assert.Equal(t, "99.99", totals.SubtotalDisplay())
		assert.Equal(t, "10.00", totals.ServiceFeeDisplay())
		assert.Equal(t, "10.00", totals.RefundAddOnFeeDisplay())
		assert.Equal(t, "119.99", totals.TotalDisplay())
	})

	t.Run("Empty order is all zeroes", func(t *testing.T) {
		totals := ComputeTotals(nil, true)

		assert.Equal(t, "0.00", totals.SubtotalDisplay())
		assert.Equal(t, "0.00", totals.ServiceFeeDisplay())
		assert.Equal(t, "0.00", totals.RefundAddOnFeeDisplay())
		assert.Equal(t, "0.00", totals.TotalDisplay())
	})
}
