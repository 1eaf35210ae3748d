package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// A line is keyed by the combination of event and ticket type: adjusting the
// quantity for the same combination updates the existing line.
type Line struct {
	EventUID       string
	EventTitle     string
	EventDate      string
	EventTime      string
	SectorUID      string
	SectorName     string
	TicketTypeUID  string
	TicketTypeName string
	UnitPrice      decimal.Decimal
	Quantity       int
}

func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) UnitPriceDisplay() string {
	return l.UnitPrice.StringFixed(2)
}

func (l Line) LineTotalDisplay() string {
	return l.LineTotal().StringFixed(2)
}

type Cart struct {
	VisitorUID   string
	Lines        []Line
	LastModified *time.Time
}

func (cart Cart) TotalItemCount() int {
	count := 0
	for _, line := range cart.Lines {
		count += line.Quantity
	}
	return count
}

func (cart Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range cart.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

func (cart Cart) TotalPriceDisplay() string {
	return cart.TotalPrice().StringFixed(2)
}

func (cart Cart) LinesForEvent(eventUID string) []Line {
	lines := []Line{}
	for _, line := range cart.Lines {
		if line.EventUID == eventUID {
			lines = append(lines, line)
		}
	}
	return lines
}

type EventGroup struct {
	EventUID   string
	EventTitle string
	EventDate  string
	EventTime  string
	Lines      []Line
}

// GroupedByEvent keeps lines in insertion order, grouped per event.
func (cart Cart) GroupedByEvent() []EventGroup {
	groups := []EventGroup{}
	for _, line := range cart.Lines {
		idx := -1
		for i, group := range groups {
			if group.EventUID == line.EventUID {
				idx = i
				break
			}
		}
		if idx < 0 {
			groups = append(groups, EventGroup{
				EventUID:   line.EventUID,
				EventTitle: line.EventTitle,
				EventDate:  line.EventDate,
				EventTime:  line.EventTime,
			})
			idx = len(groups) - 1
		}
		groups[idx].Lines = append(groups[idx].Lines, line)
	}
	return groups
}

// LineMetadata carries the descriptive fields needed to create a new line.
// Quantity updates on an existing line do not need it.
type LineMetadata struct {
	EventTitle     string
	EventDate      string
	EventTime      string
	SectorUID      string
	SectorName     string
	TicketTypeName string
	UnitPrice      decimal.Decimal
}

func cartBlobKey(visitorUID string) string {
	return "userCart/" + visitorUID
}
