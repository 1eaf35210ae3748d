package catalog

import (
	"github.com/shopspring/decimal"
)

type Event struct {
	UID             string
	Title           string
	Description     string
	FullDescription string
	Date            string // 2006-01-02
	Time            string // 15:04
	Venue           string
	Location        string
	Category        string
	Organizer       string
	AgeRating       string
	Capacity        int
	Sold            int
	Featured        bool
	Sectors         []Sector
}

type Sector struct {
	UID         string
	Name        string
	Description string
	Price       decimal.Decimal
	Available   int
	Total       int
	TicketTypes []TicketType
}

type TicketType struct {
	UID         string
	Name        string
	Description string
	Price       decimal.Decimal
}

func (t TicketType) PriceDisplay() string {
	return t.Price.StringFixed(2)
}

func (s Sector) PriceDisplay() string {
	return s.Price.StringFixed(2)
}

// FindSector returns the sector with the given uid.
func (e Event) FindSector(sectorUID string) (Sector, bool) {
	for _, s := range e.Sectors {
		if s.UID == sectorUID {
			return s, true
		}
	}
	return Sector{}, false
}

func (s Sector) FindTicketType(ticketTypeUID string) (TicketType, bool) {
	for _, tt := range s.TicketTypes {
		if tt.UID == ticketTypeUID {
			return tt, true
		}
	}
	return TicketType{}, false
}

// EventSales tracks tickets sold per event, fed by checkout events.
// ProcessedOrders makes the event handler idempotent.
type EventSales struct {
	EventUID        string
	TicketsSold     int
	ProcessedOrders []string `datastore:",noindex"`
}
