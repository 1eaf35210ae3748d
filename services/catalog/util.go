package catalog

import (
	"github.com/shopspring/decimal"
)

// The catalog is reference data: a fixed set of events, refreshed on deploy.
var events = allEvents()

func ListEvents() []Event {
	return events
}

func FindEvent(eventUID string) (Event, bool) {
	for _, e := range events {
		if e.UID == eventUID {
			return e, true
		}
	}
	return Event{}, false
}

func allEvents() []Event {
	return []Event{
		{
			UID:             "event_aurora_tour",
			Title:           "Aurora Nights Tour",
			Description:     "The acclaimed arena tour lands in town for one night only",
			FullDescription: "A full production arena show with guest appearances, closing the national leg of the Aurora Nights Tour.",
			Date:            "2025-04-12",
			Time:            "21:00",
			Venue:           "Riverside Arena",
			Location:        "Rotterdam",
			Category:        "Concert",
			Organizer:       "Northlight Live",
			AgeRating:       "16+",
			Capacity:        12000,
			Featured:        true,
			Sectors: []Sector{
				{
					UID:         "sector_floor",
					Name:        "Floor",
					Description: "Standing, closest to the stage",
					Price:       decimal.NewFromInt(150),
					Available:   2500,
					Total:       4000,
					TicketTypes: []TicketType{
						{
							UID:         "ticket_floor_full",
							Name:        "Full price",
							Description: "Regular admission",
							Price:       decimal.NewFromInt(150),
						},
						{
							UID:         "ticket_floor_student",
							Name:        "Student",
							Description: "Requires valid student card at entry",
							Price:       decimal.NewFromInt(80),
						},
					},
				},
				{
					UID:         "sector_balcony",
					Name:        "Balcony",
					Description: "Seated, elevated view",
					Price:       decimal.NewFromInt(95),
					Available:   800,
					Total:       3000,
					TicketTypes: []TicketType{
						{
							UID:         "ticket_balcony_full",
							Name:        "Full price",
							Description: "Regular admission",
							Price:       decimal.NewFromInt(95),
						},
						{
							UID:         "ticket_balcony_student",
							Name:        "Student",
							Description: "Requires valid student card at entry",
							Price:       decimal.RequireFromString("47.50"),
						},
					},
				},
				{
					UID:         "sector_vip_lounge",
					Name:        "VIP Lounge",
					Description: "Lounge access, welcome drink included",
					Price:       decimal.NewFromInt(350),
					Available:   5,
					Total:       200,
					TicketTypes: []TicketType{
						{
							UID:         "ticket_vip_full",
							Name:        "Full price",
							Description: "Lounge admission",
							Price:       decimal.NewFromInt(350),
						},
					},
				},
			},
		},
		{
			UID:             "event_harbour_jazz",
			Title:           "Harbour Jazz Festival",
			Description:     "Two stages of jazz along the old harbour front",
			FullDescription: "An open-air afternoon and evening programme featuring twelve acts across the main stage and the quay stage.",
			Date:            "2025-06-21",
			Time:            "14:00",
			Venue:           "Old Harbour",
			Location:        "Antwerp",
			Category:        "Festival",
			Organizer:       "Quayside Events",
			AgeRating:       "All ages",
			Capacity:        8000,
			Featured:        false,
			Sectors: []Sector{
				{
					UID:         "sector_day_pass",
					Name:        "Day pass",
					Description: "Access to both stages all day",
					Price:       decimal.NewFromInt(65),
					Available:   3200,
					Total:       7000,
					TicketTypes: []TicketType{
						{
							UID:         "ticket_day_full",
							Name:        "Full price",
							Description: "Regular admission",
							Price:       decimal.NewFromInt(65),
						},
						{
							UID:         "ticket_day_child",
							Name:        "Child (under 12)",
							Description: "Accompanied by an adult",
							Price:       decimal.RequireFromString("32.50"),
						},
					},
				},
				{
					UID:         "sector_quay_terrace",
					Name:        "Quay terrace",
					Description: "Reserved terrace seating near the quay stage",
					Price:       decimal.NewFromInt(120),
					Available:   150,
					Total:       1000,
					TicketTypes: []TicketType{
						{
							UID:         "ticket_terrace_full",
							Name:        "Full price",
							Description: "Reserved seat",
							Price:       decimal.NewFromInt(120),
						},
					},
				},
			},
		},
		{
			UID:             "event_stand_up_gala",
			Title:           "Midwinter Stand-up Gala",
			Description:     "Seven comedians, one stage, no warm-up act needed",
			FullDescription: "The annual midwinter gala brings together the best stand-up acts of the season in the city theatre.",
			Date:            "2025-12-28",
			Time:            "20:30",
			Venue:           "City Theatre",
			Location:        "Utrecht",
			Category:        "Comedy",
			Organizer:       "Laughing Stock Productions",
			AgeRating:       "18+",
			Capacity:        1600,
			Featured:        false,
			Sectors: []Sector{
				{
					UID:         "sector_stalls",
					Name:        "Stalls",
					Description: "Ground floor seating",
					Price:       decimal.NewFromInt(45),
					Available:   900,
					Total:       1200,
					TicketTypes: []TicketType{
						{
							UID:         "ticket_stalls_full",
							Name:        "Full price",
							Description: "Regular admission",
							Price:       decimal.NewFromInt(45),
						},
						{
							UID:         "ticket_stalls_student",
							Name:        "Student",
							Description: "Requires valid student card at entry",
							Price:       decimal.RequireFromString("22.50"),
						},
					},
				},
				{
					UID:         "sector_circle",
					Name:        "Circle",
					Description: "First balcony",
					Price:       decimal.NewFromInt(35),
					Available:   400,
					Total:       400,
					TicketTypes: []TicketType{
						{
							UID:         "ticket_circle_full",
							Name:        "Full price",
							Description: "Regular admission",
							Price:       decimal.NewFromInt(35),
						},
					},
				},
			},
		},
	}
}
