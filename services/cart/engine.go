package cart

import (
	"context"
	"fmt"

	"github.com/tickethub/storefront/lib/myblobstore"
	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mytime"
)

// A single line never exceeds this quantity, whatever the sector still has.
const maxLineQuantity = 10

// Engine owns all cart mutations. Sector availability is not consulted here:
// callers pass the ceiling that applies to the operation, so the engine stays
// free of catalog knowledge.
type Engine struct {
	blobStore myblobstore.BlobStore
	nower     mytime.Nower
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewEngine(blobStore myblobstore.BlobStore, nower mytime.Nower, logger mylog.Logger) *Engine {
	return &Engine{
		blobStore: blobStore,
		nower:     nower,
		logger:    logger,
	}
}

// Get restores the cart of this visitor. An absent or unreadable cart is an
// empty cart, never an error.
func (e *Engine) Get(c context.Context, visitorUID string) (Cart, error) {
	cart := Cart{}
	found, err := e.blobStore.Get(c, cartBlobKey(visitorUID), &cart)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Cart{VisitorUID: visitorUID}, nil
	}
	cart.VisitorUID = visitorUID

	return cart, nil
}

// AddOrUpdateLine sets the quantity for the (event, ticket-type) combination.
// The desired quantity is first clamped to [0, 10], then to what the sector
// still allows given the other lines already claiming seats in that sector.
// A ceiling below zero means unconstrained. Quantity zero removes the line.
// Creating a new line requires metadata; without it the call is a no-op.
func (e *Engine) AddOrUpdateLine(c context.Context, visitorUID string, eventUID string, ticketTypeUID string, desiredQuantity int, sectorCeiling int, meta *LineMetadata) (Cart, error) {
	if eventUID == "" || ticketTypeUID == "" {
		return Cart{}, myerrors.NewInvalidInputError(fmt.Errorf("missing event or ticket type"))
	}

	e.logger.Log(c, visitorUID, mylog.SeverityInfo, "Set quantity %d for %s/%s in cart of visitor %s", desiredQuantity, eventUID, ticketTypeUID, visitorUID)

	quantity := clamp(desiredQuantity, 0, maxLineQuantity)

	var cart Cart
	err := e.blobStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		cart, err = e.Get(c, visitorUID)
		if err != nil {
			return err
		}

		idx := findLine(cart.Lines, eventUID, ticketTypeUID)

		sectorUID := ""
		if idx >= 0 {
			sectorUID = cart.Lines[idx].SectorUID
		} else if meta != nil {
			sectorUID = meta.SectorUID
		}

		// The ceiling caps the sector as a whole, not just this line.
		if sectorCeiling >= 0 {
			claimed := claimedInSector(cart.Lines, eventUID, sectorUID, ticketTypeUID)
			allowed := sectorCeiling - claimed
			if allowed < 0 {
				allowed = 0
			}
			if quantity > allowed {
				quantity = allowed
			}
		}

		switch {
		case idx >= 0 && quantity == 0:
			cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
		case idx >= 0:
			cart.Lines[idx].Quantity = quantity
		case quantity == 0:
			return nil
		case meta == nil:
			// Cannot create a line we know nothing about
			return nil
		default:
			cart.Lines = append(cart.Lines, Line{
				EventUID:       eventUID,
				EventTitle:     meta.EventTitle,
				EventDate:      meta.EventDate,
				EventTime:      meta.EventTime,
				SectorUID:      meta.SectorUID,
				SectorName:     meta.SectorName,
				TicketTypeUID:  ticketTypeUID,
				TicketTypeName: meta.TicketTypeName,
				UnitPrice:      meta.UnitPrice,
				Quantity:       quantity,
			})
		}

		return e.store(c, cart)
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}

// RemoveLine drops the line for the (event, ticket-type) combination.
// Removing a line that does not exist is a no-op.
func (e *Engine) RemoveLine(c context.Context, visitorUID string, eventUID string, ticketTypeUID string) (Cart, error) {
	e.logger.Log(c, visitorUID, mylog.SeverityInfo, "Remove %s/%s from cart of visitor %s", eventUID, ticketTypeUID, visitorUID)

	var cart Cart
	err := e.blobStore.RunInTransaction(c, func(c context.Context) error {
		var err error
		cart, err = e.Get(c, visitorUID)
		if err != nil {
			return err
		}

		idx := findLine(cart.Lines, eventUID, ticketTypeUID)
		if idx < 0 {
			return nil
		}
		cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)

		return e.store(c, cart)
	})
	if err != nil {
		return Cart{}, err
	}

	return cart, nil
}

// Clear empties the cart of this visitor.
func (e *Engine) Clear(c context.Context, visitorUID string) error {
	e.logger.Log(c, visitorUID, mylog.SeverityInfo, "Clear cart of visitor %s", visitorUID)

	cart := Cart{VisitorUID: visitorUID}
	return e.store(c, cart)
}

// LinesForEvent returns the cart lines that belong to one event.
func (e *Engine) LinesForEvent(c context.Context, visitorUID string, eventUID string) ([]Line, error) {
	cart, err := e.Get(c, visitorUID)
	if err != nil {
		return nil, err
	}

	return cart.LinesForEvent(eventUID), nil
}

func (e *Engine) store(c context.Context, cart Cart) error {
	now := e.nower.Now()
	cart.LastModified = &now

	err := e.blobStore.Put(c, cartBlobKey(cart.VisitorUID), cart)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}

func findLine(lines []Line, eventUID string, ticketTypeUID string) int {
	for i, line := range lines {
		if line.EventUID == eventUID && line.TicketTypeUID == ticketTypeUID {
			return i
		}
	}
	return -1
}

func claimedInSector(lines []Line, eventUID string, sectorUID string, excludeTicketTypeUID string) int {
	claimed := 0
	for _, line := range lines {
		if line.EventUID == eventUID && line.SectorUID == sectorUID && line.TicketTypeUID != excludeTicketTypeUID {
			claimed += line.Quantity
		}
	}
	return claimed
}

func clamp(value int, low int, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
