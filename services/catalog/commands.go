package catalog

import (
	"context"
	"fmt"

	"github.com/tickethub/storefront/lib/myerrors"
	"github.com/tickethub/storefront/lib/mylog"
)

func (s *service) listEvents(c context.Context) []Event {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all events")

	return ListEvents()
}

func (s *service) getEvent(c context.Context, eventUID string) (Event, EventSales, error) {
	s.logger.Log(c, eventUID, mylog.SeverityInfo, "Fetch details of event %s", eventUID)

	event, found := FindEvent(eventUID)
	if !found {
		return Event{}, EventSales{}, myerrors.NewNotFoundError(fmt.Errorf("event with uid %s not found", eventUID))
	}

	sales, found, err := s.salesStore.Get(c, eventUID)
	if err != nil {
		return Event{}, EventSales{}, myerrors.NewInternalError(err)
	}
	if !found {
		sales = EventSales{EventUID: eventUID}
	}

	return event, sales, nil
}
