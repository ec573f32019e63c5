package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"turnera/internal/booking"
)

// IsBusy queries FreeBusy for any busy interval overlapping [start, end).
// Any API or shape error is returned as-is: the caller must not read a
// failure as "available".
func (c *Client) IsBusy(ctx context.Context, start, end time.Time) (bool, error) {
	req := &calendar.FreeBusyRequest{
		TimeMin:  start.Format(time.RFC3339),
		TimeMax:  end.Format(time.RFC3339),
		TimeZone: c.timezone,
		Items:    []*calendar.FreeBusyRequestItem{{Id: c.calendarID}},
	}

	resp, err := c.service.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("freebusy query failed: %w", err)
	}

	cal, ok := resp.Calendars[c.calendarID]
	if !ok {
		return false, fmt.Errorf("freebusy response missing calendar %s", c.calendarID)
	}
	if len(cal.Errors) > 0 {
		return false, fmt.Errorf("freebusy error for calendar %s: %s", c.calendarID, cal.Errors[0].Reason)
	}

	return len(cal.Busy) > 0, nil
}

// CreateEvent inserts one event covering the booked interval and returns its
// id and human-viewable link.
func (c *Client) CreateEvent(ctx context.Context, input booking.EventInput) (string, string, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: fmt.Sprintf("%s\nPhone: %s", input.Description, input.Phone),
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
	}

	created, err := c.service.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", "", fmt.Errorf("failed to create event: %w", err)
	}

	return created.Id, created.HtmlLink, nil
}
