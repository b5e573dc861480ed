package gcal

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

// CreateEvent creates a calendar event and returns its browser link (may be
// empty). When end is nil the event spans durationMinutes from start.
// RFC3339 datetimes carry the offset, so Google Calendar infers the timezone.
func (c *Client) CreateEvent(title string, start time.Time, durationMinutes int, end *time.Time, description string) (string, error) {
	if c.service == nil {
		return "", fmt.Errorf("calendar service not initialized")
	}

	endTime := start.Add(time.Duration(durationMinutes) * time.Minute)
	if end != nil {
		endTime = *end
	}

	event := &calendar.Event{
		Summary:     title,
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: endTime.Format(time.RFC3339),
		},
	}

	created, err := c.service.Events.Insert(c.calendarID, event).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	return created.HtmlLink, nil
}
