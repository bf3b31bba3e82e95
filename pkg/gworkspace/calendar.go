package gworkspace

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
)

// EventInput describes a calendar event to create. Timestamps are ISO 8601
// strings and are passed to the provider unmodified.
type EventInput struct {
	Summary     string
	Description string
	StartISO    string
	EndISO      string
}

// EventResult carries the identifier and viewable link of a created event.
// Nothing else from the provider response is exposed.
type EventResult struct {
	EventID  string `json:"eventId"`
	HTMLLink string `json:"htmlLink"`
}

// CreateEvent inserts an event into the configured calendar.
func (s *Service) CreateEvent(ctx context.Context, in EventInput) (*EventResult, error) {
	event := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       &calendar.EventDateTime{DateTime: in.StartISO},
		End:         &calendar.EventDateTime{DateTime: in.EndISO},
	}

	created, err := s.Calendar.Events.Insert(s.cfg.CalendarID, event).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	s.logger.Debug("calendar event created", "event_id", created.Id)

	return &EventResult{
		EventID:  created.Id,
		HTMLLink: created.HtmlLink,
	}, nil
}
