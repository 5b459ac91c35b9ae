package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// visitDuration is how long a viewing slot is blocked in the calendar.
const visitDuration = time.Hour

// Event is the provider-agnostic calendar event payload.
type Event struct {
	Summary       string
	Location      string
	Description   string
	Start         time.Time
	AttendeeEmail string
}

// EventCreator creates events in an external calendar on behalf of a
// connected user.
type EventCreator interface {
	CreateEvent(ctx context.Context, cred *Credential, ev Event) (string, error)
}

// NewEventCreator selects the Google implementation when OAuth client
// credentials are configured, and a disabled no-op otherwise.
func NewEventCreator(cfg Config) EventCreator {
	if !cfg.IsConfigured() {
		return disabledCreator{}
	}
	return &googleCreator{oauth: NewOAuthService(cfg)}
}

// googleCreator writes events to the user's primary Google Calendar.
type googleCreator struct {
	oauth *OAuthService
}

func (g *googleCreator) CreateEvent(ctx context.Context, cred *Credential, ev Event) (string, error) {
	service, err := calendarapi.NewService(ctx,
		option.WithTokenSource(oauth2.StaticTokenSource(g.oauth.token(cred))),
	)
	if err != nil {
		return "", fmt.Errorf("creating calendar service: %w", err)
	}

	entry := &calendarapi.Event{
		Summary:     ev.Summary,
		Location:    ev.Location,
		Description: ev.Description,
		Start: &calendarapi.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
		},
		End: &calendarapi.EventDateTime{
			DateTime: ev.Start.Add(visitDuration).Format(time.RFC3339),
		},
	}
	if ev.AttendeeEmail != "" {
		entry.Attendees = []*calendarapi.EventAttendee{
			{Email: ev.AttendeeEmail},
		}
	}

	created, err := service.Events.Insert("primary", entry).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("inserting event: %w", err)
	}

	return created.Id, nil
}

// disabledCreator is the null object used when no OAuth client is
// configured. Every call fails the same way.
type disabledCreator struct{}

func (disabledCreator) CreateEvent(context.Context, *Credential, Event) (string, error) {
	return "", ErrNotConfigured
}
