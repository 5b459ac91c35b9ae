package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mfortin/estatedesk/internal/visit"
)

// ErrNotConnected is returned when a sync is triggered by a user
// without a stored calendar credential.
var ErrNotConnected = errors.New("calendar not connected")

// Result reports the outcome of one sync run.
type Result struct {
	Synced    int `json:"synced"`
	Attempted int `json:"attempted"`
}

// Engine pushes upcoming, unsynced visits into the connected user's
// external calendar. Each visit is handled independently: the event is
// created first and the linkage recorded only after the provider call
// succeeds, so a failed visit stays eligible for the next run.
type Engine struct {
	creds    *CredentialStore
	visits   *visit.Repository
	oauth    *OAuthService
	provider EventCreator
}

// NewEngine creates a sync engine.
func NewEngine(creds *CredentialStore, visits *visit.Repository, oauth *OAuthService, provider EventCreator) *Engine {
	return &Engine{creds: creds, visits: visits, oauth: oauth, provider: provider}
}

// Run syncs all currently eligible visits for the given user.
// The eligible set is read once up front; visits cancelled while the
// run is in flight may still be synced.
func (e *Engine) Run(ctx context.Context, userID int64) (Result, error) {
	cred, err := e.creds.Get(userID)
	if errors.Is(err, ErrNoCredential) {
		return Result{}, ErrNotConnected
	}
	if err != nil {
		return Result{}, fmt.Errorf("loading credential: %w", err)
	}

	cred, err = e.oauth.RefreshIfExpired(ctx, cred)
	if err != nil {
		return Result{}, fmt.Errorf("refreshing token: %w", err)
	}
	if err := e.creds.Save(cred); err != nil {
		return Result{}, fmt.Errorf("storing refreshed credential: %w", err)
	}

	items, err := e.visits.ListSyncEligible()
	if err != nil {
		return Result{}, fmt.Errorf("listing eligible visits: %w", err)
	}

	result := Result{Attempted: len(items)}
	for _, item := range items {
		eventID, err := e.provider.CreateEvent(ctx, cred, buildEvent(item))
		if err != nil {
			slog.Warn("creating calendar event failed",
				"visit", item.VisitID, "error", err)
			continue
		}

		if err := e.visits.AttachExternalEvent(item.VisitID, eventID); err != nil {
			slog.Error("recording calendar event failed",
				"visit", item.VisitID, "event", eventID, "error", err)
			continue
		}

		result.Synced++
	}

	slog.Info("calendar sync finished",
		"user", userID, "synced", result.Synced, "attempted", result.Attempted)

	return result, nil
}

// buildEvent renders the denormalized visit fields into an event
// payload. Missing requester fields are simply left out.
func buildEvent(item *visit.SyncItem) Event {
	summary := fmt.Sprintf("Property visit: %s", item.PropertyTitle)
	if item.PropertyRef != "" {
		summary += fmt.Sprintf(" (%s)", item.PropertyRef)
	}

	var lines []string
	if item.RequesterName != "" {
		lines = append(lines, "Visitor: "+item.RequesterName)
	}
	if item.RequesterEmail != "" {
		lines = append(lines, "Email: "+item.RequesterEmail)
	}
	if item.RequesterPhone != "" {
		lines = append(lines, "Phone: "+item.RequesterPhone)
	}
	if item.Notes != "" {
		lines = append(lines, "Notes: "+item.Notes)
	}

	return Event{
		Summary:       summary,
		Location:      item.Address,
		Description:   strings.Join(lines, "\n"),
		Start:         item.ScheduledAt,
		AttendeeEmail: item.RequesterEmail,
	}
}
