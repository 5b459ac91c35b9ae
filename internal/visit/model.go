// Package visit provides visit scheduling, the status workflow, and data access.
package visit

import (
	"errors"
	"time"
)

// Status represents where a visit is in its lifecycle.
type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
	StatusRescheduled Status = "rescheduled"
)

// settableStatuses are the statuses an admin may move a visit to.
// A visit is only ever pending at creation; it cannot be set back.
var settableStatuses = []Status{
	StatusConfirmed, StatusCancelled, StatusCompleted, StatusRescheduled,
}

// CanBeSet reports whether the status is a valid SetStatus target.
func (s Status) CanBeSet() bool {
	for _, v := range settableStatuses {
		if s == v {
			return true
		}
	}
	return false
}

var (
	// ErrNotFound is returned when a visit does not exist.
	ErrNotFound = errors.New("visit not found")

	// ErrInvalidStatus is returned for SetStatus targets outside the
	// settable set, including pending.
	ErrInvalidStatus = errors.New("invalid status transition")

	// ErrEventAlreadyAttached is returned when a second, different
	// calendar event is attached to a visit.
	ErrEventAlreadyAttached = errors.New("visit already has a calendar event")
)

// Visit represents a scheduled property viewing.
type Visit struct {
	ID              int64     `json:"id"`
	PropertyID      int64     `json:"property_id"`
	UserID          *int64    `json:"user_id,omitempty"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	Status          Status    `json:"status"`
	Notes           string    `json:"notes"`
	ExternalEventID *string   `json:"external_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Synced reports whether the visit is already linked to a calendar event.
func (v *Visit) Synced() bool {
	return v.ExternalEventID != nil
}

// SyncItem is a sync-eligible visit joined with the denormalized
// property and requester fields needed to render a calendar event.
// Requester fields are empty when the requesting user no longer exists.
type SyncItem struct {
	VisitID        int64
	ScheduledAt    time.Time
	Notes          string
	PropertyTitle  string
	PropertyRef    string
	Address        string
	RequesterName  string
	RequesterEmail string
	RequesterPhone string
}
