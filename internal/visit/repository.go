package visit

import (
	"database/sql"
	"fmt"
	"time"
)

// Repository provides CRUD operations for visits.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a visit repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = "id, property_id, user_id, scheduled_at, status, notes, external_event_id, created_at, updated_at"

// Create records a new visit request. The status is always pending and
// the calendar linkage always empty, regardless of what the caller sends.
func (r *Repository) Create(propertyID, userID int64, scheduledAt time.Time, notes string) (*Visit, error) {
	if propertyID == 0 {
		return nil, fmt.Errorf("property is required")
	}
	if scheduledAt.IsZero() {
		return nil, fmt.Errorf("scheduled time is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO visits (property_id, user_id, scheduled_at, status, notes) VALUES (?, ?, ?, ?, ?)",
		propertyID, userID, scheduledAt.UTC(), string(StatusPending), notes,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting visit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a visit by its ID.
func (r *Repository) GetByID(id int64) (*Visit, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM visits WHERE id = ?", selectColumns), id,
	)

	v, err := scanVisit(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying visit %d: %w", id, err)
	}

	return v, nil
}

// List returns all visits, soonest first.
func (r *Repository) List() ([]*Visit, error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM visits ORDER BY scheduled_at", selectColumns),
	)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var visits []*Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating visits: %w", err)
	}

	return visits, nil
}

// ListSyncEligible returns every upcoming pending or confirmed visit
// without a calendar event, joined with the property and requester
// fields needed to build one. The requester join is loose: a deleted
// user leaves the contact fields empty rather than dropping the visit.
func (r *Repository) ListSyncEligible() ([]*SyncItem, error) {
	rows, err := r.db.Query(
		`SELECT v.id, v.scheduled_at, v.notes,
		        p.title, p.reference, p.address,
		        COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.phone, '')
		 FROM visits v
		 JOIN properties p ON p.id = v.property_id
		 LEFT JOIN users u ON u.id = v.user_id
		 WHERE v.status IN (?, ?)
		   AND v.external_event_id IS NULL
		   AND v.scheduled_at >= ?`,
		string(StatusPending), string(StatusConfirmed), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing sync-eligible visits: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var items []*SyncItem
	for rows.Next() {
		var it SyncItem
		if err := rows.Scan(
			&it.VisitID, &it.ScheduledAt, &it.Notes,
			&it.PropertyTitle, &it.PropertyRef, &it.Address,
			&it.RequesterName, &it.RequesterEmail, &it.RequesterPhone,
		); err != nil {
			return nil, fmt.Errorf("scanning sync item: %w", err)
		}
		items = append(items, &it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync items: %w", err)
	}

	return items, nil
}

// SetStatus moves a visit to one of the four settable statuses.
// Moving back to pending is never allowed.
func (r *Repository) SetStatus(id int64, status Status) error {
	if !status.CanBeSet() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	result, err := r.db.Exec(
		"UPDATE visits SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("updating visit status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// AttachExternalEvent records the calendar event created for a visit.
// The linkage is written once: re-attaching the same event is a no-op,
// attaching a different one is an error.
func (r *Repository) AttachExternalEvent(id int64, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("event ID is required")
	}

	result, err := r.db.Exec(
		`UPDATE visits SET external_event_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND (external_event_id IS NULL OR external_event_id = ?)`,
		eventID, id, eventID,
	)
	if err != nil {
		return fmt.Errorf("attaching event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Nothing updated: either the visit is missing or it already
	// carries a different event.
	if _, err := r.GetByID(id); err != nil {
		return err
	}
	return fmt.Errorf("%w: visit %d", ErrEventAlreadyAttached, id)
}

// Delete permanently removes a visit by ID.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM visits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting visit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func scanVisit(row interface{ Scan(...interface{}) error }) (*Visit, error) {
	var v Visit
	var userID sql.NullInt64
	var eventID sql.NullString
	var status string

	err := row.Scan(
		&v.ID, &v.PropertyID, &userID, &v.ScheduledAt,
		&status, &v.Notes, &eventID, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		v.UserID = &userID.Int64
	}
	if eventID.Valid {
		v.ExternalEventID = &eventID.String
	}
	v.Status = Status(status)

	return &v, nil
}
