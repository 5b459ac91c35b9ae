package lead

import (
	"database/sql"
	"fmt"
)

// Repository provides CRUD operations for leads.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a lead repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = "id, kind, name, email, phone, message, property_ref, budget, status, created_at, updated_at"

// Add captures a new lead. All leads start in the 'new' status.
func (r *Repository) Add(l *Lead) (*Lead, error) {
	if !l.Kind.IsValid() {
		return nil, fmt.Errorf("invalid lead kind: %q", l.Kind)
	}
	if l.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if l.Email == "" && l.Phone == "" {
		return nil, fmt.Errorf("email or phone is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO leads (kind, name, email, phone, message, property_ref, budget) VALUES (?, ?, ?, ?, ?, ?, ?)",
		string(l.Kind), l.Name, l.Email, l.Phone, l.Message, l.PropertyRef, l.Budget,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting lead: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a lead by ID.
func (r *Repository) GetByID(id int64) (*Lead, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM leads WHERE id = ?", selectColumns), id,
	)

	l, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lead %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying lead %d: %w", id, err)
	}

	return l, nil
}

// List returns leads, optionally filtered by pipeline status, newest first.
func (r *Repository) List(status Status) ([]*Lead, error) {
	query := fmt.Sprintf("SELECT %s FROM leads", selectColumns)
	var args []interface{}

	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var leads []*Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		leads = append(leads, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}

	return leads, nil
}

// SetStatus moves a lead along the pipeline.
func (r *Repository) SetStatus(id int64, status Status) error {
	if !ValidStatus(string(status)) {
		return fmt.Errorf("invalid lead status: %q", status)
	}

	result, err := r.db.Exec(
		"UPDATE leads SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("updating lead status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("lead %d not found", id)
	}

	return nil
}

// Delete removes a lead by ID.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM leads WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting lead: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("lead %d not found", id)
	}

	return nil
}

func scanLead(row interface{ Scan(...interface{}) error }) (*Lead, error) {
	var l Lead
	var kind, status string
	var budget sql.NullInt64

	err := row.Scan(
		&l.ID, &kind, &l.Name, &l.Email, &l.Phone, &l.Message,
		&l.PropertyRef, &budget, &status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Kind = Kind(kind)
	l.Status = Status(status)
	if budget.Valid {
		l.Budget = &budget.Int64
	}

	return &l, nil
}
