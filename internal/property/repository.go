package property

import (
	"database/sql"
	"fmt"
	"strings"
)

// Repository provides CRUD operations for properties.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a property repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const insertSQL = `INSERT INTO properties
	(title, reference, address, city, price, bedrooms, bathrooms, size_sqm, property_type, description)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `id, title, reference, address, city, price, bedrooms, bathrooms, size_sqm, property_type, listing_status, description, created_at, updated_at`

// Insert adds a new listing and returns it with its generated ID.
func (r *Repository) Insert(p *Property) (*Property, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if p.Reference == "" {
		return nil, fmt.Errorf("reference is required")
	}

	result, err := r.db.Exec(insertSQL,
		p.Title, p.Reference, p.Address, p.City,
		p.Price, p.Bedrooms, p.Bathrooms, p.SizeSqm,
		p.PropertyType, p.Description,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("reference already exists: %s", p.Reference)
		}
		return nil, fmt.Errorf("inserting property: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a listing by its ID.
func (r *Repository) GetByID(id int64) (*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = ?", selectColumns)
	row := r.db.QueryRow(query, id)

	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("property %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %d: %w", id, err)
	}

	return p, nil
}

// ListOptions controls filtering for List.
type ListOptions struct {
	City     string        // empty = all
	Status   ListingStatus // empty = all
	MaxPrice *int64
}

// List returns all listings, optionally filtered, newest first.
func (r *Repository) List(opts ListOptions) ([]*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties", selectColumns)
	var args []interface{}
	var conditions []string

	if opts.City != "" {
		conditions = append(conditions, "LOWER(city) = ?")
		args = append(args, strings.ToLower(opts.City))
	}

	if opts.Status != "" {
		conditions = append(conditions, "listing_status = ?")
		args = append(args, string(opts.Status))
	}

	if opts.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *opts.MaxPrice)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var properties []*Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}

	return properties, nil
}

// SetStatus updates a listing's sale status.
func (r *Repository) SetStatus(id int64, status ListingStatus) error {
	if !ValidListingStatus(string(status)) {
		return fmt.Errorf("invalid listing status: %q", status)
	}

	result, err := r.db.Exec(
		"UPDATE properties SET listing_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("updating listing status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("property %d not found", id)
	}

	return nil
}

// Delete removes a listing by ID.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("property %d not found", id)
	}

	return nil
}
