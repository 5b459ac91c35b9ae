// Package property provides the property listing domain model and data access.
package property

import (
	"database/sql"
	"time"
)

// ListingStatus represents where a listing is in its sale lifecycle.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusReserved  ListingStatus = "reserved"
	StatusSold      ListingStatus = "sold"
	StatusWithdrawn ListingStatus = "withdrawn"
)

// ValidListingStatus returns true if s is a known listing status.
func ValidListingStatus(s string) bool {
	switch ListingStatus(s) {
	case StatusAvailable, StatusReserved, StatusSold, StatusWithdrawn:
		return true
	}
	return false
}

// Property represents a listing offered by the agency.
type Property struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Reference    string        `json:"reference"`
	Address      string        `json:"address"`
	City         string        `json:"city"`
	Price        *int64        `json:"price,omitempty"`
	Bedrooms     *int64        `json:"bedrooms,omitempty"`
	Bathrooms    *int64        `json:"bathrooms,omitempty"`
	SizeSqm      *float64      `json:"size_sqm,omitempty"`
	PropertyType *string       `json:"property_type,omitempty"`
	Status       ListingStatus `json:"listing_status"`
	Description  string        `json:"description"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// scanProperty scans a property from a database row.
func scanProperty(row interface{ Scan(...interface{}) error }) (*Property, error) {
	var p Property
	var price, bedrooms, bathrooms sql.NullInt64
	var sizeSqm sql.NullFloat64
	var propertyType sql.NullString
	var status string

	err := row.Scan(
		&p.ID, &p.Title, &p.Reference, &p.Address, &p.City,
		&price, &bedrooms, &bathrooms, &sizeSqm, &propertyType,
		&status, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		p.Price = &price.Int64
	}
	if bedrooms.Valid {
		p.Bedrooms = &bedrooms.Int64
	}
	if bathrooms.Valid {
		p.Bathrooms = &bathrooms.Int64
	}
	if sizeSqm.Valid {
		p.SizeSqm = &sizeSqm.Float64
	}
	if propertyType.Valid {
		p.PropertyType = &propertyType.String
	}
	p.Status = ListingStatus(status)

	return &p, nil
}
