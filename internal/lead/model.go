// Package lead provides captured sales leads and the pipeline they move through.
package lead

import "time"

// Kind says which wizard produced the lead.
type Kind string

const (
	KindSell   Kind = "sell"   // owner wants to sell a property
	KindSearch Kind = "search" // buyer is looking for one
)

// IsValid checks if a kind is recognized.
func (k Kind) IsValid() bool {
	return k == KindSell || k == KindSearch
}

// Status represents a lead's place in the pipeline.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusClosed    Status = "closed"
)

// ValidStatus returns true if s is a known pipeline status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusNew, StatusContacted, StatusQualified, StatusClosed:
		return true
	}
	return false
}

// Lead represents a captured prospect.
type Lead struct {
	ID          int64     `json:"id"`
	Kind        Kind      `json:"kind"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	PropertyRef string    `json:"property_ref,omitempty"`
	Budget      *int64    `json:"budget,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
