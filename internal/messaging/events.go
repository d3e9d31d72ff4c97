package messaging

import (
	"time"
)

// Event types
const (
	EventTypeProjectCreated  = "project_created"
	EventTypeProjectUpdated  = "project_updated"
	EventTypeProjectArchived = "project_archived"
	EventTypeVisitCreated    = "visit_created"
	EventTypeVisitDeleted    = "visit_deleted"
)

// ProjectEvent represents a project lifecycle event
type ProjectEvent struct {
	ID                string                 `json:"id"`
	Name              string                 `json:"name"`
	Country           string                 `json:"country"`
	Consultant        string                 `json:"consultant"`
	OpportunityNumber *string                `json:"opportunity_number,omitempty"`
	OpportunityAmount float64                `json:"opportunity_amount"`
	Finalized         bool                   `json:"finalized"`
	Active            bool                   `json:"active"`
	CreatedAt         time.Time              `json:"created_at,omitempty"`
	UpdatedAt         time.Time              `json:"updated_at"`
	Type              string                 `json:"type"`
	Changes           map[string]interface{} `json:"changes,omitempty"`
}

// VisitEvent represents a visit lifecycle event
type VisitEvent struct {
	ID                string    `json:"id"`
	Product           string    `json:"product"`
	Client            *string   `json:"client,omitempty"`
	OpportunityNumber *string   `json:"opportunity_number,omitempty"`
	Hours             float64   `json:"hours"`
	OpportunityValue  float64   `json:"opportunity_value"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	Type              string    `json:"type"`
}
