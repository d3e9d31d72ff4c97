package domain

import (
	"time"
)

// Visit represents a commercial visit record
type Visit struct {
	ID                string    `json:"id" db:"id"`
	Product           string    `json:"product" db:"product"`
	Client            *string   `json:"client" db:"client"`
	OpportunityNumber *string   `json:"opportunity_number" db:"opportunity_number"`
	Country           *string   `json:"country" db:"country"`
	Consultant        *string   `json:"consultant" db:"consultant"`
	Hours             float64   `json:"hours" db:"hours"`
	VisitDate         *string   `json:"visit_date" db:"visit_date"`
	OpportunityValue  float64   `json:"opportunity_value" db:"opportunity_value"`
	Active            bool      `json:"active" db:"active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// VisitInput represents a normalized visit payload
type VisitInput struct {
	Product           *string  `json:"product"`
	Client            *string  `json:"client"`
	OpportunityNumber *string  `json:"opportunity_number"`
	Country           *string  `json:"country"`
	Consultant        *string  `json:"consultant"`
	Hours             *float64 `json:"hours"`
	VisitDate         *string  `json:"visit_date" validate:"omitempty,datetime=2006-01-02"`
	OpportunityValue  *float64 `json:"opportunity_value" validate:"omitempty,gte=0"`
}
