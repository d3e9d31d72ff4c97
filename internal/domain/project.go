package domain

import (
	"time"
)

// Project represents a consulting project record
type Project struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Country           string    `json:"country" db:"country"`
	Consultant        string    `json:"consultant" db:"consultant"`
	OpportunityNumber *string   `json:"opportunity_number" db:"opportunity_number"`
	Client            *string   `json:"client" db:"client"`
	Manager           *string   `json:"manager" db:"manager"`
	OpportunityAmount float64   `json:"opportunity_amount" db:"opportunity_amount"`
	PlannedHours      *float64  `json:"planned_hours" db:"planned_hours"`
	ExecutedHours     *float64  `json:"executed_hours" db:"executed_hours"`
	HourlyRate        *float64  `json:"hourly_rate" db:"hourly_rate"`
	StartDate         *string   `json:"start_date" db:"start_date"`
	EndDate           *string   `json:"end_date" db:"end_date"`
	Observations      *string   `json:"observations" db:"observations"`
	Finalized         bool      `json:"finalized" db:"finalized"`
	Active            bool      `json:"active" db:"active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectInput represents a normalized project payload. Every field is a
// pointer: nil means the field was not present in the request, which is how
// partial updates tell an omitted field from an explicitly set one.
type ProjectInput struct {
	Name              *string  `json:"name"`
	Country           *string  `json:"country"`
	Consultant        *string  `json:"consultant"`
	OpportunityNumber *string  `json:"opportunity_number"`
	Client            *string  `json:"client"`
	Manager           *string  `json:"manager"`
	OpportunityAmount *float64 `json:"opportunity_amount" validate:"omitempty,gte=0"`
	PlannedHours      *float64 `json:"planned_hours" validate:"omitempty,gte=0"`
	ExecutedHours     *float64 `json:"executed_hours" validate:"omitempty,gte=0"`
	HourlyRate        *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	StartDate         *string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate           *string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Observations      *string  `json:"observations"`
	Finalized         *bool    `json:"finalized"`
}

// IsEmpty reports whether the input carries no fields at all
func (in *ProjectInput) IsEmpty() bool {
	return in.Name == nil &&
		in.Country == nil &&
		in.Consultant == nil &&
		in.OpportunityNumber == nil &&
		in.Client == nil &&
		in.Manager == nil &&
		in.OpportunityAmount == nil &&
		in.PlannedHours == nil &&
		in.ExecutedHours == nil &&
		in.HourlyRate == nil &&
		in.StartDate == nil &&
		in.EndDate == nil &&
		in.Observations == nil &&
		in.Finalized == nil
}

// Apply merges the fields present in the input over an existing project.
// Omitted (nil) fields are left untouched.
func (in *ProjectInput) Apply(p *Project) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Country != nil {
		p.Country = *in.Country
	}
	if in.Consultant != nil {
		p.Consultant = *in.Consultant
	}
	if in.OpportunityNumber != nil {
		p.OpportunityNumber = in.OpportunityNumber
	}
	if in.Client != nil {
		p.Client = in.Client
	}
	if in.Manager != nil {
		p.Manager = in.Manager
	}
	if in.OpportunityAmount != nil {
		p.OpportunityAmount = *in.OpportunityAmount
	}
	if in.PlannedHours != nil {
		p.PlannedHours = in.PlannedHours
	}
	if in.ExecutedHours != nil {
		p.ExecutedHours = in.ExecutedHours
	}
	if in.HourlyRate != nil {
		p.HourlyRate = in.HourlyRate
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = in.EndDate
	}
	if in.Observations != nil {
		p.Observations = in.Observations
	}
	if in.Finalized != nil {
		p.Finalized = *in.Finalized
	}
}

// CanArchive reports whether the project satisfies the archive precondition
func (p *Project) CanArchive() bool {
	return p.Finalized
}
