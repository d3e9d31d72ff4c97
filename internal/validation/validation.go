// Package validation implements the per-entity acceptance rules applied to
// normalized inputs before anything reaches storage. A rejection reports
// every failing field, not just the first one.
package validation

import (
	"fmt"
	"strings"

	"github.com/consultora/consulting-tracker/internal/domain"
	"github.com/consultora/consulting-tracker/pkg/validator"
)

// FieldError describes a single failed field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a validation failure carrying every failing field
type Errors struct {
	Fields []FieldError `json:"errors"`
}

// Error implements the error interface
func (e *Errors) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *Errors) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *Errors) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validator applies the entity validation rules
type Validator struct {
	structs *validator.CustomValidator
}

// New creates a new Validator
func New() *Validator {
	return &Validator{
		structs: validator.NewValidator(),
	}
}

// ProjectCreate validates a normalized project input for creation.
// Name, country and consultant are required; numbers must be finite and
// non-negative; dates must be canonical and ordered.
func (v *Validator) ProjectCreate(in *domain.ProjectInput) error {
	errs := &Errors{}

	v.tagChecks(in, errs)
	requireText(errs, "name", in.Name)
	requireText(errs, "country", in.Country)
	requireText(errs, "consultant", in.Consultant)
	checkDateOrder(errs, in.StartDate, in.EndDate)

	return errs.orNil()
}

// ProjectUpdate validates a normalized project input for a partial update.
// Every field is optional, but whichever fields are present must satisfy
// the same per-field rules as creation.
func (v *Validator) ProjectUpdate(in *domain.ProjectInput) error {
	errs := &Errors{}

	v.tagChecks(in, errs)
	requireTextIfPresent(errs, "name", in.Name)
	requireTextIfPresent(errs, "country", in.Country)
	requireTextIfPresent(errs, "consultant", in.Consultant)
	checkDateOrder(errs, in.StartDate, in.EndDate)

	return errs.orNil()
}

// ProjectMerged validates the cross-field constraints on a stored record
// after a partial update has been merged over it. An update carrying only
// one of the two dates can still leave the record with an end date before
// its start date; the per-input checks cannot see that.
func (v *Validator) ProjectMerged(p *domain.Project) error {
	errs := &Errors{}

	checkDateOrder(errs, p.StartDate, p.EndDate)

	return errs.orNil()
}

// VisitCreate validates a normalized visit input. Validation is strict:
// the product name is required and the duration must be a positive number.
func (v *Validator) VisitCreate(in *domain.VisitInput) error {
	errs := &Errors{}

	v.tagChecks(in, errs)
	requireText(errs, "product", in.Product)
	// The zero value would slip past an omitempty tag check, so the
	// positive-duration rule is enforced here
	if in.Hours == nil {
		errs.add("hours", "A positive number of hours is required")
	} else if *in.Hours <= 0 {
		errs.add("hours", "Value must be greater than 0")
	}

	return errs.orNil()
}

// tagChecks runs the struct-tag rules (ranges, date format) and folds the
// results into the accumulated error list
func (v *Validator) tagChecks(in interface{}, errs *Errors) {
	fieldErrors, err := v.structs.Struct(in)
	if err != nil {
		errs.add("", "invalid input structure")
		return
	}
	for _, fe := range fieldErrors {
		errs.add(fe.Field, fe.Message)
	}
}

func requireText(errs *Errors, field string, value *string) {
	if value == nil || *value == "" {
		errs.add(field, "This field is required")
	}
}

func requireTextIfPresent(errs *Errors, field string, value *string) {
	if value != nil && *value == "" {
		errs.add(field, "This field must not be empty")
	}
}

// checkDateOrder rejects an end date that precedes the start date. Both
// dates are canonical YYYY-MM-DD strings at this point, so the comparison
// is lexicographic.
func checkDateOrder(errs *Errors, start, end *string) {
	if start == nil || end == nil {
		return
	}
	if !isCanonical(*start) || !isCanonical(*end) {
		// Format failures are already reported by the tag checks
		return
	}
	if *end < *start {
		errs.add("end_date", "End date must not precede start date")
	}
}

func isCanonical(s string) bool {
	return len(s) == 10 && s[4] == '-' && s[7] == '-'
}
