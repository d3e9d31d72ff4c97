// Package normalizer converts raw, loosely-typed request payloads into
// canonical typed inputs. It resolves historical field aliases, trims
// strings, parses locale-formatted numbers and dates, and maps empty
// optional values to nil. It performs no validation beyond parsing:
// rejecting bad values is the validation package's job.
package normalizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/consultora/consulting-tracker/internal/domain"
)

// Project normalizes a raw project payload into a ProjectInput
func Project(raw map[string]interface{}) *domain.ProjectInput {
	return &domain.ProjectInput{
		Name:              requiredString(raw, projectName...),
		Country:           requiredString(raw, projectCountry...),
		Consultant:        requiredString(raw, projectConsultant...),
		OpportunityNumber: optionalString(raw, projectOppNumber...),
		Client:            optionalString(raw, projectClient...),
		Manager:           optionalString(raw, projectManager...),
		OpportunityAmount: numberWithDefault(raw, 0, projectOppAmount...),
		PlannedHours:      number(raw, projectPlanned...),
		ExecutedHours:     number(raw, projectExecuted...),
		HourlyRate:        number(raw, projectHourlyRate...),
		StartDate:         date(raw, projectStartDate...),
		EndDate:           date(raw, projectEndDate...),
		Observations:      optionalString(raw, projectObservation...),
		Finalized:         boolean(raw, projectFinalized...),
	}
}

// Visit normalizes a raw visit payload into a VisitInput
func Visit(raw map[string]interface{}) *domain.VisitInput {
	return &domain.VisitInput{
		Product:           requiredString(raw, visitProduct...),
		Client:            optionalString(raw, visitClient...),
		OpportunityNumber: optionalString(raw, visitOppNumber...),
		Country:           optionalString(raw, visitCountry...),
		Consultant:        optionalString(raw, visitConsultant...),
		Hours:             number(raw, visitHours...),
		VisitDate:         date(raw, visitDate...),
		OpportunityValue:  numberWithDefault(raw, 0, visitOppValue...),
	}
}

// lookup returns the value of the first alias present in the payload.
// A key set to JSON null counts as present with no value.
func lookup(raw map[string]interface{}, aliases ...string) (interface{}, bool) {
	for _, key := range aliases {
		if value, ok := raw[key]; ok {
			return value, true
		}
	}
	return nil, false
}

// requiredString trims a string field but keeps the empty string, so that
// validation can reject a required field that arrived empty
func requiredString(raw map[string]interface{}, aliases ...string) *string {
	value, ok := lookup(raw, aliases...)
	if !ok || value == nil {
		return nil
	}
	s := strings.TrimSpace(asString(value))
	return &s
}

// optionalString trims a string field; empty-after-trim becomes nil
func optionalString(raw map[string]interface{}, aliases ...string) *string {
	value, ok := lookup(raw, aliases...)
	if !ok || value == nil {
		return nil
	}
	s := strings.TrimSpace(asString(value))
	if s == "" {
		return nil
	}
	return &s
}

// number parses a numeric field; unparseable values become nil
func number(raw map[string]interface{}, aliases ...string) *float64 {
	value, ok := lookup(raw, aliases...)
	if !ok || value == nil {
		return nil
	}
	if f, ok := asNumber(value); ok {
		return &f
	}
	return nil
}

// numberWithDefault parses a numeric field; a present but unparseable
// value falls back to the given default instead of nil
func numberWithDefault(raw map[string]interface{}, def float64, aliases ...string) *float64 {
	value, ok := lookup(raw, aliases...)
	if !ok || value == nil {
		return nil
	}
	if f, ok := asNumber(value); ok {
		return &f
	}
	return &def
}

// date normalizes a date field to YYYY-MM-DD; empty or unrecognized
// values become nil
func date(raw map[string]interface{}, aliases ...string) *string {
	value, ok := lookup(raw, aliases...)
	if !ok || value == nil {
		return nil
	}
	s := strings.TrimSpace(asString(value))
	if s == "" {
		return nil
	}
	if normalized, ok := normalizeDate(s); ok {
		return &normalized
	}
	// Kept as-is for validation to reject with a field-level reason
	return &s
}

// boolean coerces a boolean field; anything unrecognized is false
func boolean(raw map[string]interface{}, aliases ...string) *bool {
	value, ok := lookup(raw, aliases...)
	if !ok || value == nil {
		return nil
	}
	b := asBool(value)
	return &b
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case int:
		return v == 1
	case json.Number:
		return v.String() == "1"
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "true" || s == "1"
	default:
		return false
	}
}

func asNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return finite(v)
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		return parseDecimal(v)
	default:
		return 0, false
	}
}

// parseDecimal parses a decimal string tolerating locale formatting.
// When both '.' and ',' appear, '.' is taken as the thousands separator
// and ',' as the decimal mark ("1.234,56" -> 1234.56); a lone ',' is the
// decimal mark ("50,5" -> 50.5); a lone '.' parses as-is.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

// finite guards against NaN and infinities ever reaching storage
func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// normalizeDate accepts YYYY-MM-DD unchanged and converts DD/MM/YYYY
// (zero-padding single digits) to YYYY-MM-DD
func normalizeDate(s string) (string, bool) {
	if isCanonicalDate(s) {
		return s, true
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", false
	}

	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return "", false
	}
	if len(parts[2]) != 4 || day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// isCanonicalDate reports whether s is exactly YYYY-MM-DD
func isCanonicalDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
