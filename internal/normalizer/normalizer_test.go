package normalizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultora/consulting-tracker/internal/normalizer"
)

func TestProjectAliasResolutionOrder(t *testing.T) {
	// Canonical name wins over the localized and legacy aliases
	in := normalizer.Project(map[string]interface{}{
		"name":         "Cloud Migration",
		"nombre":       "Migracion Cloud",
		"project_name": "legacy",
	})
	require.NotNil(t, in.Name)
	assert.Equal(t, "Cloud Migration", *in.Name)

	// Localized alias wins over the legacy one
	in = normalizer.Project(map[string]interface{}{
		"nombre":       "Migracion Cloud",
		"project_name": "legacy",
	})
	require.NotNil(t, in.Name)
	assert.Equal(t, "Migracion Cloud", *in.Name)

	// Legacy alias is still understood
	in = normalizer.Project(map[string]interface{}{
		"amount": "1500",
	})
	require.NotNil(t, in.OpportunityAmount)
	assert.Equal(t, 1500.0, *in.OpportunityAmount)
}

func TestProjectNumberParsing(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  float64
	}{
		{"plain float", 1234.56, 1234.56},
		{"plain string", "1234.56", 1234.56},
		{"comma decimal", "50,5", 50.5},
		{"thousands dot with comma decimal", "1.234,56", 1234.56},
		{"integer string", "40", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := normalizer.Project(map[string]interface{}{
				"planned_hours": tt.value,
			})
			require.NotNil(t, in.PlannedHours)
			assert.Equal(t, tt.want, *in.PlannedHours)
		})
	}
}

func TestProjectNumberGarbage(t *testing.T) {
	// Nullable numeric fields turn garbage into nil
	in := normalizer.Project(map[string]interface{}{
		"planned_hours": "not a number",
	})
	assert.Nil(t, in.PlannedHours)

	// The opportunity amount has a required default of 0 instead
	in = normalizer.Project(map[string]interface{}{
		"opportunity_amount": "not a number",
	})
	require.NotNil(t, in.OpportunityAmount)
	assert.Equal(t, 0.0, *in.OpportunityAmount)
}

func TestProjectDateNormalization(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"canonical passthrough", "2024-03-05", "2024-03-05"},
		{"slash format", "05/03/2024", "2024-03-05"},
		{"slash format single digits", "5/3/2024", "2024-03-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := normalizer.Project(map[string]interface{}{
				"start_date": tt.value,
			})
			require.NotNil(t, in.StartDate)
			assert.Equal(t, tt.want, *in.StartDate)
		})
	}
}

func TestProjectDateEmptyAndInvalid(t *testing.T) {
	in := normalizer.Project(map[string]interface{}{
		"start_date": "  ",
	})
	assert.Nil(t, in.StartDate)

	// Unrecognized values are kept for validation to reject
	in = normalizer.Project(map[string]interface{}{
		"start_date": "next tuesday",
	})
	require.NotNil(t, in.StartDate)
	assert.Equal(t, "next tuesday", *in.StartDate)
}

func TestProjectStringNormalization(t *testing.T) {
	// Required fields keep the empty string so validation can name them
	in := normalizer.Project(map[string]interface{}{
		"name":   "  ",
		"client": "  ",
	})
	require.NotNil(t, in.Name)
	assert.Equal(t, "", *in.Name)
	assert.Nil(t, in.Client)

	// Absent fields are nil either way
	in = normalizer.Project(map[string]interface{}{})
	assert.Nil(t, in.Name)
	assert.Nil(t, in.Client)

	in = normalizer.Project(map[string]interface{}{
		"client": " Acme S.A. ",
	})
	require.NotNil(t, in.Client)
	assert.Equal(t, "Acme S.A.", *in.Client)
}

func TestProjectBooleanCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"number one", float64(1), true},
		{"number zero", float64(0), false},
		{"string true", "true", true},
		{"string false", "false", false},
		{"string one", "1", true},
		{"garbage", "yes please", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := normalizer.Project(map[string]interface{}{
				"finalized": tt.value,
			})
			require.NotNil(t, in.Finalized)
			assert.Equal(t, tt.want, *in.Finalized)
		})
	}
}

func TestProjectNullValueTreatedAsAbsent(t *testing.T) {
	in := normalizer.Project(map[string]interface{}{
		"name": nil,
	})
	assert.Nil(t, in.Name)
}

func TestVisitNormalization(t *testing.T) {
	in := normalizer.Visit(map[string]interface{}{
		"producto":    " Taller de arquitectura ",
		"horas":       "2,5",
		"fechaVisita": "15/08/2024",
		"value":       "1.000,00",
	})

	require.NotNil(t, in.Product)
	assert.Equal(t, "Taller de arquitectura", *in.Product)
	require.NotNil(t, in.Hours)
	assert.Equal(t, 2.5, *in.Hours)
	require.NotNil(t, in.VisitDate)
	assert.Equal(t, "2024-08-15", *in.VisitDate)
	require.NotNil(t, in.OpportunityValue)
	assert.Equal(t, 1000.0, *in.OpportunityValue)
}
