package calculator

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"propcalc/domain"
)

var coerceFields = []domain.FieldSpec{
	{Name: "price", Label: "Price", Type: domain.FieldNumber, DefaultValue: 100.0},
	{Name: "score", Label: "Score", Type: domain.FieldNumber, DefaultValue: 650, Min: Bound(300), Max: Bound(850)},
	{Name: "furnished", Label: "Furnished", Type: domain.FieldBoolean, DefaultValue: true},
	{Name: "notes", Label: "Notes", Type: domain.FieldText, DefaultValue: ""},
	{
		Name: "term", Label: "Term", Type: domain.FieldSelect, DefaultValue: "30",
		Options: []domain.Option{{Value: "15"}, {Value: "30"}},
	},
}

func TestCoerce_DefaultsForMissingFields(t *testing.T) {
	values, warnings := Coerce(coerceFields, map[string]any{})

	assert.Empty(t, warnings)
	assert.Equal(t, domain.Values{
		"price":     100.0,
		"score":     650.0,
		"furnished": true,
		"notes":     "",
		"term":      "30",
	}, values)
}

func TestCoerce_NonNumericBecomesZero(t *testing.T) {
	for _, in := range []any{"abc", "", "12abc", []int{1}, "NaN"} {
		values, warnings := Coerce(coerceFields[:1], map[string]any{"price": in})
		assert.Equal(t, 0.0, values.Number("price"), "input %v", in)
		assert.Equal(t, []Warning{{Field: "price", Message: "Price is not a number, using 0"}}, warnings, "input %v", in)
	}
}

func TestCoerce_NonNumericSkipsClamp(t *testing.T) {
	values, warnings := Coerce(coerceFields[:2], map[string]any{"score": "abc"})

	assert.Equal(t, 0.0, values.Number("score"))
	assert.Equal(t, []Warning{{Field: "score", Message: "Score is not a number, using 0"}}, warnings)
}

func TestCoerce_ParsesFormattedNumbers(t *testing.T) {
	tests := map[any]float64{
		"$1,250.50":         1250.5,
		" 7.5% ":            7.5,
		"1_000":             1000,
		float64(3):          3,
		42:                  42,
		json.Number("2.25"): 2.25,
	}
	for in, want := range tests {
		values, _ := Coerce(coerceFields[:1], map[string]any{"price": in})
		assert.Equal(t, want, values.Number("price"), "input %v", in)
	}
}

func TestCoerce_ClampsWithWarning(t *testing.T) {
	values, warnings := Coerce(coerceFields, map[string]any{"score": "900"})
	assert.Equal(t, 850.0, values.Number("score"))
	if assert.Len(t, warnings, 1) {
		assert.Equal(t, "score", warnings[0].Field)
	}

	values, warnings = Coerce(coerceFields, map[string]any{"score": "12"})
	assert.Equal(t, 300.0, values.Number("score"))
	if assert.Len(t, warnings, 1) {
		assert.Equal(t, "Score raised to minimum 300", warnings[0].Message)
	}
}

func TestCoerce_BooleanAndSelect(t *testing.T) {
	values, warnings := Coerce(coerceFields, map[string]any{
		"furnished": "off",
		"term":      "40",
		"notes":     "corner lot",
		"unknown":   "ignored",
	})

	assert.False(t, values.Bool("furnished"))
	assert.Equal(t, "30", values.Text("term"))
	assert.Equal(t, "corner lot", values.Text("notes"))
	assert.NotContains(t, values, "unknown")
	if assert.Len(t, warnings, 1) {
		assert.Equal(t, "term", warnings[0].Field)
	}

	for _, in := range []any{"on", "true", "1", "yes", true} {
		values, _ = Coerce(coerceFields, map[string]any{"furnished": in})
		assert.True(t, values.Bool("furnished"), "input %v", in)
	}
}

func TestFormValues_UncheckedBooleansOnSubmit(t *testing.T) {
	form := url.Values{"price": {"1", "2"}}

	raw := FormValues(coerceFields, form, true)
	assert.Equal(t, "2", raw["price"])
	assert.Equal(t, false, raw["furnished"])

	raw = FormValues(coerceFields, form, false)
	assert.NotContains(t, raw, "furnished")
}
