package service

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"propcalc/calculator"
	"propcalc/tools"
)

func newCalculatorService(t *testing.T) *CalculatorService {
	t.Helper()
	registry, err := calculator.NewRegistryFrom(tools.All()...)
	require.NoError(t, err)
	return NewCalculatorService(registry, zap.NewNop())
}

func TestCalculatorService_Evaluate(t *testing.T) {
	svc := newCalculatorService(t)

	eval, err := svc.Evaluate("one-percent-rule", map[string]any{
		"purchasePrice": "200,000",
		"monthlyRent":   2500,
	})
	require.NoError(t, err)

	assert.Equal(t, "1% Rule Calculator", eval.Content.Title)
	assert.Empty(t, eval.Warnings)

	got := make([]string, len(eval.Results))
	for i, r := range eval.Results {
		got[i] = r.Label + "=" + r.String()
	}
	want := []string{
		"1% Threshold=2000.00",
		"Meets 1% Rule?=✅ Yes",
		"Rent-to-Price Ratio=1.25",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculatorService_EvaluateReportsClamping(t *testing.T) {
	svc := newCalculatorService(t)

	eval, err := svc.Evaluate("one-percent-rule", map[string]any{"purchasePrice": -10})
	require.NoError(t, err)

	require.Len(t, eval.Warnings, 1)
	assert.Equal(t, "purchasePrice", eval.Warnings[0].Field)
	assert.Equal(t, 0.0, eval.Values.Number("purchasePrice"))
}

func TestCalculatorService_UnknownSlug(t *testing.T) {
	svc := newCalculatorService(t)

	_, err := svc.Evaluate("nope", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCalculatorService_ListByCategory(t *testing.T) {
	svc := newCalculatorService(t)

	all := svc.List("")
	assert.Len(t, all, len(tools.All()))

	rules := svc.List(tools.CategoryRules)
	require.NotEmpty(t, rules)
	for _, c := range rules {
		assert.Equal(t, tools.CategoryRules, c.Category)
	}

	assert.Empty(t, svc.List("Unknown"))
	assert.Contains(t, svc.Categories(), tools.CategoryDebt)
}
