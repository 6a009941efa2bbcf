package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propcalc/domain"
)

func TestEvaluate_ChecksResultShape(t *testing.T) {
	c := sampleContent("double", "Math", "Doubler")

	results, err := Evaluate(c, domain.Values{"a": 2.5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "5.00", results[0].String())

	c.Calculator.Calculate = func(domain.Values) []domain.Result { return nil }
	_, err = Evaluate(c, domain.Values{})
	assert.ErrorIs(t, err, ErrResultShape)

	c.Calculator.Calculate = func(domain.Values) []domain.Result {
		return []domain.Result{Number("Triple", 1)}
	}
	_, err = Evaluate(c, domain.Values{})
	assert.ErrorIs(t, err, ErrResultShape)
}

func TestEvaluate_FillsMissingFormat(t *testing.T) {
	c := sampleContent("double", "Math", "Doubler")
	c.Calculator.Calculate = func(domain.Values) []domain.Result {
		return []domain.Result{{Label: "Double", Value: 1}}
	}

	results, err := Evaluate(c, domain.Values{})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatNumber, results[0].Format)
}

func TestRun_UsesDefaults(t *testing.T) {
	values, results, warnings, err := Run(sampleContent("double", "Math", "Doubler"), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 1.0, values.Number("a"))
	assert.Equal(t, 2.0, results[0].Value)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "2000.00", Currency("x", 2000).String())
	assert.Equal(t, "12", Integer("x", 12).String())
	assert.Equal(t, "✅ Yes", YesNo("x", true).String())
	assert.Equal(t, "❌ No", YesNo("x", false).String())
	assert.Equal(t, 0.13, RoundTo2Decimals(0.125000001))
}
