package calculator

import (
	"errors"
	"fmt"

	"propcalc/domain"
)

var ErrResultShape = errors.New("calculator returned results that do not match its result specs")

// Evaluate runs the calculate function and checks that the results match the
// declared specs in count, order and label.
func Evaluate(c domain.Content, values domain.Values) ([]domain.Result, error) {
	results := c.Calculator.Calculate(values)
	specs := c.Calculator.Results

	if len(results) != len(specs) {
		return nil, fmt.Errorf("%w: %s: got %d results, want %d",
			ErrResultShape, c.Slug, len(results), len(specs))
	}
	for i, r := range results {
		if r.Label != specs[i].Label {
			return nil, fmt.Errorf("%w: %s: result %d is %q, want %q",
				ErrResultShape, c.Slug, i, r.Label, specs[i].Label)
		}
		if r.Format == "" {
			results[i].Format = specs[i].Format
		}
	}
	return results, nil
}

// Run coerces raw input for c and evaluates it.
func Run(c domain.Content, raw map[string]any) (domain.Values, []domain.Result, []Warning, error) {
	values, warnings := Coerce(c.Calculator.Fields, raw)
	results, err := Evaluate(c, values)
	if err != nil {
		return nil, nil, nil, err
	}
	return values, results, warnings, nil
}
