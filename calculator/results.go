package calculator

import (
	"math"

	"propcalc/domain"
)

// RoundTo2Decimals rounds a float64 to 2 decimal places.
func RoundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

func Currency(label string, v float64) domain.Result {
	return domain.Result{Label: label, Value: RoundTo2Decimals(v), Format: domain.FormatCurrency}
}

func Number(label string, v float64) domain.Result {
	return domain.Result{Label: label, Value: RoundTo2Decimals(v), Format: domain.FormatNumber}
}

func Integer(label string, v int) domain.Result {
	return domain.Result{Label: label, Value: float64(v), Format: domain.FormatInteger}
}

// Percent takes a value already expressed in percent (12.5 for 12.5%).
func Percent(label string, v float64) domain.Result {
	return domain.Result{Label: label, Value: RoundTo2Decimals(v), Format: domain.FormatPercent}
}

func Text(label, s string) domain.Result {
	return domain.Result{Label: label, Text: s, Format: domain.FormatText}
}

// YesNo renders a pass/fail check the way calculator pages show it.
func YesNo(label string, ok bool) domain.Result {
	if ok {
		return Text(label, "✅ Yes")
	}
	return Text(label, "❌ No")
}

func Bound(v float64) *float64 {
	return &v
}
