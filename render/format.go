package render

import (
	"math"
	"strconv"
	"strings"

	"propcalc/domain"
)

// FormatCurrency renders dollars with thousands separators and two decimals.
func FormatCurrency(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatResult is the display form of a result on pages and in the CLI.
func FormatResult(r domain.Result) string {
	switch r.Format {
	case domain.FormatCurrency:
		return FormatCurrency(r.Value)
	case domain.FormatPercent:
		return r.String() + "%"
	default:
		return r.String()
	}
}
