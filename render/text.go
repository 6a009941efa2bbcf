package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"propcalc/domain"
)

// WriteTable prints results as an aligned two-column table. Widths are
// display widths so emoji in text results line up.
func WriteTable(w io.Writer, results []domain.Result) error {
	labelWidth := runewidth.StringWidth("Result")
	valueWidth := runewidth.StringWidth("Value")
	rows := make([][2]string, len(results))
	for i, r := range results {
		rows[i] = [2]string{r.Label, FormatResult(r)}
		labelWidth = max(labelWidth, runewidth.StringWidth(rows[i][0]))
		valueWidth = max(valueWidth, runewidth.StringWidth(rows[i][1]))
	}

	line := func(label, value string) error {
		_, err := fmt.Fprintf(w, "| %s | %s |\n",
			runewidth.FillRight(label, labelWidth),
			runewidth.FillLeft(value, valueWidth))
		return err
	}

	if err := line("Result", "Value"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "|%s|%s|\n",
		strings.Repeat("-", labelWidth+2), strings.Repeat("-", valueWidth+2)); err != nil {
		return err
	}
	for _, row := range rows {
		if err := line(row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}
