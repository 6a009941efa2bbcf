package cmd

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"propcalc/domain"
)

var flagListCategory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available calculators",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := cliLogger()
		if err != nil {
			return err
		}
		svc, err := newCalculatorService(logger)
		if err != nil {
			return err
		}

		contents := svc.List(flagListCategory)
		if len(contents) == 0 {
			return fmt.Errorf("no calculators in category %q; categories: %v", flagListCategory, svc.Categories())
		}
		return writeCatalogue(cmd.OutOrStdout(), contents)
	},
}

func init() {
	listCmd.Flags().StringVar(&flagListCategory, "category", "", "only list calculators in this category")
}

// writeCatalogue prints contents grouped under their category headings.
// contents must already be sorted by category.
func writeCatalogue(w io.Writer, contents []domain.Content) error {
	slugWidth := 0
	for _, c := range contents {
		slugWidth = max(slugWidth, runewidth.StringWidth(c.Slug))
	}

	category := ""
	for i, c := range contents {
		if i == 0 || c.Category != category {
			category = c.Category
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%s\n", category); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  %s  %s\n", runewidth.FillRight(c.Slug, slugWidth), c.Title); err != nil {
			return err
		}
	}
	return nil
}
