package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"propcalc/domain"
	"propcalc/render"
)

var (
	flagCalcJSON   bool
	flagCalcFields bool
)

var calcCmd = &cobra.Command{
	Use:   "calc <slug> [name=value...]",
	Short: "Run a calculator from the command line",
	Long: `Run a calculator with the given field values and print its results.

Fields that are not given take their defaults. Use "propcalc list" to find
slugs and --fields to see the inputs a calculator accepts.`,
	Example: "  propcalc calc mortgage-calculator homePrice=350000 downPaymentPercent=10 interestRate=6.5\n" +
		"  propcalc calc one-percent-rule --fields",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}

		logger, err := cliLogger()
		if err != nil {
			return err
		}
		svc, err := newCalculatorService(logger)
		if err != nil {
			return err
		}

		if flagCalcFields {
			c, err := svc.Get(args[0])
			if err != nil {
				return err
			}
			return writeFields(cmd.OutOrStdout(), c.Calculator.Fields)
		}

		eval, err := svc.Evaluate(args[0], raw)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagCalcJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"slug":     eval.Content.Slug,
				"values":   eval.Values,
				"results":  eval.Results,
				"warnings": eval.Warnings,
			})
		}

		fmt.Fprintf(out, "%s\n\n", eval.Content.Title)
		if err := render.WriteTable(out, eval.Results); err != nil {
			return err
		}
		for _, w := range eval.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.Message)
		}
		return nil
	},
}

func init() {
	calcCmd.Flags().BoolVar(&flagCalcJSON, "json", false, "print values, results and warnings as JSON")
	calcCmd.Flags().BoolVar(&flagCalcFields, "fields", false, "list the calculator's fields instead of running it")
}

// parseAssignments turns name=value arguments into raw calculator input.
func parseAssignments(args []string) (map[string]any, error) {
	raw := make(map[string]any, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q: expected name=value", arg)
		}
		raw[name] = value
	}
	return raw, nil
}

func writeFields(w io.Writer, fields []domain.FieldSpec) error {
	width := 0
	for _, f := range fields {
		width = max(width, runewidth.StringWidth(f.Name))
	}
	for _, f := range fields {
		line := fmt.Sprintf("%s  %-7s  %s (default %v)", runewidth.FillRight(f.Name, width), f.Type, f.Label, f.DefaultValue)
		if len(f.Options) > 0 {
			opts := make([]string, len(f.Options))
			for i, o := range f.Options {
				opts[i] = o.Value
			}
			line += " one of: " + strings.Join(opts, ", ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
