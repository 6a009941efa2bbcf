package tools

import (
	"propcalc/calculator"
	"propcalc/domain"
)

var nonNegative = calculator.Bound(0)

func money(name, label string, def float64) domain.FieldSpec {
	return domain.FieldSpec{Name: name, Label: label, Type: domain.FieldNumber, DefaultValue: def, Min: nonNegative}
}

func percentField(name, label string, def, max float64) domain.FieldSpec {
	return domain.FieldSpec{
		Name: name, Label: label, Type: domain.FieldNumber, DefaultValue: def,
		Min: nonNegative, Max: calculator.Bound(max),
	}
}

var OnePercentRule = domain.Content{
	Title:       "1% Rule Calculator",
	Description: "Check whether a rental's monthly rent is at least 1% of its purchase price.",
	Slug:        "one-percent-rule",
	Category:    CategoryRules,
	Article: `The 1% rule is a quick screen for rental properties: monthly rent should be
at least 1% of the purchase price. It ignores financing and expenses, so treat
a pass as a reason to run the full numbers, not as a buy signal.`,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("purchasePrice", "Purchase Price", 200000),
			money("monthlyRent", "Monthly Rent", 2000),
		},
		Results: []domain.ResultSpec{
			{Label: "1% Threshold", Format: domain.FormatCurrency},
			{Label: "Meets 1% Rule?", Format: domain.FormatText},
			{Label: "Rent-to-Price Ratio", Format: domain.FormatPercent},
		},
		Calculate: func(v domain.Values) []domain.Result {
			price := v.Number("purchasePrice")
			rent := v.Number("monthlyRent")
			threshold := price * 0.01

			return []domain.Result{
				calculator.Currency("1% Threshold", threshold),
				calculator.YesNo("Meets 1% Rule?", price > 0 && rent >= threshold),
				calculator.Percent("Rent-to-Price Ratio", safeDiv(rent, price)*100),
			}
		},
	},
}

var FiftyPercentRule = domain.Content{
	Title:       "50% Rule Calculator",
	Description: "Estimate operating expenses as half of rent and see what is left for the mortgage.",
	Slug:        "fifty-percent-rule",
	Category:    CategoryRules,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("monthlyRent", "Monthly Rent", 2500),
			money("monthlyMortgage", "Monthly Mortgage Payment (P&I)", 1000),
		},
		Results: []domain.ResultSpec{
			{Label: "Estimated Operating Expenses", Format: domain.FormatCurrency},
			{Label: "Net Operating Income", Format: domain.FormatCurrency},
			{Label: "Monthly Cash Flow", Format: domain.FormatCurrency},
			{Label: "Cash Flow Positive?", Format: domain.FormatText},
		},
		Calculate: func(v domain.Values) []domain.Result {
			rent := v.Number("monthlyRent")
			expenses := rent * 0.5
			noi := rent - expenses
			cashFlow := noi - v.Number("monthlyMortgage")

			return []domain.Result{
				calculator.Currency("Estimated Operating Expenses", expenses),
				calculator.Currency("Net Operating Income", noi),
				calculator.Currency("Monthly Cash Flow", cashFlow),
				calculator.YesNo("Cash Flow Positive?", cashFlow > 0),
			}
		},
	},
}

var SeventyPercentRule = domain.Content{
	Title:       "70% Rule Calculator",
	Description: "Find the most a flipper should pay: 70% of after-repair value minus repairs.",
	Slug:        "seventy-percent-rule",
	Category:    CategoryRules,
	Article: `Fix-and-flip investors use the 70% rule to cap their offer. Multiply the
after-repair value (ARV) by 70% and subtract the estimated repair budget.`,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("afterRepairValue", "After Repair Value (ARV)", 300000),
			money("repairCosts", "Estimated Repair Costs", 40000),
			percentField("rulePercent", "Rule Percentage", 70, 100),
		},
		Results: []domain.ResultSpec{
			{Label: "70% of ARV", Format: domain.FormatCurrency},
			{Label: "Maximum Purchase Price", Format: domain.FormatCurrency},
		},
		Calculate: func(v domain.Values) []domain.Result {
			share := v.Number("afterRepairValue") * v.Number("rulePercent") / 100
			return []domain.Result{
				calculator.Currency("70% of ARV", share),
				calculator.Currency("Maximum Purchase Price", share-v.Number("repairCosts")),
			}
		},
	},
}
