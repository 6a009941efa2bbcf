package tools

import (
	"propcalc/calculator"
	"propcalc/domain"
)

var STRvsLTR = domain.Content{
	Title:       "Short-Term vs Long-Term Rental Calculator",
	Description: "Compare annual net income from a vacation rental against a traditional lease.",
	Slug:        "str-vs-ltr",
	Category:    CategoryStrategy,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("nightlyRate", "Average Nightly Rate", 200),
			percentField("occupancyRate", "STR Occupancy (%)", 65, 100),
			{
				Name: "averageStayNights", Label: "Average Stay (nights)", Type: domain.FieldNumber,
				DefaultValue: 3, Min: calculator.Bound(1), Max: calculator.Bound(365),
			},
			money("cleaningCostPerStay", "Cleaning Cost per Stay", 90),
			percentField("strExpensePercent", "STR Expenses (% of revenue)", 30, 100),
			money("monthlyRent", "LTR Monthly Rent", 2200),
			percentField("ltrVacancyRate", "LTR Vacancy (%)", 5, 100),
			percentField("ltrExpensePercent", "LTR Expenses (% of rent)", 10, 100),
		},
		Results: []domain.ResultSpec{
			{Label: "STR Annual Revenue", Format: domain.FormatCurrency},
			{Label: "STR Annual Net", Format: domain.FormatCurrency},
			{Label: "LTR Annual Revenue", Format: domain.FormatCurrency},
			{Label: "LTR Annual Net", Format: domain.FormatCurrency},
			{Label: "Annual Difference", Format: domain.FormatCurrency},
			{Label: "Better Strategy", Format: domain.FormatText},
		},
		Calculate: func(v domain.Values) []domain.Result {
			nights := 365 * v.Number("occupancyRate") / 100
			strRevenue := nights * v.Number("nightlyRate")
			stays := safeDiv(nights, v.Number("averageStayNights"))
			strNet := strRevenue*(1-v.Number("strExpensePercent")/100) - stays*v.Number("cleaningCostPerStay")

			ltrRevenue := v.Number("monthlyRent") * 12 * (1 - v.Number("ltrVacancyRate")/100)
			ltrNet := ltrRevenue * (1 - v.Number("ltrExpensePercent")/100)

			diff := strNet - ltrNet
			better := "Long-term rental"
			switch {
			case diff > 0:
				better = "Short-term rental"
			case diff == 0:
				better = "Even"
			}

			return []domain.Result{
				calculator.Currency("STR Annual Revenue", strRevenue),
				calculator.Currency("STR Annual Net", strNet),
				calculator.Currency("LTR Annual Revenue", ltrRevenue),
				calculator.Currency("LTR Annual Net", ltrNet),
				calculator.Currency("Annual Difference", diff),
				calculator.Text("Better Strategy", better),
			}
		},
	},
}
