package tools

import (
	"propcalc/calculator"
	"propcalc/domain"
)

type creditTier struct {
	minScore   float64
	name       string
	adjustment float64
}

// ordered from best to worst
var creditTiers = []creditTier{
	{760, "Excellent", 0},
	{720, "Very Good", 0.25},
	{680, "Good", 0.5},
	{640, "Fair", 1.0},
	{620, "Minimum", 1.75},
}

const minQualifyingScore = 620

func tierFor(score float64) (creditTier, bool) {
	for _, t := range creditTiers {
		if score >= t.minScore {
			return t, true
		}
	}
	return creditTier{name: "Below Minimum"}, false
}

var DSCRLoan = domain.Content{
	Title:       "DSCR Loan Calculator",
	Description: "Debt service coverage ratio and estimated pricing for an investor DSCR loan.",
	Slug:        "dscr-loan",
	Category:    CategoryMortgage,
	Article: `Lenders divide gross monthly rent by the full housing payment (PITIA). Most
programs want at least 1.0 to 1.25 and a credit score of 620 or better.`,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("monthlyRent", "Monthly Rent", 2500),
			money("monthlyPITIA", "Monthly PITIA", 2000),
			{
				Name: "creditScore", Label: "Credit Score", Type: domain.FieldNumber,
				DefaultValue: float64(DefaultCreditScore),
				Min:          calculator.Bound(MinCreditScore), Max: calculator.Bound(MaxCreditScore),
			},
			{
				Name: "minimumDSCR", Label: "Lender Minimum DSCR", Type: domain.FieldNumber,
				DefaultValue: 1.25, Min: nonNegative, Max: calculator.Bound(5),
			},
			percentField("baseRate", "Base Rate (%)", 7.25, MaxInterestRate),
		},
		Results: []domain.ResultSpec{
			{Label: "DSCR", Format: domain.FormatNumber},
			{Label: "Credit Tier", Format: domain.FormatText},
			{Label: "Estimated Rate", Format: domain.FormatPercent},
			{Label: "Qualifies?", Format: domain.FormatText},
		},
		Calculate: func(v domain.Values) []domain.Result {
			dscr := safeDiv(v.Number("monthlyRent"), v.Number("monthlyPITIA"))
			tier, eligible := tierFor(v.Number("creditScore"))

			return []domain.Result{
				calculator.Number("DSCR", dscr),
				calculator.Text("Credit Tier", tier.name),
				calculator.Percent("Estimated Rate", v.Number("baseRate")+tier.adjustment),
				calculator.YesNo("Qualifies?", eligible && v.Number("monthlyPITIA") > 0 && dscr >= v.Number("minimumDSCR")),
			}
		},
	},
}
