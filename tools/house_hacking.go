package tools

import (
	"strconv"

	"propcalc/calculator"
	"propcalc/domain"
)

var HouseHacking = domain.Content{
	Title:       "House Hacking Calculator",
	Description: "Live in one unit of a small multifamily and let the other units pay the mortgage.",
	Slug:        "house-hacking",
	Category:    CategoryStrategy,
	Article: `House hacking works best with owner-occupant financing such as a 3.5% down
FHA loan. The effective housing cost is what you still pay each month after
rent from the other units.`,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("purchasePrice", "Purchase Price", 450000),
			percentField("downPaymentPercent", "Down Payment (%)", 3.5, 100),
			percentField("interestRate", "Interest Rate (%)", 6.75, MaxInterestRate),
			loanTermField,
			{
				Name: "units", Label: "Total Units", Type: domain.FieldSelect, DefaultValue: "2",
				Options: []domain.Option{
					{Value: "2", Label: "Duplex"},
					{Value: "3", Label: "Triplex"},
					{Value: "4", Label: "Fourplex"},
				},
			},
			money("rentPerUnit", "Rent per Rented Unit", 1600),
			money("monthlyTaxInsurance", "Taxes & Insurance ($/mo)", 600),
			money("monthlyMaintenance", "Maintenance & Reserves ($/mo)", 250),
			money("comparableRent", "What You Would Pay to Rent", 1800),
		},
		Results: []domain.ResultSpec{
			{Label: "Monthly Principal & Interest", Format: domain.FormatCurrency},
			{Label: "Total Monthly Cost", Format: domain.FormatCurrency},
			{Label: "Rental Income", Format: domain.FormatCurrency},
			{Label: "Effective Housing Cost", Format: domain.FormatCurrency},
			{Label: "Monthly Savings vs Renting", Format: domain.FormatCurrency},
			{Label: "Lives for Free?", Format: domain.FormatText},
		},
		Calculate: func(v domain.Values) []domain.Result {
			price := v.Number("purchasePrice")
			loan := amortize(domain.LoanInput{
				Amount:       price * (1 - v.Number("downPaymentPercent")/100),
				InterestRate: v.Number("interestRate"),
				TermMonths:   termMonths(v),
			})

			units, err := strconv.Atoi(v.Text("units"))
			if err != nil || units < 2 {
				units = 2
			}
			income := float64(units-1) * v.Number("rentPerUnit")
			cost := loan.MonthlyPayment + v.Number("monthlyTaxInsurance") + v.Number("monthlyMaintenance")
			effective := cost - income

			return []domain.Result{
				calculator.Currency("Monthly Principal & Interest", loan.MonthlyPayment),
				calculator.Currency("Total Monthly Cost", cost),
				calculator.Currency("Rental Income", income),
				calculator.Currency("Effective Housing Cost", effective),
				calculator.Currency("Monthly Savings vs Renting", v.Number("comparableRent")-effective),
				calculator.YesNo("Lives for Free?", effective <= 0),
			}
		},
	},
}
