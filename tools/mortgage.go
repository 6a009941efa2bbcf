package tools

import (
	"strconv"

	"propcalc/calculator"
	"propcalc/domain"
)

var loanTermField = domain.FieldSpec{
	Name: "loanTermYears", Label: "Loan Term", Type: domain.FieldSelect, DefaultValue: "30",
	Options: []domain.Option{
		{Value: "10", Label: "10 years"},
		{Value: "15", Label: "15 years"},
		{Value: "20", Label: "20 years"},
		{Value: "30", Label: "30 years"},
	},
}

func termMonths(v domain.Values) int {
	years, err := strconv.Atoi(v.Text("loanTermYears"))
	if err != nil {
		return 360
	}
	return years * 12
}

var Mortgage = domain.Content{
	Title:       "Mortgage Calculator",
	Description: "Monthly payment with taxes, insurance, HOA and PMI, plus lifetime interest.",
	Slug:        "mortgage-calculator",
	Category:    CategoryMortgage,
	Article: `Private mortgage insurance is added while the down payment is under 20% of
the home price. Taxes and insurance are spread evenly across twelve months.`,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("homePrice", "Home Price", 400000),
			percentField("downPaymentPercent", "Down Payment (%)", 20, 100),
			percentField("interestRate", "Interest Rate (%)", 6.5, MaxInterestRate),
			loanTermField,
			percentField("propertyTaxRate", "Property Tax Rate (%/yr)", 1.2, 10),
			money("annualInsurance", "Homeowners Insurance ($/yr)", 1500),
			money("monthlyHOA", "HOA Dues ($/mo)", 0),
			percentField("pmiRate", "PMI Rate (%/yr)", 0.5, 5),
		},
		Results: []domain.ResultSpec{
			{Label: "Loan Amount", Format: domain.FormatCurrency},
			{Label: "Principal & Interest", Format: domain.FormatCurrency},
			{Label: "Property Tax", Format: domain.FormatCurrency},
			{Label: "Insurance", Format: domain.FormatCurrency},
			{Label: "PMI", Format: domain.FormatCurrency},
			{Label: "HOA", Format: domain.FormatCurrency},
			{Label: "Total Monthly Payment", Format: domain.FormatCurrency},
			{Label: "Total Interest Paid", Format: domain.FormatCurrency},
			{Label: "Balance After 5 Years", Format: domain.FormatCurrency},
		},
		Calculate: func(v domain.Values) []domain.Result {
			price := v.Number("homePrice")
			downPct := v.Number("downPaymentPercent")
			loanAmount := price * (1 - downPct/100)

			loanInput := domain.LoanInput{
				Amount:       loanAmount,
				InterestRate: v.Number("interestRate"),
				TermMonths:   termMonths(v),
			}
			loan := amortize(loanInput)

			tax := price * v.Number("propertyTaxRate") / 100 / 12
			insurance := v.Number("annualInsurance") / 12
			hoa := v.Number("monthlyHOA")
			pmi := 0.0
			if downPct < 20 {
				pmi = loanAmount * v.Number("pmiRate") / 100 / 12
			}

			return []domain.Result{
				calculator.Currency("Loan Amount", loanAmount),
				calculator.Currency("Principal & Interest", loan.MonthlyPayment),
				calculator.Currency("Property Tax", tax),
				calculator.Currency("Insurance", insurance),
				calculator.Currency("PMI", pmi),
				calculator.Currency("HOA", hoa),
				calculator.Currency("Total Monthly Payment", loan.MonthlyPayment+tax+insurance+pmi+hoa),
				calculator.Currency("Total Interest Paid", loan.TotalInterest),
				calculator.Currency("Balance After 5 Years", remainingBalance(loanInput, 60)),
			}
		},
	},
}
