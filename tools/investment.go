package tools

import (
	"math"

	"propcalc/calculator"
	"propcalc/domain"
)

var CapRate = domain.Content{
	Title:       "Cap Rate Calculator",
	Description: "Net operating income divided by property value, after vacancy and operating costs.",
	Slug:        "cap-rate",
	Category:    CategoryInvestment,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("propertyValue", "Property Value", 500000),
			money("monthlyRent", "Monthly Rent (all units)", 4000),
			percentField("vacancyRate", "Vacancy Rate (%)", 5, 100),
			money("annualOperatingExpenses", "Annual Operating Expenses", 15000),
		},
		Results: []domain.ResultSpec{
			{Label: "Gross Annual Income", Format: domain.FormatCurrency},
			{Label: "Effective Gross Income", Format: domain.FormatCurrency},
			{Label: "Net Operating Income", Format: domain.FormatCurrency},
			{Label: "Cap Rate", Format: domain.FormatPercent},
		},
		Calculate: func(v domain.Values) []domain.Result {
			gross := v.Number("monthlyRent") * 12
			egi := gross * (1 - v.Number("vacancyRate")/100)
			noi := egi - v.Number("annualOperatingExpenses")

			return []domain.Result{
				calculator.Currency("Gross Annual Income", gross),
				calculator.Currency("Effective Gross Income", egi),
				calculator.Currency("Net Operating Income", noi),
				calculator.Percent("Cap Rate", safeDiv(noi, v.Number("propertyValue"))*100),
			}
		},
	},
}

var CashOnCash = domain.Content{
	Title:       "Cash-on-Cash Return Calculator",
	Description: "Annual pre-tax cash flow as a percentage of the cash you put in.",
	Slug:        "cash-on-cash-return",
	Category:    CategoryInvestment,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("purchasePrice", "Purchase Price", 250000),
			percentField("downPaymentPercent", "Down Payment (%)", 25, 100),
			money("closingCosts", "Closing Costs", 7500),
			money("rehabCosts", "Rehab Costs", 10000),
			percentField("interestRate", "Interest Rate (%)", 7, MaxInterestRate),
			loanTermField,
			money("monthlyRent", "Monthly Rent", 2200),
			money("monthlyExpenses", "Monthly Operating Expenses", 600),
		},
		Results: []domain.ResultSpec{
			{Label: "Total Cash Invested", Format: domain.FormatCurrency},
			{Label: "Monthly Mortgage Payment", Format: domain.FormatCurrency},
			{Label: "Annual Cash Flow", Format: domain.FormatCurrency},
			{Label: "Cash-on-Cash Return", Format: domain.FormatPercent},
		},
		Calculate: func(v domain.Values) []domain.Result {
			price := v.Number("purchasePrice")
			down := price * v.Number("downPaymentPercent") / 100
			invested := down + v.Number("closingCosts") + v.Number("rehabCosts")

			loan := amortize(domain.LoanInput{
				Amount:       price - down,
				InterestRate: v.Number("interestRate"),
				TermMonths:   termMonths(v),
			})
			cashFlow := (v.Number("monthlyRent") - v.Number("monthlyExpenses") - loan.MonthlyPayment) * 12

			return []domain.Result{
				calculator.Currency("Total Cash Invested", invested),
				calculator.Currency("Monthly Mortgage Payment", loan.MonthlyPayment),
				calculator.Currency("Annual Cash Flow", cashFlow),
				calculator.Percent("Cash-on-Cash Return", safeDiv(cashFlow, invested)*100),
			}
		},
	},
}

var RentalROI = domain.Content{
	Title:       "Rental Property ROI Calculator",
	Description: "Total and annualized return on an all-cash rental over a holding period.",
	Slug:        "rental-roi",
	Category:    CategoryInvestment,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("purchasePrice", "Purchase Price", 300000),
			money("closingCosts", "Closing Costs", 9000),
			money("rehabCosts", "Rehab Costs", 15000),
			money("annualRent", "Annual Rent", 30000),
			money("annualExpenses", "Annual Expenses", 10000),
			percentField("appreciationRate", "Appreciation (%/yr)", 3, 50),
			{
				Name: "holdingYears", Label: "Holding Period (years)", Type: domain.FieldNumber,
				DefaultValue: 5, Min: calculator.Bound(1), Max: calculator.Bound(50),
			},
		},
		Results: []domain.ResultSpec{
			{Label: "Total Investment", Format: domain.FormatCurrency},
			{Label: "Total Net Rental Income", Format: domain.FormatCurrency},
			{Label: "Projected Sale Value", Format: domain.FormatCurrency},
			{Label: "Total Profit", Format: domain.FormatCurrency},
			{Label: "Total ROI", Format: domain.FormatPercent},
			{Label: "Annualized ROI", Format: domain.FormatPercent},
		},
		Calculate: func(v domain.Values) []domain.Result {
			price := v.Number("purchasePrice")
			years := v.Number("holdingYears")
			investment := price + v.Number("closingCosts") + v.Number("rehabCosts")
			netRent := (v.Number("annualRent") - v.Number("annualExpenses")) * years
			saleValue := price * math.Pow(1+v.Number("appreciationRate")/100, years)
			profit := netRent + saleValue - investment

			totalROI := safeDiv(profit, investment)
			annualized := 0.0
			if years > 0 && totalROI > -1 {
				annualized = math.Pow(1+totalROI, 1/years) - 1
			}

			return []domain.Result{
				calculator.Currency("Total Investment", investment),
				calculator.Currency("Total Net Rental Income", netRent),
				calculator.Currency("Projected Sale Value", saleValue),
				calculator.Currency("Total Profit", profit),
				calculator.Percent("Total ROI", totalROI*100),
				calculator.Percent("Annualized ROI", annualized*100),
			}
		},
	},
}

var GrossRentMultiplier = domain.Content{
	Title:       "Gross Rent Multiplier Calculator",
	Description: "Price divided by gross annual rent, a quick way to compare rentals in one market.",
	Slug:        "gross-rent-multiplier",
	Category:    CategoryInvestment,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			money("propertyPrice", "Property Price", 400000),
			money("monthlyRent", "Monthly Gross Rent", 3500),
		},
		Results: []domain.ResultSpec{
			{Label: "Annual Gross Rent", Format: domain.FormatCurrency},
			{Label: "Gross Rent Multiplier", Format: domain.FormatNumber},
		},
		Calculate: func(v domain.Values) []domain.Result {
			annual := v.Number("monthlyRent") * 12
			return []domain.Result{
				calculator.Currency("Annual Gross Rent", annual),
				calculator.Number("Gross Rent Multiplier", safeDiv(v.Number("propertyPrice"), annual)),
			}
		},
	},
}
