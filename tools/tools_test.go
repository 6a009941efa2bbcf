package tools

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propcalc/calculator"
	"propcalc/domain"
)

func run(t *testing.T, c domain.Content, raw map[string]any) map[string]domain.Result {
	t.Helper()
	_, results, _, err := calculator.Run(c, raw)
	require.NoError(t, err)

	byLabel := make(map[string]domain.Result, len(results))
	for _, r := range results {
		byLabel[r.Label] = r
	}
	return byLabel
}

func TestAll_RegistersCleanly(t *testing.T) {
	r, err := calculator.NewRegistryFrom(All()...)
	require.NoError(t, err)
	assert.Equal(t, len(All()), r.Len())
}

func TestAll_ResultsMatchSpecsWithDefaults(t *testing.T) {
	for _, c := range All() {
		t.Run(c.Slug, func(t *testing.T) {
			_, results, warnings, err := calculator.Run(c, nil)
			require.NoError(t, err)
			assert.Empty(t, warnings)
			assert.Len(t, results, len(c.Calculator.Results))
		})
	}
}

func TestAll_Idempotent(t *testing.T) {
	for _, c := range All() {
		t.Run(c.Slug, func(t *testing.T) {
			values, _ := calculator.Coerce(c.Calculator.Fields, nil)
			first := c.Calculator.Calculate(values)
			second := c.Calculator.Calculate(values)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("calculate not idempotent (-first +second):\n%s", diff)
			}
		})
	}
}

func TestAll_NonNumericInputTreatedAsZero(t *testing.T) {
	for _, c := range All() {
		t.Run(c.Slug, func(t *testing.T) {
			garbage := map[string]any{}
			zeros, _ := calculator.Coerce(c.Calculator.Fields, nil)
			numberFields := 0
			for _, f := range c.Calculator.Fields {
				if f.Type == domain.FieldNumber {
					garbage[f.Name] = "not a number"
					zeros[f.Name] = 0.0
					numberFields++
				}
			}

			values, got, warnings, err := calculator.Run(c, garbage)
			require.NoError(t, err)
			assert.Len(t, warnings, numberFields)
			want, err := calculator.Evaluate(c, zeros)
			require.NoError(t, err)

			if diff := cmp.Diff(zeros, values); diff != "" {
				t.Errorf("non-numeric input not coerced to zero (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("non-numeric input differs from zero (-zero +garbage):\n%s", diff)
			}
			for _, r := range got {
				assert.False(t, math.IsNaN(r.Value) || math.IsInf(r.Value, 0), "%s is %v", r.Label, r.Value)
			}
		})
	}
}

func TestRentalROI_NonNumericHoldingYears(t *testing.T) {
	res := run(t, RentalROI, map[string]any{"holdingYears": "five"})
	assert.Equal(t, 0.0, res["Total Net Rental Income"].Value)
	assert.Equal(t, 0.0, res["Annualized ROI"].Value)
}

func TestOnePercentRule(t *testing.T) {
	res := run(t, OnePercentRule, map[string]any{"purchasePrice": 200000, "monthlyRent": 2000})
	assert.Equal(t, "2000.00", res["1% Threshold"].String())
	assert.True(t, res["1% Threshold"].IsCurrency())
	assert.Equal(t, "✅ Yes", res["Meets 1% Rule?"].String())
	assert.Equal(t, "1.00", res["Rent-to-Price Ratio"].String())

	res = run(t, OnePercentRule, map[string]any{"purchasePrice": 200000, "monthlyRent": 1500})
	assert.Equal(t, "❌ No", res["Meets 1% Rule?"].String())
}

func TestSeventyPercentRule(t *testing.T) {
	res := run(t, SeventyPercentRule, map[string]any{"afterRepairValue": 300000, "repairCosts": 40000})
	assert.Equal(t, "170000.00", res["Maximum Purchase Price"].String())
	assert.Equal(t, "210000.00", res["70% of ARV"].String())
}

func TestFiftyPercentRule(t *testing.T) {
	res := run(t, FiftyPercentRule, map[string]any{"monthlyRent": 3000, "monthlyMortgage": 1200})
	assert.Equal(t, 1500.0, res["Net Operating Income"].Value)
	assert.Equal(t, 300.0, res["Monthly Cash Flow"].Value)
	assert.Equal(t, "✅ Yes", res["Cash Flow Positive?"].Text)
}

func TestMortgage(t *testing.T) {
	res := run(t, Mortgage, map[string]any{
		"homePrice":          250000,
		"downPaymentPercent": 20,
		"interestRate":       6,
		"loanTermYears":      "30",
		"propertyTaxRate":    1.2,
		"annualInsurance":    1200,
		"monthlyHOA":         50,
	})
	assert.Equal(t, 200000.0, res["Loan Amount"].Value)
	assert.Equal(t, 1199.10, res["Principal & Interest"].Value)
	assert.Equal(t, 250.0, res["Property Tax"].Value)
	assert.Equal(t, 100.0, res["Insurance"].Value)
	assert.Equal(t, 0.0, res["PMI"].Value)
	assert.Equal(t, 1599.10, res["Total Monthly Payment"].Value)
	assert.InDelta(t, 186108.71, res["Balance After 5 Years"].Value, 0.01)
}

func TestMortgage_PMIBelowTwentyPercentDown(t *testing.T) {
	res := run(t, Mortgage, map[string]any{"homePrice": 300000, "downPaymentPercent": 10, "pmiRate": 0.6})
	assert.Equal(t, 135.0, res["PMI"].Value)
}

func TestAmortize(t *testing.T) {
	got := amortize(domain.LoanInput{Amount: 1200, InterestRate: 0, TermMonths: 12})
	assert.Equal(t, 100.0, got.MonthlyPayment)
	assert.Equal(t, 0.0, got.TotalInterest)

	got = amortize(domain.LoanInput{Amount: 10000, InterestRate: 12, TermMonths: 24})
	assert.Equal(t, 470.73, got.MonthlyPayment)

	assert.Equal(t, domain.LoanResult{}, amortize(domain.LoanInput{Amount: 1000, TermMonths: 0}))
	assert.InDelta(t, 0, remainingBalance(domain.LoanInput{Amount: 10000, InterestRate: 12, TermMonths: 24}, 24), 1e-9)
	assert.InDelta(t, 5000, remainingBalance(domain.LoanInput{Amount: 10000, TermMonths: 24}, 12), 1e-9)
}

func TestTransferTax(t *testing.T) {
	tests := []struct {
		jurisdiction string
		price        float64
		want         float64
	}{
		{"CA", 500000, 550},
		{"CA", 500001, 551.10},
		{"DE", 400000, 16000},
		{"NY", 900000, 3600},
		{"NY", 1000000, 14000},
		{"WA", 500000, 5500},
		{"WA", 1000000, 11855},
		{"TX", 750000, 0},
	}
	for _, tt := range tests {
		res := run(t, TransferTax, map[string]any{"salePrice": tt.price, "jurisdiction": tt.jurisdiction})
		assert.InDelta(t, tt.want, res["Transfer Tax"].Value, 0.005, "%s %.0f", tt.jurisdiction, tt.price)
	}
}

func TestTransferTax_Split(t *testing.T) {
	res := run(t, TransferTax, map[string]any{"salePrice": 400000, "jurisdiction": "DE", "sellerSharePercent": 50})
	assert.Equal(t, 8000.0, res["Seller Pays"].Value)
	assert.Equal(t, 8000.0, res["Buyer Pays"].Value)
	assert.Equal(t, 4.0, res["Effective Rate"].Value)
}

func TestCapRate(t *testing.T) {
	res := run(t, CapRate, map[string]any{
		"propertyValue": 500000, "monthlyRent": 4000, "vacancyRate": 5, "annualOperatingExpenses": 15600,
	})
	assert.Equal(t, 45600.0, res["Effective Gross Income"].Value)
	assert.Equal(t, 30000.0, res["Net Operating Income"].Value)
	assert.Equal(t, 6.0, res["Cap Rate"].Value)
}

func TestRentalROI(t *testing.T) {
	res := run(t, RentalROI, map[string]any{
		"purchasePrice": 100000, "closingCosts": 0, "rehabCosts": 0,
		"annualRent": 10000, "annualExpenses": 0, "appreciationRate": 0, "holdingYears": 1,
	})
	assert.Equal(t, 10000.0, res["Total Profit"].Value)
	assert.Equal(t, 10.0, res["Total ROI"].Value)
	assert.Equal(t, 10.0, res["Annualized ROI"].Value)
}

func TestGrossRentMultiplier(t *testing.T) {
	res := run(t, GrossRentMultiplier, map[string]any{"propertyPrice": 420000, "monthlyRent": 3500})
	assert.Equal(t, 10.0, res["Gross Rent Multiplier"].Value)
}

func TestHouseHacking(t *testing.T) {
	res := run(t, HouseHacking, map[string]any{
		"purchasePrice": 240000, "downPaymentPercent": 0, "interestRate": 0, "loanTermYears": "20",
		"units": "3", "rentPerUnit": 900, "monthlyTaxInsurance": 0, "monthlyMaintenance": 0, "comparableRent": 1000,
	})
	assert.Equal(t, 1000.0, res["Monthly Principal & Interest"].Value)
	assert.Equal(t, 1800.0, res["Rental Income"].Value)
	assert.Equal(t, -800.0, res["Effective Housing Cost"].Value)
	assert.Equal(t, "✅ Yes", res["Lives for Free?"].Text)
}

func TestDSCRLoan_CreditScoreBounds(t *testing.T) {
	_, results, warnings, err := calculator.Run(DSCRLoan, map[string]any{"creditScore": "abc"})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "creditScore", warnings[0].Field)
	assert.Equal(t, "Credit Score is not a number, using 0", warnings[0].Message)
	assert.Equal(t, "Below Minimum", results[1].Text)
	assert.Equal(t, "❌ No", results[3].Text)

	res := run(t, DSCRLoan, map[string]any{"monthlyRent": 2600, "monthlyPITIA": 2000, "creditScore": 765})
	assert.Equal(t, 1.3, res["DSCR"].Value)
	assert.Equal(t, "Excellent", res["Credit Tier"].Text)
	assert.Equal(t, 7.25, res["Estimated Rate"].Value)
	assert.Equal(t, "✅ Yes", res["Qualifies?"].Text)
}

func TestSTRvsLTR(t *testing.T) {
	res := run(t, STRvsLTR, map[string]any{
		"nightlyRate": 100, "occupancyRate": 100, "averageStayNights": 5, "cleaningCostPerStay": 50,
		"strExpensePercent": 0, "monthlyRent": 2000, "ltrVacancyRate": 0, "ltrExpensePercent": 0,
	})
	assert.Equal(t, 36500.0, res["STR Annual Revenue"].Value)
	assert.Equal(t, 32850.0, res["STR Annual Net"].Value)
	assert.Equal(t, 24000.0, res["LTR Annual Net"].Value)
	assert.Equal(t, "Short-term rental", res["Better Strategy"].Text)
}

func TestLoanTermOptimizer(t *testing.T) {
	res := run(t, LoanTermOptimizer, map[string]any{
		"amount": 12000, "interestRate": 0, "minTermMonths": 12, "maxTermMonths": 24,
		"maxMonthlyPayment": 600, "preference": "minimize_payment",
	})
	assert.Equal(t, "OK", res["Status"].Text)
	assert.Equal(t, 5.0, res["Terms Within Budget"].Value)
	assert.Equal(t, 24.0, res["Recommended Term (months)"].Value)
	assert.Equal(t, 500.0, res["Monthly Payment"].Value)

	res = run(t, LoanTermOptimizer, map[string]any{"amount": 100000, "maxMonthlyPayment": 10})
	assert.Equal(t, 0.0, res["Terms Within Budget"].Value)
	assert.NotEqual(t, "OK", res["Status"].Text)
}

func TestLoanTermOptimizer_SwapsReversedRange(t *testing.T) {
	v := domain.Values{"minTermMonths": 60.0, "maxTermMonths": 12.0}
	in, truncated := termInput(v)
	assert.Equal(t, 12, in.MinTermMonths)
	assert.Equal(t, 60, in.MaxTermMonths)
	assert.False(t, truncated)
}

func TestLoanTermOptimizer_ZeroTermsFloored(t *testing.T) {
	in, _ := termInput(domain.Values{"minTermMonths": 0.0, "maxTermMonths": 0.0})
	assert.Equal(t, MinTermMonths, in.MinTermMonths)
	assert.Equal(t, MinTermMonths, in.MaxTermMonths)
}

func TestLoanTermOptimizer_WideRangeReported(t *testing.T) {
	res := run(t, LoanTermOptimizer, map[string]any{
		"amount": 12000, "interestRate": 0, "minTermMonths": 12, "maxTermMonths": 360,
		"maxMonthlyPayment": 2000,
	})
	assert.Equal(t, "OK (only terms 12-132 months compared)", res["Status"].Text)

	res = run(t, LoanTermOptimizer, map[string]any{
		"amount": 12000, "minTermMonths": 12, "maxTermMonths": 360, "maxMonthlyPayment": 1,
	})
	assert.Equal(t, "No term fits the maximum monthly payment (only terms 12-132 months compared)", res["Status"].Text)
}

func TestDebtPayoffPlanner(t *testing.T) {
	res := run(t, DebtPayoffPlanner, nil)
	assert.Equal(t, 27500.0, res["Total Debt"].Value)
	assert.Equal(t, "Avalanche", res["Recommended Strategy"].Text)
	assert.GreaterOrEqual(t, res["Snowball Total Interest"].Value, res["Avalanche Total Interest"].Value)
	assert.Positive(t, res["Avalanche Months to Payoff"].Value)

	res = run(t, DebtPayoffPlanner, map[string]any{"monthlyBudget": 100})
	assert.Equal(t, "Monthly budget does not cover the minimum payments", res["Recommended Strategy"].Text)
	assert.Equal(t, 0.0, res["Snowball Months to Payoff"].Value)
}

func TestSimulatePayoff_ZeroInterest(t *testing.T) {
	input := domain.DebtPayoffInput{
		Debts: []domain.Debt{
			{Name: "a", Amount: 1000, MinimumPayment: 100},
			{Name: "b", Amount: 500, MinimumPayment: 100},
		},
		AvailableMonthlyPayment: 300,
	}
	got := simulatePayoff(input, domain.StrategySnowball)
	assert.Equal(t, 5, got.MonthsToPayoff)
	assert.Equal(t, 0.0, got.TotalInterestPaid)
	assert.False(t, got.Capped)
}
