package tools

import (
	"fmt"
	"sort"

	"propcalc/calculator"
	"propcalc/domain"
)

const debtSlots = 3

// simulatePayoff pays every debt's minimum each month and sends what is left
// of the budget to the first open debt in strategy order.
func simulatePayoff(input domain.DebtPayoffInput, strategy domain.DebtStrategy) domain.StrategyResult {
	debts := make([]domain.Debt, len(input.Debts))
	copy(debts, input.Debts)

	if strategy == domain.StrategySnowball {
		sort.SliceStable(debts, func(i, j int) bool {
			return debts[i].Amount < debts[j].Amount
		})
	} else {
		sort.SliceStable(debts, func(i, j int) bool {
			return debts[i].InterestRate > debts[j].InterestRate
		})
	}

	balances := make([]float64, len(debts))
	for i, d := range debts {
		balances[i] = d.Amount
	}

	result := domain.StrategyResult{Strategy: strategy}
	totalInterest := 0.0
	month := 0

	for !allPaid(balances) {
		if month >= MaxDebtPayoffMonths {
			result.Capped = true
			break
		}
		month++
		available := input.AvailableMonthlyPayment

		for i, d := range debts {
			if balances[i] <= 0 {
				continue
			}
			interest := balances[i] * (d.InterestRate / 100) / 12
			totalInterest += interest

			payment := max(d.MinimumPayment, interest)
			payment = min(payment, balances[i]+interest, available)
			if payment <= 0 {
				balances[i] += interest
				continue
			}

			balances[i] -= payment - interest
			if balances[i] < 0 {
				balances[i] = 0
			}
			available -= payment
		}

		for i := range debts {
			if available <= 0 {
				break
			}
			if balances[i] <= 0 {
				continue
			}
			extra := min(available, balances[i])
			balances[i] -= extra
			available -= extra
		}
	}

	result.TotalInterestPaid = calculator.RoundTo2Decimals(totalInterest)
	result.MonthsToPayoff = month
	return result
}

func allPaid(balances []float64) bool {
	for _, b := range balances {
		if b > DebtBalanceTolerance {
			return false
		}
	}
	return true
}

func debtInput(v domain.Values) domain.DebtPayoffInput {
	input := domain.DebtPayoffInput{AvailableMonthlyPayment: v.Number("monthlyBudget")}
	for i := 1; i <= debtSlots; i++ {
		amount := v.Number(fmt.Sprintf("debt%dBalance", i))
		if amount <= 0 {
			continue
		}
		input.Debts = append(input.Debts, domain.Debt{
			Name:           fmt.Sprintf("Debt %d", i),
			Amount:         amount,
			InterestRate:   v.Number(fmt.Sprintf("debt%dRate", i)),
			MinimumPayment: v.Number(fmt.Sprintf("debt%dMinimum", i)),
		})
	}
	return input
}

// checkPayoffInput returns a message when the plan cannot make progress.
func checkPayoffInput(input domain.DebtPayoffInput) string {
	if len(input.Debts) == 0 {
		return "Enter at least one debt balance"
	}
	totalMinimum := 0.0
	for _, d := range input.Debts {
		monthlyInterest := d.Amount * (d.InterestRate / 100) / 12
		if d.MinimumPayment < monthlyInterest {
			return fmt.Sprintf("%s minimum payment does not cover its monthly interest of $%.2f", d.Name, monthlyInterest)
		}
		totalMinimum += d.MinimumPayment
	}
	if totalMinimum > input.AvailableMonthlyPayment {
		return "Monthly budget does not cover the minimum payments"
	}
	return ""
}

func debtFields() []domain.FieldSpec {
	defaults := [debtSlots][3]float64{
		{3500, 6.9, 100},
		{9000, 24.9, 250},
		{15000, 5.9, 290},
	}
	fields := make([]domain.FieldSpec, 0, debtSlots*3+1)
	for i := 1; i <= debtSlots; i++ {
		d := defaults[i-1]
		fields = append(fields,
			domain.FieldSpec{
				Name: fmt.Sprintf("debt%dBalance", i), Label: fmt.Sprintf("Debt %d Balance", i),
				Type: domain.FieldNumber, DefaultValue: d[0], Min: nonNegative, Max: calculator.Bound(MaxDebtAmount),
			},
			percentField(fmt.Sprintf("debt%dRate", i), fmt.Sprintf("Debt %d Interest Rate (%%)", i), d[1], MaxInterestRate),
			money(fmt.Sprintf("debt%dMinimum", i), fmt.Sprintf("Debt %d Minimum Payment", i), d[2]),
		)
	}
	return append(fields, money("monthlyBudget", "Total Monthly Budget", 800))
}

var DebtPayoffPlanner = domain.Content{
	Title:       "Debt Payoff Planner: Snowball vs Avalanche",
	Description: "See how long it takes to clear your debts and how much interest each payoff order costs.",
	Slug:        "debt-payoff-planner",
	Category:    CategoryDebt,
	Article: `Snowball pays the smallest balance first for quick wins. Avalanche pays the
highest rate first and never costs more interest. Leave a balance at 0 to
skip that slot.`,
	Calculator: domain.Calculator{
		Fields: debtFields(),
		Results: []domain.ResultSpec{
			{Label: "Total Debt", Format: domain.FormatCurrency},
			{Label: "Snowball Months to Payoff", Format: domain.FormatInteger},
			{Label: "Snowball Total Interest", Format: domain.FormatCurrency},
			{Label: "Avalanche Months to Payoff", Format: domain.FormatInteger},
			{Label: "Avalanche Total Interest", Format: domain.FormatCurrency},
			{Label: "Interest Saved with Avalanche", Format: domain.FormatCurrency},
			{Label: "Recommended Strategy", Format: domain.FormatText},
		},
		Calculate: func(v domain.Values) []domain.Result {
			input := debtInput(v)
			total := 0.0
			for _, d := range input.Debts {
				total += d.Amount
			}

			var snowball, avalanche domain.StrategyResult
			recommendation := checkPayoffInput(input)
			if recommendation == "" {
				snowball = simulatePayoff(input, domain.StrategySnowball)
				avalanche = simulatePayoff(input, domain.StrategyAvalanche)
				switch {
				case snowball.Capped || avalanche.Capped:
					recommendation = fmt.Sprintf("Not paid off within %d months", MaxDebtPayoffMonths)
				case avalanche.TotalInterestPaid < snowball.TotalInterestPaid:
					recommendation = "Avalanche"
				default:
					recommendation = "Snowball"
				}
			}

			return []domain.Result{
				calculator.Currency("Total Debt", total),
				calculator.Integer("Snowball Months to Payoff", snowball.MonthsToPayoff),
				calculator.Currency("Snowball Total Interest", snowball.TotalInterestPaid),
				calculator.Integer("Avalanche Months to Payoff", avalanche.MonthsToPayoff),
				calculator.Currency("Avalanche Total Interest", avalanche.TotalInterestPaid),
				calculator.Currency("Interest Saved with Avalanche", max(0, snowball.TotalInterestPaid-avalanche.TotalInterestPaid)),
				calculator.Text("Recommended Strategy", recommendation),
			}
		},
	},
}
