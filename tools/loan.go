package tools

import (
	"math"

	"propcalc/calculator"
	"propcalc/domain"
)

// amortize computes the level payment schedule for a fixed-rate loan.
// A zero rate pays the principal off in equal instalments.
func amortize(input domain.LoanInput) domain.LoanResult {
	if input.Amount <= 0 || input.TermMonths <= 0 {
		return domain.LoanResult{}
	}

	var payment float64
	if input.InterestRate == 0 {
		payment = input.Amount / float64(input.TermMonths)
	} else {
		monthlyRate := (input.InterestRate / 100) / 12
		n := float64(input.TermMonths)
		payment = input.Amount * (monthlyRate / (1 - math.Pow(1+monthlyRate, -n)))
	}

	total := payment * float64(input.TermMonths)
	return domain.LoanResult{
		MonthlyPayment: calculator.RoundTo2Decimals(payment),
		TotalPayment:   calculator.RoundTo2Decimals(total),
		TotalInterest:  calculator.RoundTo2Decimals(total - input.Amount),
	}
}

// remainingBalance is the principal left after paid payments.
func remainingBalance(input domain.LoanInput, paid int) float64 {
	if paid >= input.TermMonths {
		return 0
	}
	if input.InterestRate == 0 {
		return input.Amount * (1 - float64(paid)/float64(input.TermMonths))
	}
	r := (input.InterestRate / 100) / 12
	n := float64(input.TermMonths)
	k := float64(paid)
	return input.Amount * (math.Pow(1+r, n) - math.Pow(1+r, k)) / (math.Pow(1+r, n) - 1)
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
