package tools

import (
	"fmt"
	"sort"

	"propcalc/calculator"
	"propcalc/domain"
)

// recommendTerms evaluates every term in the input range that fits under the
// payment ceiling and returns them best score first.
func recommendTerms(input domain.TermRecommendationInput) []domain.TermRecommendation {
	recommendations := []domain.TermRecommendation{}

	for term := input.MinTermMonths; term <= input.MaxTermMonths; term++ {
		result := amortize(domain.LoanInput{
			Amount:       input.Amount,
			InterestRate: input.InterestRate,
			TermMonths:   term,
		})
		if result.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths:     term,
			MonthlyPayment: result.MonthlyPayment,
			TotalInterest:  result.TotalInterest,
			Score:          termScore(result, input, term),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	return recommendations
}

// termScore weighs interest, payment and term length on a 0-10 scale each.
func termScore(result domain.LoanResult, input domain.TermRecommendationInput, term int) float64 {
	maxPossibleInterest := input.Amount * (input.InterestRate / 100) * float64(input.MaxTermMonths) / 12
	minPossibleInterest := input.Amount * (input.InterestRate / 100) * float64(input.MinTermMonths) / 12
	interestRange := maxPossibleInterest - minPossibleInterest

	floorPayment := input.Amount / float64(input.MaxTermMonths)
	paymentRange := input.MaxMonthlyPayment - floorPayment

	var interestScore, paymentScore, lengthScore float64
	if interestRange > 0 {
		interestScore = 10.0 * (1.0 - (result.TotalInterest-minPossibleInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10.0 * (1.0 - (result.MonthlyPayment-floorPayment)/paymentRange)
	}
	if span := input.MaxTermMonths - input.MinTermMonths; span > 0 {
		lengthScore = 10.0 * (1.0 - float64(term-input.MinTermMonths)/float64(span))
	}

	var score float64
	switch input.Preference {
	case domain.PreferMinimizeInterest:
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*lengthScore
	case domain.PreferMinimizePayment:
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*lengthScore
	default:
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*lengthScore
	}
	return calculator.RoundTo2Decimals(score)
}

// termInput normalizes the term range and reports whether it was cut down to
// MaxTermRangeMonths.
func termInput(v domain.Values) (domain.TermRecommendationInput, bool) {
	minTerm := max(v.Int("minTermMonths"), MinTermMonths)
	maxTerm := max(v.Int("maxTermMonths"), MinTermMonths)
	if minTerm > maxTerm {
		minTerm, maxTerm = maxTerm, minTerm
	}
	truncated := maxTerm-minTerm > MaxTermRangeMonths
	if truncated {
		maxTerm = minTerm + MaxTermRangeMonths
	}
	return domain.TermRecommendationInput{
		Amount:            v.Number("amount"),
		InterestRate:      v.Number("interestRate"),
		MinTermMonths:     minTerm,
		MaxTermMonths:     maxTerm,
		MaxMonthlyPayment: v.Number("maxMonthlyPayment"),
		Preference:        domain.TermPreference(v.Text("preference")),
	}, truncated
}

var termBound = calculator.Bound(MinTermMonths)

var LoanTermOptimizer = domain.Content{
	Title:       "Loan Term Optimizer",
	Description: "Find the loan term that best fits your budget and goal: lowest interest, lowest payment or a balance.",
	Slug:        "loan-term-optimizer",
	Category:    CategoryDebt,
	Article: `Every term between the minimum and maximum is scored on total interest,
monthly payment and length. Terms whose payment exceeds your ceiling are
skipped. At most ten years of terms are compared at once.`,
	Calculator: domain.Calculator{
		Fields: []domain.FieldSpec{
			{
				Name: "amount", Label: "Loan Amount", Type: domain.FieldNumber, DefaultValue: 25000.0,
				Min: nonNegative, Max: calculator.Bound(MaxLoanAmount),
			},
			percentField("interestRate", "Interest Rate (%)", 9, MaxInterestRate),
			{
				Name: "minTermMonths", Label: "Shortest Term (months)", Type: domain.FieldNumber,
				DefaultValue: 12, Min: termBound, Max: calculator.Bound(MaxTermMonths),
			},
			{
				Name: "maxTermMonths", Label: "Longest Term (months)", Type: domain.FieldNumber,
				DefaultValue: 72, Min: termBound, Max: calculator.Bound(MaxTermMonths),
			},
			money("maxMonthlyPayment", "Maximum Monthly Payment", 800),
			{
				Name: "preference", Label: "Goal", Type: domain.FieldSelect, DefaultValue: string(domain.PreferBalanced),
				Options: []domain.Option{
					{Value: string(domain.PreferMinimizeInterest), Label: "Pay the least interest"},
					{Value: string(domain.PreferMinimizePayment), Label: "Lowest monthly payment"},
					{Value: string(domain.PreferBalanced), Label: "Balanced"},
				},
			},
		},
		Results: []domain.ResultSpec{
			{Label: "Recommended Term (months)", Format: domain.FormatInteger},
			{Label: "Monthly Payment", Format: domain.FormatCurrency},
			{Label: "Total Interest", Format: domain.FormatCurrency},
			{Label: "Score", Format: domain.FormatNumber},
			{Label: "Terms Within Budget", Format: domain.FormatInteger},
			{Label: "Status", Format: domain.FormatText},
		},
		Calculate: func(v domain.Values) []domain.Result {
			input, truncated := termInput(v)
			recs := recommendTerms(input)

			var best domain.TermRecommendation
			status := "No term fits the maximum monthly payment"
			if len(recs) > 0 {
				best = recs[0]
				status = "OK"
			}
			if truncated {
				status += fmt.Sprintf(" (only terms %d-%d months compared)", input.MinTermMonths, input.MaxTermMonths)
			}

			return []domain.Result{
				calculator.Integer("Recommended Term (months)", best.TermMonths),
				calculator.Currency("Monthly Payment", best.MonthlyPayment),
				calculator.Currency("Total Interest", best.TotalInterest),
				calculator.Number("Score", best.Score),
				calculator.Integer("Terms Within Budget", len(recs)),
				calculator.Text("Status", status),
			}
		},
	},
}
