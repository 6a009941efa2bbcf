package domain

type TermPreference string

const (
	PreferMinimizeInterest TermPreference = "minimize_interest"
	PreferMinimizePayment  TermPreference = "minimize_payment"
	PreferBalanced         TermPreference = "balanced"
)

type TermRecommendationInput struct {
	Amount            float64
	InterestRate      float64
	MinTermMonths     int
	MaxTermMonths     int
	MaxMonthlyPayment float64
	Preference        TermPreference
}

type TermRecommendation struct {
	TermMonths     int
	MonthlyPayment float64
	TotalInterest  float64
	Score          float64
}
