package domain

type DebtStrategy string

const (
	StrategySnowball  DebtStrategy = "snowball"
	StrategyAvalanche DebtStrategy = "avalanche"
)

type Debt struct {
	Name           string
	Amount         float64
	InterestRate   float64
	MinimumPayment float64
}

type DebtPayoffInput struct {
	Debts                   []Debt
	AvailableMonthlyPayment float64
}

type StrategyResult struct {
	Strategy          DebtStrategy
	TotalInterestPaid float64
	MonthsToPayoff    int
	// Capped is set when the simulation stopped at the month limit with
	// balances still outstanding.
	Capped bool
}
