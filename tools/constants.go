package tools

const (
	MaxLoanAmount       = 1_000_000_000.0
	MaxInterestRate     = 100.0
	MaxTermMonths       = 600
	MinTermMonths       = 1
	MaxDebtAmount       = 100_000_000.0
	MaxDebtPayoffMonths = 600
	// balance below which a debt counts as paid
	DebtBalanceTolerance = 0.01
	MaxTermRangeMonths   = 120

	MinCreditScore     = 300
	MaxCreditScore     = 850
	DefaultCreditScore = 650
)

const (
	CategoryRules      = "Investing Rules of Thumb"
	CategoryMortgage   = "Mortgage & Financing"
	CategoryInvestment = "Investment Analysis"
	CategoryTaxes      = "Taxes & Closing Costs"
	CategoryStrategy   = "Rental Strategy"
	CategoryDebt       = "Debt & Loans"
)
