// Package tools is the calculator catalogue. Each exported Content value is
// one calculator page; All returns them for registration.
package tools

import "propcalc/domain"

func All() []domain.Content {
	return []domain.Content{
		OnePercentRule,
		FiftyPercentRule,
		SeventyPercentRule,
		Mortgage,
		DSCRLoan,
		TransferTax,
		CapRate,
		CashOnCash,
		RentalROI,
		GrossRentMultiplier,
		HouseHacking,
		STRvsLTR,
		LoanTermOptimizer,
		DebtPayoffPlanner,
	}
}
