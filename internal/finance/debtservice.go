package finance

import (
	"math"

	"rentfolio/internal/models"
)

// MonthlyPayment computes the standard amortization payment for a loan:
// P x (r(1+r)^n) / ((1+r)^n - 1) with r the monthly rate and n the term
// in months. Loans with no balance, a zero rate or a zero term contribute
// nothing rather than dividing by zero.
func MonthlyPayment(balance, annualRate float64, termMonths int) float64 {
	if balance <= 0 || annualRate <= 0 || termMonths <= 0 {
		return 0
	}
	r := annualRate / 12
	factor := math.Pow(1+r, float64(termMonths))
	payment := balance * (r * factor) / (factor - 1)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0
	}
	return payment
}

// TotalDebtService sums the monthly amortization payment across a
// property's active loans.
func TotalDebtService(loans []*models.Loan) float64 {
	total := 0.0
	for _, l := range loans {
		if !l.IsActive() {
			continue
		}
		total += MonthlyPayment(l.CurrentBalance, l.InterestRate, l.TermMonths)
	}
	return total
}

// PrimaryLoan returns the loan used for primary-loan displays: the first
// active loan flagged primary, falling back to the first active loan.
// Callers receive nil when the property carries no active debt.
func PrimaryLoan(loans []*models.Loan) *models.Loan {
	var firstActive *models.Loan
	for _, l := range loans {
		if !l.IsActive() {
			continue
		}
		if l.IsActivePrimary() {
			return l
		}
		if firstActive == nil {
			firstActive = l
		}
	}
	return firstActive
}
