package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"rentfolio/internal/models"
)

func TestMonthlyPayment_StandardAmortization(t *testing.T) {
	// $200,000 at 6% over 360 months ~ $1,199.10.
	got := MonthlyPayment(200000, 0.06, 360)
	assert.InDelta(t, 1199.10, got, 0.01)
}

func TestMonthlyPayment_ZeroGuards(t *testing.T) {
	tests := []struct {
		name    string
		balance float64
		rate    float64
		term    int
	}{
		{"zero rate", 200000, 0, 360},
		{"zero term", 200000, 0.06, 0},
		{"zero balance", 0, 0.06, 360},
		{"negative balance", -100, 0.06, 360},
		{"negative rate", 200000, -0.01, 360},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MonthlyPayment(tc.balance, tc.rate, tc.term)
			assert.Equal(t, 0.0, got)
			assert.False(t, math.IsNaN(got))
			assert.False(t, math.IsInf(got, 0))
		})
	}
}

func TestTotalDebtService_SumsActiveLoansOnly(t *testing.T) {
	loans := []*models.Loan{
		{Status: models.LoanStatusActive, CurrentBalance: 200000, InterestRate: 0.06, TermMonths: 360},
		{Status: models.LoanStatusActive, CurrentBalance: 50000, InterestRate: 0.08, TermMonths: 120},
		{Status: models.LoanStatusPaidOff, CurrentBalance: 100000, InterestRate: 0.05, TermMonths: 360},
	}

	want := MonthlyPayment(200000, 0.06, 360) + MonthlyPayment(50000, 0.08, 120)
	assert.InDelta(t, want, TotalDebtService(loans), 1e-9)
}

func TestTotalDebtService_ZeroRateLoanContributesNothing(t *testing.T) {
	loans := []*models.Loan{
		{Status: models.LoanStatusActive, CurrentBalance: 200000, InterestRate: 0, TermMonths: 360},
	}
	assert.Equal(t, 0.0, TotalDebtService(loans))
}

func TestTotalDebtService_NoLoans(t *testing.T) {
	assert.Equal(t, 0.0, TotalDebtService(nil))
}

func TestPrimaryLoan_PrefersActivePrimary(t *testing.T) {
	loans := []*models.Loan{
		{ID: 1, Status: models.LoanStatusActive},
		{ID: 2, Status: models.LoanStatusActive, IsPrimary: true},
		{ID: 3, Status: models.LoanStatusPaidOff, IsPrimary: true},
	}

	got := PrimaryLoan(loans)
	assert.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestPrimaryLoan_FallsBackToFirstActive(t *testing.T) {
	loans := []*models.Loan{
		{ID: 1, Status: models.LoanStatusRefinanced, IsPrimary: true},
		{ID: 2, Status: models.LoanStatusActive},
	}

	got := PrimaryLoan(loans)
	assert.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

func TestPrimaryLoan_NoneActive(t *testing.T) {
	loans := []*models.Loan{
		{ID: 1, Status: models.LoanStatusPaidOff},
	}
	assert.Nil(t, PrimaryLoan(loans))
}
