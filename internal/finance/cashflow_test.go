package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNOIAndCashFlow(t *testing.T) {
	noi := NOI(1900, 685, 95)
	assert.InDelta(t, 1120.0, noi, 1e-9)

	cf := CashFlow(noi, 1199.10)
	assert.InDelta(t, -79.10, cf, 1e-9)
}

func TestCashFlow_Idempotent(t *testing.T) {
	a := CashFlow(NOI(1900, 685, 95), 1199.10)
	b := CashFlow(NOI(1900, 685, 95), 1199.10)
	assert.Equal(t, a, b)
}

func TestComputeTaxShield_PaperLoss(t *testing.T) {
	// $5,000 annual cash flow against $8,902 depreciation: $3,902 paper loss.
	ts := ComputeTaxShield(5000, 8902)

	assert.True(t, ts.PaperLoss)
	assert.InDelta(t, -3902.0, ts.TaxableIncome, 1e-9)
	assert.InDelta(t, 3902*DefaultMarginalTaxRate, ts.TaxSavings, 1e-9)
	assert.InDelta(t, 5000+3902*DefaultMarginalTaxRate, ts.EffectiveAnnualCashFlow, 1e-9)
}

func TestComputeTaxShield_PositiveTaxableIncome(t *testing.T) {
	ts := ComputeTaxShield(20000, 8902)

	assert.False(t, ts.PaperLoss)
	assert.InDelta(t, 11098.0, ts.TaxableIncome, 1e-9)
	assert.Equal(t, 0.0, ts.TaxSavings)
	assert.InDelta(t, 20000.0, ts.EffectiveAnnualCashFlow, 1e-9)
}

func TestComputeTaxShield_ZeroInputs(t *testing.T) {
	ts := ComputeTaxShield(0, 0)

	assert.False(t, ts.PaperLoss)
	assert.Equal(t, 0.0, ts.TaxSavings)
	assert.Equal(t, 0.0, ts.EffectiveAnnualCashFlow)
}
