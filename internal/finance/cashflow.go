package finance

// DefaultMarginalTaxRate is the marginal income-tax rate used for the
// tax-shield estimate. A fixed planning assumption, not user-configurable.
const DefaultMarginalTaxRate = 0.24

// NOI computes monthly net operating income: effective gross income less
// fixed operating expenses and the CapEx reserve, before debt service.
func NOI(grossIncome, fixedExpenses, capexReserve float64) float64 {
	return grossIncome - fixedExpenses - capexReserve
}

// CashFlow computes monthly cash flow: NOI less total debt service.
func CashFlow(noi, debtService float64) float64 {
	return noi - debtService
}

// TaxShield combines annual cash flow with annual depreciation to
// estimate taxable income and the depreciation tax shield.
type TaxShield struct {
	AnnualCashFlow          float64 `json:"annual_cash_flow"`
	AnnualDepreciation      float64 `json:"annual_depreciation"`
	TaxableIncome           float64 `json:"taxable_income"`
	TaxSavings              float64 `json:"tax_savings"`
	EffectiveAnnualCashFlow float64 `json:"effective_annual_cash_flow"`
	PaperLoss               bool    `json:"paper_loss"`
}

// ComputeTaxShield derives the paper-loss/tax-shield figures. A negative
// taxable income shelters other income at the marginal rate; the savings
// are added back to cash flow to produce the effective figure.
func ComputeTaxShield(annualCashFlow, annualDepreciation float64) TaxShield {
	taxable := annualCashFlow - annualDepreciation

	savings := 0.0
	if taxable < 0 {
		savings = -taxable * DefaultMarginalTaxRate
	}

	return TaxShield{
		AnnualCashFlow:          annualCashFlow,
		AnnualDepreciation:      annualDepreciation,
		TaxableIncome:           taxable,
		TaxSavings:              savings,
		EffectiveAnnualCashFlow: annualCashFlow + savings,
		PaperLoss:               taxable < 0,
	}
}
