// Package services contains business logic for rentfolio.
package services

import (
	"math"
	"time"

	"rentfolio/internal/finance"
	"rentfolio/internal/models"
	"rentfolio/internal/repository"
)

// PropertyMetricsService derives the full financial picture of a
// property: cost basis, depreciation, operating income, debt service,
// cash flow, tax shield and data completeness.
type PropertyMetricsService struct {
	propertyRepo    *repository.PropertyRepository
	loanRepo        *repository.LoanRepository
	transactionRepo *repository.TransactionRepository
}

// NewPropertyMetricsService creates a new PropertyMetricsService.
func NewPropertyMetricsService(
	propertyRepo *repository.PropertyRepository,
	loanRepo *repository.LoanRepository,
	transactionRepo *repository.TransactionRepository,
) *PropertyMetricsService {
	return &PropertyMetricsService{
		propertyRepo:    propertyRepo,
		loanRepo:        loanRepo,
		transactionRepo: transactionRepo,
	}
}

// PropertyMetrics is the complete derived-metrics document for one
// property.
type PropertyMetrics struct {
	PropertyID int64  `json:"property_id"`
	Address    string `json:"address"`

	CostBasis    finance.CostBasis `json:"cost_basis"`
	Depreciation finance.Summary   `json:"depreciation"`

	// Monthly operating figures
	GrossIncome       float64 `json:"gross_income"`
	OperatingExpenses float64 `json:"operating_expenses"`
	CapExReserve      float64 `json:"capex_reserve"`
	NetOperatingInc   float64 `json:"net_operating_income"`
	DebtService       float64 `json:"debt_service"`
	CashFlow          float64 `json:"cash_flow"`

	// Annualized tax view
	TaxShield finance.TaxShield `json:"tax_shield"`

	// Equity
	CurrentValue float64 `json:"current_value"`
	TotalDebt    float64 `json:"total_debt"`
	Equity       float64 `json:"equity"`

	Completeness finance.Completeness `json:"completeness"`
}

// FinancialPulse compares projected cash flow against the trailing
// twelve months of recorded transactions.
type FinancialPulse struct {
	PropertyID         int64   `json:"property_id"`
	ProjectedCashFlow  float64 `json:"projected_monthly_cash_flow"`
	ActualIncome       float64 `json:"actual_income_ttm"`
	ActualExpenses     float64 `json:"actual_expenses_ttm"`
	ActualCashFlow     float64 `json:"actual_monthly_cash_flow"`
	TotalFixedExpenses float64 `json:"total_fixed_expenses"`
	TotalDebtService   float64 `json:"total_debt_service"`
	Variance           float64 `json:"variance"`
	VariancePercent    float64 `json:"variance_percent"`
	TransactionCount   int     `json:"transaction_count"`
	HasActuals         bool    `json:"has_actuals"`
}

// ComputeMetrics derives all metrics for a property as of the given
// time. Missing inputs degrade the result instead of failing it; the
// completeness score tells the client what is absent.
func (s *PropertyMetricsService) ComputeMetrics(p *models.Property, loans []*models.Loan, asOf time.Time) *PropertyMetrics {
	costBasis := finance.CostBasisForProperty(p)

	var placedInService time.Time
	if p.PlacedInServiceDate != nil {
		placedInService = *p.PlacedInServiceDate
	} else if p.PurchaseDate != nil {
		placedInService = *p.PurchaseDate
	}

	depreciation := finance.Summarize(costBasis.DepreciableBasis, finance.RecoveryYears(p), placedInService, asOf)

	operating := finance.ComputeOperating(finance.OperatingInputsFor(p))
	debtService := finance.TotalDebtService(loans)
	noi := finance.NOI(operating.GrossIncome, operating.FixedExpenses, operating.CapExReserve)
	cashFlow := finance.CashFlow(noi, debtService)

	taxShield := finance.ComputeTaxShield(cashFlow*12, depreciation.AnnualDepreciation)

	var totalDebt float64
	for _, l := range loans {
		if l.IsActive() {
			totalDebt += l.CurrentBalance
		}
	}

	return &PropertyMetrics{
		PropertyID:        p.ID,
		Address:           p.Address(),
		CostBasis:         costBasis,
		Depreciation:      depreciation,
		GrossIncome:       operating.GrossIncome,
		OperatingExpenses: operating.FixedExpenses,
		CapExReserve:      operating.CapExReserve,
		NetOperatingInc:   noi,
		DebtService:       debtService,
		CashFlow:          cashFlow,
		TaxShield:         taxShield,
		CurrentValue:      p.CurrentValue,
		TotalDebt:         totalDebt,
		Equity:            p.CurrentValue - totalDebt,
		Completeness:      finance.ScoreCompleteness(p, loans),
	}
}

// GetMetrics loads a property's loans and derives its metrics.
func (s *PropertyMetricsService) GetMetrics(p *models.Property) (*PropertyMetrics, error) {
	loans, err := s.loanRepo.GetByPropertyID(p.ID)
	if err != nil {
		return nil, err
	}
	return s.ComputeMetrics(p, loans, time.Now()), nil
}

// GetPulse compares a property's projected cash flow with its recorded
// transactions over the trailing twelve months.
func (s *PropertyMetricsService) GetPulse(p *models.Property) (*FinancialPulse, error) {
	metrics, err := s.GetMetrics(p)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(-1, 0, 0)
	income, err := s.transactionRepo.SumByTypeSince(p.ID, models.TransactionTypeIncome, since)
	if err != nil {
		return nil, err
	}
	expenses, err := s.transactionRepo.SumByTypeSince(p.ID, models.TransactionTypeExpense, since)
	if err != nil {
		return nil, err
	}
	count, err := s.transactionRepo.CountByPropertySince(p.ID, since)
	if err != nil {
		return nil, err
	}

	pulse := &FinancialPulse{
		PropertyID:         p.ID,
		ProjectedCashFlow:  metrics.CashFlow,
		ActualIncome:       income,
		ActualExpenses:     expenses,
		TotalFixedExpenses: metrics.OperatingExpenses,
		TotalDebtService:   metrics.DebtService,
		TransactionCount:   count,
		HasActuals:         count > 0,
	}
	if pulse.HasActuals {
		pulse.ActualCashFlow = (income - expenses - metrics.DebtService*12) / 12
		pulse.Variance = pulse.ActualCashFlow - pulse.ProjectedCashFlow
		if pulse.ProjectedCashFlow != 0 {
			pulse.VariancePercent = pulse.Variance / math.Abs(pulse.ProjectedCashFlow) * 100
		}
	}
	return pulse, nil
}

// PortfolioSummary aggregates derived metrics across a user's active
// properties.
type PortfolioSummary struct {
	PropertyCount      int     `json:"property_count"`
	TotalValue         float64 `json:"total_value"`
	TotalDebt          float64 `json:"total_debt"`
	TotalEquity        float64 `json:"total_equity"`
	GrossIncome        float64 `json:"gross_income"`
	OperatingExpenses  float64 `json:"operating_expenses"`
	NetOperatingInc    float64 `json:"net_operating_income"`
	DebtService        float64 `json:"debt_service"`
	CashFlow           float64 `json:"cash_flow"`
	AnnualDepreciation float64 `json:"annual_depreciation"`
	AnnualTaxSavings   float64 `json:"annual_tax_savings"`
	AvgCompleteness    int     `json:"avg_completeness"`

	Properties []*PropertyMetrics `json:"properties"`
}

// GetPortfolioSummary derives and aggregates metrics for all of a
// user's active properties.
func (s *PropertyMetricsService) GetPortfolioSummary(userID int64) (*PortfolioSummary, error) {
	properties, err := s.propertyRepo.GetActiveByUserID(userID)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{
		Properties: make([]*PropertyMetrics, 0, len(properties)),
	}

	var completenessSum int
	for _, p := range properties {
		metrics, err := s.GetMetrics(p)
		if err != nil {
			return nil, err
		}

		summary.PropertyCount++
		summary.TotalValue += metrics.CurrentValue
		summary.TotalDebt += metrics.TotalDebt
		summary.GrossIncome += metrics.GrossIncome
		summary.OperatingExpenses += metrics.OperatingExpenses + metrics.CapExReserve
		summary.NetOperatingInc += metrics.NetOperatingInc
		summary.DebtService += metrics.DebtService
		summary.CashFlow += metrics.CashFlow
		summary.AnnualDepreciation += metrics.Depreciation.AnnualDepreciation
		summary.AnnualTaxSavings += metrics.TaxShield.TaxSavings
		completenessSum += metrics.Completeness.Score

		summary.Properties = append(summary.Properties, metrics)
	}

	summary.TotalEquity = summary.TotalValue - summary.TotalDebt
	if summary.PropertyCount > 0 {
		summary.AvgCompleteness = completenessSum / summary.PropertyCount
	}

	return summary, nil
}
