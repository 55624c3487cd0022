package finance

import "rentfolio/internal/models"

// Default expense assumptions, as fractions of effective gross income
// (vacancy is a fraction of scheduled rent). Applied when a property has
// no explicit rate recorded.
const (
	DefaultVacancyRate     = 0.05
	DefaultManagementRate  = 0.10
	DefaultMaintenanceRate = 0.05
	DefaultCapExRate       = 0.05
)

// OperatingInputs are the income and fixed-expense assumptions of a
// property. Rate pointers distinguish "unset" from an explicit zero.
type OperatingInputs struct {
	MonthlyRent        float64
	OtherMonthlyIncome float64
	PropertyTaxAnnual  float64
	InsuranceAnnual    float64
	HOAMonthly         float64
	VacancyRate        *float64
	ManagementRate     *float64
	MaintenanceRate    *float64
	CapExRate          *float64
}

// OperatingResult is the monthly income/expense aggregation.
type OperatingResult struct {
	GrossIncome     float64 `json:"gross_income"` // effective, after vacancy
	FixedExpenses   float64 `json:"fixed_expenses"`
	CapExReserve    float64 `json:"capex_reserve"`
	VacancyRate     float64 `json:"vacancy_rate"`
	ManagementRate  float64 `json:"management_rate"`
	MaintenanceRate float64 `json:"maintenance_rate"`
	CapExRate       float64 `json:"capex_rate"`
}

// ComputeOperating aggregates effective gross income, fixed operating
// expenses and the CapEx reserve, all as monthly figures.
//
// Gross income = (rent + other income) x (1 - vacancy).
// Fixed expenses = tax/12 + insurance/12 + HOA + gross x maintenance
// + gross x management. CapEx reserve = gross x capex rate.
func ComputeOperating(in OperatingInputs) OperatingResult {
	r := OperatingResult{
		VacancyRate:     RateOr(in.VacancyRate, DefaultVacancyRate),
		ManagementRate:  RateOr(in.ManagementRate, DefaultManagementRate),
		MaintenanceRate: RateOr(in.MaintenanceRate, DefaultMaintenanceRate),
		CapExRate:       RateOr(in.CapExRate, DefaultCapExRate),
	}

	scheduled := Coerce(in.MonthlyRent) + Coerce(in.OtherMonthlyIncome)
	r.GrossIncome = scheduled * (1 - r.VacancyRate)

	r.FixedExpenses = Coerce(in.PropertyTaxAnnual)/12 +
		Coerce(in.InsuranceAnnual)/12 +
		Coerce(in.HOAMonthly) +
		r.GrossIncome*r.MaintenanceRate +
		r.GrossIncome*r.ManagementRate

	r.CapExReserve = r.GrossIncome * r.CapExRate
	return r
}

// OperatingInputsFor extracts the aggregator inputs from a property.
func OperatingInputsFor(p *models.Property) OperatingInputs {
	return OperatingInputs{
		MonthlyRent:        p.MonthlyRent,
		OtherMonthlyIncome: p.OtherMonthlyIncome,
		PropertyTaxAnnual:  p.PropertyTaxAnnual,
		InsuranceAnnual:    p.InsuranceAnnual,
		HOAMonthly:         p.HOAMonthly,
		VacancyRate:        p.VacancyRate,
		ManagementRate:     p.ManagementRate,
		MaintenanceRate:    p.MaintenanceRate,
		CapExRate:          p.CapExRate,
	}
}
