package finance

import (
	"math"

	"rentfolio/internal/models"
)

// Completeness is the 0-100 "asset fidelity" score indicating how much of
// the expected property data is on record.
type Completeness struct {
	Score         int      `json:"score"`
	MissingFields []string `json:"missing_fields"`
}

// completenessChecks is the canonical checklist. Every score in the app
// comes from this one list; call sites must not roll their own.
var completenessChecks = []struct {
	field string
	ok    func(p *models.Property, loans []*models.Loan) bool
}{
	{"current_value", func(p *models.Property, _ []*models.Loan) bool {
		return p.CurrentValue > 0
	}},
	{"monthly_rent", func(p *models.Property, _ []*models.Loan) bool {
		return p.MonthlyRent > 0
	}},
	{"operating_expenses", func(p *models.Property, _ []*models.Loan) bool {
		return p.PropertyTaxAnnual > 0 || p.InsuranceAnnual > 0 || p.HOAMonthly > 0 ||
			p.VacancyRate != nil || p.ManagementRate != nil || p.MaintenanceRate != nil || p.CapExRate != nil
	}},
	{"purchase_date", func(p *models.Property, _ []*models.Loan) bool {
		return p.PurchaseDate != nil && !p.PurchaseDate.IsZero()
	}},
	{"property_type", func(p *models.Property, _ []*models.Loan) bool {
		return p.PropertyType != ""
	}},
	{"active_loan", func(_ *models.Property, loans []*models.Loan) bool {
		for _, l := range loans {
			if l.IsActive() {
				return true
			}
		}
		return false
	}},
}

// ScoreCompleteness evaluates the canonical six-field checklist and
// returns the rounded percentage plus the names of missing fields.
func ScoreCompleteness(p *models.Property, loans []*models.Loan) Completeness {
	c := Completeness{MissingFields: make([]string, 0)}

	filled := 0
	for _, check := range completenessChecks {
		if check.ok(p, loans) {
			filled++
		} else {
			c.MissingFields = append(c.MissingFields, check.field)
		}
	}

	c.Score = int(math.Round(float64(filled) / float64(len(completenessChecks)) * 100))
	return c
}
