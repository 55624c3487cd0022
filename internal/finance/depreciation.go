package finance

import (
	"math"
	"time"

	"rentfolio/internal/models"
)

// Recovery periods in years for straight-line depreciation.
const (
	ResidentialRecoveryYears = 27.5
	CommercialRecoveryYears  = 39.0
)

// RecoveryYears returns the depreciation recovery period for a property.
func RecoveryYears(p *models.Property) float64 {
	if p.IsResidential() {
		return ResidentialRecoveryYears
	}
	return CommercialRecoveryYears
}

// ScheduleItem is one calendar year of a depreciation schedule.
type ScheduleItem struct {
	Year           int     `json:"year"`
	Depreciation   float64 `json:"depreciation"`
	Accumulated    float64 `json:"accumulated"`
	RemainingBasis float64 `json:"remaining_basis"`
}

// Schedule produces the full year-by-year straight-line depreciation
// schedule. The placed-in-service year gets the mid-month convention
// (a half-month credit for the service month), middle years take a full
// twelve months, and the final year absorbs whatever basis remains so the
// schedule sums exactly to depreciableBasis.
func Schedule(depreciableBasis, years float64, placedInService time.Time) []ScheduleItem {
	if depreciableBasis <= 0 || years <= 0 || placedInService.IsZero() {
		return nil
	}

	monthly := depreciableBasis / (years * 12)
	// Mid-month convention: the service month counts as half a month.
	firstYearMonths := 12.5 - float64(placedInService.Month())

	items := make([]ScheduleItem, 0, int(math.Ceil(years))+1)
	remaining := depreciableBasis
	accumulated := 0.0
	year := placedInService.Year()

	for remaining > 1e-9 {
		months := 12.0
		if len(items) == 0 {
			months = firstYearMonths
		}

		dep := monthly * months
		if dep > remaining {
			dep = remaining // final partial year absorbs the rest
		}

		accumulated += dep
		remaining -= dep
		if remaining < 1e-9 {
			// Plug the last year so the schedule sums exactly.
			dep += remaining
			accumulated = depreciableBasis
			remaining = 0
		}

		items = append(items, ScheduleItem{
			Year:           year,
			Depreciation:   dep,
			Accumulated:    accumulated,
			RemainingBasis: remaining,
		})
		year++
	}

	return items
}

// Summary describes where a property stands in its depreciation life.
type Summary struct {
	DepreciableBasis        float64 `json:"depreciable_basis"`
	RecoveryYears           float64 `json:"recovery_years"`
	AnnualDepreciation      float64 `json:"annual_depreciation"`
	MonthlyDepreciation     float64 `json:"monthly_depreciation"`
	AccumulatedDepreciation float64 `json:"accumulated_depreciation"`
	RemainingBasis          float64 `json:"remaining_basis"`
	YearsCompleted          int     `json:"years_completed"`
}

// Summarize computes the depreciation summary as of a given date.
// Remaining basis never goes negative; a property not yet placed in
// service reports zero accumulated depreciation and zero years completed.
func Summarize(depreciableBasis, years float64, placedInService, asOf time.Time) Summary {
	s := Summary{
		DepreciableBasis: depreciableBasis,
		RecoveryYears:    years,
		RemainingBasis:   depreciableBasis,
	}
	if depreciableBasis <= 0 || years <= 0 || placedInService.IsZero() {
		return s
	}

	s.MonthlyDepreciation = depreciableBasis / (years * 12)
	s.AnnualDepreciation = s.MonthlyDepreciation * 12

	if asOf.Before(placedInService) {
		return s
	}

	s.YearsCompleted = wholeYearsBetween(placedInService, asOf)

	// Months elapsed since the start of the service month, with the
	// mid-month half-month credit applied.
	elapsed := monthsBetween(placedInService, asOf) - 0.5
	if elapsed < 0 {
		elapsed = 0
	}

	accumulated := s.MonthlyDepreciation * elapsed
	if accumulated > depreciableBasis {
		accumulated = depreciableBasis
	}
	s.AccumulatedDepreciation = accumulated
	s.RemainingBasis = depreciableBasis - accumulated
	if s.RemainingBasis < 0 {
		s.RemainingBasis = 0
	}
	return s
}

// wholeYearsBetween returns the count of full years from a to b, never negative.
func wholeYearsBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	years := b.Year() - a.Year()
	anniversary := a.AddDate(years, 0, 0)
	if anniversary.After(b) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// monthsBetween counts calendar months from the service month through the
// asOf month, inclusive of both.
func monthsBetween(a, b time.Time) float64 {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month()) + 1
	if months < 0 {
		return 0
	}
	return float64(months)
}
