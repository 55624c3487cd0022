package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentfolio/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSchedule_SumsExactlyToBasis(t *testing.T) {
	tests := []struct {
		name    string
		basis   float64
		years   float64
		service time.Time
	}{
		{"residential january", 244800, 27.5, date(2020, time.January, 15)},
		{"residential june", 244800, 27.5, date(2020, time.June, 1)},
		{"residential december", 100000, 27.5, date(2019, time.December, 31)},
		{"commercial", 780000, 39, date(2021, time.March, 10)},
		{"small basis", 1234.56, 27.5, date(2022, time.August, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items := Schedule(tc.basis, tc.years, tc.service)
			require.NotEmpty(t, items)

			sum := 0.0
			for _, it := range items {
				sum += it.Depreciation
			}
			assert.InDelta(t, tc.basis, sum, 1e-6, "schedule must sum to basis")

			last := items[len(items)-1]
			assert.InDelta(t, tc.basis, last.Accumulated, 1e-6)
			assert.Equal(t, 0.0, last.RemainingBasis)

			// No year may depreciate more than twelve months' worth.
			monthly := tc.basis / (tc.years * 12)
			for _, it := range items {
				assert.LessOrEqual(t, it.Depreciation, monthly*12+1e-9)
				assert.GreaterOrEqual(t, it.RemainingBasis, 0.0)
			}
		})
	}
}

func TestSchedule_MidMonthConventionFirstYear(t *testing.T) {
	// Placed in service in June: the first year earns 6.5 months.
	items := Schedule(244800, 27.5, date(2020, time.June, 1))
	require.NotEmpty(t, items)

	monthly := 244800.0 / 330
	assert.InDelta(t, monthly*6.5, items[0].Depreciation, 1e-6)
	assert.Equal(t, 2020, items[0].Year)
	assert.InDelta(t, monthly*12, items[1].Depreciation, 1e-6)
	assert.Equal(t, 2021, items[1].Year)
}

func TestSchedule_Deterministic(t *testing.T) {
	a := Schedule(244800, 27.5, date(2020, time.June, 1))
	b := Schedule(244800, 27.5, date(2020, time.June, 1))
	assert.Equal(t, a, b)
}

func TestSchedule_InvalidInputsReturnNil(t *testing.T) {
	assert.Nil(t, Schedule(0, 27.5, date(2020, time.June, 1)))
	assert.Nil(t, Schedule(-1, 27.5, date(2020, time.June, 1)))
	assert.Nil(t, Schedule(244800, 0, date(2020, time.June, 1)))
	assert.Nil(t, Schedule(244800, 27.5, time.Time{}))
}

func TestSummarize_MonthlyDepreciationExample(t *testing.T) {
	// $244,800 over 27.5 years = $244,800 / 330 months = $741.82/month.
	s := Summarize(244800, 27.5, date(2020, time.January, 15), date(2023, time.June, 1))

	assert.InDelta(t, 741.82, s.MonthlyDepreciation, 0.01)
	assert.InDelta(t, 741.82*12, s.AnnualDepreciation, 0.1)
	assert.Equal(t, 3, s.YearsCompleted)
	assert.Equal(t, 27.5, s.RecoveryYears)
}

func TestSummarize_BeforeServiceDate(t *testing.T) {
	s := Summarize(244800, 27.5, date(2030, time.January, 1), date(2025, time.January, 1))

	assert.Equal(t, 0, s.YearsCompleted)
	assert.Equal(t, 0.0, s.AccumulatedDepreciation)
	assert.Equal(t, 244800.0, s.RemainingBasis)
}

func TestSummarize_PastFullScheduleClampsRemaining(t *testing.T) {
	// Service date 40 years back: fully depreciated, never negative.
	s := Summarize(244800, 27.5, date(1980, time.January, 1), date(2025, time.January, 1))

	assert.Equal(t, 244800.0, s.AccumulatedDepreciation)
	assert.Equal(t, 0.0, s.RemainingBasis)
	assert.Equal(t, 45, s.YearsCompleted)
}

func TestSummarize_NoServiceDate(t *testing.T) {
	s := Summarize(244800, 27.5, time.Time{}, date(2025, time.January, 1))

	assert.Equal(t, 0.0, s.AccumulatedDepreciation)
	assert.Equal(t, 0.0, s.MonthlyDepreciation)
	assert.Equal(t, 244800.0, s.RemainingBasis)
}

func TestRecoveryYears_ByPropertyType(t *testing.T) {
	tests := []struct {
		propertyType string
		want         float64
	}{
		{models.PropertyTypeSingleFamily, 27.5},
		{models.PropertyTypeMultiFamily, 27.5},
		{models.PropertyTypeCondo, 27.5},
		{models.PropertyTypeTownhouse, 27.5},
		{models.PropertyTypeCommercial, 39},
		{models.PropertyTypeMixedUse, 39},
		{"", 39},
	}

	for _, tc := range tests {
		p := &models.Property{PropertyType: tc.propertyType}
		assert.Equal(t, tc.want, RecoveryYears(p), "type %q", tc.propertyType)
	}
}
