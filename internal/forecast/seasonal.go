package forecast

import (
	"expenseflow/internal/domain"
)

// SeasonalFactors derives per-calendar-month multiplicative factors from
// history, independent of year. Always returns exactly 12 entries; months
// with no observations and a degenerate overall average default to 1.0.
func SeasonalFactors(window domain.HistoricalWindow) []domain.SeasonalFactor {
	var monthSums [13]float64
	var monthCounts [13]int

	total := 0.0
	observed := 0
	for _, p := range window {
		m := int(p.PeriodStart.Month())
		monthSums[m] += p.Amount
		monthCounts[m]++
		total += p.Amount
		observed++
	}

	overall := 0.0
	if observed > 0 {
		overall = total / float64(observed)
	}

	factors := make([]domain.SeasonalFactor, 12)
	for m := 1; m <= 12; m++ {
		factor := 1.0
		if monthCounts[m] > 0 && overall != 0 {
			monthAvg := monthSums[m] / float64(monthCounts[m])
			factor = monthAvg / overall
		}
		factors[m-1] = domain.SeasonalFactor{Month: m, Factor: factor}
	}
	return factors
}
