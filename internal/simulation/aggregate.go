package simulation

import (
	"sort"

	"expenseflow/internal/domain"
	"expenseflow/internal/stats"
)

// histogramBins is the number of fixed-width runway histogram bins across
// the horizon, excluding the never-exhausted bucket.
const histogramBins = 10

// aggregate computes the fan chart, runway percentiles and exhaustion
// histogram from completed paths. Paths that never exhausted carry the
// sentinel value horizon+1 in exhaustDay.
func aggregate(balancesByDay [][]float64, exhaustDay []int, endings []float64, horizon int) *domain.SimulationResult {
	result := &domain.SimulationResult{}

	// Fan chart: percentile band per day.
	result.FanChart = make([]domain.FanChartDay, horizon)
	scratch := make([]float64, len(endings))
	for d := 0; d < horizon; d++ {
		copy(scratch, balancesByDay[d])
		sort.Float64s(scratch)
		result.FanChart[d] = domain.FanChartDay{
			Day: d + 1,
			P10: stats.Percentile(scratch, 0.10),
			P25: stats.Percentile(scratch, 0.25),
			P50: stats.Percentile(scratch, 0.50),
			P75: stats.Percentile(scratch, 0.75),
			P90: stats.Percentile(scratch, 0.90),
		}
	}

	// Runway percentiles over exhaustion days.
	days := make([]float64, len(exhaustDay))
	exhausted := 0
	for i, d := range exhaustDay {
		days[i] = float64(d)
		if d <= horizon {
			exhausted++
		}
	}
	sort.Float64s(days)
	result.Runway = domain.RunwayPercentiles{
		P10: stats.Percentile(days, 0.10),
		P50: stats.Percentile(days, 0.50),
		P90: stats.Percentile(days, 0.90),
	}
	result.ExhaustedPaths = exhausted

	// Histogram of exhaustion day, plus a never-exhausted bucket.
	result.Histogram = buildHistogram(exhaustDay, horizon)

	// Median ending balance.
	sortedEndings := make([]float64, len(endings))
	copy(sortedEndings, endings)
	sort.Float64s(sortedEndings)
	result.MedianEnding = stats.Percentile(sortedEndings, 0.50)

	return result
}

// buildHistogram bins exhaustion days into fixed-width buckets across the
// horizon. The final bucket, with FromDay beyond the horizon, counts paths
// that never exhausted.
func buildHistogram(exhaustDay []int, horizon int) []domain.HistogramBin {
	width := horizon / histogramBins
	if width < 1 {
		width = 1
	}

	var bins []domain.HistogramBin
	for from := 1; from <= horizon; from += width {
		to := from + width - 1
		if to > horizon {
			to = horizon
		}
		bins = append(bins, domain.HistogramBin{FromDay: from, ToDay: to})
	}
	never := domain.HistogramBin{FromDay: horizon + 1, ToDay: horizon + 1}

	for _, d := range exhaustDay {
		if d > horizon {
			never.Count++
			continue
		}
		idx := (d - 1) / width
		if idx >= len(bins) {
			idx = len(bins) - 1
		}
		bins[idx].Count++
	}

	return append(bins, never)
}
