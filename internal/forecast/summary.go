package forecast

import (
	"expenseflow/internal/domain"
	"expenseflow/internal/stats"
)

// Half-over-half thresholds for trend classification.
const (
	trendIncreaseRatio = 1.05
	trendDecreaseRatio = 0.95
)

// Summarize rolls a prediction sequence into totals and a trend tag.
// The trend compares the mean of the first half of the sequence against
// the second half.
func Summarize(predictions []domain.Prediction) domain.AggregateForecast {
	n := len(predictions)
	if n == 0 {
		return domain.AggregateForecast{Trend: domain.TrendStable}
	}

	amounts := make([]float64, n)
	total := 0.0
	for i, p := range predictions {
		amounts[i] = p.PredictedAmount
		total += p.PredictedAmount
	}

	agg := domain.AggregateForecast{
		TotalPredicted: total,
		AverageMonthly: total / float64(n),
		Trend:          domain.TrendStable,
	}

	mid := n / 2
	if mid == 0 {
		return agg
	}

	firstMean := stats.Mean(amounts[:mid])
	secondMean := stats.Mean(amounts[mid:])

	switch {
	case secondMean > firstMean*trendIncreaseRatio:
		agg.Trend = domain.TrendIncreasing
	case secondMean < firstMean*trendDecreaseRatio:
		agg.Trend = domain.TrendDecreasing
	}

	if firstMean != 0 {
		agg.TrendPercentage = (secondMean - firstMean) / firstMean * 100
	}

	return agg
}
