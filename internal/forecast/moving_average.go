package forecast

import (
	"expenseflow/internal/domain"
	"expenseflow/internal/stats"
)

// movingAverageWindow is the largest trailing window the estimator uses.
const movingAverageWindow = 3

// MovingAverage predicts every future period at the trailing-window mean.
// The band is mean ± z·stdev over the same window.
type MovingAverage struct{}

// Type returns the algorithm identifier.
func (a *MovingAverage) Type() domain.AlgorithmType {
	return domain.AlgorithmMovingAverage
}

// Estimate computes one banded estimate per future step. All steps share
// the same estimate since a flat average carries no slope.
func (a *MovingAverage) Estimate(series []float64, steps int, z float64) []Estimate {
	w := movingAverageWindow
	if len(series) < w {
		w = len(series)
	}
	tail := series[len(series)-w:]

	avg := stats.Mean(tail)
	sd := stats.SampleStddev(tail, avg)

	est := Estimate{
		Amount: avg,
		Lower:  avg - z*sd,
		Upper:  avg + z*sd,
	}

	out := make([]Estimate, steps)
	for i := range out {
		out[i] = est
	}
	return out
}

var _ Algorithm = (*MovingAverage)(nil)
