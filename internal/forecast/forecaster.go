package forecast

import (
	"fmt"
	"time"

	"expenseflow/internal/domain"
)

// Forecaster runs deterministic forecasts. Identical inputs always produce
// identical prediction sequences.
type Forecaster struct {
	alpha float64
}

// NewForecaster creates a forecaster. A non-positive alpha falls back to
// DefaultSmoothingAlpha.
func NewForecaster(alpha float64) *Forecaster {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultSmoothingAlpha
	}
	return &Forecaster{alpha: alpha}
}

// Forecast predicts the fixed number of future periods for the window's
// granularity. The reference time anchors the prediction dates; nothing
// reads the ambient clock.
//
// Returns ErrInvalidParameter before any computation on bad parameters and
// ErrInsufficientHistory when the window holds fewer than MinHistoryPoints
// periods.
func (f *Forecaster) Forecast(window domain.HistoricalWindow, params domain.ForecastParameters, now time.Time) ([]domain.Prediction, error) {
	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	if len(window) < MinHistoryPoints {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientHistory, len(window))
	}

	steps, err := Steps(params.PeriodType)
	if err != nil {
		return nil, err
	}

	z, err := ZScore(params.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	algo, err := FromParameters(params, f.alpha)
	if err != nil {
		return nil, err
	}

	estimates := algo.Estimate(window.Amounts(), steps, z)

	predictions := make([]domain.Prediction, len(estimates))
	for i, est := range estimates {
		predictions[i] = domain.Prediction{
			Date:            AddPeriods(now, params.PeriodType, i+1),
			PredictedAmount: est.Amount,
			ConfidenceLower: est.Lower,
			ConfidenceUpper: est.Upper,
		}
	}
	return predictions, nil
}

// AddPeriods advances a reference time by k calendar periods.
func AddPeriods(now time.Time, periodType domain.PeriodType, k int) time.Time {
	switch periodType {
	case domain.PeriodWeekly:
		return now.AddDate(0, 0, 7*k)
	case domain.PeriodQuarterly:
		return now.AddDate(0, 3*k, 0)
	case domain.PeriodYearly:
		return now.AddDate(k, 0, 0)
	default: // monthly
		return now.AddDate(0, k, 0)
	}
}
