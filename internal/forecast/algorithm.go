// Package forecast implements deterministic short-horizon forecasting with
// confidence bands over aggregated transaction history.
package forecast

import (
	"errors"
	"fmt"

	"expenseflow/internal/domain"
)

// Forecast errors
var (
	// ErrInsufficientHistory is returned when the historical window holds
	// fewer than MinHistoryPoints periods. Recoverable: the caller should
	// prompt for more tracked history.
	ErrInsufficientHistory = errors.New("insufficient history: need at least 3 periods")

	// ErrInvalidParameter is returned for out-of-range or unknown
	// parameters before any computation starts.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// MinHistoryPoints is the smallest window any algorithm accepts.
const MinHistoryPoints = 3

// DefaultSmoothingAlpha is the exponential smoothing constant.
const DefaultSmoothingAlpha = 0.3

// Estimate is one future period's point estimate with its confidence band.
// Invariant: Lower <= Amount <= Upper.
type Estimate struct {
	Amount float64
	Lower  float64
	Upper  float64
}

// Algorithm produces banded estimates for a fixed number of future steps
// from a chronological amount series.
type Algorithm interface {
	// Estimate computes one banded estimate per future step. The series
	// holds at least MinHistoryPoints values; z is the confidence z-score.
	Estimate(series []float64, steps int, z float64) []Estimate

	// Type returns the algorithm identifier.
	Type() domain.AlgorithmType
}

// FromParameters creates the algorithm selected by the parameters.
// Adding an algorithm means adding a case here and a variant type, not a
// string branch at call sites.
func FromParameters(params domain.ForecastParameters, alpha float64) (Algorithm, error) {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultSmoothingAlpha
	}

	switch params.Algorithm {
	case domain.AlgorithmMovingAverage:
		return &MovingAverage{}, nil
	case domain.AlgorithmLinearRegression:
		return &LinearRegression{}, nil
	case domain.AlgorithmExponentialSmoothing:
		return &ExponentialSmoothing{Alpha: alpha}, nil
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidParameter, params.Algorithm)
	}
}

// zScores maps supported confidence levels to z-scores.
var zScores = map[int]float64{
	domain.Confidence80: 1.28,
	domain.Confidence90: 1.645,
	domain.Confidence95: 1.96,
	domain.Confidence99: 2.576,
}

// ZScore returns the z-score for a supported confidence level.
func ZScore(confidenceLevel int) (float64, error) {
	z, ok := zScores[confidenceLevel]
	if !ok {
		return 0, fmt.Errorf("%w: unsupported confidence level %d", ErrInvalidParameter, confidenceLevel)
	}
	return z, nil
}

// forecastSteps maps the period type onto the fixed number of future
// periods to predict.
var forecastSteps = map[domain.PeriodType]int{
	domain.PeriodWeekly:    4,
	domain.PeriodMonthly:   3,
	domain.PeriodQuarterly: 4,
	domain.PeriodYearly:    1,
}

// Steps returns the number of forecast periods for a period type.
func Steps(periodType domain.PeriodType) (int, error) {
	n, ok := forecastSteps[periodType]
	if !ok {
		return 0, fmt.Errorf("%w: unknown period type %q", ErrInvalidParameter, periodType)
	}
	return n, nil
}

// ValidateParameters rejects out-of-range parameters before any
// computation.
func ValidateParameters(params domain.ForecastParameters) error {
	if !params.PeriodType.Valid() {
		return fmt.Errorf("%w: unknown period type %q", ErrInvalidParameter, params.PeriodType)
	}
	if !params.Algorithm.Valid() {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidParameter, params.Algorithm)
	}
	if _, err := ZScore(params.ConfidenceLevel); err != nil {
		return err
	}
	if params.HistoricalPeriods < 0 {
		return fmt.Errorf("%w: negative historical periods %d", ErrInvalidParameter, params.HistoricalPeriods)
	}
	return nil
}
