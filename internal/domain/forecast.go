package domain

import "time"

// AlgorithmType identifies a deterministic forecasting algorithm.
type AlgorithmType string

// Algorithm type constants
const (
	AlgorithmMovingAverage        AlgorithmType = "moving_average"
	AlgorithmLinearRegression     AlgorithmType = "linear_regression"
	AlgorithmExponentialSmoothing AlgorithmType = "exponential_smoothing"
)

// Valid reports whether the algorithm type is one of the supported constants.
func (a AlgorithmType) Valid() bool {
	switch a {
	case AlgorithmMovingAverage, AlgorithmLinearRegression, AlgorithmExponentialSmoothing:
		return true
	}
	return false
}

// Supported confidence levels (percent) and their z-scores.
const (
	Confidence80 = 80
	Confidence90 = 90
	Confidence95 = 95
	Confidence99 = 99
)

// ForecastParameters configures a deterministic forecast run.
type ForecastParameters struct {
	PeriodType        PeriodType    // aggregation granularity
	Category          string        // optional category filter, empty = all
	Algorithm         AlgorithmType // which estimator to run
	ConfidenceLevel   int           // 80, 90, 95 or 99
	HistoricalPeriods int           // lookback window length in periods
}

// Prediction is one forecast period with its confidence band.
/// Invariant: ConfidenceLower <= PredictedAmount <= ConfidenceUpper.
type Prediction struct {
	Date            time.Time
	PredictedAmount float64
	ConfidenceLower float64
	ConfidenceUpper float64
}

// Trend direction constants for aggregate forecasts.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// AggregateForecast rolls a prediction sequence into totals and a trend tag.
type AggregateForecast struct {
	TotalPredicted  float64
	AverageMonthly  float64
	Trend           string  // increasing | decreasing | stable
	TrendPercentage float64 // relative delta between halves, percent
}

// SeasonalFactor is a multiplicative factor for one calendar month.
// A full seasonal profile always carries exactly 12 entries.
type SeasonalFactor struct {
	Month  int     // 1..12
	Factor float64 // monthAvg / overallAvg, 1.0 when unobserved
}

// Alert is a human-facing flag derived from forecast or simulation output.
type Alert struct {
	Severity string // info | warning | critical
	Code     string // stable machine identifier
	Message  string
}

// Alert severity constants
const (
	AlertInfo     = "info"
	AlertWarning  = "warning"
	AlertCritical = "critical"
)

// ForecastRecord is the persistable payload of a completed forecast run.
// Persistence is owned by the calling application; this core only emits it.
type ForecastRecord struct {
	ID              string
	UserID          string
	Parameters      ForecastParameters
	Predictions     []Prediction
	Aggregate       AggregateForecast
	SeasonalFactors []SeasonalFactor
	Alerts          []Alert
	Recommendations []string
	AccuracyScore   *float64 // filled in later by accuracy tracking, if ever
	CreatedAt       time.Time
}
