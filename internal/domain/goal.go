package domain

import "time"

// Goal is a savings goal record as materialized by the goal store.
type Goal struct {
	ID            string
	UserID        string
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	TargetDate    time.Time
	Active        bool
}

// Remaining returns the amount still needed to reach the target.
func (g *Goal) Remaining() float64 {
	return g.TargetAmount - g.CurrentAmount
}

// Savings trend direction constants
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendFlat      = "stable"
)

// SavingsTrend describes the direction of the monthly savings series.
type SavingsTrend struct {
	Direction string  // improving | declining | stable
	Strength  float64 // 0..1, regression slope relative to average savings
	Slope     float64 // raw regression slope, currency per month
}

// VelocityMetrics is the realized savings velocity over a lookback window.
type VelocityMetrics struct {
	HasEnoughData      bool
	MonthlySavingsRate float64 // mean monthly income minus expense
	AverageIncome      float64
	AverageExpenses    float64
	Trend              SavingsTrend
	Confidence         float64 // 0..1, derived from coefficient of variation
	Message            string  // explanation when data is insufficient
}

// GoalForecast is the completion outlook for a single goal.
// A velocity at or below zero is a valid business outcome, not an error:
// EstimatedCompletion stays nil and OnTrack is false.
type GoalForecast struct {
	GoalID               string
	IsCompleted          bool
	EstimatedCompletion  *time.Time
	MonthsToCompletion   *float64
	OnTrack              bool
	ProbabilityOfSuccess float64 // 0..1
	Recommendation       string
	Message              string
}

// Portfolio status constants
const (
	PortfolioHealthy   = "healthy"
	PortfolioAttention = "needs_attention"
	PortfolioCritical  = "critical"
)

// GoalPortfolio is the batch view over all active goals, sorted most at
// risk first (ascending probability of success).
type GoalPortfolio struct {
	Forecasts []GoalForecast
	OnTrack   int
	AtRisk    int
	Completed int
	Status    string // healthy | needs_attention | critical
}
