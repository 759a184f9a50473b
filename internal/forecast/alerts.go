package forecast

import (
	"fmt"
	"math"

	"expenseflow/internal/domain"
)

// Alert codes
const (
	AlertCodeCashflowDeclining = "cashflow_declining"
	AlertCodeHighVolatility    = "high_volatility"
	AlertCodeShortRunway       = "short_runway"
	AlertCodeNegativeOutlook   = "negative_outlook"
	AlertCodeGoalsAtRisk       = "goals_at_risk"
)

// GenerateAlerts derives human-facing flags from forecast, simulation and
// goal output. Simulation and portfolio are optional.
func GenerateAlerts(agg domain.AggregateForecast, predictions []domain.Prediction, sim *domain.SimulationResult, portfolio *domain.GoalPortfolio) ([]domain.Alert, []string) {
	var alerts []domain.Alert
	var recommendations []string

	if agg.Trend == domain.TrendDecreasing {
		alerts = append(alerts, domain.Alert{
			Severity: domain.AlertWarning,
			Code:     AlertCodeCashflowDeclining,
			Message:  fmt.Sprintf("Projected cash flow is declining %.1f%% half over half.", math.Abs(agg.TrendPercentage)),
		})
		recommendations = append(recommendations, "Review recurring expenses; the projected cash flow trend is negative.")
	}

	if wide, ratio := wideBand(predictions); wide {
		alerts = append(alerts, domain.Alert{
			Severity: domain.AlertInfo,
			Code:     AlertCodeHighVolatility,
			Message:  fmt.Sprintf("Forecast confidence band spans %.0f%% of the predicted amount; history is volatile.", ratio*100),
		})
	}

	if sim != nil {
		switch {
		case sim.Runway.P10 <= 30:
			alerts = append(alerts, domain.Alert{
				Severity: domain.AlertCritical,
				Code:     AlertCodeShortRunway,
				Message:  fmt.Sprintf("1 in 10 simulated paths runs out of money within %.0f days.", sim.Runway.P10),
			})
			recommendations = append(recommendations, "Build a cash buffer; simulated downside runway is under a month.")
		case sim.Runway.P50 <= 60:
			alerts = append(alerts, domain.Alert{
				Severity: domain.AlertWarning,
				Code:     AlertCodeShortRunway,
				Message:  fmt.Sprintf("Median simulated runway is %.0f days.", sim.Runway.P50),
			})
		}

		if sim.MedianEnding < 0 {
			alerts = append(alerts, domain.Alert{
				Severity: domain.AlertWarning,
				Code:     AlertCodeNegativeOutlook,
				Message:  "Median simulated balance ends below zero within the horizon.",
			})
		}
	}

	if portfolio != nil && portfolio.AtRisk > 0 {
		alerts = append(alerts, domain.Alert{
			Severity: domain.AlertWarning,
			Code:     AlertCodeGoalsAtRisk,
			Message:  fmt.Sprintf("%d of %d active goals are at risk of missing their target date.", portfolio.AtRisk, len(portfolio.Forecasts)),
		})
		recommendations = append(recommendations, "Increase monthly contributions to at-risk goals or move their target dates out.")
	}

	return alerts, recommendations
}

// wideBand reports whether the average band width exceeds the average
// predicted amount.
func wideBand(predictions []domain.Prediction) (bool, float64) {
	if len(predictions) == 0 {
		return false, 0
	}

	var width, amount float64
	for _, p := range predictions {
		width += p.ConfidenceUpper - p.ConfidenceLower
		amount += math.Abs(p.PredictedAmount)
	}
	if amount == 0 {
		return false, 0
	}

	ratio := width / amount
	return ratio > 1.0, ratio
}
