package goal

import (
	"fmt"
	"math"
	"sort"
	"time"

	"expenseflow/internal/domain"
	"expenseflow/internal/stats"
)

// Probability adjustments applied on top of the velocity confidence.
const (
	bufferWideBonus    = 0.2  // more than 30 days of slack
	bufferNarrowBonus  = 0.1  // positive but tight slack
	bufferSlipPenalty  = -0.1 // up to 30 days late
	bufferMissPenalty  = -0.3 // more than 30 days late
	trendImprovingRate = 0.15
	trendDecliningRate = 0.2
)

// Forecast projects the completion outlook for a single goal given the
// user's savings velocity. Already-funded goals short-circuit to a certain
// success; a non-positive velocity yields an at-risk forecast with no
// completion estimate rather than an error.
func Forecast(g *domain.Goal, velocity domain.VelocityMetrics, now time.Time) domain.GoalForecast {
	remaining := g.Remaining()

	if remaining <= 0 {
		return domain.GoalForecast{
			GoalID:               g.ID,
			IsCompleted:          true,
			OnTrack:              true,
			ProbabilityOfSuccess: 1.0,
			Message:              fmt.Sprintf("Goal %q is already funded.", g.Name),
		}
	}

	if !velocity.HasEnoughData || velocity.MonthlySavingsRate <= 0 {
		f := domain.GoalForecast{
			GoalID:               g.ID,
			OnTrack:              false,
			ProbabilityOfSuccess: 0,
			Recommendation:       "Increase monthly savings to make progress toward this goal.",
		}
		if !velocity.HasEnoughData {
			f.Message = velocity.Message
		} else {
			f.Message = "Current savings rate is zero or negative; no completion date can be estimated."
		}
		return f
	}

	months := remaining / velocity.MonthlySavingsRate
	completion := now.AddDate(0, int(math.Ceil(months)), 0)
	bufferDays := g.TargetDate.Sub(completion).Hours() / 24

	probability := stats.Clamp(
		velocity.Confidence+bufferAdjustment(bufferDays)+trendAdjustment(velocity.Trend),
		0, 1,
	)

	f := domain.GoalForecast{
		GoalID:               g.ID,
		EstimatedCompletion:  &completion,
		MonthsToCompletion:   &months,
		OnTrack:              !completion.After(g.TargetDate),
		ProbabilityOfSuccess: probability,
	}

	if f.OnTrack {
		f.Message = fmt.Sprintf("On track to reach %q around %s.", g.Name, completion.Format("2006-01-02"))
	} else {
		f.Message = fmt.Sprintf("At the current pace %q completes around %s, after the target date.", g.Name, completion.Format("2006-01-02"))
		shortfall := remaining/monthsUntil(now, g.TargetDate) - velocity.MonthlySavingsRate
		if shortfall > 0 {
			f.Recommendation = fmt.Sprintf("Save about %.2f more per month to hit the target date.", shortfall)
		} else {
			f.Recommendation = "Review the target date or increase monthly savings."
		}
	}

	return f
}

// ForecastAll runs the single-goal forecast over every goal and summarizes
// the portfolio, most at-risk goals first.
func ForecastAll(goals []*domain.Goal, velocity domain.VelocityMetrics, now time.Time) domain.GoalPortfolio {
	portfolio := domain.GoalPortfolio{
		Forecasts: make([]domain.GoalForecast, 0, len(goals)),
	}

	for _, g := range goals {
		f := Forecast(g, velocity, now)
		switch {
		case f.IsCompleted:
			portfolio.Completed++
		case f.OnTrack:
			portfolio.OnTrack++
		default:
			portfolio.AtRisk++
		}
		portfolio.Forecasts = append(portfolio.Forecasts, f)
	}

	sort.SliceStable(portfolio.Forecasts, func(i, j int) bool {
		return portfolio.Forecasts[i].ProbabilityOfSuccess < portfolio.Forecasts[j].ProbabilityOfSuccess
	})

	portfolio.Status = portfolioStatus(portfolio.OnTrack, portfolio.AtRisk)
	return portfolio
}

// bufferAdjustment rewards slack before the target date and penalizes
// projected slippage past it.
func bufferAdjustment(bufferDays float64) float64 {
	switch {
	case bufferDays > 30:
		return bufferWideBonus
	case bufferDays > 0:
		return bufferNarrowBonus
	case bufferDays > -30:
		return bufferSlipPenalty
	default:
		return bufferMissPenalty
	}
}

// trendAdjustment scales the probability by the savings trend.
func trendAdjustment(trend domain.SavingsTrend) float64 {
	switch trend.Direction {
	case domain.TrendImproving:
		return trend.Strength * trendImprovingRate
	case domain.TrendDeclining:
		return -trend.Strength * trendDecliningRate
	default:
		return 0
	}
}

// portfolioStatus tags the overall portfolio health from the on-track and
// at-risk counts.
func portfolioStatus(onTrack, atRisk int) string {
	switch {
	case atRisk == 0:
		return domain.PortfolioHealthy
	case atRisk > onTrack:
		return domain.PortfolioCritical
	default:
		return domain.PortfolioAttention
	}
}

// monthsUntil converts the span from now to a deadline into fractional
// months, floored at one so required-rate math never divides by zero.
func monthsUntil(now, deadline time.Time) float64 {
	months := deadline.Sub(now).Hours() / 24 / 30.44
	if months < 1 {
		return 1
	}
	return months
}
