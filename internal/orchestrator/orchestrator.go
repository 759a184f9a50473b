// Package orchestrator provides end-to-end forecast pipeline orchestration.
// It coordinates: normalization → forecast → simulation → goals → alerts.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"expenseflow/internal/config"
	"expenseflow/internal/domain"
	"expenseflow/internal/forecast"
	"expenseflow/internal/goal"
	"expenseflow/internal/history"
	"expenseflow/internal/observability"
	"expenseflow/internal/simulation"
	"expenseflow/internal/storage"
)

// Orchestrator coordinates a full forecasting run for one user.
// Flow: normalize history → deterministic forecast → Monte Carlo
// simulation → goal portfolio → alerts → forecast record.
type Orchestrator struct {
	// Stores
	transactionStore storage.TransactionStore
	goalStore        storage.GoalStore
	recordStore      storage.ForecastRecordStore

	// Engines
	historyRunner *history.Runner
	forecaster    *forecast.Forecaster
	engine        *simulation.Engine

	metrics *observability.Metrics

	// Options
	skipNormalization bool
	verbose           bool
}

// Options for creating an Orchestrator.
type Options struct {
	// Required store
	TransactionStore storage.TransactionStore

	// Optional stores; nil disables the corresponding phase or sink
	GoalStore     storage.GoalStore
	CashflowStore storage.CashflowTimeseriesStore
	RecordStore   storage.ForecastRecordStore

	Config  config.Config
	Metrics *observability.Metrics

	// Options
	SkipNormalization bool // skip if daily cashflow already materialized
	Verbose           bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		transactionStore: opts.TransactionStore,
		goalStore:        opts.GoalStore,
		recordStore:      opts.RecordStore,
		historyRunner:    history.NewRunner(opts.TransactionStore, opts.CashflowStore),
		forecaster:       forecast.NewForecaster(opts.Config.SmoothingAlpha),
		engine: simulation.NewEngine(simulation.Config{
			MaxSimulations: opts.Config.MaxSimulations,
			MaxHorizonDays: opts.Config.MaxHorizonDays,
			Workers:        opts.Config.Workers,
			Metrics:        opts.Metrics,
		}),
		metrics:           opts.Metrics,
		skipNormalization: opts.SkipNormalization,
		verbose:           opts.Verbose,
	}
}

// RunRequest describes one orchestrated forecast run. The reference time is
// explicit so identical requests replay identically.
type RunRequest struct {
	UserID     string
	Parameters domain.ForecastParameters

	// Simulation is optional; nil skips the Monte Carlo phase.
	Simulation      *domain.SimulationRequest
	StartingBalance float64

	// Persist stores the emitted record when a record store is wired.
	Persist bool

	Now time.Time
}

// RunResult contains results from one orchestrated run.
type RunResult struct {
	// Viable is false when history is too short for any forecast; the rest
	// of the result is then empty and Reason explains why.
	Viable bool
	Reason string

	Record     *domain.ForecastRecord
	Simulation *domain.SimulationResult
	Velocity   domain.VelocityMetrics
	Portfolio  *domain.GoalPortfolio

	// Errors collects non-fatal phase failures (simulation, goals,
	// persistence). The deterministic forecast itself failing is fatal.
	Errors []string
}

// Run executes the full pipeline for one user.
// Phases:
//  1. Normalize history into daily cashflow points
//  2. Deterministic forecast with confidence bands
//  3. Monte Carlo simulation (optional)
//  4. Goal velocity and portfolio forecast
//  5. Alerts and forecast record
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: empty user id", forecast.ErrInvalidParameter)
	}
	result := &RunResult{Viable: true}
	started := time.Now()

	// Phase 1: Normalization
	if !o.skipNormalization {
		o.log("Phase 1: Normalizing history for user %s...", req.UserID)
		if err := o.historyRunner.Normalize(ctx, req.UserID); err != nil {
			return nil, fmt.Errorf("phase 1 (normalization) failed: %w", err)
		}
	} else {
		o.log("Phase 1: Skipping normalization (skipNormalization=true)")
	}

	// Phase 2: Deterministic forecast
	o.log("Phase 2: Forecasting (%s, %s)...", req.Parameters.Algorithm, req.Parameters.PeriodType)
	window, err := o.historyRunner.Window(ctx, req.UserID, req.Parameters, req.Now)
	if err != nil {
		return nil, fmt.Errorf("phase 2 (load window) failed: %w", err)
	}

	predictions, err := o.forecaster.Forecast(window, req.Parameters, req.Now)
	if errors.Is(err, forecast.ErrInsufficientHistory) {
		// Too little history is a result state, not a failure.
		result.Viable = false
		result.Reason = fmt.Sprintf("not enough history for a forecast: %d periods, need %d",
			len(window), forecast.MinHistoryPoints)
		o.log("  %s", result.Reason)
		return result, nil
	}
	if err != nil {
		if o.metrics != nil {
			o.metrics.ForecastErrors.WithLabelValues("forecast").Inc()
		}
		return nil, fmt.Errorf("phase 2 (forecast) failed: %w", err)
	}

	aggregate := forecast.Summarize(predictions)
	seasonal := forecast.SeasonalFactors(window)
	o.log("  %d predictions, trend %s (%.1f%%)", len(predictions), aggregate.Trend, aggregate.TrendPercentage)

	// Phase 3: Monte Carlo simulation
	if req.Simulation != nil {
		o.log("Phase 3: Simulating %d paths over %d days...", req.Simulation.Simulations, req.Simulation.HorizonDays)
		sim, err := o.runSimulation(ctx, req)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("simulation: %v", err))
			o.log("  simulation skipped: %v", err)
		} else {
			result.Simulation = sim
			o.log("  median runway %.0f days, %d/%d paths exhausted", sim.Runway.P50, sim.ExhaustedPaths, sim.Simulations)
		}
	}

	// Phase 4: Goals
	if o.goalStore != nil {
		o.log("Phase 4: Forecasting goals...")
		velocity, portfolio, err := o.runGoals(ctx, req)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("goals: %v", err))
			o.log("  goal phase skipped: %v", err)
		} else {
			result.Velocity = velocity
			result.Portfolio = portfolio
			o.log("  %d goals: %d on track, %d at risk, %d completed",
				len(portfolio.Forecasts), portfolio.OnTrack, portfolio.AtRisk, portfolio.Completed)
		}
	}

	// Phase 5: Alerts and record
	alerts, recommendations := forecast.GenerateAlerts(aggregate, predictions, result.Simulation, result.Portfolio)
	result.Record = &domain.ForecastRecord{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		Parameters:      req.Parameters,
		Predictions:     predictions,
		Aggregate:       aggregate,
		SeasonalFactors: seasonal,
		Alerts:          alerts,
		Recommendations: recommendations,
		CreatedAt:       req.Now,
	}

	if req.Persist && o.recordStore != nil {
		if err := o.recordStore.Insert(ctx, result.Record); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("persist record: %v", err))
		}
	}

	if o.metrics != nil {
		o.metrics.ForecastsGenerated.WithLabelValues(string(req.Parameters.Algorithm)).Inc()
		o.metrics.ForecastDuration.Observe(time.Since(started).Seconds())
	}

	o.log("Run completed: %d predictions, %d alerts, %d phase errors",
		len(predictions), len(alerts), len(result.Errors))

	return result, nil
}

// StressTest derives generative parameters from the user's history and runs
// the named scenario set against a shared baseline.
func (o *Orchestrator) StressTest(ctx context.Context, req RunRequest, scenarios []domain.StressScenario) ([]domain.StressResult, error) {
	params, err := o.deriveParams(ctx, req)
	if err != nil {
		return nil, err
	}

	horizon := 0
	var seed int64
	if req.Simulation != nil {
		horizon = req.Simulation.HorizonDays
		seed = req.Simulation.Seed
	}

	return simulation.NewStressEngine(o.engine).Run(ctx, params, scenarios, horizon, seed)
}

// QuickEstimate produces the closed-form preview without running any paths.
func (o *Orchestrator) QuickEstimate(ctx context.Context, req RunRequest) (*domain.QuickEstimate, error) {
	params, err := o.deriveParams(ctx, req)
	if err != nil {
		return nil, err
	}

	horizon := 0
	if req.Simulation != nil {
		horizon = req.Simulation.HorizonDays
	}
	return simulation.Quick(params, horizon), nil
}

// runSimulation derives generative parameters and executes the Monte Carlo
// engine.
func (o *Orchestrator) runSimulation(ctx context.Context, req RunRequest) (*domain.SimulationResult, error) {
	params, err := o.deriveParams(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.engine.Run(ctx, params, *req.Simulation)
}

// deriveParams builds the simulator's generative distribution from the
// user's income and expense history.
func (o *Orchestrator) deriveParams(ctx context.Context, req RunRequest) (simulation.GenerativeParams, error) {
	income, expense, err := o.historyRunner.FlowWindows(ctx, req.UserID, req.Parameters, req.Now)
	if err != nil {
		return simulation.GenerativeParams{}, fmt.Errorf("load flow windows: %w", err)
	}
	return simulation.DeriveParams(income, expense, req.Parameters.PeriodType, req.StartingBalance)
}

// runGoals computes savings velocity over the lookback and forecasts every
// active goal.
func (o *Orchestrator) runGoals(ctx context.Context, req RunRequest) (domain.VelocityMetrics, *domain.GoalPortfolio, error) {
	txns, err := o.transactionStore.GetByUser(ctx, req.UserID)
	if err != nil {
		return domain.VelocityMetrics{}, nil, fmt.Errorf("load transactions: %w", err)
	}
	velocity := goal.CalculateVelocity(txns)

	goals, err := o.goalStore.GetActiveByUser(ctx, req.UserID)
	if err != nil {
		return domain.VelocityMetrics{}, nil, fmt.Errorf("load goals: %w", err)
	}

	portfolio := goal.ForecastAll(goals, velocity, req.Now)

	if o.metrics != nil {
		o.metrics.GoalForecasts.Add(float64(len(portfolio.Forecasts)))
		o.metrics.GoalsAtRisk.Set(float64(portfolio.AtRisk))
	}

	return velocity, &portfolio, nil
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
