// Package main provides the forecast pipeline entry point.
// Executes: normalization → forecast → simulation → goals → alerts
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expenseflow/internal/config"
	"expenseflow/internal/domain"
	"expenseflow/internal/history"
	"expenseflow/internal/observability"
	"expenseflow/internal/orchestrator"
	"expenseflow/internal/storage"
	chstore "expenseflow/internal/storage/clickhouse"
	"expenseflow/internal/storage/memory"
	"expenseflow/internal/storage/migrations"
	pgstore "expenseflow/internal/storage/postgres"
)

// stores holds the storage implementations of one run.
type stores struct {
	transactionStore storage.TransactionStore
	goalStore        storage.GoalStore
	cashflowStore    storage.CashflowTimeseriesStore
	recordStore      storage.ForecastRecordStore
}

func main() {
	config.LoadEnvFile(".env")
	cfg := config.FromEnv()

	// Parse flags (env vars as defaults)
	userID := flag.String("user", "demo-user", "User to forecast")
	algorithm := flag.String("algorithm", string(cfg.DefaultAlgorithm), "Forecast algorithm (moving_average, linear_regression, exponential_smoothing)")
	period := flag.String("period", "monthly", "Aggregation period (weekly, monthly, quarterly, yearly)")
	confidence := flag.Int("confidence", cfg.DefaultConfidence, "Confidence level (80, 90, 95, 99)")
	periods := flag.Int("periods", 12, "Historical lookback in periods")
	category := flag.String("category", "", "Optional category filter")
	balance := flag.Float64("balance", 5000, "Starting balance for simulation")
	paths := flag.Int("paths", domain.DefaultSimulations, "Monte Carlo path count (0 disables simulation)")
	horizon := flag.Int("horizon", domain.DefaultHorizonDays, "Simulation horizon in days")
	seed := flag.Int64("seed", 0, "Simulation seed (0 picks a random one)")
	persist := flag.Bool("persist", false, "Persist the forecast record")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage with fixture data")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address (empty disables)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling...\n", sig)
		cancel()
	}()

	now := time.Now().UTC()

	st, err := createStores(ctx, cfg, *useMemory, *userID, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating stores: %v\n", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics("")
	if *metricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(*metricsAddr, observability.Handler()); err != nil {
				fmt.Fprintf(os.Stderr, "Metrics server error: %v\n", err)
			}
		}()
	}

	orch := orchestrator.New(orchestrator.Options{
		TransactionStore: st.transactionStore,
		GoalStore:        st.goalStore,
		CashflowStore:    st.cashflowStore,
		RecordStore:      st.recordStore,
		Config:           cfg,
		Metrics:          metrics,
		Verbose:          *verbose,
	})

	req := orchestrator.RunRequest{
		UserID: *userID,
		Parameters: domain.ForecastParameters{
			PeriodType:        domain.PeriodType(*period),
			Category:          *category,
			Algorithm:         domain.AlgorithmType(*algorithm),
			ConfidenceLevel:   *confidence,
			HistoricalPeriods: *periods,
		},
		StartingBalance: *balance,
		Persist:         *persist,
		Now:             now,
	}
	if *paths > 0 {
		req.Simulation = &domain.SimulationRequest{
			Simulations: *paths,
			HorizonDays: *horizon,
			Seed:        *seed,
		}
	}

	fmt.Println("=== Forecast Pipeline ===")
	result, err := orch.Run(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	printResult(result)
}

// createStores builds memory stores with fixtures, or the production
// PostgreSQL + ClickHouse stack when DSNs are configured.
func createStores(ctx context.Context, cfg config.Config, useMemory bool, userID string, now time.Time) (*stores, error) {
	if useMemory || cfg.PostgresDSN == "" {
		st := &stores{
			transactionStore: memory.NewTransactionStore(),
			goalStore:        memory.NewGoalStore(),
			cashflowStore:    memory.NewCashflowTimeseriesStore(),
			recordStore:      memory.NewForecastRecordStore(),
		}
		if err := history.LoadFixtures(ctx, userID, st.transactionStore, st.goalStore, now); err != nil {
			return nil, fmt.Errorf("load fixtures: %w", err)
		}
		return st, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}

	st := &stores{
		transactionStore: pgstore.NewTransactionStore(pool),
		goalStore:        pgstore.NewGoalStore(pool),
		recordStore:      pgstore.NewForecastRecordStore(pool),
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return nil, fmt.Errorf("connect clickhouse: %w", err)
		}
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			return nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		st.cashflowStore = chstore.NewCashflowTimeseriesStore(conn)
	}

	return st, nil
}

func printResult(result *orchestrator.RunResult) {
	if !result.Viable {
		fmt.Printf("No forecast possible: %s\n", result.Reason)
		return
	}

	record := result.Record

	fmt.Println("\nPredictions:")
	for _, p := range record.Predictions {
		fmt.Printf("  %s  %10.2f  [%.2f, %.2f]\n",
			p.Date.Format("2006-01-02"), p.PredictedAmount, p.ConfidenceLower, p.ConfidenceUpper)
	}

	fmt.Printf("\nAggregate: total %.2f, monthly avg %.2f, trend %s (%.1f%%)\n",
		record.Aggregate.TotalPredicted, record.Aggregate.AverageMonthly,
		record.Aggregate.Trend, record.Aggregate.TrendPercentage)

	if sim := result.Simulation; sim != nil {
		fmt.Printf("\nSimulation: %d paths over %d days (seed %d)\n", sim.Simulations, sim.HorizonDays, sim.Seed)
		fmt.Printf("  Runway days: p10=%.0f p50=%.0f p90=%.0f (%d paths exhausted)\n",
			sim.Runway.P10, sim.Runway.P50, sim.Runway.P90, sim.ExhaustedPaths)
		fmt.Printf("  Median ending balance: %.2f\n", sim.MedianEnding)
	}

	if pf := result.Portfolio; pf != nil {
		fmt.Printf("\nGoals (%s): %d on track, %d at risk, %d completed\n",
			pf.Status, pf.OnTrack, pf.AtRisk, pf.Completed)
		for _, f := range pf.Forecasts {
			fmt.Printf("  %s  p=%.2f  %s\n", f.GoalID, f.ProbabilityOfSuccess, f.Message)
		}
	}

	if len(record.Alerts) > 0 {
		fmt.Println("\nAlerts:")
		for _, a := range record.Alerts {
			fmt.Printf("  [%s] %s: %s\n", a.Severity, a.Code, a.Message)
		}
	}
	for _, r := range record.Recommendations {
		fmt.Printf("  → %s\n", r)
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\nPhase errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}
