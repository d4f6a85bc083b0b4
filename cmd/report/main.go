// Package main renders a report from saved simulation results: either a
// JSON results file or a run persisted in PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"securelp/internal/analytics"
	"securelp/internal/domain"
	pgstore "securelp/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	outputDir := flag.String("output-dir", "results", "Output directory for the rendered report")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (for --run-id)")
	runID := flag.String("run-id", "", "Load a persisted run instead of a results file")
	flag.Parse()

	ctx := context.Background()

	var results *domain.SimulationResults
	var err error

	switch {
	case *runID != "":
		if *postgresDSN == "" {
			fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required with --run-id")
			os.Exit(1)
		}
		results, err = loadFromDatabase(ctx, *postgresDSN, *runID)
	case flag.NArg() == 1:
		results, err = analytics.LoadResults(flag.Arg(0))
	default:
		fmt.Fprintln(os.Stderr, "Usage: report <resultsFile> | report --run-id <id> --postgres-dsn <dsn>")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading results: %v\n", err)
		os.Exit(1)
	}

	logger := analytics.NewLogger(*outputDir)
	reportPath, err := logger.SaveReport(results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(analytics.FormatSummary(results))
	fmt.Printf("Report: %s\n", reportPath)
}

// loadFromDatabase reassembles results from the persisted stores.
// Trade rows come back normal-first, so the protected half starts at
// the first row flagged protected.
func loadFromDatabase(ctx context.Context, dsn, runID string) (*domain.SimulationResults, error) {
	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	run, err := pgstore.NewRunStore(pool).GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	trades, err := pgstore.NewTradeResultStore(pool).GetByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	sandwiches, err := pgstore.NewSandwichResultStore(pool).GetByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load sandwich results: %w", err)
	}

	results := &domain.SimulationResults{
		Config:          run.Config,
		SandwichResults: sandwiches,
		Summary:         run.Summary,
	}
	for _, t := range trades {
		if t.Protected {
			results.ProtectedTrades = append(results.ProtectedTrades, t)
		} else {
			results.NormalTrades = append(results.NormalTrades, t)
		}
	}
	return results, nil
}
