// Package main runs the MEV simulation: paired normal/protected
// scenarios over a constant-product pool, with results written to JSON
// and optionally to PostgreSQL/ClickHouse.
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

	"github.com/joho/godotenv"

	"securelp/internal/analytics"
	"securelp/internal/domain"
	"securelp/internal/funding"
	"securelp/internal/observability"
	"securelp/internal/simulation"
	"securelp/internal/solana"
	chstore "securelp/internal/storage/clickhouse"
	"securelp/internal/storage/migrations"
	pgstore "securelp/internal/storage/postgres"
)

func main() {
	// Load .env if present; flags and real env still win.
	_ = godotenv.Load()

	transactions := flag.Uint("transactions", 1000, "Number of paired transactions to simulate")
	attackProb := flag.Float64("attack-prob", 0.8, "Probability the attacker evaluates a visible swap")
	minSwap := flag.Float64("min-swap", 0.1, "Minimum victim swap size in SOL")
	maxSwap := flag.Float64("max-swap", 5.0, "Maximum victim swap size in SOL")
	liquidity := flag.Float64("liquidity", 1000, "Initial pool liquidity per side in SOL")
	feeBps := flag.Uint("fee-bps", 30, "Pool swap fee in basis points")
	attackerCapital := flag.Float64("attacker-capital", 100, "Attacker capital per side in SOL")
	traders := flag.Int("traders", 10, "Number of trader wallets")
	seed := flag.Int64("seed", time.Now().UnixNano(), "RNG seed (same seed replays the same run)")
	output := flag.String("output", "results", "Output directory for logs and reports")
	rpcURL := flag.String("rpc-url", os.Getenv("RPC_URL"), "Solana RPC endpoint for the cluster preflight check (empty to skip)")
	wsURL := flag.String("ws-url", os.Getenv("WS_URL"), "Solana WebSocket endpoint for watching program logs (empty to skip)")
	programID := flag.String("program-id", os.Getenv("PROGRAM_ID"), "Deployed commit-reveal program address (with --rpc-url or --ws-url)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (empty to skip)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (empty to skip)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling simulation...\n", sig)
		cancel()
	}()

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				fmt.Fprintf(os.Stderr, "Metrics server error: %v\n", err)
			}
		}()
	}

	// Preflight: fail fast when the cluster is unreachable or the
	// program is not deployed, rather than discovering it after a long
	// simulation. A reachable cluster also funds the trader wallets by
	// airdrop before the run.
	var funder simulation.WalletFunder
	if *rpcURL != "" {
		client := solana.NewHTTPClient(*rpcURL)
		preflightCtx, preflightCancel := context.WithTimeout(ctx, 10*time.Second)
		err := preflight(preflightCtx, client, *rpcURL, *programID)
		preflightCancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "RPC preflight failed for %s: %v\n", *rpcURL, err)
			os.Exit(1)
		}
		funder = funding.NewManager(funding.Options{RPC: client, Verbose: *verbose})
	}

	// Tail the deployed program's logs during the run. The watcher sees
	// exactly what a mempool observer sees: instruction names, never
	// swap details.
	if *wsURL != "" && *programID != "" {
		ws, err := solana.NewLogsClient(ctx, *wsURL, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "WebSocket error: %v\n", err)
			os.Exit(1)
		}
		defer ws.Close()

		events, err := solana.NewWatcher(ws, *programID).Watch(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Log subscription error: %v\n", err)
			os.Exit(1)
		}
		go func() {
			for ev := range events {
				status := "ok"
				if ev.Failed {
					status = "failed"
				}
				fmt.Printf("[watch] %s %s slot=%d %s\n", ev.Kind, ev.Signature, ev.Slot, status)
			}
		}()
	}

	cfg := simulation.DefaultConfig()
	cfg.TotalTransactions = uint32(*transactions)
	cfg.AttackProbability = *attackProb
	cfg.MinSwapLamports = solToLamports(*minSwap)
	cfg.MaxSwapLamports = solToLamports(*maxSwap)
	cfg.InitialPoolA = solToLamports(*liquidity)
	cfg.InitialPoolB = solToLamports(*liquidity)
	cfg.FeeBps = uint16(*feeBps)
	cfg.AttackerCapital = solToLamports(*attackerCapital)
	cfg.TraderCount = *traders
	cfg.Seed = *seed
	cfg.OutputDir = *output

	opts := simulation.Options{
		Config:  cfg,
		Funder:  funder,
		Verbose: *verbose,
	}

	// Optional PostgreSQL persistence for commitments, runs, and trades.
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "PostgreSQL error: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "PostgreSQL migrations error: %v\n", err)
			os.Exit(1)
		}

		opts.CommitmentStore = pgstore.NewCommitmentStore(pool)
		opts.RunStore = pgstore.NewRunStore(pool)
		opts.TradeStore = pgstore.NewTradeResultStore(pool)
		opts.SandwichStore = pgstore.NewSandwichResultStore(pool)
	}

	// Optional ClickHouse persistence for the pool timeseries.
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ClickHouse error: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()

		opts.PoolHistoryStore = chstore.NewPoolHistoryStore(conn)
	}

	fmt.Println("=== MEV Simulation ===")
	orch := simulation.New(opts)

	results, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation error: %v\n", err)
		os.Exit(1)
	}

	logger := analytics.NewLogger(cfg.OutputDir)
	resultsPath, err := logger.SaveResults(results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving results: %v\n", err)
		os.Exit(1)
	}
	if _, err := logger.SaveSummary(results); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving summary: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(analytics.FormatSummary(results))
	if len(results.Errors) > 0 {
		fmt.Printf("Completed with %d per-transaction errors (see results file).\n", len(results.Errors))
	}
	fmt.Printf("Results: %s\n", resultsPath)
}

// preflight checks the cluster is reachable and, when a program ID is
// given, that the commit-reveal program is actually deployed there.
func preflight(ctx context.Context, client *solana.HTTPClient, rpcURL, programID string) error {
	slot, err := client.GetSlot(ctx)
	if err != nil {
		return err
	}
	blockTime, err := client.GetBlockTime(ctx, slot)
	if err != nil {
		return err
	}
	if blockTime > 0 {
		fmt.Printf("Connected to %s (slot %d, block time %s)\n",
			rpcURL, slot, time.Unix(blockTime, 0).UTC().Format(time.RFC3339))
	} else {
		fmt.Printf("Connected to %s (slot %d)\n", rpcURL, slot)
	}

	if programID == "" {
		return nil
	}
	info, err := client.GetAccountInfo(ctx, programID)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("program %s not found on cluster", programID)
	}
	if !info.Executable {
		return fmt.Errorf("account %s exists but is not executable", programID)
	}
	fmt.Printf("Program %s deployed (owner %s)\n", programID, info.Owner)
	return nil
}

func solToLamports(sol float64) uint64 {
	return uint64(sol * float64(domain.LamportsPerSOL))
}
