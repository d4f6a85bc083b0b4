package analytics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"securelp/internal/domain"
)

func fixedClock() func() time.Time {
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func sampleResults() *domain.SimulationResults {
	return &domain.SimulationResults{
		Config: domain.ConfigSummary{
			TotalTransactions: 2,
			AttackProbability: 0.8,
			MinSwapLamports:   100_000_000,
			MaxSwapLamports:   5_000_000_000,
			InitialPoolA:      1000 * domain.LamportsPerSOL,
			InitialPoolB:      1000 * domain.LamportsPerSOL,
			FeeBps:            30,
			Seed:              42,
		},
		NormalTrades: []*domain.TradeResult{
			{Signature: "sim_swap_1", Trader: "t1", AmountIn: 1_000_000_000, ActualOut: 990_000_000, SlippageLoss: 10_000_000, WasAttacked: true},
			{Signature: "sim_swap_2", Trader: "t2", AmountIn: 2_000_000_000, ActualOut: 1_990_000_000},
		},
		ProtectedTrades: []*domain.TradeResult{
			{Signature: "sim_protected_1", Trader: "t1", AmountIn: 1_000_000_000, ActualOut: 996_000_000, Protected: true, DelayWaited: 1},
			{Signature: "sim_protected_2", Trader: "t2", AmountIn: 2_000_000_000, ActualOut: 1_990_000_000, Protected: true, DelayWaited: 1},
		},
		SandwichResults: []*domain.SandwichResult{
			{FrontRunSig: "sim_frontrun_1", ProfitLamports: 5_000_000, VictimLoss: 10_000_000, Success: true},
		},
		Summary: domain.SimulationSummary{
			TotalTransactions:     2,
			AttackAttempts:        1,
			SuccessfulAttacks:     1,
			AttackSuccessRate:     100,
			TotalMevExtracted:     5_000_000,
			TotalVictimLosses:     10_000_000,
			TotalProtectedSavings: 10_000_000,
			TotalVolume:           6_000_000_000,
			AvgTradeAmount:        1_500_000_000,
		},
		PoolHistory: []domain.PoolStateRecord{
			{TransactionID: 1, ReserveA: 999, ReserveB: 1001, PriceAInB: 1.002, Scenario: domain.ScenarioNormal},
			{TransactionID: 1, ReserveA: 1000, ReserveB: 1000, PriceAInB: 1.0, Scenario: domain.ScenarioProtected},
		},
	}
}

func TestSaveAndLoadResults(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(dir).WithClock(fixedClock())
	original := sampleResults()

	path, err := logger.SaveResults(original)
	if err != nil {
		t.Fatalf("SaveResults() error = %v", err)
	}
	wantPath := filepath.Join(dir, "logs", "simulation_20260830_120000.json")
	if path != wantPath {
		t.Errorf("path = %q, want %q", path, wantPath)
	}

	loaded, err := LoadResults(path)
	if err != nil {
		t.Fatalf("LoadResults() error = %v", err)
	}
	if loaded.Summary != original.Summary {
		t.Errorf("Summary round trip mismatch:\n got %+v\nwant %+v", loaded.Summary, original.Summary)
	}
	if len(loaded.NormalTrades) != 2 || len(loaded.ProtectedTrades) != 2 {
		t.Errorf("trade counts lost: %d/%d", len(loaded.NormalTrades), len(loaded.ProtectedTrades))
	}
	if loaded.NormalTrades[0].SlippageLoss != 10_000_000 {
		t.Errorf("SlippageLoss = %d after round trip", loaded.NormalTrades[0].SlippageLoss)
	}
}

func TestBigintFieldsSerializeAsStrings(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(dir).WithClock(fixedClock())

	path, err := logger.SaveResults(sampleResults())
	if err != nil {
		t.Fatalf("SaveResults() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// Lamport amounts are decimal strings so downstreams never hit
	// float precision on large values.
	if !strings.Contains(string(data), `"amount_in": "1000000000"`) {
		t.Error("AmountIn not serialized as decimal string")
	}
	if !strings.Contains(string(data), `"total_mev_extracted": "5000000"`) {
		t.Error("TotalMevExtracted not serialized as decimal string")
	}
}

func TestLoadResultsMissingFile(t *testing.T) {
	if _, err := LoadResults(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveSummaryAndReport(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(dir).WithClock(fixedClock())
	results := sampleResults()

	sumPath, err := logger.SaveSummary(results)
	if err != nil {
		t.Fatalf("SaveSummary() error = %v", err)
	}
	if filepath.Base(sumPath) != "summary_20260830_120000.txt" {
		t.Errorf("summary filename = %q", filepath.Base(sumPath))
	}

	repPath, err := logger.SaveReport(results)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	data, err := os.ReadFile(repPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "| Attack Attempts | 1 |") {
		t.Error("report missing attack attempts row")
	}
}

func TestFormatSummaryContents(t *testing.T) {
	out := FormatSummary(sampleResults())

	for _, want := range []string{
		"MEV SIMULATION RESULTS",
		"CONFIGURATION",
		"NORMAL TRADING",
		"PROTECTED TRADING",
		"VOLUME STATISTICS",
		"Attack Success Rate:      100.0%",
		"Total MEV Extracted:   0.005000 SOL",
		"TOTAL SAVINGS:         0.010000 SOL",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}
