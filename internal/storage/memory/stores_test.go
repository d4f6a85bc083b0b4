package memory

import (
	"context"
	"errors"
	"testing"

	"securelp/internal/domain"
	"securelp/internal/storage"
)

func TestCommitmentStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewCommitmentStore()

	c := &domain.Commitment{
		Owner:     "alice",
		Hash:      [32]byte{1, 2, 3},
		CreatedAt: 1_700_000_000,
		Amount:    5_000_000_000,
		Kind:      domain.IntentStake,
	}
	if err := s.Put(ctx, c); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *got != *c {
		t.Errorf("Get() = %+v, want %+v", got, c)
	}

	if err := s.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "alice"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "alice"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("double Delete() error = %v, want ErrNotFound", err)
	}
}

func TestCommitmentStoreDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewCommitmentStore()

	c := &domain.Commitment{Owner: "alice", Amount: 1}
	if err := s.Put(ctx, c); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Put(ctx, c); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("second Put() error = %v, want ErrDuplicateKey", err)
	}
}

func TestCommitmentStoreInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := NewCommitmentStore()

	if err := s.Put(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Put(nil) error = %v, want ErrInvalidInput", err)
	}
	if err := s.Put(ctx, &domain.Commitment{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Put(empty owner) error = %v, want ErrInvalidInput", err)
	}
}

func TestCommitmentStoreCopySemantics(t *testing.T) {
	ctx := context.Background()
	s := NewCommitmentStore()

	c := &domain.Commitment{Owner: "alice", Amount: 100}
	if err := s.Put(ctx, c); err != nil {
		t.Fatal(err)
	}
	c.Amount = 999 // caller mutation must not leak into the store

	got, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.Amount != 100 {
		t.Errorf("stored Amount = %d, want 100", got.Amount)
	}

	got.Amount = 777 // returned copy mutation must not leak either
	again, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if again.Amount != 100 {
		t.Errorf("stored Amount = %d after reader mutation, want 100", again.Amount)
	}
}

func TestRunStore(t *testing.T) {
	ctx := context.Background()
	s := NewRunStore()

	runs := []*domain.RunRecord{
		{RunID: "run-b", StartedAt: 200},
		{RunID: "run-a", StartedAt: 100},
		{RunID: "run-c", StartedAt: 300},
	}
	for _, r := range runs {
		if err := s.Insert(ctx, r); err != nil {
			t.Fatalf("Insert(%s) error = %v", r.RunID, err)
		}
	}

	if err := s.Insert(ctx, runs[0]); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("duplicate Insert() error = %v, want ErrDuplicateKey", err)
	}

	got, err := s.GetByID(ctx, "run-a")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.StartedAt != 100 {
		t.Errorf("StartedAt = %d, want 100", got.StartedAt)
	}
	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}

	listed, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("List() = %d runs, want 3", len(listed))
	}
	for i, want := range []string{"run-a", "run-b", "run-c"} {
		if listed[i].RunID != want {
			t.Errorf("List()[%d] = %s, want %s (started_at ASC)", i, listed[i].RunID, want)
		}
	}
}

func TestTradeResultStore(t *testing.T) {
	ctx := context.Background()
	s := NewTradeResultStore()

	trades := []*domain.TradeResult{
		{Signature: "sim_swap_1", AmountIn: 100},
		{Signature: "sim_swap_2", AmountIn: 200},
	}
	if err := s.InsertBulk(ctx, "run-1", trades); err != nil {
		t.Fatalf("InsertBulk() error = %v", err)
	}
	if err := s.InsertBulk(ctx, "run-1", []*domain.TradeResult{{Signature: "sim_protected_1", Protected: true}}); err != nil {
		t.Fatalf("second InsertBulk() error = %v", err)
	}

	got, err := s.GetByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRun() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("GetByRun() = %d trades, want 3", len(got))
	}
	if got[0].Signature != "sim_swap_1" || got[2].Signature != "sim_protected_1" {
		t.Errorf("insertion order lost: %s ... %s", got[0].Signature, got[2].Signature)
	}

	// Unknown runs return empty, not an error.
	empty, err := s.GetByRun(ctx, "missing")
	if err != nil {
		t.Fatalf("GetByRun(missing) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("GetByRun(missing) = %d trades, want 0", len(empty))
	}

	if err := s.InsertBulk(ctx, "", trades); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty run id error = %v, want ErrInvalidInput", err)
	}
	if err := s.InsertBulk(ctx, "run-1", []*domain.TradeResult{nil}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil trade error = %v, want ErrInvalidInput", err)
	}
}

func TestSandwichResultStore(t *testing.T) {
	ctx := context.Background()
	s := NewSandwichResultStore()

	results := []*domain.SandwichResult{
		{FrontRunSig: "sim_frontrun_1", ProfitLamports: 50_000, Success: true},
		{FrontRunSig: "sim_frontrun_2", ProfitLamports: -10_000},
	}
	if err := s.InsertBulk(ctx, "run-1", results); err != nil {
		t.Fatalf("InsertBulk() error = %v", err)
	}

	got, err := s.GetByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRun() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetByRun() = %d results, want 2", len(got))
	}
	if int64(got[1].ProfitLamports) != -10_000 {
		t.Errorf("negative profit lost: %d", got[1].ProfitLamports)
	}

	// Stored copies are isolated from caller mutation.
	results[0].ProfitLamports = 0
	again, _ := s.GetByRun(ctx, "run-1")
	if int64(again[0].ProfitLamports) != 50_000 {
		t.Errorf("stored profit = %d, want 50000", again[0].ProfitLamports)
	}
}

func TestPoolHistoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewPoolHistoryStore()

	records := []domain.PoolStateRecord{
		{TransactionID: 1, ReserveA: 1000, ReserveB: 1000, Scenario: domain.ScenarioNormal},
		{TransactionID: 1, ReserveA: 1000, ReserveB: 1000, Scenario: domain.ScenarioProtected},
		{TransactionID: 2, ReserveA: 990, ReserveB: 1010, Scenario: domain.ScenarioNormal},
	}
	if err := s.InsertBulk(ctx, "run-1", records); err != nil {
		t.Fatalf("InsertBulk() error = %v", err)
	}

	got, err := s.GetByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRun() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("GetByRun() = %d records, want 3", len(got))
	}
	if got[2].TransactionID != 2 || got[2].Scenario != domain.ScenarioNormal {
		t.Errorf("record order lost: %+v", got[2])
	}

	if err := s.InsertBulk(ctx, "", records); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty run id error = %v, want ErrInvalidInput", err)
	}
}
