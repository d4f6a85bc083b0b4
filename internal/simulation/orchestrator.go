package simulation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"securelp/internal/amm"
	"securelp/internal/commithash"
	"securelp/internal/domain"
	"securelp/internal/keys"
	"securelp/internal/mempool"
	"securelp/internal/observability"
	"securelp/internal/protocol"
	"securelp/internal/sandwich"
	"securelp/internal/storage"
	"securelp/internal/storage/memory"
)

// Orchestrator coordinates one paired simulation run.
// Flow: generate wallets -> replay trades against both pools -> aggregate
type Orchestrator struct {
	cfg Config

	// Stores. Commitment store is required by the protocol; the rest are
	// optional persistence targets.
	commitmentStore  storage.CommitmentStore
	runStore         storage.RunStore
	tradeStore       storage.TradeResultStore
	sandwichStore    storage.SandwichResultStore
	poolHistoryStore storage.PoolHistoryStore

	funder  WalletFunder
	verbose bool

	// virtualNow is the protocol clock in Unix seconds. The run loop
	// advances it explicitly; wall time never gates a reveal.
	virtualNow int64
}

// WalletFunder tops up wallets on a live cluster before the run starts.
// funding.Manager implements it.
type WalletFunder interface {
	FundWallets(ctx context.Context, wallets []string, lamportsEach uint64) error
}

// Options for creating Orchestrator.
type Options struct {
	Config Config

	// CommitmentStore backs the protocol's pending commitments.
	// Nil means an in-memory store.
	CommitmentStore storage.CommitmentStore

	// Optional persistence. Nil stores are skipped.
	RunStore         storage.RunStore
	TradeStore       storage.TradeResultStore
	SandwichStore    storage.SandwichResultStore
	PoolHistoryStore storage.PoolHistoryStore

	// Funder, when set, airdrops TraderBalance to every generated wallet
	// before the run. Nil means purely local simulation.
	Funder WalletFunder

	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	commitments := opts.CommitmentStore
	if commitments == nil {
		commitments = memory.NewCommitmentStore()
	}
	return &Orchestrator{
		cfg:              opts.Config,
		commitmentStore:  commitments,
		runStore:         opts.RunStore,
		tradeStore:       opts.TradeStore,
		sandwichStore:    opts.SandwichStore,
		poolHistoryStore: opts.PoolHistoryStore,
		funder:           opts.Funder,
		verbose:          opts.Verbose,
	}
}

// Run executes the paired simulation.
//
// Both scenarios start from identical reserves and evolve independently:
// the normal pool absorbs front-runs and back-runs, the protected pool
// only ever sees revealed trades. Per-transaction failures are recorded
// in Errors and do not abort the run.
func (o *Orchestrator) Run(ctx context.Context) (*domain.SimulationResults, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	startedAt := time.Now()
	o.virtualNow = startedAt.Unix()
	rng := rand.New(rand.NewSource(o.cfg.Seed))

	traders, err := o.generateTraders()
	if err != nil {
		return nil, fmt.Errorf("generate traders: %w", err)
	}
	attackerKey, err := keys.NewKeypair()
	if err != nil {
		return nil, fmt.Errorf("generate attacker wallet: %w", err)
	}

	if o.funder != nil {
		o.log("Funding %d trader wallets with %.2f SOL each...", len(traders), domain.Lamports(o.cfg.TraderBalance).SOL())
		if err := o.funder.FundWallets(ctx, traders, o.cfg.TraderBalance); err != nil {
			return nil, fmt.Errorf("fund trader wallets: %w", err)
		}
	}

	normalPool := amm.NewPool(o.cfg.InitialPoolA, o.cfg.InitialPoolB, o.cfg.FeeBps)
	protectedPool := amm.NewPool(o.cfg.InitialPoolA, o.cfg.InitialPoolB, o.cfg.FeeBps)

	attacker := sandwich.NewAttacker(attackerKey.Address(), o.cfg.AttackerCapital, o.cfg.AttackerCapital)

	proto := protocol.New(protocol.Options{
		Store:    o.commitmentStore,
		Executor: protocol.NewAMMExecutor(protectedPool),
		Config: protocol.Config{
			MinDelay:       o.cfg.MinDelay,
			MaxSlippageBps: protocol.DefaultMaxSlippage,
			MinAmount:      protocol.DefaultMinAmount,
		},
		Clock: func() time.Time { return time.Unix(o.virtualNow, 0) },
	})

	results := &domain.SimulationResults{Config: o.cfg.Summary()}
	var attackAttempts uint32

	o.log("Running %d paired transactions (seed %d)...", o.cfg.TotalTransactions, o.cfg.Seed)

	for txID := uint32(1); txID <= o.cfg.TotalTransactions; txID++ {
		if err := ctx.Err(); err != nil {
			o.log("Run cancelled after %d/%d transactions", txID-1, o.cfg.TotalTransactions)
			return nil, fmt.Errorf("simulation cancelled: %w", err)
		}

		trader := traders[rng.Intn(len(traders))]
		amount := o.cfg.MinSwapLamports + uint64(rng.Int63n(int64(o.cfg.MaxSwapLamports-o.cfg.MinSwapLamports+1)))
		aToB := rng.Float64() < 0.5
		attackRoll := rng.Float64() < o.cfg.AttackProbability

		trade, swRes, attempted := o.runNormalTrade(normalPool, attacker, trader, amount, aToB, attackRoll, txID)
		results.NormalTrades = append(results.NormalTrades, trade)
		observability.RecordTransaction(domain.ScenarioNormal)
		if attempted {
			attackAttempts++
		}
		if swRes != nil {
			results.SandwichResults = append(results.SandwichResults, swRes)
			observability.RecordSandwich(swRes.Success, int64(swRes.ProfitLamports), uint64(swRes.VictimLoss))
		}

		protectedTrade, err := o.runProtectedTrade(ctx, proto, protectedPool, trader, amount, aToB, txID)
		if err != nil {
			results.Errors = append(results.Errors, fmt.Sprintf("tx %d protected: %v", txID, err))
			observability.RecordSimulationError(domain.ScenarioProtected)
		} else {
			results.ProtectedTrades = append(results.ProtectedTrades, protectedTrade)
			observability.RecordTransaction(domain.ScenarioProtected)
		}

		normalRec := poolRecord(txID, normalPool, domain.ScenarioNormal)
		protectedRec := poolRecord(txID, protectedPool, domain.ScenarioProtected)
		results.PoolHistory = append(results.PoolHistory, normalRec, protectedRec)
		observability.UpdatePoolState(domain.ScenarioNormal, uint64(normalRec.ReserveA), uint64(normalRec.ReserveB), normalRec.PriceAInB)
		observability.UpdatePoolState(domain.ScenarioProtected, uint64(protectedRec.ReserveA), uint64(protectedRec.ReserveB), protectedRec.PriceAInB)

		if txID%100 == 0 {
			o.log("  Processed %d/%d transactions", txID, o.cfg.TotalTransactions)
		}
	}

	results.Summary = Summarize(results, attackAttempts)
	observability.DefaultMetrics.RunDuration.Observe(time.Since(startedAt).Seconds())
	o.log("Run completed: %d attacks attempted, %d succeeded, %.6f SOL MEV extracted",
		results.Summary.AttackAttempts, results.Summary.SuccessfulAttacks, results.Summary.TotalMevExtracted.SOL())

	if err := o.persist(ctx, startedAt, results); err != nil {
		return results, fmt.Errorf("persist results: %w", err)
	}
	return results, nil
}

// runNormalTrade plays one transaction in the unprotected scenario.
// The swap goes over the wire in clear; whether the bot engages depends
// on the attack roll and its own profitability search. Returns the
// victim's trade record, the sandwich record when an attack was actually
// launched, and whether the bot engaged at all.
func (o *Orchestrator) runNormalTrade(pool *amm.Pool, attacker *sandwich.Attacker, trader string, amount uint64, aToB bool, attackRoll bool, txID uint32) (*domain.TradeResult, *domain.SandwichResult, bool) {
	baseline, err := pool.Quote(amount, aToB)
	if err != nil {
		return &domain.TradeResult{
			Signature: simSig("swap", txID),
			Trader:    trader,
			AmountIn:  domain.Lamports(amount),
			AToB:      aToB,
			Timestamp: o.virtualNow,
		}, nil, false
	}
	minOut := amm.MinOutputForSlippage(baseline.AmountOut, o.cfg.VictimSlippageBps)

	trade := &domain.TradeResult{
		Signature:   simSig("swap", txID),
		Trader:      trader,
		AmountIn:    domain.Lamports(amount),
		AToB:        aToB,
		ExpectedOut: domain.Lamports(baseline.AmountOut),
		FeePaid:     domain.Lamports(baseline.Fee),
		Timestamp:   o.virtualNow,
	}

	visible := mempool.ObserveDirectSwap(mempool.DirectSwap{
		Trader:   trader,
		AmountIn: amount,
		AToB:     aToB,
		MinOut:   minOut,
	})

	if !attackRoll || !visible.CanSandwich {
		res, err := pool.ApplySwap(amount, aToB)
		if err != nil {
			return trade, nil, false
		}
		trade.ActualOut = domain.Lamports(res.AmountOut)
		trade.FeePaid = domain.Lamports(res.Fee)
		return trade, nil, false
	}

	victim := sandwich.PendingSwap{
		Trader:   trader,
		AmountIn: amount,
		AToB:     aToB,
		MinOut:   minOut,
	}
	swRes := attacker.ExecuteSandwich(victim, pool, txID)

	// The victim's trade landed either way; the loss field says how much
	// the front-run cost them.
	trade.ActualOut = domain.Lamports(baseline.AmountOut - uint64(swRes.VictimLoss))
	trade.SlippageLoss = swRes.VictimLoss
	trade.WasAttacked = swRes.Success

	if swRes.FrontRunSig == "" {
		// Bot evaluated the swap and stood down.
		return trade, nil, true
	}
	return trade, swRes, true
}

// runProtectedTrade plays the same transaction through commit-reveal.
// The bot observes only the commit digest, never the swap details, so it
// has nothing to target; the reveal lands after the protocol delay at
// the undisturbed price.
func (o *Orchestrator) runProtectedTrade(ctx context.Context, proto *protocol.Protocol, pool *amm.Pool, trader string, amount uint64, aToB bool, txID uint32) (*domain.TradeResult, error) {
	baseline, err := pool.Quote(amount, aToB)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	minOut := amm.MinOutputForSlippage(baseline.AmountOut, o.cfg.VictimSlippageBps)

	kind := domain.IntentUnstake
	if aToB {
		kind = domain.IntentStake
	}

	details, err := commithash.New(amount, minOut, o.cfg.VictimSlippageBps)
	if err != nil {
		return nil, fmt.Errorf("build swap details: %w", err)
	}
	hash := commithash.Hash(details)

	if _, err := proto.Commit(ctx, trader, hash, amount, kind); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	observability.RecordCommit()

	// All the mempool leaks is the digest and a coarse amount.
	visible := mempool.ObserveCommit(mempool.CommitTx{
		Owner:  trader,
		Hash:   hash,
		Amount: amount,
		Kind:   kind,
	})
	if visible.CanSandwich {
		// Unreachable: commits are opaque. Abort the trade rather than
		// simulate an attack the protocol rules out.
		_ = proto.Cancel(ctx, trader)
		return nil, fmt.Errorf("commit classified as sandwichable")
	}

	// The delay elapses on the protocol clock.
	o.virtualNow += int64(o.cfg.MinDelay / time.Second)

	receipt, err := proto.RevealAndExecute(ctx, trader, details)
	if err != nil {
		_ = proto.Cancel(ctx, trader)
		observability.RecordReveal("error", 0)
		return nil, fmt.Errorf("reveal: %w", err)
	}
	observability.RecordReveal("ok", float64(receipt.DelayWaited))

	loss := uint64(0)
	if baseline.AmountOut > receipt.AmountOut {
		loss = baseline.AmountOut - receipt.AmountOut
	}

	return &domain.TradeResult{
		Signature:     simSig("protected", txID),
		Trader:        trader,
		AmountIn:      domain.Lamports(amount),
		AToB:          aToB,
		ExpectedOut:   domain.Lamports(baseline.AmountOut),
		ActualOut:     domain.Lamports(receipt.AmountOut),
		SlippageLoss:  domain.Lamports(loss),
		FeePaid:       domain.Lamports(receipt.Fee),
		Protected:     true,
		CommitmentHex: receipt.CommitmentHex,
		DelayWaited:   receipt.DelayWaited,
		Timestamp:     receipt.RevealedAt,
	}, nil
}

// persist writes the finished run to the configured stores.
func (o *Orchestrator) persist(ctx context.Context, startedAt time.Time, results *domain.SimulationResults) error {
	if o.runStore == nil && o.tradeStore == nil && o.sandwichStore == nil && o.poolHistoryStore == nil {
		return nil
	}

	startedAtMs := startedAt.UnixMilli()
	runID := ComputeRunID(o.cfg, startedAtMs)

	if o.runStore != nil {
		run := &domain.RunRecord{
			RunID:     runID,
			StartedAt: startedAtMs,
			Config:    results.Config,
			Summary:   results.Summary,
		}
		if err := o.runStore.Insert(ctx, run); err != nil {
			return fmt.Errorf("insert run %s: %w", runID, err)
		}
	}
	if o.tradeStore != nil {
		if err := o.tradeStore.InsertBulk(ctx, runID, results.NormalTrades); err != nil {
			return fmt.Errorf("insert normal trades: %w", err)
		}
		if err := o.tradeStore.InsertBulk(ctx, runID, results.ProtectedTrades); err != nil {
			return fmt.Errorf("insert protected trades: %w", err)
		}
	}
	if o.sandwichStore != nil {
		if err := o.sandwichStore.InsertBulk(ctx, runID, results.SandwichResults); err != nil {
			return fmt.Errorf("insert sandwich results: %w", err)
		}
	}
	if o.poolHistoryStore != nil {
		if err := o.poolHistoryStore.InsertBulk(ctx, runID, results.PoolHistory); err != nil {
			return fmt.Errorf("insert pool history: %w", err)
		}
	}

	o.log("Persisted run %s", runID)
	return nil
}

// generateTraders creates the trader wallet addresses.
func (o *Orchestrator) generateTraders() ([]string, error) {
	traders := make([]string, 0, o.cfg.TraderCount)
	for i := 0; i < o.cfg.TraderCount; i++ {
		kp, err := keys.NewKeypair()
		if err != nil {
			return nil, err
		}
		traders = append(traders, kp.Address())
	}
	return traders, nil
}

func poolRecord(txID uint32, pool *amm.Pool, scenario string) domain.PoolStateRecord {
	s := pool.State()
	return domain.PoolStateRecord{
		TransactionID: txID,
		ReserveA:      domain.Lamports(s.ReserveA),
		ReserveB:      domain.Lamports(s.ReserveB),
		PriceAInB:     s.PriceAInB(),
		Scenario:      scenario,
	}
}

func simSig(leg string, txID uint32) string {
	return fmt.Sprintf("sim_%s_%d", leg, txID)
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[simulation] "+format, args...)
	}
}
