package sandwich

import (
	"fmt"
	"time"

	"securelp/internal/amm"
	"securelp/internal/domain"
)

// Attacker executes sandwich attacks against visible swaps, tracking its
// own balances so that a front-run it cannot fund is skipped.
type Attacker struct {
	address  string
	balanceA uint64
	balanceB uint64

	totalProfit       int64
	successfulAttacks uint32
	failedAttacks     uint32

	now func() time.Time
}

// NewAttacker creates an attacker with the given capital on both sides.
func NewAttacker(address string, capitalA, capitalB uint64) *Attacker {
	return &Attacker{
		address:  address,
		balanceA: capitalA,
		balanceB: capitalB,
		now:      time.Now,
	}
}

// Balances returns the attacker's current holdings.
func (a *Attacker) Balances() (balanceA, balanceB uint64) {
	return a.balanceA, a.balanceB
}

// Stats returns accumulated profit and attack counts.
func (a *Attacker) Stats() (totalProfit int64, successful, failed uint32) {
	return a.totalProfit, a.successfulAttacks, a.failedAttacks
}

// ShouldAttack runs the profitability search with the attacker's real
// capital and returns the planned attack, or nil to stand down.
func (a *Attacker) ShouldAttack(victim PendingSwap, pool *amm.Pool) *domain.SandwichParams {
	capital := a.balanceB
	if victim.AToB {
		capital = a.balanceA
	}
	if capital == 0 {
		return nil
	}
	return FindOptimalAttack(victim, pool, capital)
}

// ExecuteSandwich runs the full attack against the live pool: front-run,
// victim trade, back-run, each confirmed before the next is issued.
// The victim's trade executes either way; an unprofitable plan just
// means the attacker stands aside.
func (a *Attacker) ExecuteSandwich(victim PendingSwap, pool *amm.Pool, txID uint32) *domain.SandwichResult {
	timestamp := a.now().Unix()

	plan := a.ShouldAttack(victim, pool)
	if plan == nil {
		// No profitable attack: the victim trades untouched.
		a.failedAttacks++
		_, _ = pool.ApplySwap(victim.AmountIn, victim.AToB)
		return &domain.SandwichResult{Timestamp: timestamp}
	}

	baseline, err := pool.Quote(victim.AmountIn, victim.AToB)
	if err != nil {
		a.failedAttacks++
		return &domain.SandwichResult{Timestamp: timestamp}
	}

	frontRun := uint64(plan.FrontRunAmount)
	if !a.debit(victim.AToB, frontRun) {
		a.failedAttacks++
		_, _ = pool.ApplySwap(victim.AmountIn, victim.AToB)
		return &domain.SandwichResult{Timestamp: timestamp}
	}

	// Front-run, in the victim's direction.
	frontRes, err := pool.ApplySwap(frontRun, victim.AToB)
	if err != nil {
		a.credit(victim.AToB, frontRun)
		a.failedAttacks++
		_, _ = pool.ApplySwap(victim.AmountIn, victim.AToB)
		return &domain.SandwichResult{Timestamp: timestamp}
	}
	a.credit(!victim.AToB, frontRes.AmountOut)

	// Victim lands at the worsened price.
	victimRes, err := pool.ApplySwap(victim.AmountIn, victim.AToB)
	if err != nil {
		a.failedAttacks++
		return &domain.SandwichResult{
			FrontRunSig:      simSig("frontrun", txID),
			FrontRunAmount:   domain.Lamports(frontRun),
			FrontRunReceived: domain.Lamports(frontRes.AmountOut),
			ProfitLamports:   domain.SignedLamports(-int64(frontRun)),
			Timestamp:        timestamp,
		}
	}
	victimLoss := uint64(0)
	if baseline.AmountOut > victimRes.AmountOut {
		victimLoss = baseline.AmountOut - victimRes.AmountOut
	}

	// Back-run: sell exactly what the front-run bought.
	backRun := frontRes.AmountOut
	a.debit(!victim.AToB, backRun)
	backRes, err := pool.ApplySwap(backRun, !victim.AToB)
	if err != nil {
		a.credit(!victim.AToB, backRun)
		a.failedAttacks++
		return &domain.SandwichResult{
			FrontRunSig:      simSig("frontrun", txID),
			VictimSig:        simSig("victim", txID),
			FrontRunAmount:   domain.Lamports(frontRun),
			FrontRunReceived: domain.Lamports(frontRes.AmountOut),
			VictimLoss:       domain.Lamports(victimLoss),
			ProfitLamports:   domain.SignedLamports(-int64(frontRun)),
			Timestamp:        timestamp,
		}
	}
	a.credit(victim.AToB, backRes.AmountOut)

	profit := int64(backRes.AmountOut) - int64(frontRun)
	a.totalProfit += profit
	success := profit > 0
	if success {
		a.successfulAttacks++
	} else {
		a.failedAttacks++
	}

	return &domain.SandwichResult{
		FrontRunSig:      simSig("frontrun", txID),
		VictimSig:        simSig("victim", txID),
		BackRunSig:       simSig("backrun", txID),
		ProfitLamports:   domain.SignedLamports(profit),
		VictimLoss:       domain.Lamports(victimLoss),
		FrontRunAmount:   domain.Lamports(frontRun),
		FrontRunReceived: domain.Lamports(frontRes.AmountOut),
		BackRunAmount:    domain.Lamports(backRun),
		BackRunReceived:  domain.Lamports(backRes.AmountOut),
		Success:          success,
		Timestamp:        timestamp,
	}
}

// debit removes amount from the side used to buy aToB swaps.
// Returns false if the balance cannot cover it.
func (a *Attacker) debit(aSide bool, amount uint64) bool {
	if aSide {
		if a.balanceA < amount {
			return false
		}
		a.balanceA -= amount
		return true
	}
	if a.balanceB < amount {
		return false
	}
	a.balanceB -= amount
	return true
}

// credit adds amount to one side.
func (a *Attacker) credit(aSide bool, amount uint64) {
	if aSide {
		a.balanceA += amount
	} else {
		a.balanceB += amount
	}
}

// simSig fabricates a deterministic signature label for simulated legs.
func simSig(leg string, txID uint32) string {
	return fmt.Sprintf("sim_%s_%d", leg, txID)
}
