// Package sandwich implements the attacker side of the simulation: the
// front-run profitability search and the bot that executes the
// front-run / victim / back-run sequence.
package sandwich

import (
	"securelp/internal/amm"
	"securelp/internal/domain"
)

// MinProfitLamports is the profitability floor (0.00001 SOL). Bots do not
// grief for negative or negligible expected value.
const MinProfitLamports = 10_000

// Grid-search parameters: candidate front-run sizes are odd percents
// 1%, 3%, ..., 49% of the attacker's effective capital.
const (
	gridStartPct = 1
	gridStepPct  = 2
	gridEndPct   = 49
)

// PendingSwap is a victim swap as seen in the mempool.
type PendingSwap struct {
	Trader   string
	AmountIn uint64
	AToB     bool
	MinOut   uint64
}

// FindOptimalAttack searches for the front-run size that maximizes
// risk-free profit against the victim's pending swap.
//
// Every candidate is simulated against a clone of the pool, never the
// live state: (1) attacker front-runs in the victim's direction,
// (2) the victim executes at the worsened price, (3) the attacker
// back-runs by selling exactly what the front-run bought. The candidate
// with maximum profit wins; nil means no attack clears the floor.
func FindOptimalAttack(victim PendingSwap, pool *amm.Pool, attackerCapital uint64) *domain.SandwichParams {
	state := pool.State()
	reserveIn := state.ReserveB
	if victim.AToB {
		reserveIn = state.ReserveA
	}

	// Effective capital: cannot move more than half the victim-side
	// reserve without self-defeating price impact.
	capital := reserveIn / 2
	if attackerCapital < capital {
		capital = attackerCapital
	}
	if capital/100 == 0 {
		// Cannot fund even the smallest grid step.
		return nil
	}

	// Victim's output on the untouched pool, the no-attack baseline.
	baseline, err := pool.Quote(victim.AmountIn, victim.AToB)
	if err != nil {
		return nil
	}

	var best *domain.SandwichParams
	for pct := gridStartPct; pct <= gridEndPct; pct += gridStepPct {
		frontRun := capital / 100 * uint64(pct)
		if frontRun == 0 {
			continue
		}

		params, ok := simulateAttack(pool.Clone(), victim, frontRun, baseline.AmountOut)
		if !ok {
			continue
		}
		if best == nil || params.ExpectedProfit > best.ExpectedProfit {
			best = params
		}
	}

	if best == nil || int64(best.ExpectedProfit) < MinProfitLamports {
		return nil
	}
	best.IsProfitable = true
	return best
}

// simulateAttack runs the three-swap sequence against a cloned pool and
// reports the attacker's profit and the victim's loss for one candidate
// front-run size.
func simulateAttack(sim *amm.Pool, victim PendingSwap, frontRun uint64, baselineOut uint64) (*domain.SandwichParams, bool) {
	frontRes, err := sim.ApplySwap(frontRun, victim.AToB)
	if err != nil {
		return nil, false
	}

	victimRes, err := sim.ApplySwap(victim.AmountIn, victim.AToB)
	if err != nil {
		return nil, false
	}

	// Sell exactly what the front-run purchased.
	backRes, err := sim.ApplySwap(frontRes.AmountOut, !victim.AToB)
	if err != nil {
		return nil, false
	}

	loss := uint64(0)
	if baselineOut > victimRes.AmountOut {
		loss = baselineOut - victimRes.AmountOut
	}

	return &domain.SandwichParams{
		FrontRunAmount:     domain.Lamports(frontRun),
		FrontRunOutput:     domain.Lamports(frontRes.AmountOut),
		BackRunInput:       domain.Lamports(frontRes.AmountOut),
		BackRunOutput:      domain.Lamports(backRes.AmountOut),
		ExpectedProfit:     domain.SignedLamports(int64(backRes.AmountOut) - int64(frontRun)),
		VictimExpectedLoss: domain.Lamports(loss),
	}, true
}
