package simulation

import (
	"securelp/internal/domain"
)

// Summarize aggregates a finished run into comparable statistics.
//
// TotalProtectedSavings equals the losses the normal scenario suffered:
// the protected scenario replays the identical trades, so every lamport
// extracted there would have been extracted here too.
func Summarize(results *domain.SimulationResults, attackAttempts uint32) domain.SimulationSummary {
	s := domain.SimulationSummary{
		TotalTransactions: results.Config.TotalTransactions,
		AttackAttempts:    attackAttempts,
	}

	var totalLoss uint64
	for _, sw := range results.SandwichResults {
		if sw.Success {
			s.SuccessfulAttacks++
		}
		s.TotalMevExtracted += sw.ProfitLamports
		totalLoss += uint64(sw.VictimLoss)
	}
	s.TotalVictimLosses = domain.Lamports(totalLoss)
	s.TotalProtectedSavings = domain.Lamports(totalLoss)

	if attackAttempts > 0 {
		s.AttackSuccessRate = float64(s.SuccessfulAttacks) / float64(attackAttempts) * 100
	}
	if s.SuccessfulAttacks > 0 {
		s.AvgLossPerAttack = float64(totalLoss) / float64(s.SuccessfulAttacks)
	}

	var totalVolume uint64
	var tradeCount int
	for _, t := range results.NormalTrades {
		totalVolume += uint64(t.AmountIn)
		tradeCount++
	}
	for _, t := range results.ProtectedTrades {
		totalVolume += uint64(t.AmountIn)
		tradeCount++
	}
	s.TotalVolume = domain.Lamports(totalVolume)
	if tradeCount > 0 {
		s.AvgTradeAmount = float64(totalVolume) / float64(tradeCount)
	}

	return s
}
