package analytics

import (
	"fmt"
	"strings"
	"time"

	"securelp/internal/domain"
)

// RenderMarkdown renders the full run report as a Markdown string.
func RenderMarkdown(results *domain.SimulationResults, generatedAt time.Time) string {
	s := results.Summary
	cfg := results.Config
	cmp := Compare(results)

	var sb strings.Builder

	// Header
	sb.WriteString("# MEV Simulation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Transactions: %d | Seed: %d\n\n", s.TotalTransactions, cfg.Seed))

	// Configuration
	sb.WriteString("## Configuration\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Transactions | %d |\n", cfg.TotalTransactions))
	sb.WriteString(fmt.Sprintf("| Attack Probability | %.1f%% |\n", cfg.AttackProbability*100))
	sb.WriteString(fmt.Sprintf("| Swap Range | %.4f - %.4f SOL |\n", cfg.MinSwapLamports.SOL(), cfg.MaxSwapLamports.SOL()))
	sb.WriteString(fmt.Sprintf("| Initial Reserves | %.2f / %.2f SOL |\n", cfg.InitialPoolA.SOL(), cfg.InitialPoolB.SOL()))
	sb.WriteString(fmt.Sprintf("| Pool Fee | %.2f%% |\n", float64(cfg.FeeBps)/100))
	sb.WriteString("\n")

	// Attack outcomes
	sb.WriteString("## Attack Outcomes (Normal Scenario)\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Attack Attempts | %d |\n", s.AttackAttempts))
	sb.WriteString(fmt.Sprintf("| Successful Attacks | %d |\n", s.SuccessfulAttacks))
	sb.WriteString(fmt.Sprintf("| Attack Success Rate | %.1f%% |\n", s.AttackSuccessRate))
	sb.WriteString(fmt.Sprintf("| Total MEV Extracted | %.6f SOL |\n", s.TotalMevExtracted.SOL()))
	sb.WriteString(fmt.Sprintf("| Total Victim Losses | %.6f SOL |\n", s.TotalVictimLosses.SOL()))
	sb.WriteString(fmt.Sprintf("| Avg Loss per Attack | %.6f SOL |\n", s.AvgLossPerAttack/float64(domain.LamportsPerSOL)))
	sb.WriteString("\n")

	// Scenario comparison
	sb.WriteString("## Normal vs Protected\n\n")
	sb.WriteString("| Metric | Normal | Protected |\n")
	sb.WriteString("|--------|--------|----------|\n")
	sb.WriteString(fmt.Sprintf("| Trades | %d | %d |\n", len(results.NormalTrades), cmp.ProtectedTransactions))
	sb.WriteString(fmt.Sprintf("| Attacked | %d | 0 |\n", cmp.AttackedTransactions))
	sb.WriteString(fmt.Sprintf("| Total Slippage Loss | %.6f SOL | %.6f SOL |\n",
		cmp.NormalTotalLoss.SOL(), cmp.ProtectedTotalLoss.SOL()))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Savings: %.6f SOL (%.1f%%)**\n\n", cmp.Savings.SOL(), cmp.SavingsPercentage))

	// Loss distribution
	sb.WriteString("## Victim Loss Distribution\n\n")
	writeHistogram(&sb, LossDistribution(results))

	// Profit distribution
	sb.WriteString("## Attacker Profit Distribution\n\n")
	writeHistogram(&sb, ProfitDistribution(results))

	// Errors
	if len(results.Errors) > 0 {
		sb.WriteString("## Errors\n\n")
		for _, e := range results.Errors {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeHistogram(sb *strings.Builder, buckets []HistogramBucket) {
	if len(buckets) == 0 {
		sb.WriteString("No data available.\n\n")
		return
	}
	sb.WriteString("| Range (SOL) | Count |\n")
	sb.WriteString("|-------------|-------|\n")
	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", b.Label, b.Count))
	}
	sb.WriteString("\n")
}
