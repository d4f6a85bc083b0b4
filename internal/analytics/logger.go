// Package analytics persists simulation results and derives the charts
// and reports built on top of them.
package analytics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"securelp/internal/domain"
)

// fileTimestamp is the filename layout for result artifacts.
const fileTimestamp = "20060102_150405"

// Logger writes simulation artifacts under an output directory:
// logs/ holds raw JSON results and text summaries, reports/ holds
// rendered markdown.
type Logger struct {
	outputDir string
	now       func() time.Time // Injectable clock for deterministic output
}

// NewLogger creates a logger rooted at outputDir.
func NewLogger(outputDir string) *Logger {
	return &Logger{
		outputDir: outputDir,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic filenames.
func (l *Logger) WithClock(now func() time.Time) *Logger {
	l.now = now
	return l
}

// EnsureDirs creates the output directory tree.
func (l *Logger) EnsureDirs() error {
	for _, dir := range []string{"logs", "reports"} {
		if err := os.MkdirAll(filepath.Join(l.outputDir, dir), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", dir, err)
		}
	}
	return nil
}

// SaveResults writes the full results as pretty-printed JSON and returns
// the file path.
func (l *Logger) SaveResults(results *domain.SimulationResults) (string, error) {
	if err := l.EnsureDirs(); err != nil {
		return "", err
	}

	filename := filepath.Join(l.outputDir, "logs",
		fmt.Sprintf("simulation_%s.json", l.now().Format(fileTimestamp)))

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize results: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("write results file: %w", err)
	}

	log.Printf("[analytics] Results saved to: %s", filename)
	return filename, nil
}

// LoadResults reads results back from a JSON file.
func LoadResults(path string) (*domain.SimulationResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var results domain.SimulationResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse results file: %w", err)
	}
	return &results, nil
}

// SaveSummary writes the text summary next to the JSON results and
// returns the file path.
func (l *Logger) SaveSummary(results *domain.SimulationResults) (string, error) {
	if err := l.EnsureDirs(); err != nil {
		return "", err
	}

	filename := filepath.Join(l.outputDir, "logs",
		fmt.Sprintf("summary_%s.txt", l.now().Format(fileTimestamp)))

	if err := os.WriteFile(filename, []byte(FormatSummary(results)), 0o644); err != nil {
		return "", fmt.Errorf("write summary file: %w", err)
	}

	log.Printf("[analytics] Summary saved to: %s", filename)
	return filename, nil
}

// SaveReport renders the markdown report and returns the file path.
func (l *Logger) SaveReport(results *domain.SimulationResults) (string, error) {
	if err := l.EnsureDirs(); err != nil {
		return "", err
	}

	filename := filepath.Join(l.outputDir, "reports",
		fmt.Sprintf("report_%s.md", l.now().Format(fileTimestamp)))

	report := RenderMarkdown(results, l.now())
	if err := os.WriteFile(filename, []byte(report), 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}

	log.Printf("[analytics] Report saved to: %s", filename)
	return filename, nil
}

// FormatSummary renders the aggregate statistics as a terminal summary.
func FormatSummary(results *domain.SimulationResults) string {
	s := results.Summary
	cfg := results.Config

	var sb strings.Builder
	line := strings.Repeat("=", 66)

	sb.WriteString(line + "\n")
	sb.WriteString("                 MEV SIMULATION RESULTS\n")
	sb.WriteString(line + "\n\n")

	sb.WriteString("CONFIGURATION\n")
	sb.WriteString(fmt.Sprintf("  Total Transactions:  %10d\n", s.TotalTransactions))
	sb.WriteString(fmt.Sprintf("  Attack Probability:  %10.1f%%\n", cfg.AttackProbability*100))
	sb.WriteString(fmt.Sprintf("  Min Swap:            %10.4f SOL\n", cfg.MinSwapLamports.SOL()))
	sb.WriteString(fmt.Sprintf("  Max Swap:            %10.4f SOL\n", cfg.MaxSwapLamports.SOL()))
	sb.WriteString(fmt.Sprintf("  Pool Fee:            %10.2f%%\n\n", float64(cfg.FeeBps)/100))

	sb.WriteString("NORMAL TRADING (Vulnerable to MEV)\n")
	sb.WriteString(fmt.Sprintf("  Attack Attempts:     %10d\n", s.AttackAttempts))
	sb.WriteString(fmt.Sprintf("  Successful Attacks:  %10d\n", s.SuccessfulAttacks))
	sb.WriteString(fmt.Sprintf("  Attack Success Rate: %10.1f%%\n", s.AttackSuccessRate))
	sb.WriteString(fmt.Sprintf("  Total MEV Extracted: %10.6f SOL\n", s.TotalMevExtracted.SOL()))
	sb.WriteString(fmt.Sprintf("  Total Victim Losses: %10.6f SOL\n", s.TotalVictimLosses.SOL()))
	sb.WriteString(fmt.Sprintf("  Avg Loss per Attack: %10.6f SOL\n\n", s.AvgLossPerAttack/float64(domain.LamportsPerSOL)))

	sb.WriteString("PROTECTED TRADING (Commit-Reveal)\n")
	sb.WriteString(fmt.Sprintf("  Attacks Possible:    %10d\n", 0))
	sb.WriteString(fmt.Sprintf("  MEV Extracted:       %10.6f SOL\n", 0.0))
	sb.WriteString(fmt.Sprintf("  TOTAL SAVINGS:       %10.6f SOL\n", s.TotalProtectedSavings.SOL()))
	sb.WriteString(fmt.Sprintf("  Protection Rate:     %10.1f%%\n\n", 100.0))

	sb.WriteString("VOLUME STATISTICS\n")
	sb.WriteString(fmt.Sprintf("  Total Volume:        %10.4f SOL\n", s.TotalVolume.SOL()))
	sb.WriteString(fmt.Sprintf("  Average Trade:       %10.6f SOL\n\n", s.AvgTradeAmount/float64(domain.LamportsPerSOL)))

	sb.WriteString(line + "\n")
	return sb.String()
}
