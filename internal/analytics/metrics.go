package analytics

import (
	"fmt"
	"math"

	"securelp/internal/domain"
)

// histogramBuckets is the fixed bucket count for distributions.
const histogramBuckets = 10

// CumulativeDataPoint is one point of a running-total chart, in SOL.
type CumulativeDataPoint struct {
	Transaction uint32  `json:"transaction"`
	Value       float64 `json:"value"`
}

// HistogramBucket is one bar of a distribution chart.
type HistogramBucket struct {
	RangeStart float64 `json:"range_start"`
	RangeEnd   float64 `json:"range_end"`
	Count      uint32  `json:"count"`
	Label      string  `json:"label"`
}

// PriceDataPoint is one point of the pool price series.
type PriceDataPoint struct {
	Transaction uint32  `json:"transaction"`
	Price       float64 `json:"price"`
}

// ComparisonMetrics contrasts outcomes of the two scenarios.
type ComparisonMetrics struct {
	NormalTotalLoss       domain.Lamports `json:"normal_total_loss"`
	ProtectedTotalLoss    domain.Lamports `json:"protected_total_loss"`
	Savings               domain.Lamports `json:"savings"`
	SavingsPercentage     float64         `json:"savings_percentage"`
	AttackedTransactions  uint32          `json:"attacked_transactions"`
	ProtectedTransactions uint32          `json:"protected_transactions"`
}

// CumulativeMev returns the attacker's running profit in SOL per attack.
func CumulativeMev(results *domain.SimulationResults) []CumulativeDataPoint {
	points := make([]CumulativeDataPoint, 0, len(results.SandwichResults))
	var cumulative int64
	for i, sw := range results.SandwichResults {
		cumulative += int64(sw.ProfitLamports)
		points = append(points, CumulativeDataPoint{
			Transaction: uint32(i),
			Value:       float64(cumulative) / float64(domain.LamportsPerSOL),
		})
	}
	return points
}

// CumulativeLosses returns the victims' running losses in SOL per attack.
func CumulativeLosses(results *domain.SimulationResults) []CumulativeDataPoint {
	points := make([]CumulativeDataPoint, 0, len(results.SandwichResults))
	var cumulative uint64
	for i, sw := range results.SandwichResults {
		cumulative += uint64(sw.VictimLoss)
		points = append(points, CumulativeDataPoint{
			Transaction: uint32(i),
			Value:       float64(cumulative) / float64(domain.LamportsPerSOL),
		})
	}
	return points
}

// LossDistribution buckets nonzero victim losses into a 10-bar histogram.
func LossDistribution(results *domain.SimulationResults) []HistogramBucket {
	var losses []float64
	for _, sw := range results.SandwichResults {
		if sw.VictimLoss > 0 {
			losses = append(losses, sw.VictimLoss.SOL())
		}
	}
	return buildHistogram(losses, "%.4f-%.4f")
}

// ProfitDistribution buckets attacker profits into a 10-bar histogram.
// Negative profits (failed attacks) are included.
func ProfitDistribution(results *domain.SimulationResults) []HistogramBucket {
	var profits []float64
	for _, sw := range results.SandwichResults {
		profits = append(profits, sw.ProfitLamports.SOL())
	}
	return buildHistogram(profits, "%.6f-%.6f")
}

// buildHistogram splits values into equal-width buckets over their range.
// A degenerate range (all values equal) collapses to a single bucket.
func buildHistogram(values []float64, labelFormat string) []HistogramBucket {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}

	bucketSize := (max - min) / histogramBuckets
	if bucketSize == 0 {
		return []HistogramBucket{{
			RangeStart: min,
			RangeEnd:   max,
			Count:      uint32(len(values)),
			Label:      fmt.Sprintf(labelFormat, min, max),
		}}
	}

	buckets := make([]HistogramBucket, histogramBuckets)
	for i := range buckets {
		start := min + float64(i)*bucketSize
		buckets[i] = HistogramBucket{
			RangeStart: start,
			RangeEnd:   start + bucketSize,
			Label:      fmt.Sprintf(labelFormat, start, start+bucketSize),
		}
	}

	for _, v := range values {
		idx := int((v - min) / bucketSize)
		if idx >= histogramBuckets {
			idx = histogramBuckets - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

// PriceImpactOverTime returns the normal-scenario price series.
// The protected pool barely moves; the normal pool shows every
// front-run and back-run.
func PriceImpactOverTime(results *domain.SimulationResults) []PriceDataPoint {
	var points []PriceDataPoint
	for _, h := range results.PoolHistory {
		if h.Scenario != domain.ScenarioNormal {
			continue
		}
		points = append(points, PriceDataPoint{
			Transaction: h.TransactionID,
			Price:       h.PriceAInB,
		})
	}
	return points
}

// Compare contrasts total slippage losses between the two scenarios.
func Compare(results *domain.SimulationResults) ComparisonMetrics {
	var normalLoss, protectedLoss uint64
	var attacked uint32

	for _, t := range results.NormalTrades {
		normalLoss += uint64(t.SlippageLoss)
		if t.WasAttacked {
			attacked++
		}
	}
	for _, t := range results.ProtectedTrades {
		protectedLoss += uint64(t.SlippageLoss)
	}

	savings := uint64(0)
	if normalLoss > protectedLoss {
		savings = normalLoss - protectedLoss
	}
	savingsPct := 0.0
	if normalLoss > 0 {
		savingsPct = float64(savings) / float64(normalLoss) * 100
	}

	return ComparisonMetrics{
		NormalTotalLoss:       domain.Lamports(normalLoss),
		ProtectedTotalLoss:    domain.Lamports(protectedLoss),
		Savings:               domain.Lamports(savings),
		SavingsPercentage:     savingsPct,
		AttackedTransactions:  attacked,
		ProtectedTransactions: uint32(len(results.ProtectedTrades)),
	}
}
