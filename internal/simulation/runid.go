package simulation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeRunID computes a deterministic run_id using SHA256.
// Formula: SHA256(seed|transactions|pool_a|pool_b|fee_bps|started_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeRunID(cfg Config, startedAtMs int64) string {
	data := fmt.Sprintf("%d|%d|%d|%d|%d|%d",
		cfg.Seed,
		cfg.TotalTransactions,
		cfg.InitialPoolA,
		cfg.InitialPoolB,
		cfg.FeeBps,
		startedAtMs,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
