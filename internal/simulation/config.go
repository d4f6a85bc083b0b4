// Package simulation runs paired normal/protected trading scenarios and
// aggregates the outcome into comparable statistics.
//
// Each transaction is played twice against independent pool clones: once
// as a visible direct swap a sandwich bot can target, once through the
// commit-reveal protocol. The difference between the two runs is the
// measured value of the protection.
package simulation

import (
	"errors"
	"time"

	"securelp/internal/domain"
	"securelp/internal/protocol"
)

// Config holds simulation parameters.
type Config struct {
	TotalTransactions uint32  // paired trades to simulate
	AttackProbability float64 // chance the bot evaluates a visible swap

	MinSwapLamports uint64 // victim trade size range
	MaxSwapLamports uint64

	InitialPoolA uint64 // starting reserves, both scenarios
	InitialPoolB uint64
	FeeBps       uint16

	AttackerCapital uint64 // bot capital per side
	TraderCount     int
	TraderBalance   uint64 // informational, per trader

	VictimSlippageBps uint16        // victim's slippage tolerance
	MinDelay          time.Duration // commit-reveal delay

	Seed      int64 // rng seed, same seed replays the same run
	OutputDir string
}

// DefaultConfig mirrors the reference scenario: a 1000/1000 SOL pool,
// 0.1-5 SOL trades, and a bot holding 100 SOL per side.
func DefaultConfig() Config {
	return Config{
		TotalTransactions: 1000,
		AttackProbability: 0.8,
		MinSwapLamports:   domain.LamportsPerSOL / 10,
		MaxSwapLamports:   5 * domain.LamportsPerSOL,
		InitialPoolA:      1000 * domain.LamportsPerSOL,
		InitialPoolB:      1000 * domain.LamportsPerSOL,
		FeeBps:            30,
		AttackerCapital:   100 * domain.LamportsPerSOL,
		TraderCount:       10,
		TraderBalance:     50 * domain.LamportsPerSOL,
		VictimSlippageBps: 100,
		MinDelay:          protocol.DefaultMinDelay,
		Seed:              42,
		OutputDir:         "results",
	}
}

// Validate rejects configurations the run loop cannot execute.
func (c Config) Validate() error {
	if c.TotalTransactions == 0 {
		return errors.New("total transactions must be positive")
	}
	if c.AttackProbability < 0 || c.AttackProbability > 1 {
		return errors.New("attack probability must be in [0, 1]")
	}
	if c.MinSwapLamports == 0 || c.MaxSwapLamports < c.MinSwapLamports {
		return errors.New("swap range must satisfy 0 < min <= max")
	}
	if c.InitialPoolA == 0 || c.InitialPoolB == 0 {
		return errors.New("initial reserves must be positive")
	}
	if c.FeeBps >= 10000 {
		return errors.New("fee must be below 10000 bps")
	}
	if c.TraderCount <= 0 {
		return errors.New("trader count must be positive")
	}
	if c.MinDelay < time.Second {
		return errors.New("min delay must be at least one second")
	}
	return nil
}

// Summary converts the config into its persisted form.
func (c Config) Summary() domain.ConfigSummary {
	return domain.ConfigSummary{
		TotalTransactions: c.TotalTransactions,
		AttackProbability: c.AttackProbability,
		MinSwapLamports:   domain.Lamports(c.MinSwapLamports),
		MaxSwapLamports:   domain.Lamports(c.MaxSwapLamports),
		InitialPoolA:      domain.Lamports(c.InitialPoolA),
		InitialPoolB:      domain.Lamports(c.InitialPoolB),
		FeeBps:            c.FeeBps,
		Seed:              c.Seed,
	}
}
