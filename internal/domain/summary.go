package domain

// ConfigSummary captures the configuration a simulation ran with,
// embedded in the persisted results for reproducibility.
type ConfigSummary struct {
	TotalTransactions uint32   `json:"total_transactions"`
	AttackProbability float64  `json:"attack_probability"`
	MinSwapLamports   Lamports `json:"min_swap_lamports"`
	MaxSwapLamports   Lamports `json:"max_swap_lamports"`
	InitialPoolA      Lamports `json:"initial_pool_a"`
	InitialPoolB      Lamports `json:"initial_pool_b"`
	FeeBps            uint16   `json:"fee_bps"`
	Seed              int64    `json:"seed"`
}

// SimulationSummary holds aggregate statistics for a complete run.
type SimulationSummary struct {
	TotalTransactions     uint32         `json:"total_transactions"`
	AttackAttempts        uint32         `json:"attack_attempts"`
	SuccessfulAttacks     uint32         `json:"successful_attacks"`
	AttackSuccessRate     float64        `json:"attack_success_rate"` // percent
	TotalMevExtracted     SignedLamports `json:"total_mev_extracted"`
	TotalVictimLosses     Lamports       `json:"total_victim_losses"`
	AvgLossPerAttack      float64        `json:"avg_loss_per_attack"` // lamports
	TotalProtectedSavings Lamports       `json:"total_protected_savings"`
	AvgTradeAmount        float64        `json:"avg_trade_amount"` // lamports
	TotalVolume           Lamports       `json:"total_volume"`
}

// RunRecord is the stored metadata row for one simulation run.
type RunRecord struct {
	RunID     string            // sha256-derived run identifier
	StartedAt int64             // Unix timestamp in milliseconds
	Config    ConfigSummary     // configuration the run used
	Summary   SimulationSummary // aggregate statistics
}

// SimulationResults is the full persisted output of one run.
type SimulationResults struct {
	Config          ConfigSummary     `json:"config"`
	NormalTrades    []*TradeResult    `json:"normal_trades"`
	ProtectedTrades []*TradeResult    `json:"protected_trades"`
	SandwichResults []*SandwichResult `json:"sandwich_results"`
	Summary         SimulationSummary `json:"summary"`
	PoolHistory     []PoolStateRecord `json:"pool_history"`
	Errors          []string          `json:"errors,omitempty"`
}
