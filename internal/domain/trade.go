package domain

// TradeResult records the outcome of a single victim trade, in either the
// normal (visible) or protected (commit-reveal) scenario half.
// Append-only: never mutated after creation.
type TradeResult struct {
	Signature     string   `json:"signature"`
	Trader        string   `json:"trader"` // base58 trader address
	AmountIn      Lamports `json:"amount_in"`
	AToB          bool     `json:"a_to_b"`
	ExpectedOut   Lamports `json:"expected_out"` // output with no attack present
	ActualOut     Lamports `json:"actual_out"`   // output actually received
	SlippageLoss  Lamports `json:"slippage_loss"`
	WasAttacked   bool     `json:"was_attacked"`
	FeePaid       Lamports `json:"fee_paid"`
	Protected     bool     `json:"protected"`
	CommitmentHex string   `json:"commitment_hex,omitempty"` // hex commitment hash for protected trades
	DelayWaited   int64    `json:"delay_waited,omitempty"`   // seconds between commit and reveal
	Timestamp     int64    `json:"timestamp"`
}

// SandwichParams is the output of the front-run profitability search.
// Transient: produced per scenario, never persisted as authoritative state.
type SandwichParams struct {
	FrontRunAmount     Lamports       `json:"frontrun_amount"`
	FrontRunOutput     Lamports       `json:"frontrun_output"`
	BackRunInput       Lamports       `json:"backrun_input"`
	BackRunOutput      Lamports       `json:"backrun_output"`
	ExpectedProfit     SignedLamports `json:"expected_profit"`
	VictimExpectedLoss Lamports       `json:"victim_expected_loss"`
	IsProfitable       bool           `json:"is_profitable"`
}

// SandwichResult records one executed (or skipped) sandwich attack attempt.
// Append-only.
type SandwichResult struct {
	FrontRunSig      string         `json:"frontrun_sig,omitempty"`
	VictimSig        string         `json:"victim_sig,omitempty"`
	BackRunSig       string         `json:"backrun_sig,omitempty"`
	ProfitLamports   SignedLamports `json:"profit_lamports"`
	VictimLoss       Lamports       `json:"victim_loss_lamports"`
	FrontRunAmount   Lamports       `json:"frontrun_amount"`
	FrontRunReceived Lamports       `json:"frontrun_received"`
	BackRunAmount    Lamports       `json:"backrun_amount"`
	BackRunReceived  Lamports       `json:"backrun_received"`
	Success          bool           `json:"success"`
	Timestamp        int64          `json:"timestamp"`
}
