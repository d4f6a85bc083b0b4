package domain

// PoolState holds constant-product pool reserves.
// Reserves are mutated only by successful swap/liquidity operations and
// must remain strictly positive afterwards; a zero-reserve pool is terminal.
type PoolState struct {
	ReserveA      uint64 // reserve of token A (wSOL) in lamports
	ReserveB      uint64 // reserve of token B (slpSOL) in lamports
	FeeBps        uint16 // swap fee in basis points (30 = 0.3%)
	TotalLPSupply uint64 // total LP tokens minted
}

// PriceAInB returns the spot price of A denominated in B.
func (p PoolState) PriceAInB() float64 {
	if p.ReserveA == 0 {
		return 0
	}
	return float64(p.ReserveB) / float64(p.ReserveA)
}

// PriceBInA returns the spot price of B denominated in A.
func (p PoolState) PriceBInA() float64 {
	if p.ReserveB == 0 {
		return 0
	}
	return float64(p.ReserveA) / float64(p.ReserveB)
}

// PoolStateRecord is a snapshot of pool reserves after one scenario half.
type PoolStateRecord struct {
	TransactionID uint32   `json:"transaction_id"`
	ReserveA      Lamports `json:"reserve_a"`
	ReserveB      Lamports `json:"reserve_b"`
	PriceAInB     float64  `json:"price_a_in_b"`
	Scenario      string   `json:"scenario"` // "normal" | "protected"
}

// Scenario name constants
const (
	ScenarioNormal    = "normal"
	ScenarioProtected = "protected"
)
