package domain

// IntentKind describes the direction of a committed intent.
type IntentKind string

// Intent kind constants
const (
	IntentStake   IntentKind = "stake"   // SOL -> pool token
	IntentUnstake IntentKind = "unstake" // pool token -> SOL
)

// Commitment is the authoritative record of a pending blinded intent.
// At most one live commitment exists per owner; it is created by Commit
// and closed by RevealAndExecute or Cancel.
type Commitment struct {
	Owner     string     // base58 owner address
	Hash      [32]byte   // SHA-256 digest of the serialized swap details
	CreatedAt int64      // Unix seconds, stamped from the protocol clock
	Amount    uint64     // approximate amount in lamports, display only
	Kind      IntentKind // stake or unstake
}
