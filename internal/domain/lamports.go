package domain

import (
	"fmt"
	"strconv"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// Lamports is an unsigned lamport amount.
// Serialized to JSON as a decimal string so that values above 2^53
// survive consumers that parse JSON numbers as float64.
type Lamports uint64

// MarshalJSON implements json.Marshaler.
func (l Lamports) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(l), 10) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
// Accepts both decimal strings and bare JSON numbers.
func (l *Lamports) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse lamports %q: %w", s, err)
	}
	*l = Lamports(v)
	return nil
}

// SOL returns the amount in SOL as a float64, for display only.
func (l Lamports) SOL() float64 {
	return float64(l) / LamportsPerSOL
}

// SignedLamports is a signed lamport amount (profits can be negative).
// Same decimal-string JSON encoding as Lamports.
type SignedLamports int64

// MarshalJSON implements json.Marshaler.
func (l SignedLamports) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatInt(int64(l), 10) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *SignedLamports) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse signed lamports %q: %w", s, err)
	}
	*l = SignedLamports(v)
	return nil
}

// SOL returns the amount in SOL as a float64, for display only.
func (l SignedLamports) SOL() float64 {
	return float64(l) / LamportsPerSOL
}
