// Package commithash implements the commit-reveal digest.
//
// SwapDetails is serialized to a fixed 50-byte little-endian layout and
// hashed with SHA-256. The layout must match the on-chain program's Borsh
// serialization byte for byte, or reveals would always fail.
package commithash

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// SerializedSize is the wire size of SwapDetails:
// amount_in(8) + min_out(8) + slippage_bps(2) + nonce(32).
const SerializedSize = 50

// SwapDetails is the blinded swap intent. Generated at commit time, held
// client-side, and destroyed after reveal. The 32-byte random nonce makes
// the commitment hash practically irreversible without the original struct.
type SwapDetails struct {
	AmountIn    uint64   // input amount in lamports
	MinOut      uint64   // minimum acceptable output
	SlippageBps uint16   // slippage tolerance in basis points
	Nonce       [32]byte // random nonce, replay protection
}

// New creates swap details with a fresh random nonce.
func New(amountIn, minOut uint64, slippageBps uint16) (SwapDetails, error) {
	nonce, err := NewNonce()
	if err != nil {
		return SwapDetails{}, err
	}
	return SwapDetails{
		AmountIn:    amountIn,
		MinOut:      minOut,
		SlippageBps: slippageBps,
		Nonce:       nonce,
	}, nil
}

// WithNonce creates swap details with a caller-supplied nonce.
func WithNonce(amountIn, minOut uint64, slippageBps uint16, nonce [32]byte) SwapDetails {
	return SwapDetails{
		AmountIn:    amountIn,
		MinOut:      minOut,
		SlippageBps: slippageBps,
		Nonce:       nonce,
	}
}

// NewNonce returns 32 cryptographically random bytes.
func NewNonce() ([32]byte, error) {
	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nonce, fmt.Errorf("generate nonce: %w", err)
	}
	return nonce, nil
}

// Serialize encodes the details to the fixed 50-byte layout.
func (d SwapDetails) Serialize() []byte {
	buf := make([]byte, SerializedSize)
	binary.LittleEndian.PutUint64(buf[0:8], d.AmountIn)
	binary.LittleEndian.PutUint64(buf[8:16], d.MinOut)
	binary.LittleEndian.PutUint16(buf[16:18], d.SlippageBps)
	copy(buf[18:], d.Nonce[:])
	return buf
}

// Deserialize decodes a 50-byte serialization back into SwapDetails.
func Deserialize(data []byte) (SwapDetails, error) {
	if len(data) != SerializedSize {
		return SwapDetails{}, fmt.Errorf("swap details must be %d bytes, got %d", SerializedSize, len(data))
	}
	var d SwapDetails
	d.AmountIn = binary.LittleEndian.Uint64(data[0:8])
	d.MinOut = binary.LittleEndian.Uint64(data[8:16])
	d.SlippageBps = binary.LittleEndian.Uint16(data[16:18])
	copy(d.Nonce[:], data[18:])
	return d, nil
}

// Hash returns the SHA-256 commitment digest of the details.
func Hash(d SwapDetails) [32]byte {
	return sha256.Sum256(d.Serialize())
}

// HexString renders a commitment digest as lowercase hex.
func HexString(hash [32]byte) string {
	return hex.EncodeToString(hash[:])
}
