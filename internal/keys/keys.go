// Package keys generates wallet identities and derives commitment
// addresses.
//
// Wallet addresses are ed25519 public keys (on the curve); commitment
// addresses are derived off-curve from ("commit", owner), the same
// scheme program-derived accounts use, so a commitment address can never
// collide with a signing key.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// commitmentSeed is the derivation prefix for commitment addresses.
const commitmentSeed = "commit"

// ErrNoDerivedAddress is returned when no off-curve address is found
// within the bump range. Probability is negligible (~2^-256 per bump).
var ErrNoDerivedAddress = errors.New("unable to find off-curve derived address")

// Keypair is a wallet identity.
type Keypair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// NewKeypair generates a fresh ed25519 keypair.
func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{Public: pub, Private: priv}, nil
}

// Address returns the base58 wallet address.
func (k *Keypair) Address() string {
	return base58.Encode(k.Public)
}

// IsOnCurve reports whether a 32-byte value is a valid ed25519 point.
// Wallet addresses are on the curve; derived addresses must not be.
func IsOnCurve(pubkey []byte) bool {
	if len(pubkey) != ed25519.PublicKeySize {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(pubkey)
	return err == nil
}

// DeriveCommitmentAddress derives the owner's commitment address:
// the first off-curve sha256("commit" | owner | bump) walking bump
// down from 255. Returns the base58 address and the bump used.
func DeriveCommitmentAddress(owner string) (string, uint8, error) {
	ownerBytes, err := base58.Decode(owner)
	if err != nil {
		return "", 0, fmt.Errorf("decode owner address: %w", err)
	}

	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		h.Write([]byte(commitmentSeed))
		h.Write(ownerBytes)
		h.Write([]byte{uint8(bump)})
		candidate := h.Sum(nil)

		if !IsOnCurve(candidate) {
			return base58.Encode(candidate), uint8(bump), nil
		}
	}
	return "", 0, ErrNoDerivedAddress
}
