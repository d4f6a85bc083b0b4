package protocol

import "errors"

// Protocol violations. All are caller errors, reported synchronously and
// never retried automatically: retrying a hash mismatch cannot succeed.
var (
	// ErrCommitmentAlreadyExists is returned by Commit when the owner
	// already has a live commitment.
	ErrCommitmentAlreadyExists = errors.New("commitment already exists: complete or cancel the existing one first")

	// ErrCommitmentNotFound is returned when no live commitment exists
	// for the owner.
	ErrCommitmentNotFound = errors.New("commitment not found or already used")

	// ErrDelayNotMet is returned by RevealAndExecute before the minimum
	// commit-reveal delay has elapsed on the protocol clock.
	ErrDelayNotMet = errors.New("minimum delay not met")

	// ErrHashMismatch is returned when the revealed details do not hash
	// to the committed digest.
	ErrHashMismatch = errors.New("hash mismatch: revealed details do not match the commitment")

	// ErrSlippageTooHigh is returned when the slippage tolerance exceeds
	// the maximum, or the executed output falls below min_out.
	ErrSlippageTooHigh = errors.New("slippage too high")

	// ErrAmountTooSmall is returned by Commit for amounts below the
	// protocol minimum.
	ErrAmountTooSmall = errors.New("amount too small")
)
