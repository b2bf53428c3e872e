package engine

import "errors"

// Error taxonomy of the operation engine. Every failure surfaces one of
// these sentinels, possibly wrapped with operation context. The engine
// never retries and no state mutates on failure; retrying with fresh
// randomness is always safe for the consumer.
var (
	// ErrInvalidAddress is returned for a malformed or zero address.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAmount is returned for a non-positive amount or one
	// exceeding the plaintext balance.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNotPermittedInMode is returned when the operation is incompatible
	// with the converter/standalone deployment flag.
	ErrNotPermittedInMode = errors.New("operation not permitted in this mode")

	// ErrAuditorNotSet is returned when the auditor public key is the
	// identity.
	ErrAuditorNotSet = errors.New("auditor public key not set")

	// ErrUnregisteredParty is returned when a counterparty public key is
	// the identity.
	ErrUnregisteredParty = errors.New("counterparty is not registered")

	// ErrMissingKey is returned when no decryption key is present in the
	// session.
	ErrMissingKey = errors.New("decryption key not available")

	// ErrProver is returned when the external prover fails.
	ErrProver = errors.New("prover failed")

	// ErrInconsistentBalance is returned when the reconstructed plaintext
	// balance does not match the ElGamal ciphertext.
	ErrInconsistentBalance = errors.New("balance ciphertexts are inconsistent")
)
