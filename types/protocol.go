package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// ProofPoints holds a Groth16 proof over BN254 in the affine coordinate
// layout the contract verifier expects.
type ProofPoints struct {
	A [2]*BigInt    `json:"pi_a"`
	B [2][2]*BigInt `json:"pi_b"`
	C [2]*BigInt    `json:"pi_c"`
}

// Proof is the output of the prover oracle: the proof points plus the
// circuit public signals in the order fixed by the circuit.
type Proof struct {
	Points        ProofPoints `json:"proof"`
	PublicSignals []*BigInt   `json:"publicSignals"`
}

// EGCTWire is the contract representation of an ElGamal ciphertext: two
// Baby Jubjub points in affine coordinates.
type EGCTWire struct {
	C1 [2]*BigInt `json:"c1"`
	C2 [2]*BigInt `json:"c2"`
}

// PCTWire is the 7-word contract representation of a single-block Poseidon
// ciphertext: cipher[0..3] followed by authKey.x, authKey.y and the nonce.
type PCTWire [7]*BigInt

// AmountPCT is one entry of the contract's per-user incoming-credit queue.
type AmountPCT struct {
	PCT   PCTWire `json:"pct"`
	Index *BigInt `json:"index"`
}

// BalanceEncoding is the full encrypted balance the contract stores for a
// (user, token) pair: the homomorphic running total, a monotonic nonce,
// the queue of incoming amount ciphertexts and the rolling balance
// ciphertext readable by the holder.
type BalanceEncoding struct {
	EGCT       EGCTWire    `json:"eGCT"`
	Nonce      *BigInt     `json:"nonce"`
	AmountPCTs []AmountPCT `json:"amountPCTs"`
	BalancePCT PCTWire     `json:"balancePCT"`
}

// Metadata carries an encrypted per-transaction message as emitted by the
// PrivateMessage event.
type Metadata struct {
	MessageFrom  common.Address `json:"messageFrom"`
	MessageTo    common.Address `json:"messageTo"`
	MessageType  uint8          `json:"messageType"`
	EncryptedMsg HexBytes       `json:"encryptedMsg"`
}
