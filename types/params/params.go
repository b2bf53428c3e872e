// Package params holds the protocol-wide constants of the eERC protocol:
// the SNARK scalar field, the Baby Jubjub subgroup order, ciphertext
// dimensions and the circuit public-signal counts fixed by the contract ABI.
package params

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/iden3/go-iden3-crypto/babyjub"
)

var (
	// ScalarField is the BN254 scalar prime. Every field element handled by
	// the SDK lives in [0, ScalarField).
	ScalarField = ecc.BN254.ScalarField()

	// SubgroupOrder is the order of the prime-order subgroup of Baby Jubjub
	// generated by Base8. Secret scalars are reduced mod SubgroupOrder
	// before any scalar multiplication.
	SubgroupOrder = babyjub.SubOrder
)

const (
	// CipherBlockSize is the number of field elements per PCT keystream
	// block. Plaintext vectors are zero-padded to a multiple of it.
	CipherBlockSize = 4

	// PCTWireSize is the on-wire word count of a single-block PCT:
	// cipher[0..3] followed by authKey.x, authKey.y and the nonce.
	PCTWireSize = 7

	// MetadataChunkBits is the chunk width of the UTF-8 message codec.
	MetadataChunkBits = 250

	// InternalDecimals is the decimal width of protocol-internal amounts.
	// ERC-20 deposits are rescaled down to it in converter mode.
	InternalDecimals = 2

	// WordSize is the byte width of every big-endian word on the wire.
	WordSize = 32
)

// Public-signal counts per circuit, fixed by the contract ABI.
const (
	RegisterPublicSignals = 5
	MintPublicSignals     = 24
	TransferPublicSignals = 32
	WithdrawPublicSignals = 16
	BurnPublicSignals     = 19
)

// MaxAmountBits bounds protocol amounts; amounts are far below the scalar
// field so that PCT sums never wrap.
const MaxAmountBits = 128

// MaxAmount is the exclusive upper bound for protocol amounts.
var MaxAmount = new(big.Int).Lsh(big.NewInt(1), MaxAmountBits)
