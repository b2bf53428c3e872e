// Package keys derives the Baby Jubjub key pair of an eERC user from a
// deterministic wallet signature. The same wallet always produces the same
// key, so registration requires no key storage.
package keys

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eerc-protocol/eerc-go/crypto/ecc"
	bjj "github.com/eerc-protocol/eerc-go/crypto/ecc/bjj"
	"github.com/eerc-protocol/eerc-go/types/params"
)

// ErrWeakKey is returned when the derived secret scalar reduces to zero.
var ErrWeakKey = errors.New("derived key reduces to zero")

// RegistrationMessagePrefix is the literal every client must sign to derive
// its key. The full message appends the lowercase 0x address.
const RegistrationMessagePrefix = "eERC\nRegistering user with\n Address:"

// RegistrationMessage returns the exact message a wallet signs to register
// the given address. It is bit-exact by protocol; any client regenerating
// a key must reproduce it.
func RegistrationMessage(address common.Address) string {
	return RegistrationMessagePrefix + strings.ToLower(address.Hex())
}

// KeyPair holds a user's Baby Jubjub key pair for the wallet session. The
// secret scalar lives only in memory; call Zeroize when the session ends.
type KeyPair struct {
	sk *big.Int
	pk ecc.Point
}

// DeriveFromSignature derives the secret scalar from a 65-byte ECDSA
// signature: the r ‖ s components (64 bytes) are interpreted as a
// big-endian integer and reduced mod the subgroup order. A zero result
// fails with ErrWeakKey.
func DeriveFromSignature(signature []byte) (*KeyPair, error) {
	if len(signature) < 64 {
		return nil, fmt.Errorf("signature too short: %d bytes", len(signature))
	}
	sk := new(big.Int).SetBytes(signature[:64])
	sk.Mod(sk, params.SubgroupOrder)
	if sk.Sign() == 0 {
		return nil, ErrWeakKey
	}
	return FromScalar(sk)
}

// FromScalar builds a key pair from an existing secret scalar, reducing it
// mod the subgroup order.
func FromScalar(sk *big.Int) (*KeyPair, error) {
	reduced := new(big.Int).Mod(sk, params.SubgroupOrder)
	if reduced.Sign() == 0 {
		return nil, ErrWeakKey
	}
	pk := bjj.New()
	pk.ScalarBaseMult(reduced)
	return &KeyPair{sk: reduced, pk: pk}, nil
}

// GeneratePublicKey returns (sk mod ℓ)·Base8 for a bare scalar.
func GeneratePublicKey(sk *big.Int) ecc.Point {
	pk := bjj.New()
	pk.ScalarBaseMult(sk)
	return pk
}

// SecretKey returns the secret scalar. Consumers must not serialize it.
func (k *KeyPair) SecretKey() *big.Int {
	return k.sk
}

// PublicKey returns the public key point.
func (k *KeyPair) PublicKey() ecc.Point {
	return k.pk
}

// Zeroize wipes the secret scalar in memory. The key pair is unusable
// afterwards.
func (k *KeyPair) Zeroize() {
	if k.sk != nil {
		k.sk.SetInt64(0)
		k.sk = nil
	}
}
