// Package poseidon provides the fixed-arity Poseidon hashes used by the
// protocol (registration hash, nullifier) and the rate-2 sponge keystream
// consumed by the Poseidon-ECDH cipher. It is backed by the iden3
// implementation, which matches the circom Poseidon gadget.
package poseidon

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/eerc-protocol/eerc-go/crypto"
	"github.com/eerc-protocol/eerc-go/types/params"
)

// Hash computes the Poseidon hash of the provided inputs. The number of
// inputs must be between 1 and 16; every input is reduced into the scalar
// field first.
func Hash(inputs ...*big.Int) (*big.Int, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs provided")
	}
	ff := make([]*big.Int, len(inputs))
	for i, in := range inputs {
		ff[i] = crypto.BigToFF(params.ScalarField, in)
	}
	return poseidon.Hash(ff)
}

// Hash2 computes the two-input Poseidon hash.
func Hash2(a, b *big.Int) (*big.Int, error) {
	return Hash(a, b)
}

// Hash3 computes the three-input Poseidon hash, used for the registration
// hash Poseidon3(chainID, sk, address).
func Hash3(a, b, c *big.Int) (*big.Int, error) {
	return Hash(a, b, c)
}

// Hash5 computes the five-input Poseidon hash, used for the mint nullifier
// Poseidon5(chainID, auditorCipher[0..3]).
func Hash5(a, b, c, d, e *big.Int) (*big.Int, error) {
	return Hash(a, b, c, d, e)
}

// Sponge is a rate-2, capacity-1 Poseidon sponge. Pairs of field elements
// are absorbed through the t=3 permutation with the capacity element
// carrying the chained state; squeezing ratchets the state with zero-block
// absorptions. Both directions of the PCT cipher derive their keystream
// from the same absorb/squeeze schedule, which is fixed by the protocol.
type Sponge struct {
	state *big.Int
}

// NewSponge returns a sponge with a zero-initialized state.
func NewSponge() *Sponge {
	return &Sponge{state: big.NewInt(0)}
}

// Absorb feeds a pair of field elements into the sponge.
func (s *Sponge) Absorb(a, b *big.Int) error {
	st, err := poseidon.HashWithState([]*big.Int{
		crypto.BigToFF(params.ScalarField, a),
		crypto.BigToFF(params.ScalarField, b),
	}, s.state)
	if err != nil {
		return fmt.Errorf("poseidon absorb: %w", err)
	}
	s.state = st
	return nil
}

// Squeeze produces n keystream field elements. The first output is the
// current state; subsequent outputs ratchet the state by absorbing a zero
// block.
func (s *Sponge) Squeeze(n int) ([]*big.Int, error) {
	out := make([]*big.Int, n)
	zero := big.NewInt(0)
	for i := range n {
		if i > 0 {
			st, err := poseidon.HashWithState([]*big.Int{zero, zero}, s.state)
			if err != nil {
				return nil, fmt.Errorf("poseidon squeeze: %w", err)
			}
			s.state = st
		}
		out[i] = new(big.Int).Set(s.state)
	}
	return out, nil
}

// Keystream derives n keystream elements from a shared secret point and a
// nonce: the sponge absorbs (kx, ky), then (nonce, 0), then squeezes.
func Keystream(kx, ky, nonce *big.Int, n int) ([]*big.Int, error) {
	sponge := NewSponge()
	if err := sponge.Absorb(kx, ky); err != nil {
		return nil, err
	}
	if err := sponge.Absorb(nonce, big.NewInt(0)); err != nil {
		return nil, err
	}
	return sponge.Squeeze(n)
}
