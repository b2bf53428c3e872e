// Package elgamal implements ElGamal encryption over Baby Jubjub of scalar
// amounts encoded as curve points ("EGCT"). Decryption recovers the point
// v·Base8, not the scalar v; the protocol carries the plaintext redundantly
// in a companion Poseidon ciphertext, so no discrete logarithm is ever
// solved here.
package elgamal

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/eerc-protocol/eerc-go/crypto/ecc"
	"github.com/eerc-protocol/eerc-go/types"
	"github.com/eerc-protocol/eerc-go/types/params"
)

// Ciphertext is an ElGamal ciphertext: C1 = r·Base8 and
// C2 = v·Base8 + r·pk for a fresh random r.
type Ciphertext struct {
	C1 ecc.Point
	C2 ecc.Point
}

// RandK samples a random scalar uniformly in [1, SubgroupOrder) from the
// given entropy source. Pass nil to use crypto/rand.
func RandK(rng io.Reader) (*big.Int, error) {
	if rng == nil {
		rng = rand.Reader
	}
	max := new(big.Int).Sub(params.SubgroupOrder, big.NewInt(1))
	k, err := rand.Int(rng, max)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random k: %w", err)
	}
	return k.Add(k, big.NewInt(1)), nil
}

// Encrypt encrypts an amount under the public key provided as an elliptic
// curve point. It samples a fresh random k and returns the ciphertext
// together with the k used, which the circuit consumes as a witness.
func Encrypt(publicKey ecc.Point, amount *big.Int, rng io.Reader) (*Ciphertext, *big.Int, error) {
	if !publicKey.IsOnCurve() {
		return nil, nil, ecc.ErrInvalidPoint
	}
	k, err := RandK(rng)
	if err != nil {
		return nil, nil, err
	}
	ct := EncryptWithK(publicKey, amount, k)
	return ct, k, nil
}

// EncryptWithK encrypts an amount under the public key with the random k
// provided.
func EncryptWithK(pubKey ecc.Point, amount, k *big.Int) *Ciphertext {
	// compute C1 = k * G
	c1 := pubKey.New()
	c1.ScalarBaseMult(k)
	// compute s = k * pubKey
	s := pubKey.New()
	s.ScalarMult(pubKey, k)
	// encode the amount as the point M = amount * G
	m := pubKey.New()
	m.ScalarBaseMult(amount)
	// compute C2 = M + s
	c2 := pubKey.New()
	c2.Add(m, s)
	return &Ciphertext{C1: c1, C2: c2}
}

// Decrypt recovers the plaintext point M = C2 - sk·C1. The caller compares
// M against candidate amounts encoded as v·Base8; the scalar itself is not
// recovered.
func Decrypt(privateKey *big.Int, ct *Ciphertext) (ecc.Point, error) {
	if privateKey == nil || privateKey.Sign() <= 0 {
		return nil, fmt.Errorf("empty or negative private key")
	}
	if ct == nil || ct.C1 == nil || ct.C2 == nil {
		return nil, fmt.Errorf("nil ciphertext")
	}
	if !ct.C1.IsOnCurve() || !ct.C2.IsOnCurve() {
		return nil, ecc.ErrInvalidPoint
	}
	tmp := ct.C1.New()
	tmp.ScalarMult(ct.C1, privateKey) // sk·C1
	tmp.Neg(tmp)                      // -sk·C1
	m := ct.C2.New()
	m.Set(ct.C2)
	m.Add(m, tmp) // M = C2 - sk·C1
	return m, nil
}

// Add returns the componentwise point addition of two ciphertexts, which
// encrypts the sum of their plaintexts. The contract performs this
// aggregation on the running balance; it is exposed here for balance
// verification and tests.
func (ct *Ciphertext) Add(other *Ciphertext) *Ciphertext {
	c1 := ct.C1.New()
	c1.Add(ct.C1, other.C1)
	c2 := ct.C2.New()
	c2.Add(ct.C2, other.C2)
	return &Ciphertext{C1: c1, C2: c2}
}

// Wire converts the ciphertext into its contract representation.
func (ct *Ciphertext) Wire() types.EGCTWire {
	c1x, c1y := ct.C1.Point()
	c2x, c2y := ct.C2.Point()
	return types.EGCTWire{
		C1: [2]*types.BigInt{types.NewBigInt(c1x), types.NewBigInt(c1y)},
		C2: [2]*types.BigInt{types.NewBigInt(c2x), types.NewBigInt(c2y)},
	}
}

// FromWire parses a contract-side EGCT into a ciphertext, validating that
// both components are on the curve. The prototype point supplies the curve
// implementation.
func FromWire(prototype ecc.Point, w types.EGCTWire) (*Ciphertext, error) {
	c1, err := prototype.New().SetPoint(w.C1[0].MathBigInt(), w.C1[1].MathBigInt())
	if err != nil {
		return nil, fmt.Errorf("egct c1: %w", err)
	}
	c2, err := prototype.New().SetPoint(w.C2[0].MathBigInt(), w.C2[1].MathBigInt())
	if err != nil {
		return nil, fmt.Errorf("egct c2: %w", err)
	}
	return &Ciphertext{C1: c1, C2: c2}, nil
}

// String returns a readable representation of the ciphertext.
func (ct *Ciphertext) String() string {
	return fmt.Sprintf("{C1: %s, C2: %s}", ct.C1, ct.C2)
}
