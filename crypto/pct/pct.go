// Package pct implements the Poseidon ciphertext ("PCT"): authenticated
// encryption of field-element vectors under a recipient public key. The
// sender derives a shared secret via ECDH on Baby Jubjub and masks the
// plaintext with a Poseidon sponge keystream; the recipient re-derives the
// keystream from the transmitted authentication key.
package pct

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/eerc-protocol/eerc-go/crypto/ecc"
	"github.com/eerc-protocol/eerc-go/crypto/elgamal"
	"github.com/eerc-protocol/eerc-go/crypto/poseidon"
	"github.com/eerc-protocol/eerc-go/types"
	"github.com/eerc-protocol/eerc-go/types/params"
)

// Ciphertext is a Poseidon ciphertext. Cipher always holds a multiple of
// params.CipherBlockSize elements; the plaintext length travels
// out-of-band. Random is the ECDH ephemeral scalar, returned so the
// circuit can consume it as a witness.
type Ciphertext struct {
	Cipher  []*big.Int
	AuthKey ecc.Point
	Nonce   *big.Int
	Random  *big.Int
}

// Encrypt encrypts a vector of field elements under the recipient public
// key. The message is zero-padded to the next multiple of the cipher block
// size. Pass nil as rng to use crypto/rand.
func Encrypt(message []*big.Int, publicKey ecc.Point, rng io.Reader) (*Ciphertext, error) {
	if len(message) == 0 {
		return nil, fmt.Errorf("empty message")
	}
	if !publicKey.IsOnCurve() {
		return nil, ecc.ErrInvalidPoint
	}
	if rng == nil {
		rng = rand.Reader
	}
	// ephemeral ECDH scalar
	s, err := elgamal.RandK(rng)
	if err != nil {
		return nil, err
	}
	// shared secret K = s·pk, transmitted key authKey = s·Base8
	shared := publicKey.New()
	shared.ScalarMult(publicKey, s)
	authKey := publicKey.New()
	authKey.ScalarBaseMult(s)
	// fresh nonce in the scalar field
	nonce, err := rand.Int(rng, params.ScalarField)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	// pad the message with zeros to a whole number of blocks
	padded := padMessage(message)
	kx, ky := shared.Point()
	keystream, err := poseidon.Keystream(kx, ky, nonce, len(padded))
	if err != nil {
		return nil, err
	}
	cipher := make([]*big.Int, len(padded))
	for i := range padded {
		cipher[i] = new(big.Int).Add(padded[i], keystream[i])
		cipher[i].Mod(cipher[i], params.ScalarField)
	}
	return &Ciphertext{
		Cipher:  cipher,
		AuthKey: authKey,
		Nonce:   nonce,
		Random:  s,
	}, nil
}

// Decrypt recovers the first length plaintext elements of the ciphertext
// using the recipient private key. The protocol transmits the plaintext
// length out-of-band.
func Decrypt(ct *Ciphertext, privateKey *big.Int, length int) ([]*big.Int, error) {
	if ct == nil || len(ct.Cipher) == 0 {
		return nil, fmt.Errorf("empty ciphertext")
	}
	if privateKey == nil || privateKey.Sign() <= 0 {
		return nil, fmt.Errorf("empty or negative private key")
	}
	if length <= 0 || length > len(ct.Cipher) {
		return nil, fmt.Errorf("invalid plaintext length %d for %d cipher elements", length, len(ct.Cipher))
	}
	if !ct.AuthKey.IsOnCurve() {
		return nil, ecc.ErrInvalidPoint
	}
	// re-derive the shared secret K' = sk·authKey
	shared := ct.AuthKey.New()
	shared.ScalarMult(ct.AuthKey, privateKey)
	kx, ky := shared.Point()
	keystream, err := poseidon.Keystream(kx, ky, ct.Nonce, len(ct.Cipher))
	if err != nil {
		return nil, err
	}
	message := make([]*big.Int, length)
	for i := range length {
		message[i] = new(big.Int).Sub(ct.Cipher[i], keystream[i])
		message[i].Mod(message[i], params.ScalarField)
	}
	return message, nil
}

// Wire converts a single-block ciphertext into its 7-word contract form:
// cipher[0..3] followed by authKey.x, authKey.y and the nonce.
func (ct *Ciphertext) Wire() (types.PCTWire, error) {
	if len(ct.Cipher) != params.CipherBlockSize {
		return types.PCTWire{}, fmt.Errorf("wire form requires exactly %d cipher elements, got %d",
			params.CipherBlockSize, len(ct.Cipher))
	}
	ax, ay := ct.AuthKey.Point()
	var w types.PCTWire
	for i, c := range ct.Cipher {
		w[i] = types.NewBigInt(c)
	}
	w[4] = types.NewBigInt(ax)
	w[5] = types.NewBigInt(ay)
	w[6] = types.NewBigInt(ct.Nonce)
	return w, nil
}

// FromWire parses the 7-word contract form into a ciphertext, validating
// the authentication key. The prototype point supplies the curve
// implementation. The ephemeral random is not part of the wire form.
func FromWire(prototype ecc.Point, w types.PCTWire) (*Ciphertext, error) {
	for i, e := range w {
		if e == nil {
			return nil, fmt.Errorf("nil element %d in pct wire form", i)
		}
	}
	authKey, err := prototype.New().SetPoint(w[4].MathBigInt(), w[5].MathBigInt())
	if err != nil {
		return nil, fmt.Errorf("pct auth key: %w", err)
	}
	cipher := make([]*big.Int, params.CipherBlockSize)
	for i := range cipher {
		cipher[i] = w[i].MathBigInt()
	}
	return &Ciphertext{
		Cipher:  cipher,
		AuthKey: authKey,
		Nonce:   w[6].MathBigInt(),
	}, nil
}

// IsZero reports whether the wire form w carries no ciphertext at all,
// which is how the contract represents a never-written balance PCT.
func IsZero(w types.PCTWire) bool {
	for _, e := range w {
		if e != nil && e.MathBigInt().Sign() != 0 {
			return false
		}
	}
	return true
}

func padMessage(message []*big.Int) []*big.Int {
	n := len(message)
	rem := n % params.CipherBlockSize
	if rem == 0 {
		return message
	}
	padded := make([]*big.Int, n+params.CipherBlockSize-rem)
	copy(padded, message)
	for i := n; i < len(padded); i++ {
		padded[i] = big.NewInt(0)
	}
	return padded
}
