package pct

import (
	"math/big"
	mrand "math/rand"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/eerc-protocol/eerc-go/crypto/ecc"
	bjj "github.com/eerc-protocol/eerc-go/crypto/ecc/bjj"
	"github.com/eerc-protocol/eerc-go/types"
	"github.com/eerc-protocol/eerc-go/types/params"
)

func testKeyPair(sk int64) (*big.Int, ecc.Point) {
	secret := big.NewInt(sk)
	pk := bjj.New()
	pk.ScalarBaseMult(secret)
	return secret, pk
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := qt.New(t)
	rng := mrand.New(mrand.NewSource(10))

	sk, pk := testKeyPair(123456)
	for length := 1; length <= 4; length++ {
		message := make([]*big.Int, length)
		for i := range message {
			message[i] = big.NewInt(int64(1000*length + i))
		}
		ct, err := Encrypt(message, pk, rng)
		c.Assert(err, qt.IsNil)
		c.Assert(ct.Cipher, qt.HasLen, params.CipherBlockSize)
		c.Assert(ct.Random.Sign() > 0, qt.IsTrue)

		decrypted, err := Decrypt(ct, sk, length)
		c.Assert(err, qt.IsNil)
		c.Assert(decrypted, qt.HasLen, length)
		for i := range message {
			c.Assert(decrypted[i].Cmp(message[i]), qt.Equals, 0, qt.Commentf("length %d element %d", length, i))
		}
	}
}

func TestEncryptPadsToBlocks(t *testing.T) {
	c := qt.New(t)
	rng := mrand.New(mrand.NewSource(11))

	sk, pk := testKeyPair(55)
	// six chunks round up to two blocks
	message := make([]*big.Int, 6)
	for i := range message {
		message[i] = big.NewInt(int64(i + 1))
	}
	ct, err := Encrypt(message, pk, rng)
	c.Assert(err, qt.IsNil)
	c.Assert(ct.Cipher, qt.HasLen, 2*params.CipherBlockSize)

	decrypted, err := Decrypt(ct, sk, len(message))
	c.Assert(err, qt.IsNil)
	for i := range message {
		c.Assert(decrypted[i].Cmp(message[i]), qt.Equals, 0)
	}
	// the padding decrypts to zero
	padded, err := Decrypt(ct, sk, 2*params.CipherBlockSize)
	c.Assert(err, qt.IsNil)
	for i := len(message); i < len(padded); i++ {
		c.Assert(padded[i].Sign(), qt.Equals, 0)
	}
}

func TestDecryptWithWrongKeyGarbles(t *testing.T) {
	c := qt.New(t)
	rng := mrand.New(mrand.NewSource(12))

	_, pk := testKeyPair(77)
	message := []*big.Int{big.NewInt(42)}
	ct, err := Encrypt(message, pk, rng)
	c.Assert(err, qt.IsNil)

	wrong, err := Decrypt(ct, big.NewInt(78), 1)
	c.Assert(err, qt.IsNil)
	c.Assert(wrong[0].Cmp(message[0]), qt.Not(qt.Equals), 0)
}

func TestWireRoundTrip(t *testing.T) {
	c := qt.New(t)
	rng := mrand.New(mrand.NewSource(13))

	sk, pk := testKeyPair(999)
	ct, err := Encrypt([]*big.Int{big.NewInt(100)}, pk, rng)
	c.Assert(err, qt.IsNil)

	wire, err := ct.Wire()
	c.Assert(err, qt.IsNil)
	c.Assert(IsZero(wire), qt.IsFalse)

	parsed, err := FromWire(bjj.New(), wire)
	c.Assert(err, qt.IsNil)
	decrypted, err := Decrypt(parsed, sk, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(100))
}

func TestDecryptValidatesLength(t *testing.T) {
	c := qt.New(t)
	rng := mrand.New(mrand.NewSource(14))

	sk, pk := testKeyPair(3)
	ct, err := Encrypt([]*big.Int{big.NewInt(1)}, pk, rng)
	c.Assert(err, qt.IsNil)

	_, err = Decrypt(ct, sk, 0)
	c.Assert(err, qt.IsNotNil)
	_, err = Decrypt(ct, sk, params.CipherBlockSize+1)
	c.Assert(err, qt.IsNotNil)
}

func TestEncryptRejectsEmptyMessage(t *testing.T) {
	c := qt.New(t)

	_, pk := testKeyPair(3)
	_, err := Encrypt(nil, pk, nil)
	c.Assert(err, qt.IsNotNil)
}

func TestIsZero(t *testing.T) {
	c := qt.New(t)

	var w types.PCTWire
	c.Assert(IsZero(w), qt.IsTrue)
	for i := range w {
		w[i] = types.NewInt(0)
	}
	c.Assert(IsZero(w), qt.IsTrue)
	w[0] = types.NewInt(5)
	c.Assert(IsZero(w), qt.IsFalse)
}
