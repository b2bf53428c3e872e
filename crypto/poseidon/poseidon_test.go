package poseidon

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestHashDeterministic(t *testing.T) {
	c := qt.New(t)

	h1, err := Hash3(big.NewInt(43114), big.NewInt(7), big.NewInt(11))
	c.Assert(err, qt.IsNil)
	h2, err := Hash3(big.NewInt(43114), big.NewInt(7), big.NewInt(11))
	c.Assert(err, qt.IsNil)
	c.Assert(h1.Cmp(h2), qt.Equals, 0)

	h3, err := Hash3(big.NewInt(43114), big.NewInt(7), big.NewInt(12))
	c.Assert(err, qt.IsNil)
	c.Assert(h1.Cmp(h3), qt.Not(qt.Equals), 0)
}

func TestHashArities(t *testing.T) {
	c := qt.New(t)

	h2, err := Hash2(big.NewInt(1), big.NewInt(2))
	c.Assert(err, qt.IsNil)
	h5, err := Hash5(big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4), big.NewInt(5))
	c.Assert(err, qt.IsNil)
	c.Assert(h2.Sign(), qt.Not(qt.Equals), 0)
	c.Assert(h5.Sign(), qt.Not(qt.Equals), 0)
	c.Assert(h2.Cmp(h5), qt.Not(qt.Equals), 0)

	_, err = Hash()
	c.Assert(err, qt.IsNotNil)
}

func TestKeystreamDeterministic(t *testing.T) {
	c := qt.New(t)

	kx, ky := big.NewInt(17), big.NewInt(23)
	nonce := big.NewInt(99)

	ks1, err := Keystream(kx, ky, nonce, 4)
	c.Assert(err, qt.IsNil)
	c.Assert(ks1, qt.HasLen, 4)

	ks2, err := Keystream(kx, ky, nonce, 4)
	c.Assert(err, qt.IsNil)
	for i := range ks1 {
		c.Assert(ks1[i].Cmp(ks2[i]), qt.Equals, 0)
	}

	// longer streams share the prefix
	ks3, err := Keystream(kx, ky, nonce, 8)
	c.Assert(err, qt.IsNil)
	c.Assert(ks3, qt.HasLen, 8)
	for i := range ks1 {
		c.Assert(ks3[i].Cmp(ks1[i]), qt.Equals, 0)
	}

	// a different nonce yields a different stream
	ks4, err := Keystream(kx, ky, big.NewInt(100), 4)
	c.Assert(err, qt.IsNil)
	c.Assert(ks4[0].Cmp(ks1[0]), qt.Not(qt.Equals), 0)
}

func TestKeystreamElementsDiffer(t *testing.T) {
	c := qt.New(t)

	ks, err := Keystream(big.NewInt(1), big.NewInt(2), big.NewInt(3), 4)
	c.Assert(err, qt.IsNil)
	seen := map[string]bool{}
	for _, k := range ks {
		c.Assert(seen[k.String()], qt.IsFalse)
		seen[k.String()] = true
	}
}
