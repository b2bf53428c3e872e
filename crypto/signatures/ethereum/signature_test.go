package ethereum

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSignAndVerify(t *testing.T) {
	c := qt.New(t)

	signer, err := NewSignerFromSeed([]byte("signature test seed"))
	c.Assert(err, qt.IsNil)
	msg := []byte("arbitrary payload")

	sig, err := signer.Sign(msg)
	c.Assert(err, qt.IsNil)
	c.Assert(sig.Valid(), qt.IsTrue)

	ok, pubKey := sig.Verify(msg, signer.Address())
	c.Assert(ok, qt.IsTrue)
	c.Assert(pubKey, qt.IsNotNil)

	// a different message does not verify against the same address
	ok, _ = sig.Verify([]byte("other payload"), signer.Address())
	c.Assert(ok, qt.IsFalse)
}

func TestSignatureBytesRoundTrip(t *testing.T) {
	c := qt.New(t)

	signer, err := NewSignerFromSeed([]byte("roundtrip seed"))
	c.Assert(err, qt.IsNil)
	sig, err := signer.Sign([]byte("payload"))
	c.Assert(err, qt.IsNil)

	raw := sig.Bytes()
	c.Assert(raw, qt.HasLen, SignatureLength)

	parsed, err := BytesToSignature(raw)
	c.Assert(err, qt.IsNil)
	c.Assert(parsed.R.Cmp(sig.R), qt.Equals, 0)
	c.Assert(parsed.S.Cmp(sig.S), qt.Equals, 0)
}

func TestAddrFromSignature(t *testing.T) {
	c := qt.New(t)

	signer, err := NewSignerFromSeed([]byte("recovery seed"))
	c.Assert(err, qt.IsNil)
	msg := []byte("recover me")
	sig, err := signer.Sign(msg)
	c.Assert(err, qt.IsNil)

	addr, err := AddrFromSignature(msg, sig)
	c.Assert(err, qt.IsNil)
	c.Assert(addr, qt.Equals, signer.Address())

	_, err = AddrFromSignature(msg, nil)
	c.Assert(err, qt.IsNotNil)
}

func TestBytesToSignatureRejectsShort(t *testing.T) {
	c := qt.New(t)

	_, err := BytesToSignature([]byte{1, 2, 3})
	c.Assert(err, qt.IsNotNil)
}
