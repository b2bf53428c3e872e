package keys

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"

	ethereum "github.com/eerc-protocol/eerc-go/crypto/signatures/ethereum"
	"github.com/eerc-protocol/eerc-go/types/params"
)

func TestRegistrationMessageLiteral(t *testing.T) {
	c := qt.New(t)

	addr := common.HexToAddress("0xAbCdEf0123456789aBcDeF0123456789AbCdEf01")
	msg := RegistrationMessage(addr)
	c.Assert(msg, qt.Equals,
		"eERC\nRegistering user with\n Address:0xabcdef0123456789abcdef0123456789abcdef01")
}

func TestDeriveFromSignatureDeterministic(t *testing.T) {
	c := qt.New(t)

	signer, err := ethereum.NewSignerFromSeed([]byte("derivation test seed"))
	c.Assert(err, qt.IsNil)
	msg := []byte(RegistrationMessage(signer.Address()))

	sig1, err := signer.Sign(msg)
	c.Assert(err, qt.IsNil)
	sig2, err := signer.Sign(msg)
	c.Assert(err, qt.IsNil)
	// ECDSA signing in go-ethereum is deterministic (RFC 6979)
	c.Assert(bytes.Equal(sig1.Bytes(), sig2.Bytes()), qt.IsTrue)

	kp1, err := DeriveFromSignature(sig1.Bytes())
	c.Assert(err, qt.IsNil)
	kp2, err := DeriveFromSignature(sig2.Bytes())
	c.Assert(err, qt.IsNil)
	c.Assert(kp1.SecretKey().Cmp(kp2.SecretKey()), qt.Equals, 0)
	c.Assert(kp1.PublicKey().Equal(kp2.PublicKey()), qt.IsTrue)
}

func TestDerivedKeyIsValid(t *testing.T) {
	c := qt.New(t)

	signer, err := ethereum.NewSignerFromSeed([]byte("another seed"))
	c.Assert(err, qt.IsNil)
	sig, err := signer.Sign([]byte(RegistrationMessage(signer.Address())))
	c.Assert(err, qt.IsNil)

	kp, err := DeriveFromSignature(sig.Bytes())
	c.Assert(err, qt.IsNil)
	sk := kp.SecretKey()
	c.Assert(sk.Sign() > 0, qt.IsTrue)
	c.Assert(sk.Cmp(params.SubgroupOrder) < 0, qt.IsTrue)
	c.Assert(kp.PublicKey().IsOnCurve(), qt.IsTrue)
	c.Assert(kp.PublicKey().InSubgroup(), qt.IsTrue)
	c.Assert(kp.PublicKey().IsZero(), qt.IsFalse)
}

func TestDeriveFromSignatureRejectsWeakKey(t *testing.T) {
	c := qt.New(t)

	// r ‖ s = 0 reduces to a zero scalar
	_, err := DeriveFromSignature(make([]byte, 65))
	c.Assert(err, qt.ErrorIs, ErrWeakKey)

	_, err = DeriveFromSignature([]byte{1, 2, 3})
	c.Assert(err, qt.IsNotNil)
}

func TestFromScalarReduces(t *testing.T) {
	c := qt.New(t)

	shifted := new(big.Int).Add(big.NewInt(42), params.SubgroupOrder)
	kp1, err := FromScalar(big.NewInt(42))
	c.Assert(err, qt.IsNil)
	kp2, err := FromScalar(shifted)
	c.Assert(err, qt.IsNil)
	c.Assert(kp1.SecretKey().Cmp(kp2.SecretKey()), qt.Equals, 0)

	_, err = FromScalar(big.NewInt(0))
	c.Assert(err, qt.ErrorIs, ErrWeakKey)
}

func TestZeroize(t *testing.T) {
	c := qt.New(t)

	kp, err := FromScalar(big.NewInt(7))
	c.Assert(err, qt.IsNil)
	kp.Zeroize()
	c.Assert(kp.SecretKey(), qt.IsNil)
}
