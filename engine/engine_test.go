package engine

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"

	"github.com/eerc-protocol/eerc-go/circuits"
	"github.com/eerc-protocol/eerc-go/crypto/ecc"
	bjj "github.com/eerc-protocol/eerc-go/crypto/ecc/bjj"
	"github.com/eerc-protocol/eerc-go/crypto/elgamal"
	"github.com/eerc-protocol/eerc-go/crypto/pct"
	"github.com/eerc-protocol/eerc-go/crypto/poseidon"
	"github.com/eerc-protocol/eerc-go/keys"
	"github.com/eerc-protocol/eerc-go/types"
)

var testChainID = big.NewInt(43114)

func testEngine(c *qt.C, mode Mode, sk int64, seed int64) (*Engine, *keys.KeyPair) {
	kp, err := keys.FromScalar(big.NewInt(sk))
	c.Assert(err, qt.IsNil)
	e := New(mode, testChainID, kp).WithRandomness(mrand.New(mrand.NewSource(seed)))
	return e, kp
}

func testAuditor(c *qt.C, e *Engine, sk int64) *big.Int {
	secret := big.NewInt(sk)
	pk := bjj.New()
	pk.ScalarBaseMult(secret)
	c.Assert(e.SetAuditor(pk), qt.IsNil)
	return secret
}

// witnessPoint rebuilds a curve point from its witness coordinate pair.
func witnessPoint(c *qt.C, w [2]*types.BigInt) ecc.Point {
	p, err := bjj.New().SetPoint(w[0].MathBigInt(), w[1].MathBigInt())
	c.Assert(err, qt.IsNil)
	return p
}

// witnessPCT rebuilds a Poseidon ciphertext from its witness fields.
func witnessPCT(c *qt.C, cipher []*types.BigInt, authKey [2]*types.BigInt, nonce *types.BigInt) *pct.Ciphertext {
	raw := make([]*big.Int, len(cipher))
	for i, e := range cipher {
		raw[i] = e.MathBigInt()
	}
	return &pct.Ciphertext{
		Cipher:  raw,
		AuthKey: witnessPoint(c, authKey),
		Nonce:   nonce.MathBigInt(),
	}
}

func amountPoint(v int64) ecc.Point {
	p := bjj.New()
	p.ScalarBaseMult(big.NewInt(v))
	return p
}

func TestRegisterWitness(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Standalone, 0x0101, 1)

	address := common.HexToAddress("0xabcabcabcabcabcabcabcabcabcabcabcabcdef0")
	res, err := e.Register(address)
	c.Assert(err, qt.IsNil)

	w := res.Witness
	c.Assert(w.SenderPrivateKey.MathBigInt().Cmp(kp.SecretKey()), qt.Equals, 0)
	c.Assert(w.ChainID.MathBigInt().Cmp(testChainID), qt.Equals, 0)
	c.Assert(witnessPoint(c, w.SenderPublicKey).Equal(kp.PublicKey()), qt.IsTrue)

	expected, err := poseidon.Hash3(testChainID, kp.SecretKey(), new(big.Int).SetBytes(address.Bytes()))
	c.Assert(err, qt.IsNil)
	c.Assert(w.RegistrationHash.MathBigInt().Cmp(expected), qt.Equals, 0)

	// the witness serializes with the circuit-fixed field names
	data, err := w.Serialize()
	c.Assert(err, qt.IsNil)
	var decoded map[string]json.RawMessage
	c.Assert(json.Unmarshal(data, &decoded), qt.IsNil)
	for _, name := range []string{"SenderPrivateKey", "SenderPublicKey", "SenderAddress", "ChainID", "RegistrationHash"} {
		_, ok := decoded[name]
		c.Assert(ok, qt.IsTrue, qt.Commentf("missing witness field %s", name))
	}
}

func TestRegisterRejectsZeroAddress(t *testing.T) {
	c := qt.New(t)
	e, _ := testEngine(c, Standalone, 3, 1)

	_, err := e.Register(common.Address{})
	c.Assert(err, qt.ErrorIs, ErrInvalidAddress)
}

func TestPrivateMintToSelf(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Standalone, 0xbeef, 2)
	auditorSk := testAuditor(c, e, 0xa0d1)

	res, err := e.PrivateMint(kp.PublicKey(), big.NewInt(100))
	c.Assert(err, qt.IsNil)
	w := res.Witness

	// receiver EGCT decrypts to 100·Base8
	egct := &elgamal.Ciphertext{
		C1: witnessPoint(c, w.ReceiverVTTC1),
		C2: witnessPoint(c, w.ReceiverVTTC2),
	}
	m, err := elgamal.Decrypt(kp.SecretKey(), egct)
	c.Assert(err, qt.IsNil)
	c.Assert(m.Equal(amountPoint(100)), qt.IsTrue)

	// receiver PCT decrypts to [100]
	receiverPCT := witnessPCT(c, w.ReceiverPCT, w.ReceiverPCTAuthKey, w.ReceiverPCTNonce)
	decrypted, err := pct.Decrypt(receiverPCT, kp.SecretKey(), 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(100))

	// auditor PCT decrypts to [100] under the auditor key
	auditorPCT := witnessPCT(c, w.AuditorPCT, w.AuditorPCTAuthKey, w.AuditorPCTNonce)
	decrypted, err = pct.Decrypt(auditorPCT, auditorSk, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(100))

	// nullifier is deterministic in (chainID, auditor ciphertext)
	expected, err := poseidon.Hash5(testChainID,
		auditorPCT.Cipher[0], auditorPCT.Cipher[1], auditorPCT.Cipher[2], auditorPCT.Cipher[3])
	c.Assert(err, qt.IsNil)
	c.Assert(w.NullifierHash.MathBigInt().Cmp(expected), qt.Equals, 0)
}

func TestPrivateMintRejectsConverterMode(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Converter, 5, 3)
	testAuditor(c, e, 6)

	_, err := e.PrivateMint(kp.PublicKey(), big.NewInt(1))
	c.Assert(err, qt.ErrorIs, ErrNotPermittedInMode)
}

func TestPrivateMintValidations(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Standalone, 5, 4)

	// auditor not set
	_, err := e.PrivateMint(kp.PublicKey(), big.NewInt(1))
	c.Assert(err, qt.ErrorIs, ErrAuditorNotSet)
	c.Assert(e.SetAuditor(bjj.New()), qt.ErrorIs, ErrAuditorNotSet)

	testAuditor(c, e, 6)

	// non-positive amounts
	_, err = e.PrivateMint(kp.PublicKey(), big.NewInt(0))
	c.Assert(err, qt.ErrorIs, ErrInvalidAmount)
	_, err = e.PrivateMint(kp.PublicKey(), big.NewInt(-5))
	c.Assert(err, qt.ErrorIs, ErrInvalidAmount)

	// unregistered receiver (identity key)
	_, err = e.PrivateMint(bjj.New(), big.NewInt(1))
	c.Assert(err, qt.ErrorIs, ErrUnregisteredParty)
}

// testBalance builds the spending input for a plaintext balance encrypted
// under the holder key.
func testBalance(c *qt.C, kp *keys.KeyPair, amount int64, seed int64) *DecryptedBalance {
	rng := mrand.New(mrand.NewSource(seed))
	ct, _, err := elgamal.Encrypt(kp.PublicKey(), big.NewInt(amount), rng)
	c.Assert(err, qt.IsNil)
	return &DecryptedBalance{Ciphertext: ct, Amount: big.NewInt(amount)}
}

func TestTransfer(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Standalone, 0xcafe, 5)
	auditorSk := testAuditor(c, e, 0xfeed)

	receiverKp, err := keys.FromScalar(big.NewInt(0xd00d))
	c.Assert(err, qt.IsNil)

	balance := testBalance(c, kp, 100, 50)
	res, err := e.Transfer(receiverKp.PublicKey(), big.NewInt(30), balance)
	c.Assert(err, qt.IsNil)
	w := res.Witness

	c.Assert(w.SenderBalance.MathBigInt().Int64(), qt.Equals, int64(100))
	c.Assert(w.ValueToTransfer.MathBigInt().Int64(), qt.Equals, int64(30))

	// receiver EGCT decrypts to 30·Base8 under the receiver key
	egct := &elgamal.Ciphertext{
		C1: witnessPoint(c, w.ReceiverVTTC1),
		C2: witnessPoint(c, w.ReceiverVTTC2),
	}
	m, err := elgamal.Decrypt(receiverKp.SecretKey(), egct)
	c.Assert(err, qt.IsNil)
	c.Assert(m.Equal(amountPoint(30)), qt.IsTrue)

	// receiver amount PCT decrypts to 30
	receiverPCT := witnessPCT(c, w.ReceiverPCT, w.ReceiverPCTAuthKey, w.ReceiverPCTNonce)
	decrypted, err := pct.Decrypt(receiverPCT, receiverKp.SecretKey(), 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(30))

	// auditor PCT decrypts to 30
	auditorPCT := witnessPCT(c, w.AuditorPCT, w.AuditorPCTAuthKey, w.AuditorPCTNonce)
	decrypted, err = pct.Decrypt(auditorPCT, auditorSk, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(30))

	// the new balance PCT decrypts to 70 under the sender key
	balanceCT, err := pct.FromWire(bjj.New(), res.BalancePCT)
	c.Assert(err, qt.IsNil)
	decrypted, err = pct.Decrypt(balanceCT, kp.SecretKey(), 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(70))
}

func TestTransferAmountBounds(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Standalone, 21, 6)
	testAuditor(c, e, 22)

	balance := testBalance(c, kp, 100, 51)

	// amount equal to the balance is accepted
	_, err := e.Transfer(kp.PublicKey(), big.NewInt(100), balance)
	c.Assert(err, qt.IsNil)

	// balance + 1 rejects
	_, err = e.Transfer(kp.PublicKey(), big.NewInt(101), balance)
	c.Assert(err, qt.ErrorIs, ErrInvalidAmount)
}

func TestWithdraw(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Converter, 0xaaaa, 7)
	auditorSk := testAuditor(c, e, 0xbbbb)

	balance := testBalance(c, kp, 70, 52)
	res, err := e.Withdraw(big.NewInt(40), balance)
	c.Assert(err, qt.IsNil)

	// sender balance PCT decrypts to 30
	balanceCT, err := pct.FromWire(bjj.New(), res.BalancePCT)
	c.Assert(err, qt.IsNil)
	decrypted, err := pct.Decrypt(balanceCT, kp.SecretKey(), 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(30))

	// auditor PCT decrypts to 40
	auditorPCT := witnessPCT(c, res.Witness.AuditorPCT, res.Witness.AuditorPCTAuthKey, res.Witness.AuditorPCTNonce)
	decrypted, err = pct.Decrypt(auditorPCT, auditorSk, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(40))

	// over-withdrawal rejects
	_, err = e.Withdraw(big.NewInt(71), balance)
	c.Assert(err, qt.ErrorIs, ErrInvalidAmount)
}

func TestWithdrawRejectsStandaloneMode(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Standalone, 9, 8)
	testAuditor(c, e, 10)

	_, err := e.Withdraw(big.NewInt(1), testBalance(c, kp, 10, 53))
	c.Assert(err, qt.ErrorIs, ErrNotPermittedInMode)
}

func TestPrivateBurn(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Standalone, 0x1234, 9)
	auditorSk := testAuditor(c, e, 0x5678)

	balance := testBalance(c, kp, 100, 54)
	res, err := e.PrivateBurn(big.NewInt(25), balance)
	c.Assert(err, qt.IsNil)
	w := res.Witness

	// the self-addressed EGCT decrypts to 25·Base8 under the sender key
	egct := &elgamal.Ciphertext{
		C1: witnessPoint(c, w.SenderVTTC1),
		C2: witnessPoint(c, w.SenderVTTC2),
	}
	m, err := elgamal.Decrypt(kp.SecretKey(), egct)
	c.Assert(err, qt.IsNil)
	c.Assert(m.Equal(amountPoint(25)), qt.IsTrue)

	// auditor PCT decrypts to 25
	auditorPCT := witnessPCT(c, w.AuditorPCT, w.AuditorPCTAuthKey, w.AuditorPCTNonce)
	decrypted, err := pct.Decrypt(auditorPCT, auditorSk, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(25))

	// balance PCT decrypts to 75
	balanceCT, err := pct.FromWire(bjj.New(), res.BalancePCT)
	c.Assert(err, qt.IsNil)
	decrypted, err = pct.Decrypt(balanceCT, kp.SecretKey(), 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(75))
}

func TestPrivateBurnRejectsConverterMode(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Converter, 9, 10)
	testAuditor(c, e, 10)

	_, err := e.PrivateBurn(big.NewInt(1), testBalance(c, kp, 10, 55))
	c.Assert(err, qt.ErrorIs, ErrNotPermittedInMode)
}

func TestDeposit(t *testing.T) {
	c := qt.New(t)
	e, kp := testEngine(c, Converter, 0x9999, 11)

	// 1.23456 tokens at 5 decimals truncate to 1.23 at protocol width
	res, err := e.Deposit(big.NewInt(123456), 5)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Amount.Int64(), qt.Equals, int64(123))
	c.Assert(res.Truncated, qt.IsTrue)

	depositCT, err := pct.FromWire(bjj.New(), res.AmountPCT)
	c.Assert(err, qt.IsNil)
	decrypted, err := pct.Decrypt(depositCT, kp.SecretKey(), 1)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted[0].Int64(), qt.Equals, int64(123))

	// exact conversions report no truncation
	res, err = e.Deposit(big.NewInt(123000), 5)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Truncated, qt.IsFalse)

	// amounts that vanish at protocol width reject
	_, err = e.Deposit(big.NewInt(9), 5)
	c.Assert(err, qt.ErrorIs, ErrInvalidAmount)
}

func TestDepositRejectsStandaloneMode(t *testing.T) {
	c := qt.New(t)
	e, _ := testEngine(c, Standalone, 4, 12)

	_, err := e.Deposit(big.NewInt(100), 2)
	c.Assert(err, qt.ErrorIs, ErrNotPermittedInMode)
}

func TestOperationsRequireKey(t *testing.T) {
	c := qt.New(t)
	e := New(Standalone, testChainID, nil)
	testAuditor(c, e, 2)

	_, err := e.Register(common.HexToAddress("0x0000000000000000000000000000000000000001"))
	c.Assert(err, qt.ErrorIs, ErrMissingKey)

	kp, err := keys.FromScalar(big.NewInt(3))
	c.Assert(err, qt.IsNil)
	_, err = e.Transfer(kp.PublicKey(), big.NewInt(1), testBalance(c, kp, 10, 56))
	c.Assert(err, qt.ErrorIs, ErrMissingKey)
}

// stubOracle implements ProofOracle without a real prover.
type stubOracle struct {
	proof  *types.Proof
	err    error
	inputs []byte
}

func (o *stubOracle) Prove(_ context.Context, _ *circuits.CircuitArtifacts, inputs []byte) (*types.Proof, error) {
	o.inputs = inputs
	return o.proof, o.err
}

func TestGenerateProof(t *testing.T) {
	c := qt.New(t)
	e, _ := testEngine(c, Standalone, 17, 14)

	res, err := e.Register(common.HexToAddress("0x0000000000000000000000000000000000000002"))
	c.Assert(err, qt.IsNil)

	oracle := &stubOracle{proof: &types.Proof{}}
	proof, err := e.GenerateProof(context.Background(), oracle, nil, res.Witness)
	c.Assert(err, qt.IsNil)
	c.Assert(proof, qt.Equals, oracle.proof)

	// the oracle receives the serialized witness
	expected, err := res.Witness.Serialize()
	c.Assert(err, qt.IsNil)
	c.Assert(oracle.inputs, qt.DeepEquals, expected)

	// prover failures surface as ErrProver
	oracle = &stubOracle{err: errors.New("witness calculation failed")}
	_, err = e.GenerateProof(context.Background(), oracle, nil, res.Witness)
	c.Assert(err, qt.ErrorIs, ErrProver)
}

func TestCloseZeroizesKeys(t *testing.T) {
	c := qt.New(t)
	e, _ := testEngine(c, Standalone, 77, 13)
	e.Close()
	_, err := e.Register(common.HexToAddress("0x0000000000000000000000000000000000000001"))
	c.Assert(err, qt.ErrorIs, ErrMissingKey)
}
