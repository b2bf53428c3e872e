// Package engine assembles the encrypted payloads and circuit witnesses of
// the five eERC protocol operations: register, private mint, transfer,
// withdraw and private burn, plus the proof-less deposit of converter
// deployments. Each operation is a pure function of its inputs and fresh
// randomness; nothing in the engine mutates on failure.
package engine

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/eerc-protocol/eerc-go/circuits"
	"github.com/eerc-protocol/eerc-go/crypto"
	"github.com/eerc-protocol/eerc-go/crypto/ecc"
	"github.com/eerc-protocol/eerc-go/crypto/elgamal"
	"github.com/eerc-protocol/eerc-go/crypto/pct"
	"github.com/eerc-protocol/eerc-go/crypto/poseidon"
	"github.com/eerc-protocol/eerc-go/keys"
	"github.com/eerc-protocol/eerc-go/log"
	"github.com/eerc-protocol/eerc-go/types"
	"github.com/eerc-protocol/eerc-go/types/params"
)

// Mode is the deployment style of the target contract.
type Mode string

const (
	// Standalone deployments mint and burn encrypted supply directly.
	Standalone Mode = "standalone"
	// Converter deployments wrap an existing ERC-20 via deposit/withdraw.
	Converter Mode = "converter"
)

// ProofOracle is the external prover the engine hands witnesses to.
type ProofOracle interface {
	Prove(ctx context.Context, artifacts *circuits.CircuitArtifacts, inputs []byte) (*types.Proof, error)
}

// Witness is any serializable circuit witness produced by the engine.
type Witness interface {
	Serialize() ([]byte, error)
}

// Engine builds witnesses and encrypted payloads for one wallet session.
// It holds the session key pair and the auditor public key; randomness is
// drawn from the configured entropy source, which tests may replace with a
// deterministic reader. Production code must never reuse randomness.
type Engine struct {
	mode    Mode
	chainID *big.Int
	keys    *keys.KeyPair
	auditor ecc.Point
	rng     io.Reader
}

// New creates an engine for the given deployment mode and chain. The key
// pair may be nil for a receive-only session; operations that need the
// secret key fail with ErrMissingKey.
func New(mode Mode, chainID *big.Int, kp *keys.KeyPair) *Engine {
	return &Engine{mode: mode, chainID: chainID, keys: kp}
}

// WithRandomness replaces the entropy source of the engine. Passing nil
// restores crypto/rand.
func (e *Engine) WithRandomness(rng io.Reader) *Engine {
	e.rng = rng
	return e
}

// SetAuditor sets the auditor public key used for every auditor
// ciphertext. It rejects identity or off-curve points.
func (e *Engine) SetAuditor(pk ecc.Point) error {
	if pk == nil || pk.IsZero() {
		return ErrAuditorNotSet
	}
	if !pk.IsOnCurve() || !pk.InSubgroup() {
		return fmt.Errorf("%w: auditor key off curve", ecc.ErrInvalidPoint)
	}
	e.auditor = pk
	return nil
}

// Mode returns the deployment mode the engine was created for.
func (e *Engine) Mode() Mode {
	return e.mode
}

// DecryptedBalance pairs the contract's current balance ciphertext with
// the plaintext the holder reconstructed from it.
type DecryptedBalance struct {
	Ciphertext *elgamal.Ciphertext
	Amount     *big.Int
}

// RegisterResult carries the registration witness.
type RegisterResult struct {
	Witness *circuits.RegisterInputs
}

// MintResult carries the mint witness.
type MintResult struct {
	Witness *circuits.MintInputs
}

// TransferResult carries the transfer witness and the sender's new balance
// PCT, which the contract stores as the rolling balancePCT.
type TransferResult struct {
	Witness    *circuits.TransferInputs
	BalancePCT types.PCTWire
}

// WithdrawResult carries the withdraw witness and the new balance PCT.
type WithdrawResult struct {
	Witness    *circuits.WithdrawInputs
	BalancePCT types.PCTWire
}

// BurnResult carries the burn witness and the new balance PCT.
type BurnResult struct {
	Witness    *circuits.BurnInputs
	BalancePCT types.PCTWire
}

// DepositResult carries the deposit amount PCT. Deposits need no proof;
// the amount is rescaled from the ERC-20 decimal width to the protocol's
// internal width, and Truncated reports whether the downscale dropped
// dust.
type DepositResult struct {
	Amount    *big.Int
	AmountPCT types.PCTWire
	Truncated bool
}

// Register builds the registration witness for the wallet address:
// RegistrationHash = Poseidon3(chainID, sk, address).
func (e *Engine) Register(address common.Address) (*RegisterResult, error) {
	if err := e.requireKey(); err != nil {
		return nil, err
	}
	if address == (common.Address{}) {
		return nil, ErrInvalidAddress
	}
	opID := uuid.New()
	ffAddress := crypto.BigToFF(params.ScalarField, new(big.Int).SetBytes(address.Bytes()))
	regHash, err := poseidon.Hash3(e.chainID, e.keys.SecretKey(), ffAddress)
	if err != nil {
		return nil, fmt.Errorf("registration hash: %w", err)
	}
	log.Debugf("op=%s register address=%s", opID, address)
	return &RegisterResult{Witness: &circuits.RegisterInputs{
		SenderPrivateKey: circuits.ScalarWitness(e.keys.SecretKey()),
		SenderPublicKey:  circuits.PointWitness(e.keys.PublicKey()),
		SenderAddress:    types.NewBigInt(ffAddress),
		ChainID:          types.NewBigInt(e.chainID),
		RegistrationHash: types.NewBigInt(regHash),
	}}, nil
}

// PrivateMint builds the witness minting amount to the receiver. Only
// standalone deployments mint; the nullifier binds the chain id and the
// auditor ciphertext so a mint witness cannot be replayed.
func (e *Engine) PrivateMint(receiverPk ecc.Point, amount *big.Int) (*MintResult, error) {
	if e.mode != Standalone {
		return nil, fmt.Errorf("%w: mint requires a standalone deployment", ErrNotPermittedInMode)
	}
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	if err := checkParty(receiverPk); err != nil {
		return nil, err
	}
	if err := e.requireAuditor(); err != nil {
		return nil, err
	}
	opID := uuid.New()

	egct, vttRandom, err := elgamal.Encrypt(receiverPk, amount, e.rng)
	if err != nil {
		return nil, fmt.Errorf("receiver egct: %w", err)
	}
	receiverPCT, err := pct.Encrypt([]*big.Int{amount}, receiverPk, e.rng)
	if err != nil {
		return nil, fmt.Errorf("receiver pct: %w", err)
	}
	auditorPCT, err := pct.Encrypt([]*big.Int{amount}, e.auditor, e.rng)
	if err != nil {
		return nil, fmt.Errorf("auditor pct: %w", err)
	}
	nullifier, err := poseidon.Hash5(e.chainID,
		auditorPCT.Cipher[0], auditorPCT.Cipher[1], auditorPCT.Cipher[2], auditorPCT.Cipher[3])
	if err != nil {
		return nil, fmt.Errorf("nullifier: %w", err)
	}
	receiverCipher, err := circuits.CipherWitness(receiverPCT)
	if err != nil {
		return nil, err
	}
	auditorCipher, err := circuits.CipherWitness(auditorPCT)
	if err != nil {
		return nil, err
	}
	c1, c2 := circuits.EGCTWitness(egct)
	log.Debugf("op=%s mint amount=%s nullifier=%s", opID, amount, nullifier)
	return &MintResult{Witness: &circuits.MintInputs{
		ValueToMint:        types.NewBigInt(amount),
		ChainID:            types.NewBigInt(e.chainID),
		NullifierHash:      types.NewBigInt(nullifier),
		ReceiverPublicKey:  circuits.PointWitness(receiverPk),
		ReceiverVTTC1:      c1,
		ReceiverVTTC2:      c2,
		ReceiverVTTRandom:  circuits.ScalarWitness(vttRandom),
		ReceiverPCT:        receiverCipher,
		ReceiverPCTAuthKey: circuits.PointWitness(receiverPCT.AuthKey),
		ReceiverPCTNonce:   types.NewBigInt(receiverPCT.Nonce),
		ReceiverPCTRandom:  circuits.ScalarWitness(receiverPCT.Random),
		AuditorPublicKey:   circuits.PointWitness(e.auditor),
		AuditorPCT:         auditorCipher,
		AuditorPCTAuthKey:  circuits.PointWitness(auditorPCT.AuthKey),
		AuditorPCTNonce:    types.NewBigInt(auditorPCT.Nonce),
		AuditorPCTRandom:   circuits.ScalarWitness(auditorPCT.Random),
	}}, nil
}

// Transfer builds the witness moving amount from the session key holder to
// the receiver. The sender's post-operation balance is re-encrypted as the
// new rolling balance PCT.
func (e *Engine) Transfer(receiverPk ecc.Point, amount *big.Int, balance *DecryptedBalance) (*TransferResult, error) {
	if err := e.requireKey(); err != nil {
		return nil, err
	}
	if err := checkSpend(amount, balance); err != nil {
		return nil, err
	}
	if err := checkParty(receiverPk); err != nil {
		return nil, err
	}
	if err := e.requireAuditor(); err != nil {
		return nil, err
	}
	opID := uuid.New()
	newBalance := new(big.Int).Sub(balance.Amount, amount)

	// sender-side encryption of the moved amount; its randomness is not a
	// circuit input and is discarded
	senderEGCT, _, err := elgamal.Encrypt(e.keys.PublicKey(), amount, e.rng)
	if err != nil {
		return nil, fmt.Errorf("sender egct: %w", err)
	}
	receiverEGCT, vttRandom, err := elgamal.Encrypt(receiverPk, amount, e.rng)
	if err != nil {
		return nil, fmt.Errorf("receiver egct: %w", err)
	}
	receiverPCT, err := pct.Encrypt([]*big.Int{amount}, receiverPk, e.rng)
	if err != nil {
		return nil, fmt.Errorf("receiver pct: %w", err)
	}
	auditorPCT, err := pct.Encrypt([]*big.Int{amount}, e.auditor, e.rng)
	if err != nil {
		return nil, fmt.Errorf("auditor pct: %w", err)
	}
	balancePCT, err := e.balancePCT(newBalance)
	if err != nil {
		return nil, err
	}
	receiverCipher, err := circuits.CipherWitness(receiverPCT)
	if err != nil {
		return nil, err
	}
	auditorCipher, err := circuits.CipherWitness(auditorPCT)
	if err != nil {
		return nil, err
	}
	balC1, balC2 := circuits.EGCTWitness(balance.Ciphertext)
	sndC1, sndC2 := circuits.EGCTWitness(senderEGCT)
	rcvC1, rcvC2 := circuits.EGCTWitness(receiverEGCT)
	log.Debugf("op=%s transfer amount=%s", opID, amount)
	return &TransferResult{
		Witness: &circuits.TransferInputs{
			ValueToTransfer:    types.NewBigInt(amount),
			SenderPrivateKey:   circuits.ScalarWitness(e.keys.SecretKey()),
			SenderPublicKey:    circuits.PointWitness(e.keys.PublicKey()),
			SenderBalance:      types.NewBigInt(balance.Amount),
			SenderBalanceC1:    balC1,
			SenderBalanceC2:    balC2,
			SenderVTTC1:        sndC1,
			SenderVTTC2:        sndC2,
			ReceiverPublicKey:  circuits.PointWitness(receiverPk),
			ReceiverVTTC1:      rcvC1,
			ReceiverVTTC2:      rcvC2,
			ReceiverVTTRandom:  circuits.ScalarWitness(vttRandom),
			ReceiverPCT:        receiverCipher,
			ReceiverPCTAuthKey: circuits.PointWitness(receiverPCT.AuthKey),
			ReceiverPCTNonce:   types.NewBigInt(receiverPCT.Nonce),
			ReceiverPCTRandom:  circuits.ScalarWitness(receiverPCT.Random),
			AuditorPublicKey:   circuits.PointWitness(e.auditor),
			AuditorPCT:         auditorCipher,
			AuditorPCTAuthKey:  circuits.PointWitness(auditorPCT.AuthKey),
			AuditorPCTNonce:    types.NewBigInt(auditorPCT.Nonce),
			AuditorPCTRandom:   circuits.ScalarWitness(auditorPCT.Random),
		},
		BalancePCT: balancePCT,
	}, nil
}

// Withdraw builds the witness withdrawing amount back to the underlying
// ERC-20. Only converter deployments withdraw; the encrypted supply is
// destroyed, so no receiver ciphertext exists.
func (e *Engine) Withdraw(amount *big.Int, balance *DecryptedBalance) (*WithdrawResult, error) {
	if e.mode != Converter {
		return nil, fmt.Errorf("%w: withdraw requires a converter deployment", ErrNotPermittedInMode)
	}
	if err := e.requireKey(); err != nil {
		return nil, err
	}
	if err := checkSpend(amount, balance); err != nil {
		return nil, err
	}
	if err := e.requireAuditor(); err != nil {
		return nil, err
	}
	opID := uuid.New()
	newBalance := new(big.Int).Sub(balance.Amount, amount)

	auditorPCT, err := pct.Encrypt([]*big.Int{amount}, e.auditor, e.rng)
	if err != nil {
		return nil, fmt.Errorf("auditor pct: %w", err)
	}
	balancePCT, err := e.balancePCT(newBalance)
	if err != nil {
		return nil, err
	}
	auditorCipher, err := circuits.CipherWitness(auditorPCT)
	if err != nil {
		return nil, err
	}
	balC1, balC2 := circuits.EGCTWitness(balance.Ciphertext)
	log.Debugf("op=%s withdraw amount=%s", opID, amount)
	return &WithdrawResult{
		Witness: &circuits.WithdrawInputs{
			ValueToWithdraw:   types.NewBigInt(amount),
			SenderPrivateKey:  circuits.ScalarWitness(e.keys.SecretKey()),
			SenderPublicKey:   circuits.PointWitness(e.keys.PublicKey()),
			SenderBalance:     types.NewBigInt(balance.Amount),
			SenderBalanceC1:   balC1,
			SenderBalanceC2:   balC2,
			AuditorPublicKey:  circuits.PointWitness(e.auditor),
			AuditorPCT:        auditorCipher,
			AuditorPCTAuthKey: circuits.PointWitness(auditorPCT.AuthKey),
			AuditorPCTNonce:   types.NewBigInt(auditorPCT.Nonce),
			AuditorPCTRandom:  circuits.ScalarWitness(auditorPCT.Random),
		},
		BalancePCT: balancePCT,
	}, nil
}

// PrivateBurn builds the witness burning amount of the holder's balance.
// Only standalone deployments burn. A self-addressed EGCT of the burned
// amount serves as the on-chain transfer to the burn user.
func (e *Engine) PrivateBurn(amount *big.Int, balance *DecryptedBalance) (*BurnResult, error) {
	if e.mode != Standalone {
		return nil, fmt.Errorf("%w: burn requires a standalone deployment", ErrNotPermittedInMode)
	}
	if err := e.requireKey(); err != nil {
		return nil, err
	}
	if err := checkSpend(amount, balance); err != nil {
		return nil, err
	}
	if err := e.requireAuditor(); err != nil {
		return nil, err
	}
	opID := uuid.New()
	newBalance := new(big.Int).Sub(balance.Amount, amount)

	selfEGCT, vttRandom, err := elgamal.Encrypt(e.keys.PublicKey(), amount, e.rng)
	if err != nil {
		return nil, fmt.Errorf("self egct: %w", err)
	}
	auditorPCT, err := pct.Encrypt([]*big.Int{amount}, e.auditor, e.rng)
	if err != nil {
		return nil, fmt.Errorf("auditor pct: %w", err)
	}
	balancePCT, err := e.balancePCT(newBalance)
	if err != nil {
		return nil, err
	}
	auditorCipher, err := circuits.CipherWitness(auditorPCT)
	if err != nil {
		return nil, err
	}
	balC1, balC2 := circuits.EGCTWitness(balance.Ciphertext)
	vttC1, vttC2 := circuits.EGCTWitness(selfEGCT)
	log.Debugf("op=%s burn amount=%s", opID, amount)
	return &BurnResult{
		Witness: &circuits.BurnInputs{
			ValueToBurn:       types.NewBigInt(amount),
			SenderPrivateKey:  circuits.ScalarWitness(e.keys.SecretKey()),
			SenderPublicKey:   circuits.PointWitness(e.keys.PublicKey()),
			SenderBalance:     types.NewBigInt(balance.Amount),
			SenderBalanceC1:   balC1,
			SenderBalanceC2:   balC2,
			SenderVTTC1:       vttC1,
			SenderVTTC2:       vttC2,
			SenderVTTRandom:   circuits.ScalarWitness(vttRandom),
			AuditorPublicKey:  circuits.PointWitness(e.auditor),
			AuditorPCT:        auditorCipher,
			AuditorPCTAuthKey: circuits.PointWitness(auditorPCT.AuthKey),
			AuditorPCTNonce:   types.NewBigInt(auditorPCT.Nonce),
			AuditorPCTRandom:  circuits.ScalarWitness(auditorPCT.Random),
		},
		BalancePCT: balancePCT,
	}, nil
}

// Deposit builds the proof-less deposit payload of converter deployments:
// the ERC-20 amount rescaled to the protocol decimal width and a fresh
// amount PCT of it under the holder's own key.
func (e *Engine) Deposit(amount *big.Int, erc20Decimals uint8) (*DepositResult, error) {
	if e.mode != Converter {
		return nil, fmt.Errorf("%w: deposit requires a converter deployment", ErrNotPermittedInMode)
	}
	if err := e.requireKey(); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	converted, truncated := ConvertTokenDecimals(amount, erc20Decimals, params.InternalDecimals)
	if converted.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount vanishes at protocol decimals", ErrInvalidAmount)
	}
	depositPCT, err := pct.Encrypt([]*big.Int{converted}, e.keys.PublicKey(), e.rng)
	if err != nil {
		return nil, fmt.Errorf("deposit pct: %w", err)
	}
	wire, err := depositPCT.Wire()
	if err != nil {
		return nil, err
	}
	return &DepositResult{Amount: converted, AmountPCT: wire, Truncated: truncated}, nil
}

// GenerateProof hands a serialized witness to the proof oracle and maps
// failures into the engine error taxonomy.
func (e *Engine) GenerateProof(ctx context.Context, oracle ProofOracle, artifacts *circuits.CircuitArtifacts, w Witness) (*types.Proof, error) {
	inputs, err := w.Serialize()
	if err != nil {
		return nil, err
	}
	proof, err := oracle.Prove(ctx, artifacts, inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProver, err)
	}
	return proof, nil
}

// Close zeroizes the session key material. The engine is unusable for
// secret-key operations afterwards.
func (e *Engine) Close() {
	if e.keys != nil {
		e.keys.Zeroize()
		e.keys = nil
	}
}

// balancePCT encrypts the sender's post-operation balance under its own
// key and returns the wire form stored as the contract's balancePCT.
func (e *Engine) balancePCT(newBalance *big.Int) (types.PCTWire, error) {
	ct, err := pct.Encrypt([]*big.Int{newBalance}, e.keys.PublicKey(), e.rng)
	if err != nil {
		return types.PCTWire{}, fmt.Errorf("balance pct: %w", err)
	}
	return ct.Wire()
}

func (e *Engine) requireKey() error {
	if e.keys == nil || e.keys.SecretKey() == nil {
		return ErrMissingKey
	}
	return nil
}

func (e *Engine) requireAuditor() error {
	if e.auditor == nil || e.auditor.IsZero() {
		return ErrAuditorNotSet
	}
	return nil
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 || amount.Cmp(params.MaxAmount) >= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func checkSpend(amount *big.Int, balance *DecryptedBalance) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if balance == nil || balance.Amount == nil || balance.Ciphertext == nil {
		return fmt.Errorf("%w: missing balance", ErrInvalidAmount)
	}
	if amount.Cmp(balance.Amount) > 0 {
		return fmt.Errorf("%w: amount %s exceeds balance %s", ErrInvalidAmount, amount, balance.Amount)
	}
	return nil
}

func checkParty(pk ecc.Point) error {
	if pk == nil || pk.IsZero() {
		return ErrUnregisteredParty
	}
	if !pk.IsOnCurve() || !pk.InSubgroup() {
		return fmt.Errorf("%w: counterparty key off curve", ecc.ErrInvalidPoint)
	}
	return nil
}
