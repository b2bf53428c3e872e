package circuits

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/eerc-protocol/eerc-go/crypto/ecc"
	"github.com/eerc-protocol/eerc-go/crypto/elgamal"
	"github.com/eerc-protocol/eerc-go/crypto/pct"
	"github.com/eerc-protocol/eerc-go/types"
	"github.com/eerc-protocol/eerc-go/types/params"
)

// RegisterInputs is the witness of the registration circuit.
type RegisterInputs struct {
	SenderPrivateKey *types.BigInt    `json:"SenderPrivateKey"`
	SenderPublicKey  [2]*types.BigInt `json:"SenderPublicKey"`
	SenderAddress    *types.BigInt    `json:"SenderAddress"`
	ChainID          *types.BigInt    `json:"ChainID"`
	RegistrationHash *types.BigInt    `json:"RegistrationHash"`
}

// MintInputs is the witness of the private mint circuit.
type MintInputs struct {
	ValueToMint        *types.BigInt    `json:"ValueToMint"`
	ChainID            *types.BigInt    `json:"ChainID"`
	NullifierHash      *types.BigInt    `json:"NullifierHash"`
	ReceiverPublicKey  [2]*types.BigInt `json:"ReceiverPublicKey"`
	ReceiverVTTC1      [2]*types.BigInt `json:"ReceiverVTTC1"`
	ReceiverVTTC2      [2]*types.BigInt `json:"ReceiverVTTC2"`
	ReceiverVTTRandom  *types.BigInt    `json:"ReceiverVTTRandom"`
	ReceiverPCT        []*types.BigInt  `json:"ReceiverPCT"`
	ReceiverPCTAuthKey [2]*types.BigInt `json:"ReceiverPCTAuthKey"`
	ReceiverPCTNonce   *types.BigInt    `json:"ReceiverPCTNonce"`
	ReceiverPCTRandom  *types.BigInt    `json:"ReceiverPCTRandom"`
	AuditorPublicKey   [2]*types.BigInt `json:"AuditorPublicKey"`
	AuditorPCT         []*types.BigInt  `json:"AuditorPCT"`
	AuditorPCTAuthKey  [2]*types.BigInt `json:"AuditorPCTAuthKey"`
	AuditorPCTNonce    *types.BigInt    `json:"AuditorPCTNonce"`
	AuditorPCTRandom   *types.BigInt    `json:"AuditorPCTRandom"`
}

// TransferInputs is the witness of the transfer circuit: the mint shape
// extended with the sender's spending inputs.
type TransferInputs struct {
	ValueToTransfer    *types.BigInt    `json:"ValueToTransfer"`
	SenderPrivateKey   *types.BigInt    `json:"SenderPrivateKey"`
	SenderPublicKey    [2]*types.BigInt `json:"SenderPublicKey"`
	SenderBalance      *types.BigInt    `json:"SenderBalance"`
	SenderBalanceC1    [2]*types.BigInt `json:"SenderBalanceC1"`
	SenderBalanceC2    [2]*types.BigInt `json:"SenderBalanceC2"`
	SenderVTTC1        [2]*types.BigInt `json:"SenderVTTC1"`
	SenderVTTC2        [2]*types.BigInt `json:"SenderVTTC2"`
	ReceiverPublicKey  [2]*types.BigInt `json:"ReceiverPublicKey"`
	ReceiverVTTC1      [2]*types.BigInt `json:"ReceiverVTTC1"`
	ReceiverVTTC2      [2]*types.BigInt `json:"ReceiverVTTC2"`
	ReceiverVTTRandom  *types.BigInt    `json:"ReceiverVTTRandom"`
	ReceiverPCT        []*types.BigInt  `json:"ReceiverPCT"`
	ReceiverPCTAuthKey [2]*types.BigInt `json:"ReceiverPCTAuthKey"`
	ReceiverPCTNonce   *types.BigInt    `json:"ReceiverPCTNonce"`
	ReceiverPCTRandom  *types.BigInt    `json:"ReceiverPCTRandom"`
	AuditorPublicKey   [2]*types.BigInt `json:"AuditorPublicKey"`
	AuditorPCT         []*types.BigInt  `json:"AuditorPCT"`
	AuditorPCTAuthKey  [2]*types.BigInt `json:"AuditorPCTAuthKey"`
	AuditorPCTNonce    *types.BigInt    `json:"AuditorPCTNonce"`
	AuditorPCTRandom   *types.BigInt    `json:"AuditorPCTRandom"`
}

// WithdrawInputs is the witness of the withdraw circuit.
type WithdrawInputs struct {
	ValueToWithdraw   *types.BigInt    `json:"ValueToWithdraw"`
	SenderPrivateKey  *types.BigInt    `json:"SenderPrivateKey"`
	SenderPublicKey   [2]*types.BigInt `json:"SenderPublicKey"`
	SenderBalance     *types.BigInt    `json:"SenderBalance"`
	SenderBalanceC1   [2]*types.BigInt `json:"SenderBalanceC1"`
	SenderBalanceC2   [2]*types.BigInt `json:"SenderBalanceC2"`
	AuditorPublicKey  [2]*types.BigInt `json:"AuditorPublicKey"`
	AuditorPCT        []*types.BigInt  `json:"AuditorPCT"`
	AuditorPCTAuthKey [2]*types.BigInt `json:"AuditorPCTAuthKey"`
	AuditorPCTNonce   *types.BigInt    `json:"AuditorPCTNonce"`
	AuditorPCTRandom  *types.BigInt    `json:"AuditorPCTRandom"`
}

// BurnInputs is the witness of the private burn circuit: the withdraw
// shape plus a self-addressed EGCT of the burned amount, which the
// contract records as the transfer to the burn user.
type BurnInputs struct {
	ValueToBurn       *types.BigInt    `json:"ValueToBurn"`
	SenderPrivateKey  *types.BigInt    `json:"SenderPrivateKey"`
	SenderPublicKey   [2]*types.BigInt `json:"SenderPublicKey"`
	SenderBalance     *types.BigInt    `json:"SenderBalance"`
	SenderBalanceC1   [2]*types.BigInt `json:"SenderBalanceC1"`
	SenderBalanceC2   [2]*types.BigInt `json:"SenderBalanceC2"`
	SenderVTTC1       [2]*types.BigInt `json:"SenderVTTC1"`
	SenderVTTC2       [2]*types.BigInt `json:"SenderVTTC2"`
	SenderVTTRandom   *types.BigInt    `json:"SenderVTTRandom"`
	AuditorPublicKey  [2]*types.BigInt `json:"AuditorPublicKey"`
	AuditorPCT        []*types.BigInt  `json:"AuditorPCT"`
	AuditorPCTAuthKey [2]*types.BigInt `json:"AuditorPCTAuthKey"`
	AuditorPCTNonce   *types.BigInt    `json:"AuditorPCTNonce"`
	AuditorPCTRandom  *types.BigInt    `json:"AuditorPCTRandom"`
}

// Serialize renders the witness as the circom input JSON consumed by the
// witness calculator.
func (in *RegisterInputs) Serialize() ([]byte, error) { return serialize(in) }

// Serialize renders the witness as the circom input JSON consumed by the
// witness calculator.
func (in *MintInputs) Serialize() ([]byte, error) { return serialize(in) }

// Serialize renders the witness as the circom input JSON consumed by the
// witness calculator.
func (in *TransferInputs) Serialize() ([]byte, error) { return serialize(in) }

// Serialize renders the witness as the circom input JSON consumed by the
// witness calculator.
func (in *WithdrawInputs) Serialize() ([]byte, error) { return serialize(in) }

// Serialize renders the witness as the circom input JSON consumed by the
// witness calculator.
func (in *BurnInputs) Serialize() ([]byte, error) { return serialize(in) }

func serialize(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serialize witness: %w", err)
	}
	return data, nil
}

// PointWitness converts a curve point into its two-coordinate witness form.
func PointWitness(p ecc.Point) [2]*types.BigInt {
	x, y := p.Point()
	return [2]*types.BigInt{types.NewBigInt(x), types.NewBigInt(y)}
}

// CipherWitness converts a single-block PCT cipher into witness form.
func CipherWitness(ct *pct.Ciphertext) ([]*types.BigInt, error) {
	if len(ct.Cipher) != params.CipherBlockSize {
		return nil, fmt.Errorf("witness cipher requires exactly %d elements, got %d",
			params.CipherBlockSize, len(ct.Cipher))
	}
	out := make([]*types.BigInt, len(ct.Cipher))
	for i, c := range ct.Cipher {
		out[i] = types.NewBigInt(c)
	}
	return out, nil
}

// EGCTWitness converts an ElGamal ciphertext into its two witness point
// pairs.
func EGCTWitness(ct *elgamal.Ciphertext) (c1, c2 [2]*types.BigInt) {
	return PointWitness(ct.C1), PointWitness(ct.C2)
}

// ScalarWitness wraps a raw scalar for the witness.
func ScalarWitness(v *big.Int) *types.BigInt {
	return types.NewBigInt(v)
}
