package engine

import (
	"fmt"
	"math/big"

	bjj "github.com/eerc-protocol/eerc-go/crypto/ecc/bjj"
	"github.com/eerc-protocol/eerc-go/crypto/elgamal"
	"github.com/eerc-protocol/eerc-go/crypto/pct"
	"github.com/eerc-protocol/eerc-go/types"
	"github.com/eerc-protocol/eerc-go/types/params"
)

// CalculateTotalBalance folds the contract's balance encoding into the
// plaintext total: the rolling balance PCT plus every queued amount PCT.
// When the total is non-zero it is cross-checked against the ElGamal
// ciphertext, which commits to the same balance homomorphically; a
// mismatch (for example a missed amount PCT) fails with
// ErrInconsistentBalance rather than returning a silent value.
func (e *Engine) CalculateTotalBalance(enc *types.BalanceEncoding) (*big.Int, error) {
	if err := e.requireKey(); err != nil {
		return nil, err
	}
	sk := e.keys.SecretKey()
	total := big.NewInt(0)

	if !pct.IsZero(enc.BalancePCT) {
		amount, err := decryptAmountPCT(enc.BalancePCT, sk)
		if err != nil {
			return nil, fmt.Errorf("balance pct: %w", err)
		}
		total.Add(total, amount)
	}
	for i, queued := range enc.AmountPCTs {
		amount, err := decryptAmountPCT(queued.PCT, sk)
		if err != nil {
			return nil, fmt.Errorf("amount pct %d: %w", i, err)
		}
		total.Add(total, amount)
	}
	total.Mod(total, params.ScalarField)

	if total.Sign() != 0 {
		egct, err := elgamal.FromWire(bjj.New(), enc.EGCT)
		if err != nil {
			return nil, err
		}
		got, err := elgamal.Decrypt(sk, egct)
		if err != nil {
			return nil, err
		}
		expected := bjj.New()
		expected.ScalarBaseMult(total)
		if !got.Equal(expected) {
			return nil, ErrInconsistentBalance
		}
	}
	return total, nil
}

// DecryptBalance reconstructs the plaintext total and pairs it with the
// contract's current ElGamal ciphertext, producing the spending input of
// transfer, withdraw and burn.
func (e *Engine) DecryptBalance(enc *types.BalanceEncoding) (*DecryptedBalance, error) {
	total, err := e.CalculateTotalBalance(enc)
	if err != nil {
		return nil, err
	}
	egct, err := elgamal.FromWire(bjj.New(), enc.EGCT)
	if err != nil {
		return nil, err
	}
	return &DecryptedBalance{Ciphertext: egct, Amount: total}, nil
}

func decryptAmountPCT(w types.PCTWire, sk *big.Int) (*big.Int, error) {
	ct, err := pct.FromWire(bjj.New(), w)
	if err != nil {
		return nil, err
	}
	message, err := pct.Decrypt(ct, sk, 1)
	if err != nil {
		return nil, err
	}
	return message[0], nil
}
