package web3

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/eerc-protocol/eerc-go/types"
	"github.com/eerc-protocol/eerc-go/types/params"
)

// proofPoints mirrors the contract ProofPoints tuple.
type proofPoints struct {
	A [2]*big.Int
	B [2][2]*big.Int
	C [2]*big.Int
}

func toProofPoints(p types.ProofPoints) proofPoints {
	var out proofPoints
	for i := range 2 {
		out.A[i] = p.A[i].MathBigInt()
		out.C[i] = p.C[i].MathBigInt()
		for j := range 2 {
			out.B[i][j] = p.B[i][j].MathBigInt()
		}
	}
	return out
}

func signalsArray(proof *types.Proof, want int) ([]*big.Int, error) {
	if len(proof.PublicSignals) != want {
		return nil, fmt.Errorf("proof carries %d public signals, ABI expects %d", len(proof.PublicSignals), want)
	}
	out := make([]*big.Int, want)
	for i, s := range proof.PublicSignals {
		out[i] = s.MathBigInt()
	}
	return out, nil
}

func pctArray(w types.PCTWire) ([7]*big.Int, error) {
	var out [7]*big.Int
	for i, e := range w {
		if e == nil {
			return out, fmt.Errorf("nil element %d in pct", i)
		}
		out[i] = e.MathBigInt()
	}
	return out, nil
}

// PackRegister packs the calldata of register(proof).
func PackRegister(proof *types.Proof) ([]byte, error) {
	signals, err := signalsArray(proof, params.RegisterPublicSignals)
	if err != nil {
		return nil, err
	}
	arg := struct {
		ProofPoints   proofPoints
		PublicSignals [5]*big.Int
	}{toProofPoints(proof.Points), [5]*big.Int(signals)}
	return encryptedERCABI.Pack("register", arg)
}

// PackPrivateMint packs the calldata of privateMint(user, proof, message).
// Pass nil message when the mint carries none.
func PackPrivateMint(user common.Address, proof *types.Proof, message []byte) ([]byte, error) {
	signals, err := signalsArray(proof, params.MintPublicSignals)
	if err != nil {
		return nil, err
	}
	arg := struct {
		ProofPoints   proofPoints
		PublicSignals [24]*big.Int
	}{toProofPoints(proof.Points), [24]*big.Int(signals)}
	return encryptedERCABI.Pack("privateMint", user, arg, normMessage(message))
}

// PackTransfer packs the calldata of
// transfer(to, tokenId, proof, balancePCT, message).
func PackTransfer(to common.Address, tokenID *big.Int, proof *types.Proof, balancePCT types.PCTWire, message []byte) ([]byte, error) {
	signals, err := signalsArray(proof, params.TransferPublicSignals)
	if err != nil {
		return nil, err
	}
	pctArg, err := pctArray(balancePCT)
	if err != nil {
		return nil, fmt.Errorf("balance pct: %w", err)
	}
	arg := struct {
		ProofPoints   proofPoints
		PublicSignals [32]*big.Int
	}{toProofPoints(proof.Points), [32]*big.Int(signals)}
	return encryptedERCABI.Pack("transfer", to, tokenID, arg, pctArg, normMessage(message))
}

// PackWithdraw packs the calldata of
// withdraw(tokenId, proof, balancePCT, message).
func PackWithdraw(tokenID *big.Int, proof *types.Proof, balancePCT types.PCTWire, message []byte) ([]byte, error) {
	signals, err := signalsArray(proof, params.WithdrawPublicSignals)
	if err != nil {
		return nil, err
	}
	pctArg, err := pctArray(balancePCT)
	if err != nil {
		return nil, fmt.Errorf("balance pct: %w", err)
	}
	arg := struct {
		ProofPoints   proofPoints
		PublicSignals [16]*big.Int
	}{toProofPoints(proof.Points), [16]*big.Int(signals)}
	return encryptedERCABI.Pack("withdraw", tokenID, arg, pctArg, normMessage(message))
}

// PackPrivateBurn packs the calldata of privateBurn(proof, balancePCT,
// message). The balance PCT is mandatory; burn variants omitting it are
// refused by the protocol.
func PackPrivateBurn(proof *types.Proof, balancePCT types.PCTWire, message []byte) ([]byte, error) {
	signals, err := signalsArray(proof, params.BurnPublicSignals)
	if err != nil {
		return nil, err
	}
	pctArg, err := pctArray(balancePCT)
	if err != nil {
		return nil, fmt.Errorf("balance pct: %w", err)
	}
	arg := struct {
		ProofPoints   proofPoints
		PublicSignals [19]*big.Int
	}{toProofPoints(proof.Points), [19]*big.Int(signals)}
	return encryptedERCABI.Pack("privateBurn", arg, pctArg, normMessage(message))
}

// PackDeposit packs the calldata of
// deposit(amount, tokenAddress, amountPCT, message).
func PackDeposit(amount *big.Int, tokenAddress common.Address, amountPCT types.PCTWire, message []byte) ([]byte, error) {
	pctArg, err := pctArray(amountPCT)
	if err != nil {
		return nil, fmt.Errorf("amount pct: %w", err)
	}
	return encryptedERCABI.Pack("deposit", amount, tokenAddress, pctArg, normMessage(message))
}

// PackSetAuditorPublicKey packs the calldata of setAuditorPublicKey(user).
func PackSetAuditorPublicKey(user common.Address) ([]byte, error) {
	return encryptedERCABI.Pack("setAuditorPublicKey", user)
}

func normMessage(message []byte) []byte {
	if message == nil {
		return []byte{}
	}
	return message
}
