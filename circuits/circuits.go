// Package circuits defines the witness input structures of the five eERC
// proof circuits and manages their wasm/zkey artifacts. The JSON keys of
// the witness structs are fixed by the circuits and must not be renamed.
package circuits

import (
	"fmt"

	"github.com/eerc-protocol/eerc-go/types/params"
)

// Type identifies one of the protocol circuits.
type Type string

const (
	RegisterCircuit Type = "register"
	MintCircuit     Type = "mint"
	TransferCircuit Type = "transfer"
	WithdrawCircuit Type = "withdraw"
	BurnCircuit     Type = "burn"
)

// PublicSignals returns the public-signal count of the circuit, fixed by
// the contract ABI.
func (t Type) PublicSignals() (int, error) {
	switch t {
	case RegisterCircuit:
		return params.RegisterPublicSignals, nil
	case MintCircuit:
		return params.MintPublicSignals, nil
	case TransferCircuit:
		return params.TransferPublicSignals, nil
	case WithdrawCircuit:
		return params.WithdrawPublicSignals, nil
	case BurnCircuit:
		return params.BurnPublicSignals, nil
	default:
		return 0, fmt.Errorf("unknown circuit type %q", t)
	}
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// AllTypes lists every protocol circuit, in registration order.
func AllTypes() []Type {
	return []Type{RegisterCircuit, MintCircuit, TransferCircuit, WithdrawCircuit, BurnCircuit}
}
