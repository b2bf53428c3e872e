package types

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// BigInt is a big.Int wrapper which marshals JSON to a decimal string
// representation of the big number. Circom witness files expect decimal
// strings, so every witness field is either a BigInt or built from them.
// Note that a nil pointer value marshals as "0".
type BigInt big.Int

// NewInt creates a new BigInt from the given integer value.
func NewInt(x int64) *BigInt {
	return (*BigInt)(big.NewInt(x))
}

// NewBigInt creates a new BigInt set to the value of x.
func NewBigInt(x *big.Int) *BigInt {
	return new(BigInt).SetBigInt(x)
}

// MarshalText returns the decimal string representation of the big number.
// If the receiver is nil, it returns "0".
func (i *BigInt) MarshalText() ([]byte, error) {
	if i == nil {
		return []byte("0"), nil
	}
	return (*big.Int)(i).MarshalText()
}

// UnmarshalText parses the text representation into the big number.
func (i *BigInt) UnmarshalText(data []byte) error {
	if i == nil {
		return fmt.Errorf("cannot unmarshal into nil BigInt")
	}
	return (*big.Int)(i).UnmarshalText(data)
}

// UnmarshalJSON implements the json.Unmarshaler interface. It supports both
// string and numeric JSON representations.
func (i *BigInt) UnmarshalJSON(data []byte) error {
	if i == nil {
		return fmt.Errorf("cannot unmarshal into nil BigInt")
	}
	if len(data) > 0 && data[0] == '"' {
		return i.UnmarshalText(data[1 : len(data)-1])
	}
	return i.UnmarshalText(data)
}

// MarshalCBOR explicitly encodes BigInt as a CBOR text string.
func (i *BigInt) MarshalCBOR() ([]byte, error) {
	txt, err := i.MarshalText()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(string(txt))
}

// UnmarshalCBOR decodes a CBOR text string into BigInt.
func (i *BigInt) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	return i.UnmarshalText([]byte(s))
}

// String returns the decimal string representation of the big number.
func (i *BigInt) String() string {
	return (*big.Int)(i).String()
}

// SetBytes interprets buf as a big-endian unsigned integer.
func (i *BigInt) SetBytes(buf []byte) *BigInt {
	return (*BigInt)(i.MathBigInt().SetBytes(buf))
}

// Bytes returns the big-endian bytes representation of the big number.
func (i *BigInt) Bytes() []byte {
	return (*big.Int)(i).Bytes()
}

// MathBigInt converts i to a math/big *Int.
func (i *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(i)
}

// SetUint64 sets the value of the big number to x.
func (i *BigInt) SetUint64(x uint64) *BigInt {
	return (*BigInt)(i.MathBigInt().SetUint64(x))
}

// SetBigInt sets the value of the big number to x.
func (i *BigInt) SetBigInt(x *big.Int) *BigInt {
	return (*BigInt)(i.MathBigInt().Set(x))
}

// Add sets i to x+y and returns it.
func (i *BigInt) Add(x, y *BigInt) *BigInt {
	return (*BigInt)(i.MathBigInt().Add(x.MathBigInt(), y.MathBigInt()))
}

// Sub sets i to x-y and returns it.
func (i *BigInt) Sub(x, y *BigInt) *BigInt {
	return (*BigInt)(i.MathBigInt().Sub(x.MathBigInt(), y.MathBigInt()))
}

// Equal helps us with go-cmp.
func (i *BigInt) Equal(j *BigInt) bool {
	if i == nil || j == nil {
		return (i == nil) == (j == nil)
	}
	return i.MathBigInt().Cmp(j.MathBigInt()) == 0
}

// IsInField reports whether the value is in [0, field).
func (i *BigInt) IsInField(field *big.Int) bool {
	v := i.MathBigInt()
	return v.Sign() >= 0 && v.Cmp(field) < 0
}

// ToFF returns the finite-field representation of the value, reducing it
// into [0, field).
func (i *BigInt) ToFF(field *big.Int) *BigInt {
	return (*BigInt)(new(big.Int).Mod(i.MathBigInt(), field))
}
