// Package crypto provides cryptographic helper functions shared by the
// eERC SDK packages: finite-field reduction and fixed-width big-endian
// serialization of field elements.
package crypto

import "math/big"

// WordLen is the standard size in bytes for serialized field elements.
const WordLen = 32 // bytes

// BigToFF returns the finite field representation of the big.Int provided,
// reducing it into [0, field) when necessary.
func BigToFF(field, iv *big.Int) *big.Int {
	z := big.NewInt(0)
	if c := iv.Cmp(field); c == 0 {
		return z
	} else if c != 1 && iv.Cmp(z) != -1 {
		return new(big.Int).Set(iv)
	}
	return z.Mod(iv, field)
}

// BigIntToWord converts a big.Int to a 32-byte big-endian word. If the byte
// representation is shorter it prepends zeros; if it is longer it truncates
// to the last 32 bytes.
func BigIntToWord(input *big.Int) []byte {
	return PadWord(input.Bytes())
}

// PadWord pads the input byte slice to WordLen bytes, prepending zeros when
// shorter and keeping the trailing WordLen bytes when longer.
func PadWord(input []byte) []byte {
	if len(input) < WordLen {
		out := make([]byte, WordLen)
		copy(out[WordLen-len(input):], input)
		return out
	}
	if len(input) > WordLen {
		return input[len(input)-WordLen:]
	}
	return input
}
