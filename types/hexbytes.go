package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HexBytes is a []byte which encodes as hexadecimal in json, as opposed to
// the base64 default.
type HexBytes []byte

// Bytes returns the underlying byte slice of the HexBytes.
func (b *HexBytes) Bytes() []byte {
	return *b
}

// Hex returns the hexadecimal string representation of the HexBytes.
func (b *HexBytes) Hex() string {
	return hex.EncodeToString(*b)
}

// String returns the hexadecimal string representation of the HexBytes,
// prefixed with "0x".
func (b *HexBytes) String() string {
	return "0x" + b.Hex()
}

// BigInt converts the HexBytes to a BigInt, interpreting the bytes as a
// big-endian unsigned integer.
func (b *HexBytes) BigInt() *BigInt {
	return new(BigInt).SetBytes(*b)
}

// LeftPad returns a new HexBytes padded with leading zeros to length n.
// If the length of b is already n or greater, it returns a copy of b.
func (b HexBytes) LeftPad(n int) HexBytes {
	if len(b) >= n {
		out := make(HexBytes, len(b))
		copy(out, b)
		return out
	}
	out := make(HexBytes, n)
	copy(out[n-len(b):], b)
	return out
}

// Equal compares the current HexBytes with the provided one byte per byte.
func (b HexBytes) Equal(other HexBytes) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if b[i] != other[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the bytes as a 0x-prefixed hex JSON string.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	enc := make([]byte, hex.EncodedLen(len(b))+4)
	enc[0] = '"'
	enc[1], enc[2] = '0', 'x'
	hex.Encode(enc[3:], b)
	enc[len(enc)-1] = '"'
	return enc, nil
}

// UnmarshalJSON decodes a hex JSON string, with or without 0x prefix.
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid JSON string: %q", data)
	}
	data = data[1 : len(data)-1]
	if len(data) >= 2 && data[0] == '0' && (data[1] == 'x' || data[1] == 'X') {
		data = data[2:]
	}
	dec := make([]byte, hex.DecodedLen(len(data)))
	if _, err := hex.Decode(dec, data); err != nil {
		return err
	}
	*b = dec
	return nil
}

// HexStringToHexBytes converts a hex string to a HexBytes. It strips a
// leading '0x' or '0X' if present.
func HexStringToHexBytes(hexString string) (HexBytes, error) {
	hexString = strings.TrimPrefix(hexString, "0x")
	hexString = strings.TrimPrefix(hexString, "0X")
	b, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return HexBytes(b), nil
}
