// Package ethereum provides cryptographic operations for Ethereum ECDSA
// signatures: parsing, signing with the Ethereum message prefix and
// address recovery. The key derivation of the SDK consumes these
// signatures as its entropy source.
package ethereum

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/eerc-protocol/eerc-go/types"
)

const (
	// SignatureLength is the size of an ECDSA signature in bytes
	SignatureLength = ethcrypto.SignatureLength
	// SigningPrefix is the prefix added when hashing Ethereum messages
	SigningPrefix = "\u0019Ethereum Signed Message:\n"
)

// ECDSASignature represents an Ethereum ECDSA signature with R and S
// components stored as big.Int values within the secp256k1 curve field.
type ECDSASignature struct {
	R        *big.Int `json:"r"`
	S        *big.Int `json:"s"`
	recovery byte     `json:"-"`
}

// BytesToSignature creates a new ECDSASignature from a raw signature byte
// payload.
func BytesToSignature(signature []byte) (*ECDSASignature, error) {
	if len(signature) < SignatureLength-1 {
		return nil, fmt.Errorf("signature length is less than %d", SignatureLength-1)
	}
	sig := new(ECDSASignature).SetBytes(signature)
	if sig == nil {
		return nil, fmt.Errorf("wrong signature bytes")
	}
	return sig, nil
}

// HexToSignature decodes the provided hex string and parses it as an
// ECDSASignature.
func HexToSignature(hexSignature string) (*ECDSASignature, error) {
	bSignature, err := types.HexStringToHexBytes(hexSignature)
	if err != nil {
		return nil, err
	}
	return BytesToSignature(bSignature)
}

// Valid checks if the signature is valid: both R and S must be present.
func (sig *ECDSASignature) Valid() bool {
	return sig.R != nil && sig.S != nil
}

// Bytes returns the 65-byte binary representation of the signature,
// R ‖ S ‖ recovery, with the recovery byte in the 0-3 range expected by
// ethcrypto.SigToPub.
func (sig *ECDSASignature) Bytes() []byte {
	r := make([]byte, 32)
	s := make([]byte, 32)
	rBytes := sig.R.Bytes()
	sBytes := sig.S.Bytes()
	copy(r[32-len(rBytes):], rBytes)
	copy(s[32-len(sBytes):], sBytes)

	v := sig.recovery
	if v >= 27 {
		v -= 27
	}
	return append(r, append(s, v)...)
}

// SetBytes sets the signature from a byte slice of at least 64 bytes,
// where the first 64 bytes are the R and S values. A 65th byte is taken as
// the recovery id, accepting both the 0-3 and the Ethereum 27+ convention.
func (sig *ECDSASignature) SetBytes(signature []byte) *ECDSASignature {
	if len(signature) < SignatureLength-1 {
		return nil
	}
	sig.R = new(big.Int).SetBytes(signature[:32])
	sig.S = new(big.Int).SetBytes(signature[32:64])

	if len(signature) >= SignatureLength {
		v := signature[64]
		if v >= 27 {
			v -= 27
		}
		if v > 3 {
			return nil
		}
		sig.recovery = v
	} else {
		sig.recovery = 0
	}
	return sig
}

// Verify checks that sig is a valid signature of signedInput produced by
// expectedAddress, by recovering the public key and comparing its derived
// address. It returns the recovered public key.
func (sig *ECDSASignature) Verify(signedInput []byte, expectedAddress common.Address) (bool, []byte) {
	if !sig.Valid() {
		return false, nil
	}
	pubKey, err := ethcrypto.SigToPub(HashMessage(signedInput), sig.Bytes())
	if err != nil {
		return false, nil
	}
	return bytes.Equal(ethcrypto.PubkeyToAddress(*pubKey).Bytes(), expectedAddress.Bytes()),
		ethcrypto.FromECDSAPub(pubKey)
}

// String returns a string representation of the signature.
func (sig *ECDSASignature) String() string {
	return fmt.Sprintf("R: %s, S: %s, Recovery: %d", sig.R.String(), sig.S.String(), sig.recovery)
}

// AddrFromSignature recovers the Ethereum address that created the
// signature of a message.
func AddrFromSignature(message []byte, signature *ECDSASignature) (common.Address, error) {
	if signature == nil || !signature.Valid() {
		return common.Address{}, fmt.Errorf("signature is nil")
	}
	pubKey, err := ethcrypto.SigToPub(HashMessage(message), signature.Bytes())
	if err != nil {
		return common.Address{}, fmt.Errorf("sigToPub %w", err)
	}
	return ethcrypto.PubkeyToAddress(*pubKey), nil
}

// HashMessage hashes a message with the Ethereum signed-message prefix.
func HashMessage(message []byte) []byte {
	prefixed := fmt.Sprintf("%s%d%s", SigningPrefix, len(message), message)
	return ethcrypto.Keccak256([]byte(prefixed))
}
