package ethereum

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	gecdsa "github.com/consensys/gnark-crypto/ecc/secp256k1/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/eerc-protocol/eerc-go/types"
)

// Signer represents an ECDSA private key for signing Ethereum messages. It
// is a wrapper around the go-ethereum ecdsa.PrivateKey type. The signature
// is performed by hashing (keccak256) the message with the Ethereum Signed
// Message prefix and then signing the hash with the private key.
type Signer ecdsa.PrivateKey

// Address returns the Ethereum address derived from the public key of the
// signer.
func (s *Signer) Address() common.Address {
	return ethcrypto.PubkeyToAddress(s.PublicKey)
}

// HexPrivateKey returns the hex-encoded representation of the ECDSA
// private key.
func (s *Signer) HexPrivateKey() types.HexBytes {
	return types.HexBytes(ethcrypto.FromECDSA((*ecdsa.PrivateKey)(s)))
}

// Sign signs a message using the ECDSA private key and returns the
// signature. The message is hashed with the Ethereum prefix before
// signing.
func (s *Signer) Sign(msg []byte) (*ECDSASignature, error) {
	return Sign(msg, (*ecdsa.PrivateKey)(s))
}

// NewSigner creates a new ECDSA private key for signing.
func NewSigner() (*Signer, error) {
	s, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("could not generate key: %w", err)
	}
	return (*Signer)(s), nil
}

// NewSignerFromHex creates a new ECDSA private key from a hex-encoded
// string.
func NewSignerFromHex(hexKey string) (*Signer, error) {
	s, err := ethcrypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("could not generate key: %w", err)
	}
	return (*Signer)(s), nil
}

// NewSignerFromSeed creates a new ECDSA private key from a seed of any
// length, hashing the seed to obtain scalar-sized key material.
func NewSignerFromSeed(seed []byte) (*Signer, error) {
	h := ethcrypto.Keccak256(seed)
	s, err := ethcrypto.ToECDSA(h)
	if err != nil {
		return nil, fmt.Errorf("could not generate key: %w", err)
	}
	return (*Signer)(s), nil
}

// Sign signs an Ethereum message (adding the corresponding prefix) using
// the given private key.
func Sign(msg []byte, privKey *ecdsa.PrivateKey) (*ECDSASignature, error) {
	ethSignature, err := ethcrypto.Sign(HashMessage(msg), privKey)
	if err != nil {
		return nil, fmt.Errorf("could not sign message: %w", err)
	}
	var sig gecdsa.Signature
	if _, err := sig.SetBytes(ethSignature[:64]); err != nil {
		return nil, fmt.Errorf("could not set bytes: %w", err)
	}
	return &ECDSASignature{
		R:        new(big.Int).SetBytes(sig.R[:]),
		S:        new(big.Int).SetBytes(sig.S[:]),
		recovery: ethSignature[64],
	}, nil
}
