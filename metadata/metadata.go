// Package metadata implements the encrypted per-transaction message codec:
// UTF-8 strings are packed into 250-bit field-element chunks, encrypted
// under the recipient public key with a Poseidon ciphertext, and laid out
// as 32-byte big-endian words on the wire.
package metadata

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/eerc-protocol/eerc-go/crypto"
	"github.com/eerc-protocol/eerc-go/crypto/ecc"
	"github.com/eerc-protocol/eerc-go/crypto/pct"
	"github.com/eerc-protocol/eerc-go/types/params"
)

// chunkMask selects the low 250 bits of the packed integer.
var chunkMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), params.MetadataChunkBits), big.NewInt(1))

// Str2Int interprets the UTF-8 bytes of s as a big-endian integer and
// splits it into 250-bit chunks, least-significant chunk first. The empty
// string encodes as a single zero chunk.
func Str2Int(s string) []*big.Int {
	n := new(big.Int).SetBytes([]byte(s))
	if n.Sign() == 0 {
		return []*big.Int{big.NewInt(0)}
	}
	var chunks []*big.Int
	for n.Sign() > 0 {
		chunk := new(big.Int).And(n, chunkMask)
		chunks = append(chunks, chunk)
		n = new(big.Int).Rsh(n, params.MetadataChunkBits)
	}
	return chunks
}

// Int2Str recombines 250-bit chunks (least-significant first) into the
// packed integer and decodes it as a UTF-8 string, stripping trailing
// U+0000 padding. Callers must not rely on trailing NULs surviving the
// round trip.
func Int2Str(chunks []*big.Int) string {
	n := big.NewInt(0)
	for i := len(chunks) - 1; i >= 0; i-- {
		n.Lsh(n, params.MetadataChunkBits)
		n.Add(n, chunks[i])
	}
	return strings.TrimRight(string(n.Bytes()), "\x00")
}

// Encrypt encrypts a UTF-8 message under the recipient public key and
// returns the on-wire byte layout:
//
//	length(32) ‖ nonce(32) ‖ authKey.x(32) ‖ authKey.y(32) ‖ cipher_i(32)…
//
// all big-endian, with the cipher padded to a whole number of blocks.
// Pass nil as rng to use crypto/rand.
func Encrypt(message string, publicKey ecc.Point, rng io.Reader) ([]byte, error) {
	chunks := Str2Int(message)
	ct, err := pct.Encrypt(chunks, publicKey, rng)
	if err != nil {
		return nil, fmt.Errorf("encrypt metadata: %w", err)
	}
	ax, ay := ct.AuthKey.Point()
	out := make([]byte, 0, (4+len(ct.Cipher))*params.WordSize)
	out = append(out, crypto.BigIntToWord(big.NewInt(int64(len(chunks))))...)
	out = append(out, crypto.BigIntToWord(ct.Nonce)...)
	out = append(out, crypto.BigIntToWord(ax)...)
	out = append(out, crypto.BigIntToWord(ay)...)
	for _, c := range ct.Cipher {
		out = append(out, crypto.BigIntToWord(c)...)
	}
	return out, nil
}

// Decrypt reverses Encrypt: it slices the wire layout, rebuilds the
// Poseidon ciphertext, decrypts it with the private key and decodes the
// chunks back into the UTF-8 message. The prototype point supplies the
// curve implementation for the authentication key.
func Decrypt(wire []byte, privateKey *big.Int, prototype ecc.Point) (string, error) {
	const headerWords = 4
	if len(wire) < (headerWords+params.CipherBlockSize)*params.WordSize {
		return "", fmt.Errorf("encrypted message too short: %d bytes", len(wire))
	}
	if len(wire)%params.WordSize != 0 {
		return "", fmt.Errorf("encrypted message not word-aligned: %d bytes", len(wire))
	}
	word := func(i int) *big.Int {
		return new(big.Int).SetBytes(wire[i*params.WordSize : (i+1)*params.WordSize])
	}
	length := word(0)
	nonce := word(1)
	authKey, err := prototype.New().SetPoint(word(2), word(3))
	if err != nil {
		return "", fmt.Errorf("metadata auth key: %w", err)
	}
	cipherWords := len(wire)/params.WordSize - headerWords
	if cipherWords%params.CipherBlockSize != 0 {
		return "", fmt.Errorf("cipher length %d not a whole number of blocks", cipherWords)
	}
	if !length.IsInt64() || length.Int64() <= 0 || length.Int64() > int64(cipherWords) {
		return "", fmt.Errorf("invalid chunk count %s for %d cipher words", length, cipherWords)
	}
	cipher := make([]*big.Int, cipherWords)
	for i := range cipher {
		cipher[i] = word(headerWords + i)
	}
	chunks, err := pct.Decrypt(&pct.Ciphertext{
		Cipher:  cipher,
		AuthKey: authKey,
		Nonce:   nonce,
	}, privateKey, int(length.Int64()))
	if err != nil {
		return "", fmt.Errorf("decrypt metadata: %w", err)
	}
	return Int2Str(chunks), nil
}
