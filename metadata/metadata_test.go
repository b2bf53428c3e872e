package metadata

import (
	"math/big"
	mrand "math/rand"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	bjj "github.com/eerc-protocol/eerc-go/crypto/ecc/bjj"
	"github.com/eerc-protocol/eerc-go/types/params"
)

func TestStr2IntInt2StrRoundTrip(t *testing.T) {
	c := qt.New(t)

	for _, s := range []string{
		"",
		"a",
		"hello, auditor 🙂",
		"exactly thirty-one bytes long!!",   // one chunk
		"a string that is certainly longer than thirty-one bytes and spills", // multiple chunks
		strings.Repeat("x", 90),
		"ünïcödé ✓ ☃",
	} {
		chunks := Str2Int(s)
		c.Assert(len(chunks) >= 1, qt.IsTrue)
		c.Assert(Int2Str(chunks), qt.Equals, s, qt.Commentf("string %q", s))
	}
}

func TestStr2IntEmptyString(t *testing.T) {
	c := qt.New(t)

	chunks := Str2Int("")
	c.Assert(chunks, qt.HasLen, 1)
	c.Assert(chunks[0].Sign(), qt.Equals, 0)
	c.Assert(Int2Str(chunks), qt.Equals, "")
}

func TestStr2IntChunkBounds(t *testing.T) {
	c := qt.New(t)

	// 31 bytes fit one 250-bit chunk; 32 bytes need two
	chunks := Str2Int(strings.Repeat("z", 31))
	c.Assert(chunks, qt.HasLen, 1)
	chunks = Str2Int(strings.Repeat("z", 32))
	c.Assert(chunks, qt.HasLen, 2)

	limit := new(big.Int).Lsh(big.NewInt(1), params.MetadataChunkBits)
	for _, chunk := range chunks {
		c.Assert(chunk.Cmp(limit) < 0, qt.IsTrue)
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := qt.New(t)
	rng := mrand.New(mrand.NewSource(20))

	sk := big.NewInt(987654)
	pk := bjj.New()
	pk.ScalarBaseMult(sk)

	for _, s := range []string{
		"",
		"hello, auditor 🙂",
		strings.Repeat("long message ", 20),
	} {
		wire, err := Encrypt(s, pk, rng)
		c.Assert(err, qt.IsNil)
		c.Assert(len(wire)%params.WordSize, qt.Equals, 0)

		decrypted, err := Decrypt(wire, sk, bjj.New())
		c.Assert(err, qt.IsNil)
		c.Assert(decrypted, qt.Equals, s, qt.Commentf("string %q", s))
	}
}

func TestWireLayout(t *testing.T) {
	c := qt.New(t)
	rng := mrand.New(mrand.NewSource(21))

	pk := bjj.New()
	pk.ScalarBaseMult(big.NewInt(11))

	wire, err := Encrypt("hi", pk, rng)
	c.Assert(err, qt.IsNil)
	// header (length, nonce, authKey.x, authKey.y) plus one cipher block
	c.Assert(wire, qt.HasLen, (4+params.CipherBlockSize)*params.WordSize)
	// first word is the unpadded chunk count
	length := new(big.Int).SetBytes(wire[:params.WordSize])
	c.Assert(length.Int64(), qt.Equals, int64(1))
}

func TestDecryptRejectsMalformed(t *testing.T) {
	c := qt.New(t)

	_, err := Decrypt([]byte{1, 2, 3}, big.NewInt(1), bjj.New())
	c.Assert(err, qt.IsNotNil)

	// word-aligned but too short
	_, err = Decrypt(make([]byte, 3*params.WordSize), big.NewInt(1), bjj.New())
	c.Assert(err, qt.IsNotNil)
}
