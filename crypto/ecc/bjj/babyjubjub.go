// Package bjj implements the Baby Jubjub elliptic curve operations using
// the iden3 library. It provides a wrapper around the iden3 implementation
// to conform to the ecc.Point interface.
package bjj

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	babyjubjub "github.com/iden3/go-iden3-crypto/babyjub"

	curve "github.com/eerc-protocol/eerc-go/crypto/ecc"
	"github.com/eerc-protocol/eerc-go/types"
)

// BJJ is the affine representation of a Baby Jubjub group element.
type BJJ struct {
	inner *babyjubjub.Point
}

// New creates a new BJJ point set to the identity element.
func New() curve.Point {
	return &BJJ{inner: babyjubjub.NewPoint()}
}

// New creates a new BJJ point set to the identity element.
func (g *BJJ) New() curve.Point {
	return &BJJ{inner: babyjubjub.NewPoint()}
}

// Order returns the order of the Baby Jubjub prime-order subgroup.
func (g *BJJ) Order() *big.Int {
	return new(big.Int).Set(babyjubjub.SubOrder)
}

// Add computes the addition of two curve points and stores the result in
// the receiver.
func (g *BJJ) Add(a, b curve.Point) {
	g.inner = g.inner.Projective().Add(a.(*BJJ).inner.Projective(), b.(*BJJ).inner.Projective()).Affine()
}

// ScalarMult computes the scalar multiplication of a point and stores the
// result in the receiver. The scalar is reduced mod the subgroup order
// first, so secret scalars can be passed unreduced.
func (g *BJJ) ScalarMult(a curve.Point, scalar *big.Int) {
	s := new(big.Int).Mod(scalar, babyjubjub.SubOrder)
	g.inner = g.inner.Mul(s, a.(*BJJ).inner)
}

// ScalarBaseMult computes the scalar multiplication of the base point
// Base8 and stores the result in the receiver.
func (g *BJJ) ScalarBaseMult(scalar *big.Int) {
	s := new(big.Int).Mod(scalar, babyjubjub.SubOrder)
	g.inner = g.inner.Mul(s, babyjubjub.B8)
}

// Neg sets the receiver to the negation of a.
func (g *BJJ) Neg(a curve.Point) {
	g.Set(a)
	proj := g.inner.Projective()
	proj.X = proj.X.Neg(proj.X)
	g.inner = proj.Affine()
}

// SetZero sets the point to the identity element.
func (g *BJJ) SetZero() {
	g.inner.X = big.NewInt(0)
	g.inner.Y = big.NewInt(1)
}

// Set copies the value from another curve point.
func (g *BJJ) Set(a curve.Point) {
	g.inner.X = new(big.Int).Set(a.(*BJJ).inner.X)
	g.inner.Y = new(big.Int).Set(a.(*BJJ).inner.Y)
}

// SetGenerator sets the point to the subgroup generator Base8.
func (g *BJJ) SetGenerator() {
	g.inner.X = new(big.Int).Set(babyjubjub.B8.X)
	g.inner.Y = new(big.Int).Set(babyjubjub.B8.Y)
}

// SetPoint sets the point to the given affine coordinates. It returns
// ecc.ErrInvalidPoint if the coordinates do not satisfy the curve
// equation.
func (g *BJJ) SetPoint(x, y *big.Int) (curve.Point, error) {
	p := &babyjubjub.Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
	if !p.InCurve() {
		return nil, fmt.Errorf("%w: (%s, %s)", curve.ErrInvalidPoint, x, y)
	}
	g.inner = p
	return g, nil
}

// Equal checks if two curve points are equal.
func (g *BJJ) Equal(a curve.Point) bool {
	return g.inner.X.Cmp(a.(*BJJ).inner.X) == 0 && g.inner.Y.Cmp(a.(*BJJ).inner.Y) == 0
}

// IsZero reports whether the point is the identity element (0, 1).
func (g *BJJ) IsZero() bool {
	return g.inner.X.Sign() == 0 && g.inner.Y.Cmp(big.NewInt(1)) == 0
}

// IsOnCurve reports whether the point satisfies the twisted Edwards curve
// equation.
func (g *BJJ) IsOnCurve() bool {
	return g.inner.InCurve()
}

// InSubgroup reports whether the point is in the prime-order subgroup.
func (g *BJJ) InSubgroup() bool {
	return g.inner.InSubGroup()
}

// Point returns the affine x and y coordinates of the point.
func (g *BJJ) Point() (*big.Int, *big.Int) {
	return g.inner.X, g.inner.Y
}

// BigInts returns the affine coordinates of the point as a slice.
func (g *BJJ) BigInts() []*big.Int {
	return []*big.Int{g.inner.X, g.inner.Y}
}

// Marshal compresses and serializes the point to a byte slice.
func (g *BJJ) Marshal() []byte {
	b := g.inner.Compress()
	return b[:]
}

// Unmarshal deserializes and decompresses a point from a byte slice.
func (g *BJJ) Unmarshal(buf []byte) error {
	b32 := [32]byte{}
	copy(b32[:], buf)
	p, err := g.inner.Decompress(b32)
	if err != nil {
		return err
	}
	g.inner = p
	return nil
}

// MarshalJSON serializes the point into a JSON array of its coordinates.
func (g *BJJ) MarshalJSON() ([]byte, error) {
	return json.Marshal([]*types.BigInt{
		(*types.BigInt)(g.inner.X),
		(*types.BigInt)(g.inner.Y),
	})
}

// UnmarshalJSON deserializes the point from a JSON coordinate array.
func (g *BJJ) UnmarshalJSON(buf []byte) error {
	if g.inner == nil {
		g.inner = babyjubjub.NewPoint()
	}
	var coords []*types.BigInt
	if err := json.Unmarshal(buf, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	g.inner.X = coords[0].MathBigInt()
	g.inner.Y = coords[1].MathBigInt()
	return nil
}

// MarshalCBOR serializes the point into a CBOR coordinate array.
func (g *BJJ) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal([]*big.Int{g.inner.X, g.inner.Y})
}

// UnmarshalCBOR deserializes the point from a CBOR coordinate array.
func (g *BJJ) UnmarshalCBOR(buf []byte) error {
	if g.inner == nil {
		g.inner = babyjubjub.NewPoint()
	}
	var coords []*big.Int
	if err := cbor.Unmarshal(buf, &coords); err != nil {
		return err
	}
	if len(coords) != 2 {
		return fmt.Errorf("expected 2 coordinates, got %d", len(coords))
	}
	g.inner.X = coords[0]
	g.inner.Y = coords[1]
	return nil
}

// String returns a string representation of the point.
func (g *BJJ) String() string {
	return fmt.Sprintf("%s,%s", g.inner.X.String(), g.inner.Y.String())
}
