// Package ecc defines the elliptic curve point abstraction used across the
// SDK. The protocol fixes the curve to Baby Jubjub; the interface keeps the
// cryptographic code independent of the backing implementation.
package ecc

import (
	"errors"
	"math/big"
)

// ErrInvalidPoint is returned when coordinates do not describe a point on
// the curve, or when an operation receives a point outside the prime-order
// subgroup where it requires one.
var ErrInvalidPoint = errors.New("invalid curve point")

// Point represents a point on a twisted Edwards curve. Implementations
// store the result of every operation in the receiver.
type Point interface {
	// New returns a new identity point on the same curve.
	New() Point
	// Order returns the order of the prime-order subgroup.
	Order() *big.Int
	// Add sets the receiver to a+b.
	Add(a, b Point)
	// ScalarMult sets the receiver to scalar·a. The scalar is reduced mod
	// Order before the multiplication.
	ScalarMult(a Point, scalar *big.Int)
	// ScalarBaseMult sets the receiver to scalar·Base8.
	ScalarBaseMult(scalar *big.Int)
	// Neg sets the receiver to -a.
	Neg(a Point)
	// SetZero sets the receiver to the identity element.
	SetZero()
	// Set copies a into the receiver.
	Set(a Point)
	// SetGenerator sets the receiver to the subgroup generator Base8.
	SetGenerator()
	// SetPoint sets the receiver to the given affine coordinates. It fails
	// with ErrInvalidPoint if they do not satisfy the curve equation.
	SetPoint(x, y *big.Int) (Point, error)
	// Equal reports whether the receiver and a are the same point.
	Equal(a Point) bool
	// IsZero reports whether the receiver is the identity element.
	IsZero() bool
	// IsOnCurve reports whether the receiver satisfies the curve equation.
	IsOnCurve() bool
	// InSubgroup reports whether the receiver is in the prime-order
	// subgroup.
	InSubgroup() bool
	// Point returns the affine x and y coordinates.
	Point() (*big.Int, *big.Int)
	// BigInts returns the affine coordinates as a two-element slice.
	BigInts() []*big.Int
	// Marshal compresses and serializes the point.
	Marshal() []byte
	// Unmarshal deserializes and decompresses a point.
	Unmarshal(buf []byte) error
	// String returns a readable representation of the point.
	String() string
}
