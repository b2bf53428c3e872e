package crypto

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrArithmetic is returned for undefined field operations, such as
// inverting zero or taking the square root of a non-residue.
var ErrArithmetic = errors.New("field arithmetic error")

// FieldAdd returns (a + b) mod field.
func FieldAdd(field, a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Add(a, b), field)
}

// FieldSub returns (a - b) mod field.
func FieldSub(field, a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Sub(a, b), field)
}

// FieldNeg returns -a mod field.
func FieldNeg(field, a *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Neg(a), field)
}

// FieldMul returns (a · b) mod field.
func FieldMul(field, a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), field)
}

// FieldInv returns a⁻¹ mod field. Inverting zero fails with ErrArithmetic.
func FieldInv(field, a *big.Int) (*big.Int, error) {
	if new(big.Int).Mod(a, field).Sign() == 0 {
		return nil, fmt.Errorf("%w: inverse of zero", ErrArithmetic)
	}
	inv := new(big.Int).ModInverse(a, field)
	if inv == nil {
		return nil, fmt.Errorf("%w: no inverse for %s", ErrArithmetic, a)
	}
	return inv, nil
}

// FieldPow returns a^e mod field.
func FieldPow(field, a, e *big.Int) *big.Int {
	return new(big.Int).Exp(a, e, field)
}

// FieldSqrt returns a square root of a mod field, or ErrArithmetic when a
// is not a quadratic residue.
func FieldSqrt(field, a *big.Int) (*big.Int, error) {
	root := new(big.Int).ModSqrt(new(big.Int).Mod(a, field), field)
	if root == nil {
		return nil, fmt.Errorf("%w: %s is not a quadratic residue", ErrArithmetic, a)
	}
	return root, nil
}
