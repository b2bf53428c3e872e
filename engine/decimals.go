package engine

import "math/big"

// ConvertTokenDecimals rescales an amount from one decimal width to
// another. Downscaling truncates towards zero, matching the contract;
// the returned flag reports whether any dust was dropped so callers can
// refuse lossy deposits.
func ConvertTokenDecimals(amount *big.Int, from, to uint8) (*big.Int, bool) {
	if from == to {
		return new(big.Int).Set(amount), false
	}
	if from > to {
		factor := pow10(uint(from - to))
		converted, rem := new(big.Int).QuoRem(amount, factor, new(big.Int))
		return converted, rem.Sign() != 0
	}
	factor := pow10(uint(to - from))
	return new(big.Int).Mul(amount, factor), false
}

func pow10(n uint) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
