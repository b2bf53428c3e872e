package engine

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestConvertTokenDecimals(t *testing.T) {
	c := qt.New(t)

	// downscale with truncation
	v, truncated := ConvertTokenDecimals(big.NewInt(123456), 5, 2)
	c.Assert(v.Int64(), qt.Equals, int64(123))
	c.Assert(truncated, qt.IsTrue)

	// exact downscale
	v, truncated = ConvertTokenDecimals(big.NewInt(123000), 5, 2)
	c.Assert(v.Int64(), qt.Equals, int64(123))
	c.Assert(truncated, qt.IsFalse)

	// upscale never truncates
	v, truncated = ConvertTokenDecimals(big.NewInt(123), 2, 5)
	c.Assert(v.Int64(), qt.Equals, int64(123000))
	c.Assert(truncated, qt.IsFalse)

	// equal widths pass through
	v, truncated = ConvertTokenDecimals(big.NewInt(42), 6, 6)
	c.Assert(v.Int64(), qt.Equals, int64(42))
	c.Assert(truncated, qt.IsFalse)

	// amounts below the downscale factor vanish
	v, truncated = ConvertTokenDecimals(big.NewInt(9), 5, 2)
	c.Assert(v.Sign(), qt.Equals, 0)
	c.Assert(truncated, qt.IsTrue)
}
