package mathutil

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount of base units as a decimal string with the
// given precision, ie. FormatAmount(1500000, 6) == "1.5".
func FormatAmount(amount uint64, precision uint) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(precision))
	return d.String()
}

// maxAmountLength bounds the input of ParseAmount.
const maxAmountLength = 64

// maxUint64Digits is the number of digits of math.MaxUint64.
const maxUint64Digits = 20

// ParseAmount converts a decimal string into base units with the given
// precision. Values with more fractional digits than precision are rejected.
// Exponent notation is accepted, but the magnitude is checked before any
// big number is built out of it.
func ParseAmount(s string, precision uint) (uint64, error) {
	if len(s) > maxAmountLength {
		return 0, fmt.Errorf("amount exceeds %d characters", maxAmountLength)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}
	if d.IsZero() {
		return 0, nil
	}

	// d = coefficient * 10^exp once shifted by precision.
	digits := int64(len(d.Coefficient().String()))
	exp := int64(d.Exponent()) + int64(precision)
	if digits+exp > maxUint64Digits {
		return 0, ErrOverflow
	}
	if -exp > digits {
		return 0, fmt.Errorf("amount %s exceeds precision %d", s, precision)
	}

	units := d.Shift(int32(precision))
	if !units.Equal(units.Truncate(0)) {
		return 0, fmt.Errorf("amount %s exceeds precision %d", s, precision)
	}
	bi := units.BigInt()
	if !bi.IsUint64() {
		return 0, ErrOverflow
	}
	return bi.Uint64(), nil
}
