package mathutil

import (
	"errors"
	"math/bits"
)

// BasisPoints is the denominator of every rate expressed in basis points.
const BasisPoints = uint64(10000)

var (
	// ErrOverflow is returned when the result of an operation does not fit
	// into an uint64.
	ErrOverflow = errors.New("uint64 overflow")
	// ErrUnderflow is returned when a subtraction would go below zero.
	ErrUnderflow = errors.New("uint64 underflow")
	// ErrDivisionByZero ...
	ErrDivisionByZero = errors.New("division by zero")
)

// Add returns x + y or ErrOverflow.
func Add(x, y uint64) (uint64, error) {
	sum, carry := bits.Add64(x, y, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns x - y or ErrUnderflow if y > x.
func Sub(x, y uint64) (uint64, error) {
	diff, borrow := bits.Sub64(x, y, 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return diff, nil
}

// MulDiv returns floor(x * y / d). The product is computed on 128 bits so the
// only failure, apart from d == 0, is a quotient that doesn't fit 64 bits.
func MulDiv(x, y, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivisionByZero
	}
	hi, lo := bits.Mul64(x, y)
	if hi >= d {
		return 0, ErrOverflow
	}
	quo, _ := bits.Div64(hi, lo, d)
	return quo, nil
}

// ApplyBasisPoints returns floor(amount * bp / BasisPoints).
func ApplyBasisPoints(amount, bp uint64) (uint64, error) {
	return MulDiv(amount, bp, BasisPoints)
}
