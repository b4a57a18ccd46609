// Define the `Fraction` type, the exact rational used for every percentage
// comparison in threshold evaluation.
//
// Threshold decisions must be bit-identical across independent re-executions,
// so ratios are never reduced to floating point. Comparisons cross-multiply
// in `math/big` to stay exact for any representable weight.
package common

import (
	"fmt"
	"math/big"

	"agora.network/agora/lib/errors"
)

type Fraction struct {
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

func NewFraction(numerator, denominator uint64) Fraction {
	return Fraction{Numerator: numerator, Denominator: denominator}
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

func (f Fraction) IsZero() bool {
	return f.Numerator == 0
}

// Validate checks `f` is usable as a percentage: a positive denominator and
// a value of at most 1.
func (f Fraction) Validate() error {
	if f.Denominator == 0 {
		return errors.InvalidFraction
	}
	if f.Numerator > f.Denominator {
		return errors.InvalidFraction
	}

	return nil
}

// Reached reports whether part/whole >= f. A zero `whole` never reaches a
// positive fraction.
func (f Fraction) Reached(part, whole Weight) bool {
	if whole.IsZero() {
		return f.IsZero()
	}

	// part * f.Denominator >= whole * f.Numerator
	lhs := new(big.Int).Mul(
		new(big.Int).SetUint64(uint64(part)),
		new(big.Int).SetUint64(f.Denominator),
	)
	rhs := new(big.Int).Mul(
		new(big.Int).SetUint64(uint64(whole)),
		new(big.Int).SetUint64(f.Numerator),
	)

	return lhs.Cmp(rhs) >= 0
}

// Exceeded reports whether part/whole > f, strictly.
func (f Fraction) Exceeded(part, whole Weight) bool {
	if whole.IsZero() {
		return false
	}

	lhs := new(big.Int).Mul(
		new(big.Int).SetUint64(uint64(part)),
		new(big.Int).SetUint64(f.Denominator),
	)
	rhs := new(big.Int).Mul(
		new(big.Int).SetUint64(uint64(whole)),
		new(big.Int).SetUint64(f.Numerator),
	)

	return lhs.Cmp(rhs) > 0
}
