// Define the `Weight` type, the voting-influence magnitude used across the
// code base.
//
// A member's weight scales the contribution of their ballot to a proposal's
// tally. In addition to the `Weight` type, some member functions are defined:
//   - `Add` / `Sub` do an addition / substraction and return an error object
//   - `MustAdd` / `MustSub` call `Add` / `Sub` and turn any `error` into a
//     `panic`. Those are provided for testing and should not be in production
//     code.
package common

import (
	"strconv"

	"agora.network/agora/lib/errors"
)

// The maximum total weight a group may reach. Keeping a comfortable margin
// below math.MaxUint64 lets cross-multiplied fraction comparisons stay
// representable even before they are widened to big.Int.
const MaximumWeight Weight = 0xFFFFFFFFFFFF // 2^48 - 1

type Weight uint64

func (w Weight) Invariant() {
	if w > MaximumWeight {
		panic(errors.WeightOverflow.Clone().SetData("weight", uint64(w)))
	}
}

func (w Weight) String() string {
	w.Invariant()
	return strconv.FormatUint(uint64(w), 10)
}

func (w Weight) IsZero() bool {
	return w == 0
}

func (w Weight) Add(added Weight) (n Weight, err error) {
	w.Invariant()
	added.Invariant()
	if n = w + added; n > MaximumWeight {
		err = errors.WeightOverflow
	}
	return
}

func (w Weight) MustAdd(added Weight) Weight {
	if v, err := w.Add(added); err != nil {
		panic(err)
	} else {
		return v
	}
}

func (w Weight) Sub(sub Weight) (Weight, error) {
	w.Invariant()
	sub.Invariant()
	if w < sub {
		return MaximumWeight + 1, errors.WeightOverflow
	}
	return w - sub, nil
}

func (w Weight) MustSub(sub Weight) Weight {
	if v, err := w.Sub(sub); err != nil {
		panic(err)
	} else {
		return v
	}
}

func WeightFromString(s string) (Weight, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Weight(0), err
	}

	w := Weight(v)
	if w > MaximumWeight {
		return Weight(0), errors.WeightOverflow
	}

	return w, nil
}

func MustWeightFromString(s string) Weight {
	w, err := WeightFromString(s)
	if err != nil {
		panic(err)
	}
	return w
}
