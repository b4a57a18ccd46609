package voting

import (
	"agora.network/agora/lib/common"
)

// Verdict is the outcome of a threshold evaluation.
type Verdict string

const (
	PASS      Verdict = "PASS"
	FAIL      Verdict = "FAIL"
	UNDECIDED Verdict = "UNDECIDED"
)

// Evaluate decides whether a tally satisfies a threshold policy against the
// group's total weight as of now. It is a pure function: identical inputs
// always yield the identical verdict, with no clock, randomness or floating
// point involved.
//
// `totalWeight` must be the live total at evaluation time, not a snapshot
// from proposal creation; membership changes between votes legitimately
// flip UNDECIDED and FAIL without any new ballot.
//
// `expired` tells the evaluator the proposal can receive no further votes,
// which turns a not-yet-passing tally into FAIL.
func Evaluate(tally Tally, totalWeight common.Weight, policy Policy, expired bool) Verdict {
	// a veto above the cap blocks passage under every policy
	if policy.VetoFraction().Exceeded(tally.Veto, tally.TotalCast()) {
		return FAIL
	}

	switch policy.Type {
	case AbsoluteCount:
		if tally.YesVoters >= policy.Count {
			return PASS
		}

	case AbsolutePercentage:
		if policy.Percentage.Reached(tally.Yes, totalWeight) {
			return PASS
		}

		// even if every uncast weight voted Yes the threshold is out of
		// reach; possible stays within totalWeight since Yes is part of
		// cast
		cast := tally.TotalCast()
		possible := tally.Yes
		if totalWeight > cast {
			possible += totalWeight - cast
		}
		if !policy.Percentage.Reached(possible, totalWeight) {
			return FAIL
		}

	case ThresholdQuorum:
		quorum := policy.Quorum.Reached(tally.TotalCast(), totalWeight)
		threshold := policy.Threshold.Reached(tally.Yes, tally.Opinions())
		if quorum && threshold {
			return PASS
		}
	}

	if expired {
		return FAIL
	}

	return UNDECIDED
}
