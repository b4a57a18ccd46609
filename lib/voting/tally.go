package voting

import (
	"agora.network/agora/lib/common"
	"agora.network/agora/lib/errors"
)

// Tally is the accumulated weight per vote option for one proposal, plus the
// number of distinct Yes voters for the voter-counting policy.
//
// A Tally is mutated only by applying and unapplying ballots, so it is
// always the sum of the recorded ballots' weights. Apply caps that sum at
// `common.MaximumWeight`, which keeps TotalCast and Opinions overflow-free.
type Tally struct {
	Yes     common.Weight `json:"yes"`
	No      common.Weight `json:"no"`
	Abstain common.Weight `json:"abstain"`
	Veto    common.Weight `json:"veto"`

	YesVoters uint64 `json:"yes_voters"`
}

func NewTally() Tally {
	return Tally{}
}

// Apply adds one ballot's weight to the option it voted. In a group whose
// membership changes while a proposal is open, the summed cast weight of
// otherwise valid ballots can exceed `common.MaximumWeight`; such a ballot
// is refused with `errors.WeightOverflow` and the Tally is left untouched.
func (t Tally) Apply(option Option, weight common.Weight) (Tally, error) {
	if _, err := t.TotalCast().Add(weight); err != nil {
		return t, err
	}

	switch option {
	case YES:
		t.Yes += weight
		t.YesVoters++
	case NO:
		t.No += weight
	case ABSTAIN:
		t.Abstain += weight
	case VETO:
		t.Veto += weight
	}

	return t, nil
}

// Unapply removes a previously applied ballot; used when revoting replaces
// a voter's earlier ballot. A weight larger than the option's accumulated
// weight is refused with `errors.WeightOverflow`.
func (t Tally) Unapply(option Option, weight common.Weight) (Tally, error) {
	var accumulated common.Weight
	switch option {
	case YES:
		accumulated = t.Yes
	case NO:
		accumulated = t.No
	case ABSTAIN:
		accumulated = t.Abstain
	case VETO:
		accumulated = t.Veto
	default:
		return t, errors.InvalidVote.Clone().SetData("option", string(option))
	}

	remaining, err := accumulated.Sub(weight)
	if err != nil {
		return t, err
	}

	switch option {
	case YES:
		t.Yes = remaining
		t.YesVoters--
	case NO:
		t.No = remaining
	case ABSTAIN:
		t.Abstain = remaining
	case VETO:
		t.Veto = remaining
	}

	return t, nil
}

// MustApply is Apply for known-good weights; it panics on overflow, so it
// should not be in production code.
func (t Tally) MustApply(option Option, weight common.Weight) Tally {
	applied, err := t.Apply(option, weight)
	if err != nil {
		panic(err)
	}
	return applied
}

// MustUnapply is Unapply for known-good weights; it panics on underflow, so
// it should not be in production code.
func (t Tally) MustUnapply(option Option, weight common.Weight) Tally {
	unapplied, err := t.Unapply(option, weight)
	if err != nil {
		panic(err)
	}
	return unapplied
}

// TotalCast is the weight of every cast ballot, abstentions included; the
// quorum numerator. Apply bounds the sum, so plain addition cannot wrap.
func (t Tally) TotalCast() common.Weight {
	return t.Yes + t.No + t.Abstain + t.Veto
}

// Opinions is the cast weight with an opinion, abstentions excluded; the
// threshold denominator of the quorum policy.
func (t Tally) Opinions() common.Weight {
	return t.Yes + t.No + t.Veto
}
