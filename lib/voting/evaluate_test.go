package voting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"agora.network/agora/lib/common"
)

func TestEvaluateAbsolutePercentage(t *testing.T) {
	policy := NewAbsolutePercentagePolicy(common.NewFraction(60, 100))
	total := common.Weight(100)

	tally := NewTally().MustApply(YES, 10)
	require.Equal(t, UNDECIDED, Evaluate(tally, total, policy, false))

	tally = tally.MustApply(YES, 55)
	require.Equal(t, PASS, Evaluate(tally, total, policy, false))
}

func TestEvaluateAbsolutePercentageUnreachable(t *testing.T) {
	policy := NewAbsolutePercentagePolicy(common.NewFraction(60, 100))
	total := common.Weight(100)

	// 50 No cast; at most 50 of 100 can still vote Yes
	tally := NewTally().MustApply(NO, 50)
	require.Equal(t, FAIL, Evaluate(tally, total, policy, false))

	// 40 No cast; the remaining 60 voting Yes could still reach the threshold
	tally = NewTally().MustApply(NO, 40)
	require.Equal(t, UNDECIDED, Evaluate(tally, total, policy, false))
}

func TestEvaluateAbsolutePercentageExpired(t *testing.T) {
	policy := NewAbsolutePercentagePolicy(common.NewFraction(60, 100))
	total := common.Weight(100)

	tally := NewTally().MustApply(YES, 40)
	require.Equal(t, UNDECIDED, Evaluate(tally, total, policy, false))
	require.Equal(t, FAIL, Evaluate(tally, total, policy, true))
}

func TestEvaluateDynamicTotalWeight(t *testing.T) {
	// a new member joining moves the denominator without any new ballot
	policy := NewAbsolutePercentagePolicy(common.NewFraction(60, 100))

	tally := NewTally().MustApply(YES, 65)
	require.Equal(t, PASS, Evaluate(tally, common.Weight(100), policy, false))
	require.Equal(t, UNDECIDED, Evaluate(tally, common.Weight(200), policy, false))
}

func TestEvaluateThresholdQuorum(t *testing.T) {
	policy := NewThresholdQuorumPolicy(
		common.NewFraction(1, 2), // threshold: 1/2 of opinions
		common.NewFraction(1, 3), // quorum: 1/3 of total
	)
	total := common.Weight(90)

	// quorum not reached
	tally := NewTally().MustApply(YES, 20)
	require.Equal(t, UNDECIDED, Evaluate(tally, total, policy, false))

	// quorum reached, threshold reached; abstain counts toward quorum only
	tally = tally.MustApply(ABSTAIN, 15)
	require.Equal(t, PASS, Evaluate(tally, total, policy, false))

	// threshold measured against opinions, not total
	tally = NewTally().MustApply(YES, 15).MustApply(NO, 16)
	require.Equal(t, UNDECIDED, Evaluate(tally, total, policy, false))
	require.Equal(t, FAIL, Evaluate(tally, total, policy, true))
}

func TestEvaluateVetoOverride(t *testing.T) {
	// Yes alone satisfies the percentage, but veto above the cap blocks
	policy := NewAbsolutePercentagePolicy(common.NewFraction(60, 100))
	total := common.Weight(100)

	tally := NewTally().MustApply(YES, 60).MustApply(VETO, 35)
	require.Equal(t, FAIL, Evaluate(tally, total, policy, false))

	// at exactly the cap the veto does not block
	tally = NewTally().MustApply(YES, 66).MustApply(VETO, 33)
	require.Equal(t, PASS, Evaluate(tally, total, policy, false))
}

func TestEvaluateAbsoluteCount(t *testing.T) {
	policy := NewAbsoluteCountPolicy(2)
	total := common.Weight(1000)

	// count counts distinct Yes voters, not weight
	tally := NewTally().MustApply(YES, 999)
	require.Equal(t, UNDECIDED, Evaluate(tally, total, policy, false))

	tally = tally.MustApply(YES, 1)
	require.Equal(t, PASS, Evaluate(tally, total, policy, false))
}

func TestEvaluateDeterminism(t *testing.T) {
	policy := NewThresholdQuorumPolicy(common.NewFraction(667, 1000), common.NewFraction(400, 1000))
	tally := NewTally().MustApply(YES, 667).MustApply(NO, 333)

	first := Evaluate(tally, common.Weight(2500), policy, false)
	for i := 0; i < 1000; i++ {
		require.Equal(t, first, Evaluate(tally, common.Weight(2500), policy, false))
	}
}
