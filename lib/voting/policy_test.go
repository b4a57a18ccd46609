package voting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/errors"
)

func TestPolicyValidate(t *testing.T) {
	require.Nil(t, NewAbsoluteCountPolicy(1).Validate())
	require.Nil(t, NewAbsolutePercentagePolicy(common.NewFraction(1, 2)).Validate())
	require.Nil(t, NewThresholdQuorumPolicy(common.NewFraction(1, 2), common.NewFraction(1, 4)).Validate())

	cases := []Policy{
		NewAbsoluteCountPolicy(0),
		NewAbsolutePercentagePolicy(common.NewFraction(0, 1)),
		NewAbsolutePercentagePolicy(common.NewFraction(101, 100)), // > 100%
		NewThresholdQuorumPolicy(common.NewFraction(1, 0), common.NewFraction(1, 4)),
		NewThresholdQuorumPolicy(common.NewFraction(1, 2), common.NewFraction(0, 1)),
		Policy{Type: PolicyType("plurality")},
	}
	for _, p := range cases {
		err := p.Validate()
		require.True(t, errors.InvalidPolicy.Equal(err), "policy %+v must be invalid", p)
	}
}

func TestPolicyVetoFraction(t *testing.T) {
	p := NewAbsoluteCountPolicy(1)
	require.Equal(t, common.DefaultVetoFraction, p.VetoFraction())

	p.Veto = common.NewFraction(1, 2)
	require.Equal(t, common.NewFraction(1, 2), p.VetoFraction())
}

func TestPolicyFromConfig(t *testing.T) {
	conf := common.NewConfig()
	p := PolicyFromConfig(conf)
	require.Nil(t, p.Validate())
	require.Equal(t, ThresholdQuorum, p.Type)
	require.Equal(t, conf.DefaultPolicyPercent, p.Threshold)
	require.Equal(t, conf.DefaultPolicyQuorum, p.Quorum)
}

func TestTallyApplyUnapply(t *testing.T) {
	tally := NewTally().
		MustApply(YES, 10).
		MustApply(NO, 5).
		MustApply(ABSTAIN, 3).
		MustApply(VETO, 2)

	require.Equal(t, common.Weight(20), tally.TotalCast())
	require.Equal(t, common.Weight(17), tally.Opinions())
	require.Equal(t, uint64(1), tally.YesVoters)

	// revote: yes -> no
	tally = tally.MustUnapply(YES, 10).MustApply(NO, 10)
	require.Equal(t, common.Weight(0), tally.Yes)
	require.Equal(t, common.Weight(15), tally.No)
	require.Equal(t, common.Weight(20), tally.TotalCast())
	require.Equal(t, uint64(0), tally.YesVoters)
}

func TestTallyOverflow(t *testing.T) {
	tally := NewTally().MustApply(YES, common.MaximumWeight)

	// the cap is on the total cast weight, not per option
	unchanged, err := tally.Apply(NO, 1)
	require.Equal(t, errors.WeightOverflow, err)
	require.Equal(t, tally, unchanged)
	require.Equal(t, common.MaximumWeight, tally.TotalCast())

	// unapplying more than was applied
	unchanged, err = tally.Unapply(NO, 1)
	require.Equal(t, errors.WeightOverflow, err)
	require.Equal(t, tally, unchanged)
}
