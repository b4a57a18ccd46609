package voting

import (
	"agora.network/agora/lib/common"
	"agora.network/agora/lib/errors"
)

type PolicyType string

const (
	// AbsoluteCount passes once the number of distinct Yes voters reaches
	// `Count`; weights are ignored.
	AbsoluteCount PolicyType = "absolute-count"

	// AbsolutePercentage passes once Yes weight reaches `Percentage` of the
	// group's current total weight.
	AbsolutePercentage PolicyType = "absolute-percentage"

	// ThresholdQuorum passes once cast weight reaches `Quorum` of the total
	// weight and Yes weight reaches `Threshold` of the non-abstaining cast
	// weight.
	ThresholdQuorum PolicyType = "threshold-quorum"
)

// Policy is the threshold rule of one proposal. It is captured at proposal
// creation and immutable for the proposal's lifetime; later changes to the
// group's default policy never retroactively affect open proposals.
type Policy struct {
	Type PolicyType `json:"type"`

	Count      uint64          `json:"count,omitempty"`
	Percentage common.Fraction `json:"percentage,omitempty"`
	Threshold  common.Fraction `json:"threshold,omitempty"`
	Quorum     common.Fraction `json:"quorum,omitempty"`

	// Veto is the participating-weight share above which the veto option
	// blocks passage regardless of the Yes percentage. Zero means the
	// group default applies.
	Veto common.Fraction `json:"veto,omitempty"`

	// AllowRevote lets a voter replace an earlier ballot instead of being
	// rejected with `AlreadyVoted`.
	AllowRevote bool `json:"allow_revote,omitempty"`
}

func NewAbsoluteCountPolicy(count uint64) Policy {
	return Policy{Type: AbsoluteCount, Count: count}
}

func NewAbsolutePercentagePolicy(percentage common.Fraction) Policy {
	return Policy{Type: AbsolutePercentage, Percentage: percentage}
}

func NewThresholdQuorumPolicy(threshold, quorum common.Fraction) Policy {
	return Policy{Type: ThresholdQuorum, Threshold: threshold, Quorum: quorum}
}

func (p Policy) Validate() error {
	switch p.Type {
	case AbsoluteCount:
		if p.Count < 1 {
			return errors.InvalidPolicy.Clone().SetData("count", p.Count)
		}
	case AbsolutePercentage:
		if err := p.Percentage.Validate(); err != nil {
			return errors.InvalidPolicy.Clone().SetData("percentage", p.Percentage.String())
		}
		if p.Percentage.IsZero() {
			return errors.InvalidPolicy.Clone().SetData("percentage", p.Percentage.String())
		}
	case ThresholdQuorum:
		if err := p.Threshold.Validate(); err != nil || p.Threshold.IsZero() {
			return errors.InvalidPolicy.Clone().SetData("threshold", p.Threshold.String())
		}
		if err := p.Quorum.Validate(); err != nil || p.Quorum.IsZero() {
			return errors.InvalidPolicy.Clone().SetData("quorum", p.Quorum.String())
		}
	default:
		return errors.InvalidPolicy.Clone().SetData("type", string(p.Type))
	}

	if !p.Veto.IsZero() {
		if err := p.Veto.Validate(); err != nil {
			return errors.InvalidPolicy.Clone().SetData("veto", p.Veto.String())
		}
	}

	return nil
}

// VetoFraction resolves the veto cap of this policy, falling back to the
// group default.
func (p Policy) VetoFraction() common.Fraction {
	if p.Veto.IsZero() {
		return common.DefaultVetoFraction
	}
	return p.Veto
}

// PolicyFromConfig builds the group default policy out of the flat config
// fields.
func PolicyFromConfig(conf common.Config) Policy {
	p := Policy{
		Type:        PolicyType(conf.DefaultPolicyType),
		Count:       conf.DefaultPolicyCount,
		Veto:        conf.VetoFraction,
		AllowRevote: conf.AllowRevote,
	}

	switch p.Type {
	case AbsolutePercentage:
		p.Percentage = conf.DefaultPolicyPercent
	case ThresholdQuorum:
		p.Threshold = conf.DefaultPolicyPercent
		p.Quorum = conf.DefaultPolicyQuorum
	}

	return p
}
