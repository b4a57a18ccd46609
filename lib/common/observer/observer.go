package observer

import (
	"github.com/GianlucaGuarini/go-observable"
)

var ProposalObserver = observable.New()
var BallotObserver = observable.New()
var MemberObserver = observable.New()

const (
	ResourceProposal = "proposal"
	ResourceBallot   = "ballot"
	ResourceMember   = "member"

	ConditionAll        = "*"
	ConditionIdentifier = "id"
	ConditionProposer   = "proposer"
	ConditionVoter      = "voter"
	ConditionStatus     = "status"
)

type Condition struct {
	Resource string `json:"resource"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

func NewCondition(resource, key string, value ...string) Condition {
	c := Condition{
		Resource: resource,
		Key:      key,
	}
	if len(value) > 0 {
		c.Value = value[0]
	}
	return c
}

func (c Condition) String() string {
	s := c.Resource + "-"
	if c.Key == ConditionAll {
		s += c.Key
	} else {
		s += c.Key + "=" + c.Value
	}
	return s
}
