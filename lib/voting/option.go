package voting

import (
	"agora.network/agora/lib/errors"
)

// Option is a vote option on a ballot.
type Option string

const (
	YES     Option = "yes"
	NO      Option = "no"
	ABSTAIN Option = "abstain"
	VETO    Option = "veto"
)

func (o Option) IsValid() bool {
	switch o {
	case YES, NO, ABSTAIN, VETO:
		return true
	}
	return false
}

func ParseOption(s string) (Option, error) {
	o := Option(s)
	if !o.IsValid() {
		return Option(""), errors.InvalidVote.Clone().SetData("option", s)
	}

	return o, nil
}
