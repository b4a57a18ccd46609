package resource

import (
	"strconv"
	"strings"

	"github.com/nvellon/hal"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/governance"
)

type Ballot struct {
	b *governance.Ballot
}

func NewBallot(b *governance.Ballot) *Ballot {
	return &Ballot{b: b}
}

func (b Ballot) GetMap() hal.Entry {
	return hal.Entry{
		"proposal_id": b.b.ProposalID,
		"voter":       b.b.Voter,
		"option":      string(b.b.Option),
		"weight":      b.b.Weight,
		"cast_at":     common.FormatISO8601(b.b.CastAt),
	}
}

func (b Ballot) Resource() *hal.Resource {
	r := hal.NewResource(b, b.LinkSelf())
	r.AddLink("proposal", hal.NewLink(strings.Replace(URLProposal, "{id}", strconv.FormatUint(b.b.ProposalID, 10), -1)))
	return r
}

func (b Ballot) LinkSelf() string {
	return strings.Replace(URLProposalVotes, "{id}", strconv.FormatUint(b.b.ProposalID, 10), -1) + "/" + b.b.Voter
}

func (b Ballot) MarshalJSON() ([]byte, error) {
	r := b.Resource()
	return common.JSONMarshalWithoutEscapeHTML(r.GetMap())
}
