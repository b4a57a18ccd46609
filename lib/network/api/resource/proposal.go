package resource

import (
	"strconv"
	"strings"

	"github.com/nvellon/hal"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/governance"
	"agora.network/agora/lib/voting"
)

type Proposal struct {
	p       *governance.Proposal
	verdict voting.Verdict
}

func NewProposal(p *governance.Proposal) *Proposal {
	return &Proposal{p: p}
}

// NewProposalWithVerdict also embeds the live evaluation of the tally,
// which an open proposal's stored status does not carry.
func NewProposalWithVerdict(p *governance.Proposal, verdict voting.Verdict) *Proposal {
	return &Proposal{p: p, verdict: verdict}
}

func (p Proposal) GetMap() hal.Entry {
	entry := hal.Entry{
		"id":                     p.p.ID,
		"proposer":               p.p.Proposer,
		"title":                  p.p.Title,
		"description":            p.p.Description,
		"payload":                p.p.Payload,
		"policy":                 p.p.Policy,
		"status":                 string(p.p.Status),
		"tally":                  p.p.Tally,
		"submitted_at":           common.FormatISO8601(p.p.SubmittedAt),
		"expires_at":             common.FormatISO8601(p.p.ExpiresAt),
		"total_weight_at_submit": p.p.TotalWeightAtSubmit,
	}
	if p.verdict != "" {
		entry["verdict"] = string(p.verdict)
	}
	return entry
}

func (p Proposal) Resource() *hal.Resource {
	r := hal.NewResource(p, p.LinkSelf())
	r.AddLink("votes", hal.NewLink(p.LinkSelf()+"/votes{?cursor,limit,reverse}", hal.LinkAttr{"templated": true}))
	return r
}

func (p Proposal) LinkSelf() string {
	return strings.Replace(URLProposal, "{id}", strconv.FormatUint(p.p.ID, 10), -1)
}

func (p Proposal) MarshalJSON() ([]byte, error) {
	r := p.Resource()
	return common.JSONMarshalWithoutEscapeHTML(r.GetMap())
}
