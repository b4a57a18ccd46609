package resource

const (
	APIVersionV1 = "/v1"
	APIPrefix    = "/api"

	URLProposals     = APIPrefix + APIVersionV1 + "/proposals"
	URLProposal      = APIPrefix + APIVersionV1 + "/proposals/{id}"
	URLProposalVotes = APIPrefix + APIVersionV1 + "/proposals/{id}/votes"
	URLMembers       = APIPrefix + APIVersionV1 + "/members"
	URLMember        = APIPrefix + APIVersionV1 + "/members/{id}"
)
