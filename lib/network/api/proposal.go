package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/common/observer"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/governance"
	"agora.network/agora/lib/network/api/resource"
	"agora.network/agora/lib/network/httputils"
	"agora.network/agora/lib/voting"
)

// ProposalRequest is the body of `POST /proposals`.
type ProposalRequest struct {
	Proposer    string          `json:"proposer"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Payload     json.RawMessage `json:"payload"`
	Policy      *voting.Policy  `json:"policy"`
}

func (api GovernanceHandlerAPI) PostProposalHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	var req ProposalRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("error", err.Error()))
		return
	}

	p, err := api.engine.Propose(req.Proposer, req.Title, req.Description, req.Payload, req.Policy)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusCreated, resource.NewProposal(p))
}

func (api GovernanceHandlerAPI) GetProposalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	readFunc := func() (payload interface{}, err error) {
		p, verdict, err := api.engine.Verdict(id)
		if err != nil {
			return nil, err
		}
		return resource.NewProposalWithVerdict(p, verdict), nil
	}

	if httputils.IsEventStream(r) {
		event := observer.NewCondition(observer.ResourceProposal, observer.ConditionIdentifier, common.EncodeUint64ToString(id)).String()
		es := NewDefaultEventStream(w, r)
		payload, err := readFunc()
		if err == nil {
			es.Render(payload)
		}
		es.Run(observer.ProposalObserver, event)
		return
	}

	payload, err := readFunc()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, payload)
}

func (api GovernanceHandlerAPI) GetProposalsHandler(w http.ResponseWriter, r *http.Request) {
	if httputils.IsEventStream(r) {
		event := observer.NewCondition(observer.ResourceProposal, observer.ConditionAll).String()
		es := NewDefaultEventStream(w, r)
		es.Run(observer.ProposalObserver, event)
		return
	}

	pq, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var status governance.Status
	if s := r.URL.Query().Get("status"); s != "" {
		status = governance.Status(s)
		if !status.IsValid() {
			httputils.WriteJSONError(w, errors.InvalidQueryString.Clone().SetData("status", s))
			return
		}
	}

	var firstCursor, lastCursor []byte
	var rs []resource.Resource

	walkFunc := func(p *governance.Proposal, key []byte) (bool, error) {
		if len(firstCursor) == 0 {
			firstCursor = append(firstCursor, key...)
		}
		lastCursor = append([]byte{}, key...)
		rs = append(rs, resource.NewProposal(p))
		return true, nil
	}

	if status != "" {
		err = governance.WalkProposalsByStatus(api.storage, status, pq.WalkOption(), walkFunc)
	} else {
		err = governance.WalkProposals(api.storage, pq.WalkOption(), walkFunc)
	}
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, pq.ResourceList(rs, firstCursor, lastCursor))
}
