package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/common/observer"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/governance"
	"agora.network/agora/lib/network/api/resource"
	"agora.network/agora/lib/network/httputils"
	"agora.network/agora/lib/voting"
)

// VoteRequest is the body of `POST /proposals/{id}/votes`.
type VoteRequest struct {
	Voter  string `json:"voter"`
	Option string `json:"option"`
}

func (api GovernanceHandlerAPI) PostVoteHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := parseProposalID(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	var req VoteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("error", err.Error()))
		return
	}

	option, err := voting.ParseOption(req.Option)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	_, ballot, err := api.engine.Vote(id, req.Voter, option)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusCreated, resource.NewBallot(&ballot))
}

func (api GovernanceHandlerAPI) GetVoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	voter := mux.Vars(r)["voter"]

	ballot, err := governance.GetBallot(api.storage, id, voter)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, resource.NewBallot(&ballot))
}

func (api GovernanceHandlerAPI) GetProposalVotesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseProposalID(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	if httputils.IsEventStream(r) {
		event := observer.NewCondition(observer.ResourceBallot, observer.ConditionIdentifier, common.EncodeUint64ToString(id)).String()
		es := NewDefaultEventStream(w, r)
		es.Run(observer.BallotObserver, event)
		return
	}

	if exists, err := governance.ExistsProposal(api.storage, id); err != nil {
		httputils.WriteJSONError(w, err)
		return
	} else if !exists {
		httputils.WriteJSONError(w, errors.ProposalNotFound.Clone().SetData("proposal-id", id))
		return
	}

	pq, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var firstCursor, lastCursor []byte
	var rs []resource.Resource

	err = governance.WalkBallots(api.storage, id, pq.WalkOption(), func(b *governance.Ballot, key []byte) (bool, error) {
		if len(firstCursor) == 0 {
			firstCursor = append(firstCursor, key...)
		}
		lastCursor = append([]byte{}, key...)
		rs = append(rs, resource.NewBallot(b))
		return true, nil
	})
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, pq.ResourceList(rs, firstCursor, lastCursor))
}
