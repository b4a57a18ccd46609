package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/common/observer"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/membership"
	"agora.network/agora/lib/network/api/resource"
	"agora.network/agora/lib/network/httputils"
)

// MemberRequest is one entry of the body of `POST /members`; zero weight
// removes the member.
type MemberRequest struct {
	Address string        `json:"address"`
	Weight  common.Weight `json:"weight"`
}

func (api GovernanceHandlerAPI) GetMemberHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["id"]

	if httputils.IsEventStream(r) {
		event := observer.NewCondition(observer.ResourceMember, observer.ConditionIdentifier, address).String()
		es := NewDefaultEventStream(w, r)
		es.Run(observer.MemberObserver, event)
		return
	}

	m, err := membership.GetMember(api.storage, address)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, resource.NewMember(&m))
}

func (api GovernanceHandlerAPI) GetMembersHandler(w http.ResponseWriter, r *http.Request) {
	if httputils.IsEventStream(r) {
		event := observer.NewCondition(observer.ResourceMember, observer.ConditionAll).String()
		es := NewDefaultEventStream(w, r)
		es.Run(observer.MemberObserver, event)
		return
	}

	pq, err := httputils.NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var firstCursor, lastCursor []byte
	var rs []resource.Resource

	err = membership.WalkMembers(api.storage, pq.WalkOption(), func(m *membership.Member, key []byte) (bool, error) {
		if len(firstCursor) == 0 {
			firstCursor = append(firstCursor, key...)
		}
		lastCursor = append([]byte{}, key...)
		rs = append(rs, resource.NewMember(m))
		return true, nil
	})
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, pq.ResourceList(rs, firstCursor, lastCursor))
}

func (api GovernanceHandlerAPI) PostMembersHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	var reqs []MemberRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("error", err.Error()))
		return
	}
	if len(reqs) < 1 {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	members := make([]membership.Member, 0, len(reqs))
	for _, req := range reqs {
		members = append(members, membership.NewMember(req.Address, req.Weight))
	}

	if err := membership.SaveMembers(api.storage, members...); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	total, err := membership.GetTotalWeight(api.storage)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, map[string]interface{}{
		"total_weight": total,
	})
}
