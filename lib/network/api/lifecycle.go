package api

import (
	"net/http"

	"agora.network/agora/lib/network/api/resource"
	"agora.network/agora/lib/network/httputils"
)

func (api GovernanceHandlerAPI) PostCloseHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := parseProposalID(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := api.engine.Close(id)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, resource.NewProposal(p))
}

func (api GovernanceHandlerAPI) PostExecuteHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := parseProposalID(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := api.engine.Execute(id)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, 200, resource.NewProposal(p))
}
