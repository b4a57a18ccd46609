package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/governance"
	"agora.network/agora/lib/storage"
)

const APIVersionV1 = "v1"

// API Endpoint patterns
const (
	GetProposalsHandlerPattern     = "/proposals"
	PostProposalHandlerPattern     = "/proposals"
	GetProposalHandlerPattern      = "/proposals/{id}"
	GetProposalVotesHandlerPattern = "/proposals/{id}/votes"
	GetVoteHandlerPattern          = "/proposals/{id}/votes/{voter}"
	PostVoteHandlerPattern         = "/proposals/{id}/votes"
	PostCloseHandlerPattern        = "/proposals/{id}/close"
	PostExecuteHandlerPattern      = "/proposals/{id}/execute"
	GetMembersHandlerPattern       = "/members"
	PostMembersHandlerPattern      = "/members"
	GetMemberHandlerPattern        = "/members/{id}"
	GetInfoPattern                 = "/"
)

type GovernanceHandlerAPI struct {
	engine    *governance.Engine
	storage   *storage.LevelDBBackend
	urlPrefix string
	version   string
}

func NewGovernanceHandlerAPI(engine *governance.Engine, storage *storage.LevelDBBackend, urlPrefix string) *GovernanceHandlerAPI {
	return &GovernanceHandlerAPI{
		engine:    engine,
		storage:   storage,
		urlPrefix: urlPrefix,
		version:   APIVersionV1,
	}
}

func (api GovernanceHandlerAPI) HandlerURLPattern(pattern string) string {
	return fmt.Sprintf("%s/%s%s", api.urlPrefix, api.version, pattern)
}

func parseProposalID(r *http.Request) (uint64, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		return 0, errors.BadRequestParameter.Clone().SetData("id", vars["id"])
	}
	return id, nil
}
