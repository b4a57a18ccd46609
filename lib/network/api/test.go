// Provides utilities to use in test code
package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/common/keypair"
	"agora.network/agora/lib/governance"
	"agora.network/agora/lib/membership"
	"agora.network/agora/lib/storage"
)

func prepareAPIServer(directory membership.Directory) (*httptest.Server, *governance.Engine) {
	st, err := storage.NewTestMemoryLevelDBBackend()
	if err != nil {
		panic(err)
	}

	engine := governance.NewEngine(st, directory, governance.NopDispatcher{}, common.NewConfig())
	apiHandler := NewGovernanceHandlerAPI(engine, st, "/api")

	router := mux.NewRouter()
	router.HandleFunc(GetProposalsHandlerPattern, apiHandler.GetProposalsHandler).Methods("GET")
	router.HandleFunc(PostProposalHandlerPattern, apiHandler.PostProposalHandler).Methods("POST")
	router.HandleFunc(GetProposalHandlerPattern, apiHandler.GetProposalHandler).Methods("GET")
	router.HandleFunc(GetProposalVotesHandlerPattern, apiHandler.GetProposalVotesHandler).Methods("GET")
	router.HandleFunc(GetVoteHandlerPattern, apiHandler.GetVoteHandler).Methods("GET")
	router.HandleFunc(PostVoteHandlerPattern, apiHandler.PostVoteHandler).Methods("POST")
	router.HandleFunc(PostCloseHandlerPattern, apiHandler.PostCloseHandler).Methods("POST")
	router.HandleFunc(PostExecuteHandlerPattern, apiHandler.PostExecuteHandler).Methods("POST")
	router.HandleFunc(GetMembersHandlerPattern, apiHandler.GetMembersHandler).Methods("GET")
	router.HandleFunc(PostMembersHandlerPattern, apiHandler.PostMembersHandler).Methods("POST")
	router.HandleFunc(GetMemberHandlerPattern, apiHandler.GetMemberHandler).Methods("GET")

	ts := httptest.NewServer(router)
	return ts, engine
}

func testAddress() string {
	return keypair.Random().Address()
}

func request(ts *httptest.Server, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+url, reader)
	if err != nil {
		return nil, err
	}
	return ts.Client().Do(req)
}
