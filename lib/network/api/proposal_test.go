package api

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/governance"
	"agora.network/agora/lib/membership"
	"agora.network/agora/lib/voting"
)

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &m))
	return m
}

func TestPostProposalHandler(t *testing.T) {
	proposer := testAddress()
	directory := membership.NewFixedDirectory().
		Set(proposer, common.Weight(10)).
		Set(testAddress(), common.Weight(90))
	ts, _ := prepareAPIServer(directory)
	defer ts.Close()

	req := ProposalRequest{
		Proposer: proposer,
		Title:    "raise quota",
		Payload:  json.RawMessage(`{"quota":10}`),
	}
	resp, err := request(ts, "POST", "/proposals", common.MustJSONMarshal(req))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	m := decodeBody(t, resp)
	require.Equal(t, float64(1), m["id"])
	require.Equal(t, string(governance.StatusOpen), m["status"])
	require.Equal(t, proposer, m["proposer"])
}

func TestPostProposalHandlerUnauthorized(t *testing.T) {
	directory := membership.NewFixedDirectory().Set(testAddress(), common.Weight(10))
	ts, _ := prepareAPIServer(directory)
	defer ts.Close()

	req := ProposalRequest{Proposer: testAddress(), Title: "raise quota"}
	resp, err := request(ts, "POST", "/proposals", common.MustJSONMarshal(req))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetProposalHandler(t *testing.T) {
	proposer := testAddress()
	directory := membership.NewFixedDirectory().
		Set(proposer, common.Weight(10)).
		Set(testAddress(), common.Weight(90))
	ts, engine := prepareAPIServer(directory)
	defer ts.Close()

	p, err := engine.Propose(proposer, "raise quota", "", nil, nil)
	require.NoError(t, err)

	resp, err := request(ts, "GET", fmt.Sprintf("/proposals/%d", p.ID), nil)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	m := decodeBody(t, resp)
	require.Equal(t, string(governance.StatusOpen), m["status"])
	require.Equal(t, string(voting.UNDECIDED), m["verdict"])

	resp, err = request(ts, "GET", "/proposals/99", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetProposalsHandlerByStatus(t *testing.T) {
	proposer := testAddress()
	directory := membership.NewFixedDirectory().
		Set(proposer, common.Weight(10)).
		Set(testAddress(), common.Weight(90))
	ts, engine := prepareAPIServer(directory)
	defer ts.Close()

	for i := 0; i < 3; i++ {
		_, err := engine.Propose(proposer, "raise quota", "", nil, nil)
		require.NoError(t, err)
	}

	resp, err := request(ts, "GET", "/proposals?status=open", nil)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	m := decodeBody(t, resp)
	embedded := m["_embedded"].(map[string]interface{})
	records := embedded["records"].([]interface{})
	require.Len(t, records, 3)

	resp, err = request(ts, "GET", "/proposals?status=bogus", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostVoteHandler(t *testing.T) {
	proposer := testAddress()
	voter := testAddress()
	directory := membership.NewFixedDirectory().
		Set(proposer, common.Weight(10)).
		Set(voter, common.Weight(20)).
		Set(testAddress(), common.Weight(70))
	ts, engine := prepareAPIServer(directory)
	defer ts.Close()

	p, err := engine.Propose(proposer, "raise quota", "", nil, nil)
	require.NoError(t, err)

	req := VoteRequest{Voter: voter, Option: "yes"}
	resp, err := request(ts, "POST", fmt.Sprintf("/proposals/%d/votes", p.ID), common.MustJSONMarshal(req))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	m := decodeBody(t, resp)
	require.Equal(t, voter, m["voter"])
	require.Equal(t, "yes", m["option"])
	require.Equal(t, float64(20), m["weight"])

	// a second ballot from the same voter is refused
	resp, err = request(ts, "POST", fmt.Sprintf("/proposals/%d/votes", p.ID), common.MustJSONMarshal(req))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// unknown option
	req = VoteRequest{Voter: voter, Option: "maybe"}
	resp, err = request(ts, "POST", fmt.Sprintf("/proposals/%d/votes", p.ID), common.MustJSONMarshal(req))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetProposalVotesHandler(t *testing.T) {
	proposer := testAddress()
	voter := testAddress()
	directory := membership.NewFixedDirectory().
		Set(proposer, common.Weight(10)).
		Set(voter, common.Weight(20)).
		Set(testAddress(), common.Weight(70))
	ts, engine := prepareAPIServer(directory)
	defer ts.Close()

	p, err := engine.Propose(proposer, "raise quota", "", nil, nil)
	require.NoError(t, err)
	_, _, err = engine.Vote(p.ID, voter, voting.NO)
	require.NoError(t, err)

	resp, err := request(ts, "GET", fmt.Sprintf("/proposals/%d/votes", p.ID), nil)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	m := decodeBody(t, resp)
	embedded := m["_embedded"].(map[string]interface{})
	records := embedded["records"].([]interface{})
	require.Len(t, records, 2)

	resp, err = request(ts, "GET", "/proposals/99/votes", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetVoteHandler(t *testing.T) {
	proposer := testAddress()
	voter := testAddress()
	directory := membership.NewFixedDirectory().
		Set(proposer, common.Weight(10)).
		Set(voter, common.Weight(20)).
		Set(testAddress(), common.Weight(70))
	ts, engine := prepareAPIServer(directory)
	defer ts.Close()

	p, err := engine.Propose(proposer, "raise quota", "", nil, nil)
	require.NoError(t, err)
	_, _, err = engine.Vote(p.ID, voter, voting.VETO)
	require.NoError(t, err)

	resp, err := request(ts, "GET", fmt.Sprintf("/proposals/%d/votes/%s", p.ID, voter), nil)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	m := decodeBody(t, resp)
	require.Equal(t, voter, m["voter"])
	require.Equal(t, string(voting.VETO), m["option"])
	require.Equal(t, float64(20), m["weight"])

	// no ballot from this address
	resp, err = request(ts, "GET", fmt.Sprintf("/proposals/%d/votes/%s", p.ID, testAddress()), nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostCloseAndExecuteHandlers(t *testing.T) {
	proposer := testAddress()
	directory := membership.NewFixedDirectory().Set(proposer, common.Weight(100))
	ts, engine := prepareAPIServer(directory)
	defer ts.Close()

	policy := voting.NewAbsolutePercentagePolicy(common.NewFraction(1, 2))
	p, err := engine.Propose(proposer, "raise quota", "", nil, &policy)
	require.NoError(t, err)
	require.Equal(t, governance.StatusPassed, p.Status)

	// closing a decided proposal is refused
	resp, err := request(ts, "POST", fmt.Sprintf("/proposals/%d/close", p.ID), nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, err = request(ts, "POST", fmt.Sprintf("/proposals/%d/execute", p.ID), nil)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	m := decodeBody(t, resp)
	require.Equal(t, string(governance.StatusExecuted), m["status"])

	// executing twice is refused
	resp, err = request(ts, "POST", fmt.Sprintf("/proposals/%d/execute", p.ID), nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}
