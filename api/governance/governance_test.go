// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/api/governance"
	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/api/vesting"
	"github.com/vestradao/vdao/test/datagen"
	"github.com/vestradao/vdao/test/testengine"
	"github.com/vestradao/vdao/vdao"
)

func initGovernanceServer(t *testing.T) (*testengine.Engine, *httptest.Server) {
	eng, err := testengine.NewDefault()
	require.NoError(t, err)

	router := mux.NewRouter()
	governance.New(eng.Engine).Mount(router, "/governance")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		eng.Close()
	})
	return eng, ts
}

func TestPhaseAndDelegates(t *testing.T) {
	eng, ts := initGovernanceServer(t)

	res, code := httpGet(t, ts.URL+"/governance/phase")
	require.Equal(t, http.StatusOK, code, string(res))
	var phase governance.Phase
	require.NoError(t, json.Unmarshal(res, &phase))
	assert.Equal(t, governance.Phase{Election: 0, Phase: "candidacy", Time: eng.Config.LaunchTime}, phase)

	res, code = httpGet(t, fmt.Sprintf("%s/governance/phase?time=%d", ts.URL, eng.Config.LaunchTime-1))
	require.Equal(t, http.StatusOK, code, string(res))
	require.NoError(t, json.Unmarshal(res, &phase))
	assert.Equal(t, "idle", phase.Phase)

	res, code = httpGet(t, ts.URL+"/governance/epoch")
	require.Equal(t, http.StatusOK, code, string(res))
	var epoch governance.Epoch
	require.NoError(t, json.Unmarshal(res, &epoch))
	assert.Equal(t, eng.Config.LaunchTime, epoch.LaunchTime)
	assert.Equal(t, 10*vdao.DaySeconds, epoch.CandidacyWindow)

	res, code = httpGet(t, ts.URL+"/governance/delegates")
	require.Equal(t, http.StatusOK, code, string(res))
	var delegates governance.Delegates
	require.NoError(t, json.Unmarshal(res, &delegates))
	require.Len(t, delegates.Delegates, 7)
	assert.Equal(t, eng.Operator(), delegates.Delegates[0])

	body := &governance.Delegates{Delegates: []vdao.Address{datagen.RandAddress()}}
	_, code = httpDo(t, http.MethodPut, ts.URL+"/governance/delegates", datagen.RandAddress(), body)
	assert.Equal(t, http.StatusForbidden, code)
	_, code = httpDo(t, http.MethodPut, ts.URL+"/governance/delegates", eng.Operator(), body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestElection(t *testing.T) {
	eng, ts := initGovernanceServer(t)
	alice, bob, carol := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()

	res, code := httpDo(t, http.MethodPost, ts.URL+"/governance/power/"+alice.String(), eng.Operator(), &governance.SetVotingPower{Weight: 5})
	require.Equal(t, http.StatusOK, code, string(res))
	_, code = httpDo(t, http.MethodPost, ts.URL+"/governance/power/"+alice.String(), alice, &governance.SetVotingPower{Weight: 50})
	assert.Equal(t, http.StatusForbidden, code)

	res, code = httpGet(t, ts.URL+"/governance/power/"+alice.String())
	require.Equal(t, http.StatusOK, code, string(res))
	var power governance.VotingPower
	require.NoError(t, json.Unmarshal(res, &power))
	assert.Equal(t, uint64(5), power.Weight)

	res, code = httpDo(t, http.MethodPost, ts.URL+"/governance/candidates", bob, nil)
	require.Equal(t, http.StatusOK, code, string(res))
	var reg governance.Registered
	require.NoError(t, json.Unmarshal(res, &reg))
	assert.Equal(t, uint64(0), reg.Election)
	_, code = httpDo(t, http.MethodPost, ts.URL+"/governance/candidates", bob, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	_, code = httpDo(t, http.MethodPost, ts.URL+"/governance/votes", alice, &governance.VoteRequest{Candidate: bob})
	assert.Equal(t, http.StatusTooEarly, code)

	eng.Clock.Advance(10 * vdao.DaySeconds)
	res, code = httpDo(t, http.MethodPost, ts.URL+"/governance/votes", alice, &governance.VoteRequest{Candidate: bob})
	require.Equal(t, http.StatusOK, code, string(res))
	_, code = httpDo(t, http.MethodPost, ts.URL+"/governance/votes", carol, &governance.VoteRequest{Candidate: carol})
	assert.Equal(t, http.StatusBadRequest, code)

	res, code = httpGet(t, ts.URL+"/governance/elections/0/candidates")
	require.Equal(t, http.StatusOK, code, string(res))
	var cands []*governance.Candidate
	require.NoError(t, json.Unmarshal(res, &cands))
	require.Len(t, cands, 1)
	assert.Equal(t, bob, cands[0].Account)
	assert.Equal(t, uint64(5), cands[0].Votes)

	settled := eng.Config.LaunchTime + 20*vdao.DaySeconds
	res, code = httpGet(t, fmt.Sprintf("%s/governance/delegates?time=%d", ts.URL, settled))
	require.Equal(t, http.StatusOK, code, string(res))
	var delegates governance.Delegates
	require.NoError(t, json.Unmarshal(res, &delegates))
	assert.Equal(t, []vdao.Address{bob}, delegates.Delegates)
}

func TestProposals(t *testing.T) {
	eng, ts := initGovernanceServer(t)
	outsider := datagen.RandAddress()

	_, code := httpDo(t, http.MethodPost, ts.URL+"/governance/proposals", outsider, &governance.CreateProposal{Title: "Fund marketing"})
	assert.Equal(t, http.StatusForbidden, code)
	_, code = httpDo(t, http.MethodPost, ts.URL+"/governance/proposals", eng.Operator(), &governance.CreateProposal{})
	assert.Equal(t, http.StatusBadRequest, code)

	res, code := httpDo(t, http.MethodPost, ts.URL+"/governance/proposals", eng.Operator(), &governance.CreateProposal{Title: "Fund marketing"})
	require.Equal(t, http.StatusOK, code, string(res))
	var created governance.Created
	require.NoError(t, json.Unmarshal(res, &created))
	assert.Equal(t, uint64(1), created.ID)

	res, code = httpDo(t, http.MethodPost, ts.URL+"/governance/proposals/1/votes", eng.Operator(), &governance.ProposalVote{Support: true})
	require.Equal(t, http.StatusOK, code, string(res))
	var prop governance.Proposal
	require.NoError(t, json.Unmarshal(res, &prop))
	assert.Equal(t, uint64(1), prop.Yes)
	assert.Equal(t, "open", prop.Status)

	_, code = httpDo(t, http.MethodPost, ts.URL+"/governance/proposals/1/votes", eng.Operator(), &governance.ProposalVote{Support: false})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	res, code = httpGet(t, fmt.Sprintf("%s/governance/proposals/1?time=%d", ts.URL, prop.Deadline))
	require.Equal(t, http.StatusOK, code, string(res))
	require.NoError(t, json.Unmarshal(res, &prop))
	assert.Equal(t, "passed", prop.Status)

	res, code = httpGet(t, ts.URL+"/governance/proposals")
	require.Equal(t, http.StatusOK, code, string(res))
	var props []*governance.Proposal
	require.NoError(t, json.Unmarshal(res, &props))
	require.Len(t, props, 1)
	assert.Equal(t, "Fund marketing", props[0].Title)

	eng.Clock.Set(prop.Deadline)
	_, code = httpDo(t, http.MethodPost, ts.URL+"/governance/proposals/1/votes", eng.Config.DAO.FirstDelegates[1], &governance.ProposalVote{Support: false})
	assert.Equal(t, http.StatusTooEarly, code)
}

func TestDAOCategories(t *testing.T) {
	eng, ts := initGovernanceServer(t)

	res, code := httpGet(t, ts.URL+"/governance/categories")
	require.Equal(t, http.StatusOK, code, string(res))
	var cats []*vesting.Category
	require.NoError(t, json.Unmarshal(res, &cats))
	require.Len(t, cats, 11)
	assert.Equal(t, "GameFi", cats[0].Name)

	res, code = httpGet(t, ts.URL+"/governance/categories/1/claimable")
	require.Equal(t, http.StatusOK, code, string(res))
	var claimable governance.Claimable
	require.NoError(t, json.Unmarshal(res, &claimable))
	assert.Equal(t, vdao.Tokens(225_000_000), claimable.Amount)

	_, code = httpDo(t, http.MethodPost, ts.URL+"/governance/categories/1/claim", datagen.RandAddress(), nil)
	assert.Equal(t, http.StatusForbidden, code)

	res, code = httpDo(t, http.MethodPost, ts.URL+"/governance/categories/1/claim", eng.Operator(), nil)
	require.Equal(t, http.StatusOK, code, string(res))
	var claimed vesting.Claimed
	require.NoError(t, json.Unmarshal(res, &claimed))
	assert.Equal(t, vdao.Tokens(225_000_000), claimed.Amount)

	bal, err := eng.Balance(eng.Config.Treasury)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(225_000_000), bal)

	create := &vesting.CreateCategory{Name: "Grants", TotalAmount: vdao.Tokens(1), Schedule: vesting.Schedule{TGEPerMille: 1000, PeriodDuration: 1}}
	_, code = httpDo(t, http.MethodPost, ts.URL+"/governance/categories", datagen.RandAddress(), create)
	assert.Equal(t, http.StatusForbidden, code)
	_, code = httpDo(t, http.MethodPost, ts.URL+"/governance/categories", eng.Operator(), create)
	assert.Equal(t, http.StatusConflict, code)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func httpDo(t *testing.T, method, url string, caller vdao.Address, body any) ([]byte, int) {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(restutil.CallerHeader, caller.String())
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
