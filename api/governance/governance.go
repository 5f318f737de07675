// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/api/restutil"
	"github.com/vestradao/vdao/api/vesting"
	"github.com/vestradao/vdao/engine"
)

type Governance struct {
	eng *engine.Engine
}

func New(eng *engine.Engine) *Governance {
	return &Governance{eng}
}

func (g *Governance) handleGetPhase(w http.ResponseWriter, req *http.Request) error {
	now, err := restutil.Uint64Query(req, "time", g.eng.Now())
	if err != nil {
		return err
	}
	index, phase, err := g.eng.Phase(now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Phase{Election: index, Phase: phase.String(), Time: now})
}

func (g *Governance) handleGetEpoch(w http.ResponseWriter, _ *http.Request) error {
	epoch, err := g.eng.Epoch()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertEpoch(epoch))
}

func (g *Governance) handleGetDelegates(w http.ResponseWriter, req *http.Request) error {
	now, err := restutil.Uint64Query(req, "time", g.eng.Now())
	if err != nil {
		return err
	}
	delegates, err := g.eng.Delegates(now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Delegates{Delegates: delegates})
}

func (g *Governance) handleSetFirstDelegates(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body Delegates
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := g.eng.SetFirstDelegates(caller, body.Delegates, g.eng.Now()); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &body)
}

func (g *Governance) handleGetVotingPower(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	weight, err := g.eng.VotingPower(addr)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &VotingPower{Account: addr, Weight: weight})
}

func (g *Governance) handleSetVotingPower(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	addr, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body SetVotingPower
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := g.eng.SetVotingPower(caller, addr, body.Weight, g.eng.Now()); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &VotingPower{Account: addr, Weight: body.Weight})
}

func (g *Governance) handleRegisterCandidate(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	election, err := g.eng.RegisterCandidate(caller, g.eng.Now())
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Registered{Election: election})
}

func (g *Governance) handleGetCandidates(w http.ResponseWriter, req *http.Request) error {
	election, err := restutil.Uint64Var(req, "election")
	if err != nil {
		return err
	}
	cands, err := g.eng.Candidates(election)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertCandidates(cands))
}

func (g *Governance) handleVote(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body VoteRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := g.eng.Vote(caller, body.Candidate, g.eng.Now()); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &body)
}

func (g *Governance) handleGetProposals(w http.ResponseWriter, req *http.Request) error {
	now, err := restutil.Uint64Query(req, "time", g.eng.Now())
	if err != nil {
		return err
	}
	props, err := g.eng.Proposals()
	if err != nil {
		return err
	}
	out := make([]*Proposal, 0, len(props))
	for _, p := range props {
		out = append(out, convertProposal(p, now))
	}
	return restutil.WriteJSON(w, out)
}

func (g *Governance) handleCreateProposal(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body CreateProposal
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	id, err := g.eng.CreateProposal(caller, body.Title, g.eng.Now())
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Created{ID: id})
}

func (g *Governance) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	now, err := restutil.Uint64Query(req, "time", g.eng.Now())
	if err != nil {
		return err
	}
	prop, _, err := g.eng.ProposalResult(id, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertProposal(prop, now))
}

func (g *Governance) handleVoteProposal(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body ProposalVote
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	now := g.eng.Now()
	if err := g.eng.VoteProposal(caller, id, body.Support, now); err != nil {
		return err
	}
	prop, _, err := g.eng.ProposalResult(id, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertProposal(prop, now))
}

func (g *Governance) handleGetCategories(w http.ResponseWriter, _ *http.Request) error {
	cats, err := g.eng.DAOCategories()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, vesting.ConvertCategories(cats))
}

func (g *Governance) handleCreateCategory(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	var body vesting.CreateCategory
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	id, err := g.eng.CreateDAOCategory(caller, body.Params(), g.eng.Now())
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Created{ID: id})
}

func (g *Governance) handleGetClaimable(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	now, err := restutil.Uint64Query(req, "time", g.eng.Now())
	if err != nil {
		return err
	}
	amount, err := g.eng.DAOCategoryClaimable(id, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Claimable{Category: id, Amount: amount, Time: now})
}

func (g *Governance) handleClaimCategory(w http.ResponseWriter, req *http.Request) error {
	caller, err := restutil.Caller(req)
	if err != nil {
		return err
	}
	id, err := restutil.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	now := g.eng.Now()
	paid, err := g.eng.ClaimDAOCategory(caller, id, now)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &vesting.Claimed{Amount: paid, Time: now})
}

func (g *Governance) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/phase").
		Methods(http.MethodGet).
		Name("GET /governance/phase").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetPhase))
	sub.Path("/epoch").
		Methods(http.MethodGet).
		Name("GET /governance/epoch").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetEpoch))
	sub.Path("/delegates").
		Methods(http.MethodGet).
		Name("GET /governance/delegates").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetDelegates))
	sub.Path("/delegates").
		Methods(http.MethodPut).
		Name("PUT /governance/delegates").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleSetFirstDelegates))
	sub.Path("/power/{address}").
		Methods(http.MethodGet).
		Name("GET /governance/power/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetVotingPower))
	sub.Path("/power/{address}").
		Methods(http.MethodPost).
		Name("POST /governance/power/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleSetVotingPower))
	sub.Path("/candidates").
		Methods(http.MethodPost).
		Name("POST /governance/candidates").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleRegisterCandidate))
	sub.Path("/elections/{election}/candidates").
		Methods(http.MethodGet).
		Name("GET /governance/elections/{election}/candidates").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetCandidates))
	sub.Path("/votes").
		Methods(http.MethodPost).
		Name("POST /governance/votes").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleVote))
	sub.Path("/proposals").
		Methods(http.MethodGet).
		Name("GET /governance/proposals").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetProposals))
	sub.Path("/proposals").
		Methods(http.MethodPost).
		Name("POST /governance/proposals").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleCreateProposal))
	sub.Path("/proposals/{id}").
		Methods(http.MethodGet).
		Name("GET /governance/proposals/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetProposal))
	sub.Path("/proposals/{id}/votes").
		Methods(http.MethodPost).
		Name("POST /governance/proposals/{id}/votes").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleVoteProposal))
	sub.Path("/categories").
		Methods(http.MethodGet).
		Name("GET /governance/categories").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetCategories))
	sub.Path("/categories").
		Methods(http.MethodPost).
		Name("POST /governance/categories").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleCreateCategory))
	sub.Path("/categories/{id}/claimable").
		Methods(http.MethodGet).
		Name("GET /governance/categories/{id}/claimable").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetClaimable))
	sub.Path("/categories/{id}/claim").
		Methods(http.MethodPost).
		Name("POST /governance/categories/{id}/claim").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleClaimCategory))
}
