// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/holiman/uint256"

	dao "github.com/vestradao/vdao/builtin/governance"
	"github.com/vestradao/vdao/vdao"
)

type Phase struct {
	Election uint64 `json:"election"`
	Phase    string `json:"phase"`
	Time     uint64 `json:"time"`
}

type Epoch struct {
	LaunchTime           uint64 `json:"launchTime"`
	ElectionPeriod       uint64 `json:"electionPeriod"`
	CandidacyWindow      uint64 `json:"candidacyWindow"`
	VotingWindow         uint64 `json:"votingWindow"`
	ProposalVotingWindow uint64 `json:"proposalVotingWindow"`
}

func convertEpoch(e dao.Epoch) *Epoch {
	return &Epoch{
		LaunchTime:           e.LaunchTime,
		ElectionPeriod:       e.ElectionPeriod,
		CandidacyWindow:      e.CandidacyWindow,
		VotingWindow:         e.VotingWindow,
		ProposalVotingWindow: e.ProposalVotingWindow,
	}
}

type Delegates struct {
	Delegates []vdao.Address `json:"delegates"`
}

type VotingPower struct {
	Account vdao.Address `json:"account"`
	Weight  uint64       `json:"weight"`
}

type SetVotingPower struct {
	Weight uint64 `json:"weight"`
}

type Registered struct {
	Election uint64 `json:"election"`
}

type Candidate struct {
	Account vdao.Address `json:"account"`
	Order   uint64       `json:"order"`
	Votes   uint64       `json:"votes"`
}

func convertCandidates(cands []*dao.Candidate) []*Candidate {
	out := make([]*Candidate, 0, len(cands))
	for _, c := range cands {
		out = append(out, &Candidate{Account: c.Account, Order: c.Order, Votes: c.Votes})
	}
	return out
}

type VoteRequest struct {
	Candidate vdao.Address `json:"candidate"`
}

type CreateProposal struct {
	Title string `json:"title"`
}

type Created struct {
	ID uint64 `json:"id"`
}

type ProposalVote struct {
	Support bool `json:"support"`
}

type Proposal struct {
	ID       uint64       `json:"id"`
	Proposer vdao.Address `json:"proposer"`
	Title    string       `json:"title"`
	Created  uint64       `json:"created"`
	Deadline uint64       `json:"deadline"`
	Yes      uint64       `json:"yes"`
	No       uint64       `json:"no"`
	Status   string       `json:"status"`
}

func convertProposal(p *dao.Proposal, now uint64) *Proposal {
	return &Proposal{
		ID:       p.ID,
		Proposer: p.Proposer,
		Title:    p.Title,
		Created:  p.Created,
		Deadline: p.Deadline,
		Yes:      p.Yes,
		No:       p.No,
		Status:   p.Status(now).String(),
	}
}

type Claimable struct {
	Category uint64       `json:"category"`
	Amount   *uint256.Int `json:"amount"`
	Time     uint64       `json:"time"`
}
