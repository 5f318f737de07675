// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/vdao"
)

const maxTitleLength = 256

// CreateProposal opens a proposal that delegates can vote on for the proposal voting window.
func (g *Governance) CreateProposal(caller vdao.Address, title string, now uint64) (uint64, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return 0, err
	}
	if title == "" || len(title) > maxTitleLength {
		return 0, errors.WithMessage(ErrInvalidProposal, "title must be 1 to 256 bytes")
	}
	if err := g.requireDelegate(caller, now); err != nil {
		return 0, err
	}
	deadline, overflow := vdao.AddTime(now, cfg.Epoch.ProposalVotingWindow)
	if overflow {
		return 0, reverts.ErrOverflow
	}
	id, err := g.proposalCounter.Next()
	if err != nil {
		return 0, err
	}
	body := &proposalBody{
		Proposer: caller,
		Title:    title,
		Created:  now,
		Deadline: deadline,
	}
	if err := g.proposals.Insert(solidity.Uint64(id), body); err != nil {
		return 0, errors.Wrap(err, "failed to set proposal")
	}

	logger.Debug("proposal created", "id", id, "proposer", caller, "deadline", deadline)
	g.sctx.Emit(&solidity.Event{Name: "ProposalCreated", Account: caller, Ref: id})
	return id, nil
}

// Proposal returns the proposal with the given id.
func (g *Governance) Proposal(id uint64) (*Proposal, error) {
	body, err := g.proposals.Get(solidity.Uint64(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get proposal")
	}
	if body == nil {
		return nil, errors.WithMessagef(ErrProposalNotFound, "id %d", id)
	}
	return &Proposal{ID: id, proposalBody: body}, nil
}

// Proposals returns every proposal in creation order.
func (g *Governance) Proposals() ([]*Proposal, error) {
	count, err := g.proposalCounter.Current()
	if err != nil {
		return nil, err
	}
	list := make([]*Proposal, 0, count)
	for id := uint64(1); id <= count; id++ {
		p, err := g.Proposal(id)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

// VoteProposal records the vote of a delegate while the proposal is open.
func (g *Governance) VoteProposal(caller vdao.Address, id uint64, support bool, now uint64) error {
	p, err := g.Proposal(id)
	if err != nil {
		return err
	}
	if now < p.Created || now >= p.Deadline {
		return errors.WithMessagef(ErrProposalClosed, "proposal %d open until %d", id, p.Deadline)
	}
	if err := g.requireDelegate(caller, now); err != nil {
		return err
	}
	key := proposalBallotKey(id, caller)
	voted, err := g.proposalBallots.Get(key)
	if err != nil {
		return err
	}
	if voted {
		return ErrAlreadyVoted
	}
	if support {
		p.Yes++
	} else {
		p.No++
	}
	if err := g.proposals.Update(solidity.Uint64(id), p.proposalBody); err != nil {
		return errors.Wrap(err, "failed to update proposal")
	}
	if err := g.proposalBallots.Insert(key, true); err != nil {
		return errors.Wrap(err, "failed to record ballot")
	}

	name := "ProposalOpposed"
	if support {
		name = "ProposalSupported"
	}
	g.sctx.Emit(&solidity.Event{Name: name, Account: caller, Ref: id})
	return nil
}

// ProposalResult returns the proposal and its status at now.
func (g *Governance) ProposalResult(id uint64, now uint64) (*Proposal, ProposalStatus, error) {
	p, err := g.Proposal(id)
	if err != nil {
		return nil, ProposalOpen, err
	}
	return p, p.Status(now), nil
}
