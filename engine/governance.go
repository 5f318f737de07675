// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/builtin"
	"github.com/vestradao/vdao/builtin/governance"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/builtin/vesting"
	"github.com/vestradao/vdao/vdao"
)

// Phase returns the election index and the phase at now.
func (e *Engine) Phase(now uint64) (index uint64, phase governance.Phase, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		index, phase, err = builtin.Governance.With(ctx).Phase(now)
		return err
	})
	return
}

func (e *Engine) Epoch() (epoch governance.Epoch, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		epoch, err = builtin.Governance.With(ctx).Epoch()
		return err
	})
	return
}

func (e *Engine) SetFirstDelegates(caller vdao.Address, delegates []vdao.Address, now uint64) error {
	_, err := e.exec("governance.setFirstDelegates", now, func(ctx *solidity.Context) error {
		return builtin.Governance.With(ctx).SetFirstDelegates(caller, delegates, now)
	})
	return err
}

func (e *Engine) SetVotingPower(caller, account vdao.Address, weight uint64, now uint64) error {
	_, err := e.exec("governance.setVotingPower", now, func(ctx *solidity.Context) error {
		return builtin.Governance.With(ctx).SetVotingPower(caller, account, weight)
	})
	return err
}

func (e *Engine) VotingPower(account vdao.Address) (weight uint64, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		weight, err = builtin.Governance.With(ctx).VotingPower(account)
		return err
	})
	return
}

func (e *Engine) RegisterCandidate(caller vdao.Address, now uint64) (election uint64, err error) {
	_, err = e.exec("governance.registerCandidate", now, func(ctx *solidity.Context) error {
		election, err = builtin.Governance.With(ctx).RegisterCandidate(caller, now)
		return err
	})
	return
}

func (e *Engine) Vote(caller, candidate vdao.Address, now uint64) error {
	_, err := e.exec("governance.vote", now, func(ctx *solidity.Context) error {
		return builtin.Governance.With(ctx).Vote(caller, candidate, now)
	})
	return err
}

func (e *Engine) Candidates(election uint64) (cands []*governance.Candidate, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		cands, err = builtin.Governance.With(ctx).Candidates(election)
		return err
	})
	return
}

func (e *Engine) Delegates(now uint64) (delegates []vdao.Address, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		delegates, err = builtin.Governance.With(ctx).Delegates(now)
		return err
	})
	return
}

func (e *Engine) CreateProposal(caller vdao.Address, title string, now uint64) (id uint64, err error) {
	_, err = e.exec("governance.createProposal", now, func(ctx *solidity.Context) error {
		id, err = builtin.Governance.With(ctx).CreateProposal(caller, title, now)
		return err
	})
	return
}

func (e *Engine) VoteProposal(caller vdao.Address, id uint64, support bool, now uint64) error {
	_, err := e.exec("governance.voteProposal", now, func(ctx *solidity.Context) error {
		return builtin.Governance.With(ctx).VoteProposal(caller, id, support, now)
	})
	return err
}

func (e *Engine) Proposals() (props []*governance.Proposal, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		props, err = builtin.Governance.With(ctx).Proposals()
		return err
	})
	return
}

func (e *Engine) ProposalResult(id uint64, now uint64) (prop *governance.Proposal, status governance.ProposalStatus, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		prop, status, err = builtin.Governance.With(ctx).ProposalResult(id, now)
		return err
	})
	return
}

// CreateDAOCategory opens a DAO bucket funded from the governance custody.
func (e *Engine) CreateDAOCategory(caller vdao.Address, params vesting.CategoryParams, now uint64) (id uint64, err error) {
	_, err = e.exec("governance.createCategory", now, func(ctx *solidity.Context) error {
		id, err = builtin.Governance.With(ctx).CreateCategory(caller, params)
		return err
	})
	return
}

func (e *Engine) ClaimDAOCategory(caller vdao.Address, id uint64, now uint64) (paid *uint256.Int, err error) {
	_, err = e.exec("governance.claimCategory", now, func(ctx *solidity.Context) error {
		paid, err = builtin.Governance.With(ctx).ClaimCategory(caller, id, now)
		return err
	})
	return
}

func (e *Engine) DAOCategories() (cats []*vesting.Category, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		cats, err = builtin.Governance.With(ctx).Ledger().Categories()
		return err
	})
	return
}

func (e *Engine) DAOCategoryClaimable(id uint64, now uint64) (amount *uint256.Int, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		amount, err = builtin.Governance.With(ctx).CategoryClaimable(id, now)
		return err
	})
	return
}
