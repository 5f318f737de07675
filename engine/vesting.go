// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/builtin"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/builtin/vesting"
	"github.com/vestradao/vdao/vdao"
)

func (e *Engine) CreateCategory(caller vdao.Address, params vesting.CategoryParams, now uint64) (id uint64, err error) {
	_, err = e.exec("vesting.createCategory", now, func(ctx *solidity.Context) error {
		id, err = builtin.Vesting.With(ctx).CreateCategory(caller, params)
		return err
	})
	return
}

func (e *Engine) Allocate(caller vdao.Address, category uint64, account vdao.Address, amount *uint256.Int, now uint64) error {
	_, err := e.exec("vesting.allocate", now, func(ctx *solidity.Context) error {
		return builtin.Vesting.With(ctx).Allocate(caller, category, account, amount)
	})
	return err
}

// Claim pays caller whatever vested in category and was not yet claimed.
func (e *Engine) Claim(caller vdao.Address, category uint64, now uint64) (paid *uint256.Int, err error) {
	_, err = e.exec("vesting.claim", now, func(ctx *solidity.Context) error {
		paid, err = builtin.Vesting.With(ctx).Claim(caller, category, now)
		return err
	})
	return
}

func (e *Engine) Claimable(account vdao.Address, category uint64, now uint64) (amount *uint256.Int, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		amount, err = builtin.Vesting.With(ctx).Claimable(account, category, now)
		return err
	})
	return
}

func (e *Engine) Category(id uint64) (cat *vesting.Category, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		cat, err = builtin.Vesting.With(ctx).Category(id)
		return err
	})
	return
}

func (e *Engine) Categories() (cats []*vesting.Category, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		cats, err = builtin.Vesting.With(ctx).Categories()
		return err
	})
	return
}

func (e *Engine) Allocation(account vdao.Address, category uint64) (alloc *vesting.Allocation, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		alloc, err = builtin.Vesting.With(ctx).Allocation(account, category)
		return err
	})
	return
}

func (e *Engine) AllocationsOf(account vdao.Address) (allocs []*vesting.Allocation, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		allocs, err = builtin.Vesting.With(ctx).AllocationsOf(account)
		return err
	})
	return
}

// VestingPolicy returns the rounding policy the ledger was initialized with.
func (e *Engine) VestingPolicy() (policy vesting.Policy, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		policy, err = builtin.Vesting.With(ctx).Policy()
		return err
	})
	return
}

func (e *Engine) Balance(account vdao.Address) (bal *uint256.Int, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		bal, err = builtin.Token.With(ctx).BalanceOf(account)
		return err
	})
	return
}

func (e *Engine) TotalSupply() (supply *uint256.Int, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		supply, err = builtin.Token.With(ctx).TotalSupply()
		return err
	})
	return
}

// Transfer moves caller's own tokens.
func (e *Engine) Transfer(caller, to vdao.Address, amount *uint256.Int, now uint64) error {
	_, err := e.exec("token.transfer", now, func(ctx *solidity.Context) error {
		return builtin.Token.With(ctx).Transfer(caller, to, amount)
	})
	return err
}
