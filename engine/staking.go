// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin"
	"github.com/vestradao/vdao/builtin/flexstake"
	"github.com/vestradao/vdao/builtin/lockstake"
	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/vdao"
)

// ErrUnknownPool is returned for a flexible pool name that is not deployed.
var ErrUnknownPool = reverts.NewValidation("unknown flexible pool")

func (e *Engine) CreateMaturityStake(caller vdao.Address, params lockstake.TierParams, now uint64) (id uint64, err error) {
	_, err = e.exec("lockstake.createMaturityStake", now, func(ctx *solidity.Context) error {
		id, err = builtin.LockStake.With(ctx).CreateMaturityStake(caller, params)
		return err
	})
	return
}

func (e *Engine) Stake(caller vdao.Address, tier uint64, amount *uint256.Int, now uint64) (id uint64, err error) {
	_, err = e.exec("lockstake.stake", now, func(ctx *solidity.Context) error {
		id, err = builtin.LockStake.With(ctx).Stake(caller, tier, amount, now)
		return err
	})
	return
}

func (e *Engine) Unstake(caller vdao.Address, stake uint64, now uint64) (payout *lockstake.Payout, err error) {
	_, err = e.exec("lockstake.unstake", now, func(ctx *solidity.Context) error {
		payout, err = builtin.LockStake.With(ctx).Unstake(caller, stake, now)
		return err
	})
	return
}

func (e *Engine) PendingReward(stake uint64, now uint64) (amount *uint256.Int, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		amount, err = builtin.LockStake.With(ctx).PendingReward(stake, now)
		return err
	})
	return
}

func (e *Engine) Tiers() (tiers []*lockstake.Tier, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		tiers, err = builtin.LockStake.With(ctx).Tiers()
		return err
	})
	return
}

func (e *Engine) Tier(id uint64) (tier *lockstake.Tier, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		tier, err = builtin.LockStake.With(ctx).Tier(id)
		return err
	})
	return
}

func (e *Engine) TierByMaturity(months uint64) (tier *lockstake.Tier, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		tier, err = builtin.LockStake.With(ctx).TierByMaturity(months)
		return err
	})
	return
}

func (e *Engine) GetStake(id uint64) (stake *lockstake.Stake, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		stake, err = builtin.LockStake.With(ctx).GetStake(id)
		return err
	})
	return
}

func (e *Engine) StakesOf(account vdao.Address) (stakes []*lockstake.Stake, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		stakes, err = builtin.LockStake.With(ctx).StakesOf(account)
		return err
	})
	return
}

func flexPool(ctx *solidity.Context, name string) (*flexstake.Pool, error) {
	c, ok := builtin.FlexPool(name)
	if !ok {
		return nil, errors.WithMessage(ErrUnknownPool, name)
	}
	return c.With(ctx), nil
}

func (e *Engine) FlexStake(pool string, caller vdao.Address, amount *uint256.Int, now uint64) error {
	_, err := e.exec(pool+".stake", now, func(ctx *solidity.Context) error {
		p, err := flexPool(ctx, pool)
		if err != nil {
			return err
		}
		return p.Stake(caller, amount, now)
	})
	return err
}

func (e *Engine) FlexUnstake(pool string, caller vdao.Address, amount *uint256.Int, now uint64) error {
	_, err := e.exec(pool+".unstake", now, func(ctx *solidity.Context) error {
		p, err := flexPool(ctx, pool)
		if err != nil {
			return err
		}
		return p.Unstake(caller, amount, now)
	})
	return err
}

func (e *Engine) FlexClaimReward(pool string, caller vdao.Address, now uint64) (paid *uint256.Int, err error) {
	_, err = e.exec(pool+".claimReward", now, func(ctx *solidity.Context) error {
		p, err := flexPool(ctx, pool)
		if err != nil {
			return err
		}
		paid, err = p.ClaimReward(caller, now)
		return err
	})
	return
}

func (e *Engine) FlexPosition(pool string, account vdao.Address, now uint64) (pos *flexstake.Position, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		p, err := flexPool(ctx, pool)
		if err != nil {
			return err
		}
		pos, err = p.Position(account, now)
		return err
	})
	return
}

// FlexPoolInfo summarizes a flexible pool.
type FlexPoolInfo struct {
	Name            string
	Address         vdao.Address
	Launch          uint64
	Params          flexstake.Params
	TotalStaked     *uint256.Int
	RemainingBudget *uint256.Int
	RewardPaid      *uint256.Int
	Exhausted       bool
}

func (e *Engine) FlexPool(pool string) (info *FlexPoolInfo, err error) {
	err = e.view(func(ctx *solidity.Context) error {
		p, err := flexPool(ctx, pool)
		if err != nil {
			return err
		}
		info = &FlexPoolInfo{Name: pool, Address: p.Address()}
		if info.Params, info.Launch, err = p.Params(); err != nil {
			return err
		}
		if info.TotalStaked, err = p.TotalStaked(); err != nil {
			return err
		}
		if info.RemainingBudget, err = p.RemainingBudget(); err != nil {
			return err
		}
		if info.RewardPaid, err = p.RewardPaid(); err != nil {
			return err
		}
		info.Exhausted, err = p.Exhausted()
		return err
	})
	return
}
