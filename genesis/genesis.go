// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis turns a deployment config into the initial engine state.
package genesis

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin"
	"github.com/vestradao/vdao/builtin/flexstake"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/builtin/vesting"
	"github.com/vestradao/vdao/engine"
)

// Builder converts the config into deployment scripts.
func (c *Config) Builder() (*Builder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cust, err := c.custody()
	if err != nil {
		return nil, err
	}
	policy, err := vesting.ParsePolicy(c.Vesting.Policy)
	if err != nil {
		return nil, err
	}

	b := new(Builder).Timestamp(c.DeployTime)

	b.Script("token", builtin.Token.Contract, func(ctx *solidity.Context) error {
		return builtin.Token.With(ctx).Initialize(c.Operator, c.TotalSupply.Int())
	})

	b.Script("vesting", builtin.Vesting.Contract, func(ctx *solidity.Context) error {
		if err := builtin.Token.With(ctx).Transfer(c.Operator, builtin.Vesting.Address, cust.vesting); err != nil {
			return err
		}
		ledger := builtin.Vesting.With(ctx)
		if err := ledger.Initialize(c.Operator, c.LaunchTime, policy); err != nil {
			return err
		}
		for i := range c.Vesting.Categories {
			if _, err := ledger.CreateCategory(c.Operator, c.Vesting.Categories[i].params()); err != nil {
				return errors.WithMessagef(err, "category %q", c.Vesting.Categories[i].Name)
			}
		}
		return nil
	})

	b.Script("lockstake", builtin.LockStake.Contract, func(ctx *solidity.Context) error {
		if err := builtin.Token.With(ctx).Transfer(c.Operator, builtin.LockStake.Address, cust.lockStake); err != nil {
			return err
		}
		pool := builtin.LockStake.With(ctx)
		if err := pool.Initialize(c.Operator, c.LaunchTime); err != nil {
			return err
		}
		for i := range c.LockStake.Tiers {
			if _, err := pool.CreateMaturityStake(c.Operator, c.LockStake.Tiers[i].params()); err != nil {
				return errors.WithMessagef(err, "tier %q", c.LockStake.Tiers[i].Name)
			}
		}
		return nil
	})

	for i := range c.Flexible {
		f := c.Flexible[i]
		contract, _ := builtin.FlexPool(f.Name)
		b.Script(f.Name, contract.Contract, func(ctx *solidity.Context) error {
			if err := builtin.Token.With(ctx).Transfer(c.Operator, contract.Address, cust.flexible[f.Name]); err != nil {
				return err
			}
			return contract.With(ctx).Initialize(c.Operator, c.LaunchTime, flexstake.Params{
				DailyRatePPM: f.DailyRatePPM,
				LockPeriod:   f.LockPeriod,
				RewardBudget: f.RewardBudget.Int(),
			})
		})
	}

	b.Script("governance", builtin.Governance.Contract, func(ctx *solidity.Context) error {
		if err := builtin.Token.With(ctx).Transfer(c.Operator, builtin.Governance.Address, cust.dao); err != nil {
			return err
		}
		gov := builtin.Governance.With(ctx)
		if err := gov.Initialize(c.Operator, c.Treasury, c.DAO.epoch(c.LaunchTime), c.DAO.Seats); err != nil {
			return err
		}
		if len(c.DAO.FirstDelegates) > 0 {
			if err := gov.SetFirstDelegates(c.Operator, c.DAO.FirstDelegates, c.DeployTime); err != nil {
				return err
			}
		}
		for i := range c.DAO.Categories {
			if _, err := gov.CreateCategory(c.Operator, c.DAO.Categories[i].params()); err != nil {
				return errors.WithMessagef(err, "dao category %q", c.DAO.Categories[i].Name)
			}
		}
		return nil
	})

	if len(c.Allocations) > 0 {
		b.Script("allocations", nil, func(ctx *solidity.Context) error {
			ledger := builtin.Vesting.With(ctx)
			for _, a := range c.Allocations {
				cat, err := ledger.CategoryByName(a.Category)
				if err != nil {
					return errors.WithMessagef(err, "allocation to %v", a.Account)
				}
				if err := ledger.Allocate(c.Operator, cat.ID, a.Account, a.Amount.Int()); err != nil {
					return errors.WithMessagef(err, "allocation to %v", a.Account)
				}
			}
			return nil
		})
	}
	return b, nil
}

// Build applies the config to eng and records the deployment under network.
func Build(ctx context.Context, eng *engine.Engine, cfg *Config, network string) (*Result, error) {
	b, err := cfg.Builder()
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, eng, network)
}
