// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package flexstake pays a daily rate on principal that can be added or withdrawn at any time.
package flexstake

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/log"
	"github.com/vestradao/vdao/vdao"
)

var logger = log.WithContext("pkg", "flexstake")

var (
	slotConfig    = vdao.BytesToBytes32([]byte("flexstake-config"))
	slotPositions = vdao.BytesToBytes32([]byte("positions"))
	slotStaked    = vdao.BytesToBytes32([]byte("total-staked"))
	slotBudget    = vdao.BytesToBytes32([]byte("reward-budget"))
	slotPaid      = vdao.BytesToBytes32([]byte("reward-paid"))
)

var (
	ErrInvalidAmount       = reverts.NewValidation("amount must be positive")
	ErrInvalidParams       = reverts.NewValidation("invalid pool parameters")
	ErrInsufficientStake   = reverts.NewCapacity("amount exceeds staked principal")
	ErrInsufficientCustody = reverts.NewCapacity("custody balance does not cover the reward budget")
	ErrPoolNotLaunched     = reverts.NewTiming("pool not launched")
	ErrStakeLocked         = reverts.NewTiming("stake is still locked")
	ErrAlreadyInitialized  = reverts.NewState("pool already initialized")
	ErrNotInitialized      = reverts.NewState("pool not initialized")
)

// Bank moves tokens in and out of the pool custody.
type Bank interface {
	BalanceOf(addr vdao.Address) (*uint256.Int, error)
	Transfer(from, to vdao.Address, amount *uint256.Int) error
}

// Pool is a flexible staking pool with a fixed reward budget.
type Pool struct {
	sctx      *solidity.Context
	bank      Bank
	config    *solidity.Raw[*config]
	positions *solidity.Mapping[vdao.Address, *Position]
	staked    *solidity.Uint256
	budget    *solidity.Uint256
	paid      *solidity.Uint256
}

func New(sctx *solidity.Context, bank Bank) *Pool {
	return &Pool{
		sctx:      sctx,
		bank:      bank,
		config:    solidity.NewRaw[*config](sctx, slotConfig),
		positions: solidity.NewMapping[vdao.Address, *Position](sctx, slotPositions),
		staked:    solidity.NewUint256(sctx, slotStaked),
		budget:    solidity.NewUint256(sctx, slotBudget),
		paid:      solidity.NewUint256(sctx, slotPaid),
	}
}

// Address returns the custody address of the pool.
func (p *Pool) Address() vdao.Address {
	return p.sctx.Address()
}

// Initialize configures the pool. The custody must already hold the reward budget.
func (p *Pool) Initialize(operator vdao.Address, launch uint64, params Params) error {
	cfg, err := p.config.Get()
	if err != nil {
		return err
	}
	if cfg != nil {
		return ErrAlreadyInitialized
	}
	if params.DailyRatePPM == 0 {
		return errors.WithMessage(ErrInvalidParams, "zero daily rate")
	}
	if params.RewardBudget == nil || params.RewardBudget.IsZero() {
		return errors.WithMessage(ErrInvalidParams, "zero reward budget")
	}
	custody, err := p.bank.BalanceOf(p.Address())
	if err != nil {
		return err
	}
	if custody.Lt(params.RewardBudget) {
		return errors.WithMessagef(ErrInsufficientCustody, "custody %v, budget %v", custody.Dec(), params.RewardBudget.Dec())
	}
	p.budget.Set(params.RewardBudget)
	return p.config.Insert(&config{
		Operator:     operator,
		Launch:       launch,
		DailyRatePPM: params.DailyRatePPM,
		LockPeriod:   params.LockPeriod,
	})
}

func (p *Pool) loadConfig() (*config, error) {
	cfg, err := p.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrNotInitialized
	}
	return cfg, nil
}

// Params returns the configuration of the pool along with the remaining budget.
func (p *Pool) Params() (Params, uint64, error) {
	cfg, err := p.loadConfig()
	if err != nil {
		return Params{}, 0, err
	}
	budget, err := p.budget.Get()
	if err != nil {
		return Params{}, 0, err
	}
	return Params{DailyRatePPM: cfg.DailyRatePPM, LockPeriod: cfg.LockPeriod, RewardBudget: budget}, cfg.Launch, nil
}

func (p *Pool) TotalStaked() (*uint256.Int, error) {
	return p.staked.Get()
}

func (p *Pool) RemainingBudget() (*uint256.Int, error) {
	return p.budget.Get()
}

func (p *Pool) RewardPaid() (*uint256.Int, error) {
	return p.paid.Get()
}

// Exhausted reports whether the whole reward budget has been paid out.
func (p *Pool) Exhausted() (bool, error) {
	budget, err := p.budget.Get()
	if err != nil {
		return false, err
	}
	return budget.IsZero(), nil
}

func (p *Pool) position(account vdao.Address) (*Position, bool, error) {
	pos, err := p.positions.Get(account)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get position")
	}
	if pos == nil {
		return newPosition(), false, nil
	}
	return pos, true, nil
}

// Position returns the stored position of account with its reward grown until now.
func (p *Pool) Position(account vdao.Address, now uint64) (*Position, error) {
	cfg, err := p.loadConfig()
	if err != nil {
		return nil, err
	}
	pos, _, err := p.position(account)
	if err != nil {
		return nil, err
	}
	if err := p.accrue(cfg, pos, now); err != nil {
		return nil, err
	}
	return pos, nil
}

// accrue grows the accumulated reward until now. Time going backwards accrues nothing
// and keeps the last accrual time. Once the budget is gone nothing accrues anymore.
func (p *Pool) accrue(cfg *config, pos *Position, now uint64) error {
	if now <= pos.LastAccrualTime {
		return nil
	}
	exhausted, err := p.Exhausted()
	if err != nil {
		return err
	}
	if !exhausted {
		acc, err := pos.CalcReward(cfg.DailyRatePPM, now)
		if err != nil {
			return err
		}
		pos.AccumulatedReward = acc
	}
	pos.LastAccrualTime = now
	return nil
}

func (p *Pool) save(account vdao.Address, pos *Position, exists bool) error {
	if exists {
		return p.positions.Update(account, pos)
	}
	return p.positions.Insert(account, pos)
}

// Stake adds amount to the principal of account.
func (p *Pool) Stake(account vdao.Address, amount *uint256.Int, now uint64) error {
	cfg, err := p.loadConfig()
	if err != nil {
		return err
	}
	if now < cfg.Launch {
		return ErrPoolNotLaunched
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	pos, exists, err := p.position(account)
	if err != nil {
		return err
	}
	if err := p.accrue(cfg, pos, now); err != nil {
		return err
	}
	if _, overflow := pos.Principal.AddOverflow(pos.Principal, amount); overflow {
		return reverts.ErrOverflow
	}
	pos.LastStakeTime = now
	if err := p.bank.Transfer(account, p.Address(), amount); err != nil {
		return err
	}
	if err := p.staked.Add(amount); err != nil {
		return reverts.ErrOverflow
	}
	if err := p.save(account, pos, exists); err != nil {
		return errors.Wrap(err, "failed to save position")
	}

	logger.Debug("staked", "account", account, "amount", amount)
	p.sctx.Emit(&solidity.Event{Name: "Staked", Account: account, Amount: amount})
	return nil
}

// Unstake withdraws amount of principal. Accrued reward stays claimable.
func (p *Pool) Unstake(account vdao.Address, amount *uint256.Int, now uint64) error {
	cfg, err := p.loadConfig()
	if err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	pos, exists, err := p.position(account)
	if err != nil {
		return err
	}
	if pos.Principal.Lt(amount) {
		return errors.WithMessagef(ErrInsufficientStake, "staked %v", pos.Principal.Dec())
	}
	if cfg.LockPeriod > 0 && now < pos.UnlockTime(cfg.LockPeriod) {
		return errors.WithMessagef(ErrStakeLocked, "until %d", pos.UnlockTime(cfg.LockPeriod))
	}
	if err := p.accrue(cfg, pos, now); err != nil {
		return err
	}
	pos.Principal.Sub(pos.Principal, amount)
	if err := p.staked.Sub(amount); err != nil {
		return errors.Wrap(err, "failed to update total stake")
	}
	if err := p.save(account, pos, exists); err != nil {
		return errors.Wrap(err, "failed to save position")
	}
	if err := p.bank.Transfer(p.Address(), account, amount); err != nil {
		return err
	}

	logger.Debug("unstaked", "account", account, "amount", amount)
	p.sctx.Emit(&solidity.Event{Name: "Unstaked", Account: account, Amount: amount})
	return nil
}

// ClaimReward pays out the accumulated reward, bounded by the remaining budget.
func (p *Pool) ClaimReward(account vdao.Address, now uint64) (*uint256.Int, error) {
	cfg, err := p.loadConfig()
	if err != nil {
		return nil, err
	}
	pos, exists, err := p.position(account)
	if err != nil {
		return nil, err
	}
	if err := p.accrue(cfg, pos, now); err != nil {
		return nil, err
	}
	budget, err := p.budget.Get()
	if err != nil {
		return nil, err
	}
	amount := new(uint256.Int).Set(pos.AccumulatedReward)
	if amount.Gt(budget) {
		amount.Set(budget)
	}
	pos.AccumulatedReward.Sub(pos.AccumulatedReward, amount)
	if exists || !pos.AccumulatedReward.IsZero() {
		if err := p.save(account, pos, exists); err != nil {
			return nil, errors.Wrap(err, "failed to save position")
		}
	}
	if amount.IsZero() {
		return amount, nil
	}

	p.budget.Set(budget.Sub(budget, amount))
	if err := p.paid.Add(amount); err != nil {
		return nil, reverts.ErrOverflow
	}
	if err := p.bank.Transfer(p.Address(), account, amount); err != nil {
		return nil, err
	}
	if budget.IsZero() {
		logger.Info("reward budget exhausted", "pool", p.Address())
	}

	logger.Debug("reward claimed", "account", account, "amount", amount)
	p.sctx.Emit(&solidity.Event{Name: "RewardClaimed", Account: account, Amount: amount})
	return amount, nil
}
