// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lockstake locks principal in maturity tiers that pay a fixed APR at maturity.
package lockstake

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/log"
	"github.com/vestradao/vdao/vdao"
)

var logger = log.WithContext("pkg", "lockstake")

var (
	slotConfig        = vdao.BytesToBytes32([]byte("lockstake-config"))
	slotTiers         = vdao.BytesToBytes32([]byte("tiers"))
	slotTiersCounter  = vdao.BytesToBytes32([]byte("tiers-counter"))
	slotMaturities    = vdao.BytesToBytes32([]byte("tier-maturities"))
	slotStakes        = vdao.BytesToBytes32([]byte("stakes"))
	slotStakesCounter = vdao.BytesToBytes32([]byte("stakes-counter"))
	slotAccountStaked = vdao.BytesToBytes32([]byte("account-staked"))
	slotAccountCount  = vdao.BytesToBytes32([]byte("account-stake-count"))
	slotAccountStakes = vdao.BytesToBytes32([]byte("account-stakes"))
	slotReserved      = vdao.BytesToBytes32([]byte("reserved"))
)

var (
	ErrInvalidTier         = reverts.NewValidation("invalid tier")
	ErrTierCapacityInvalid = reverts.NewValidation("tier total cap below per-account cap")
	ErrDuplicateTier       = reverts.NewValidation("maturity already has a tier")
	ErrTierNotFound        = reverts.NewValidation("tier not found")
	ErrInvalidAmount       = reverts.NewValidation("amount must be positive")
	ErrStakeNotFound       = reverts.NewValidation("stake not found")
	ErrNotStakeOwner       = reverts.NewPermission("caller does not own the stake")
	ErrAccountCapExceeded  = reverts.NewCapacity("account cap exceeded")
	ErrTierCapExceeded     = reverts.NewCapacity("tier cap exceeded")
	ErrInsufficientCustody = reverts.NewCapacity("custody balance does not cover the reward pool")
	ErrPoolNotLaunched     = reverts.NewTiming("pool not launched")
	ErrStakeAlreadyClaimed = reverts.NewState("stake already claimed")
	ErrAlreadyInitialized  = reverts.NewState("pool already initialized")
	ErrNotInitialized      = reverts.NewState("pool not initialized")
)

// Bank moves tokens in and out of the pool custody.
type Bank interface {
	BalanceOf(addr vdao.Address) (*uint256.Int, error)
	Transfer(from, to vdao.Address, amount *uint256.Int) error
}

// Pool holds every maturity tier and the stakes locked in them.
type Pool struct {
	sctx          *solidity.Context
	bank          Bank
	config        *solidity.Raw[*config]
	tiers         *solidity.Mapping[solidity.Uint64, *tierBody]
	tierCounter   *solidity.Counter
	maturities    *solidity.Mapping[solidity.Uint64, uint64]
	stakes        *solidity.Mapping[solidity.Uint64, *stakeBody]
	stakeCounter  *solidity.Counter
	accountStaked *solidity.Mapping[vdao.Bytes32, *uint256.Int]
	accountCount  *solidity.Mapping[vdao.Address, uint64]
	accountStakes *solidity.Mapping[vdao.Bytes32, uint64]
	reserved      *solidity.Uint256
}

func New(sctx *solidity.Context, bank Bank) *Pool {
	return &Pool{
		sctx:          sctx,
		bank:          bank,
		config:        solidity.NewRaw[*config](sctx, slotConfig),
		tiers:         solidity.NewMapping[solidity.Uint64, *tierBody](sctx, slotTiers),
		tierCounter:   solidity.NewCounter(sctx, slotTiersCounter),
		maturities:    solidity.NewMapping[solidity.Uint64, uint64](sctx, slotMaturities),
		stakes:        solidity.NewMapping[solidity.Uint64, *stakeBody](sctx, slotStakes),
		stakeCounter:  solidity.NewCounter(sctx, slotStakesCounter),
		accountStaked: solidity.NewMapping[vdao.Bytes32, *uint256.Int](sctx, slotAccountStaked),
		accountCount:  solidity.NewMapping[vdao.Address, uint64](sctx, slotAccountCount),
		accountStakes: solidity.NewMapping[vdao.Bytes32, uint64](sctx, slotAccountStakes),
		reserved:      solidity.NewUint256(sctx, slotReserved),
	}
}

// Address returns the custody address of the pool.
func (p *Pool) Address() vdao.Address {
	return p.sctx.Address()
}

// Initialize sets the operator and the launch time.
func (p *Pool) Initialize(operator vdao.Address, launch uint64) error {
	cfg, err := p.config.Get()
	if err != nil {
		return err
	}
	if cfg != nil {
		return ErrAlreadyInitialized
	}
	return p.config.Insert(&config{Operator: operator, Launch: launch})
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

func (p *Pool) Launch() (uint64, error) {
	cfg, err := p.loadConfig()
	if err != nil {
		return 0, err
	}
	return cfg.Launch, nil
}

// Reserved returns the unpaid reward pools plus the principal still locked.
func (p *Pool) Reserved() (*uint256.Int, error) {
	return p.reserved.Get()
}

// CreateMaturityStake registers a tier and reserves its reward pool from custody.
func (p *Pool) CreateMaturityStake(caller vdao.Address, params TierParams) (uint64, error) {
	cfg, err := p.loadConfig()
	if err != nil {
		return 0, err
	}
	if caller != cfg.Operator {
		return 0, reverts.ErrUnauthorized
	}
	if err := validateTier(params); err != nil {
		return 0, err
	}
	existing, err := p.maturities.Get(solidity.Uint64(params.MaturityMonths))
	if err != nil {
		return 0, err
	}
	if existing != 0 {
		return 0, errors.WithMessagef(ErrDuplicateTier, "%d months is tier %d", params.MaturityMonths, existing)
	}

	if !params.RewardPool.IsZero() {
		if err := p.reserve(params.RewardPool); err != nil {
			return 0, err
		}
	}

	id, err := p.tierCounter.Next()
	if err != nil {
		return 0, err
	}
	body := &tierBody{
		Name:                   params.Name,
		MaturityMonths:         params.MaturityMonths,
		APRBasisPoints:         params.APRBasisPoints,
		UnlockDuration:         params.UnlockDuration,
		RewardPool:             new(uint256.Int).Set(params.RewardPool),
		RewardPaid:             vdao.Zero(),
		MaxPerAccount:          new(uint256.Int).Set(params.MaxPerAccount),
		TotalCap:               new(uint256.Int).Set(params.TotalCap),
		LateUnstakeFeeDuration: params.LateUnstakeFeeDuration,
		Staked:                 vdao.Zero(),
		FeesCollected:          vdao.Zero(),
	}
	if err := p.tiers.Insert(solidity.Uint64(id), body); err != nil {
		return 0, errors.Wrap(err, "failed to set tier")
	}
	if err := p.maturities.Insert(solidity.Uint64(params.MaturityMonths), id); err != nil {
		return 0, errors.Wrap(err, "failed to index tier")
	}

	logger.Debug("tier created", "id", id, "months", params.MaturityMonths, "apr", params.APRBasisPoints, "pool", params.RewardPool)
	p.sctx.Emit(&solidity.Event{Name: "TierCreated", Account: caller, Ref: id, Amount: params.RewardPool})
	return id, nil
}

func validateTier(params TierParams) error {
	switch {
	case params.MaturityMonths == 0:
		return errors.WithMessage(ErrInvalidTier, "zero maturity")
	case params.UnlockDuration == 0:
		return errors.WithMessage(ErrInvalidTier, "zero unlock duration")
	case params.APRBasisPoints == 0:
		return errors.WithMessage(ErrInvalidTier, "zero apr")
	case params.RewardPool == nil || params.MaxPerAccount == nil || params.TotalCap == nil:
		return errors.WithMessage(ErrInvalidTier, "missing amounts")
	case params.MaxPerAccount.IsZero():
		return errors.WithMessage(ErrInvalidTier, "zero per-account cap")
	case params.TotalCap.Lt(params.MaxPerAccount):
		return ErrTierCapacityInvalid
	case params.LateUnstakeFeeDuration > params.UnlockDuration:
		return errors.WithMessage(ErrInvalidTier, "fee window longer than the lock")
	}
	return nil
}

// reserve checks that custody covers what is already owed plus amount, then records it.
func (p *Pool) reserve(amount *uint256.Int) error {
	reserved, err := p.reserved.Get()
	if err != nil {
		return err
	}
	needed, overflow := new(uint256.Int).AddOverflow(reserved, amount)
	if overflow {
		return reverts.ErrOverflow
	}
	custody, err := p.bank.BalanceOf(p.Address())
	if err != nil {
		return err
	}
	if custody.Lt(needed) {
		return errors.WithMessagef(ErrInsufficientCustody, "custody %v, needed %v", custody.Dec(), needed.Dec())
	}
	p.reserved.Set(needed)
	return nil
}

// Tier returns the tier with the given id.
func (p *Pool) Tier(id uint64) (*Tier, error) {
	body, err := p.tiers.Get(solidity.Uint64(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tier")
	}
	if body == nil {
		return nil, errors.WithMessagef(ErrTierNotFound, "id %d", id)
	}
	return &Tier{ID: id, tierBody: body}, nil
}

// TierByMaturity returns the tier registered for the given number of months.
func (p *Pool) TierByMaturity(months uint64) (*Tier, error) {
	id, err := p.maturities.Get(solidity.Uint64(months))
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, errors.WithMessagef(ErrTierNotFound, "%d months", months)
	}
	return p.Tier(id)
}

// Tiers returns every tier in creation order.
func (p *Pool) Tiers() ([]*Tier, error) {
	count, err := p.tierCounter.Current()
	if err != nil {
		return nil, err
	}
	tiers := make([]*Tier, 0, count)
	for id := uint64(1); id <= count; id++ {
		tier, err := p.Tier(id)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

// Stake locks amount of account in the tier starting at now.
func (p *Pool) Stake(account vdao.Address, tierID uint64, amount *uint256.Int, now uint64) (uint64, error) {
	cfg, err := p.loadConfig()
	if err != nil {
		return 0, err
	}
	if now < cfg.Launch {
		return 0, ErrPoolNotLaunched
	}
	if amount == nil || amount.IsZero() {
		return 0, ErrInvalidAmount
	}
	tier, err := p.Tier(tierID)
	if err != nil {
		return 0, err
	}
	if _, overflow := vdao.AddTime(now, tier.UnlockDuration); overflow {
		return 0, reverts.ErrOverflow
	}

	accountKey := accountTierKey(account, tierID)
	staked, err := p.accountStaked.Get(accountKey)
	if err != nil {
		return 0, err
	}
	if staked == nil {
		staked = vdao.Zero()
	}
	if _, overflow := staked.AddOverflow(staked, amount); overflow || staked.Gt(tier.MaxPerAccount) {
		return 0, errors.WithMessagef(ErrAccountCapExceeded, "max %v per account", tier.MaxPerAccount.Dec())
	}
	total, overflow := new(uint256.Int).AddOverflow(tier.Staked, amount)
	if overflow || total.Gt(tier.TotalCap) {
		return 0, errors.WithMessagef(ErrTierCapExceeded, "tier cap %v", tier.TotalCap.Dec())
	}

	if err := p.bank.Transfer(account, p.Address(), amount); err != nil {
		return 0, err
	}
	if err := p.reserved.Add(amount); err != nil {
		return 0, reverts.ErrOverflow
	}

	id, err := p.stakeCounter.Next()
	if err != nil {
		return 0, err
	}
	stake := &stakeBody{
		Account:   account,
		Tier:      tierID,
		Principal: new(uint256.Int).Set(amount),
		StartTime: now,
	}
	if err := p.stakes.Insert(solidity.Uint64(id), stake); err != nil {
		return 0, errors.Wrap(err, "failed to set stake")
	}
	if err := p.indexStake(account, id); err != nil {
		return 0, err
	}
	if err := p.accountStaked.Upsert(accountKey, staked); err != nil {
		return 0, errors.Wrap(err, "failed to update account stake")
	}
	tier.Staked = total
	if err := p.tiers.Update(solidity.Uint64(tierID), tier.tierBody); err != nil {
		return 0, errors.Wrap(err, "failed to update tier")
	}

	logger.Debug("staked", "account", account, "tier", tierID, "stake", id, "amount", amount)
	p.sctx.Emit(&solidity.Event{Name: "Staked", Account: account, Ref: id, Amount: amount})
	return id, nil
}

func (p *Pool) indexStake(account vdao.Address, id uint64) error {
	n, err := p.accountCount.Get(account)
	if err != nil {
		return err
	}
	if err := p.accountStakes.Insert(accountStakeKey(account, n), id); err != nil {
		return errors.Wrap(err, "failed to index stake")
	}
	return p.accountCount.Upsert(account, n+1)
}

// GetStake returns the stake with the given id.
func (p *Pool) GetStake(id uint64) (*Stake, error) {
	body, err := p.stakes.Get(solidity.Uint64(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	if body == nil {
		return nil, errors.WithMessagef(ErrStakeNotFound, "id %d", id)
	}
	return &Stake{ID: id, stakeBody: body}, nil
}

// StakesOf returns every stake opened by account, claimed ones included.
func (p *Pool) StakesOf(account vdao.Address) ([]*Stake, error) {
	n, err := p.accountCount.Get(account)
	if err != nil {
		return nil, err
	}
	stakes := make([]*Stake, 0, n)
	for i := uint64(0); i < n; i++ {
		id, err := p.accountStakes.Get(accountStakeKey(account, i))
		if err != nil {
			return nil, err
		}
		stake, err := p.GetStake(id)
		if err != nil {
			return nil, err
		}
		stakes = append(stakes, stake)
	}
	return stakes, nil
}

// PendingReward returns the reward accrued by the stake so far, bounded by the remaining pool.
// It is only paid if the stake is held until maturity.
func (p *Pool) PendingReward(stakeID uint64, now uint64) (*uint256.Int, error) {
	stake, err := p.GetStake(stakeID)
	if err != nil {
		return nil, err
	}
	if stake.Claimed || now <= stake.StartTime {
		return vdao.Zero(), nil
	}
	tier, err := p.Tier(stake.Tier)
	if err != nil {
		return nil, err
	}
	reward, _, err := p.reward(stake, tier, now)
	return reward, err
}

func (p *Pool) reward(stake *Stake, tier *Tier, now uint64) (*uint256.Int, bool, error) {
	if tier.Exhausted {
		return vdao.Zero(), false, nil
	}
	reward, err := AprAmount(stake.Principal, tier.APRBasisPoints, now-stake.StartTime)
	if err != nil {
		return nil, false, err
	}
	remaining := tier.RemainingReward()
	if remaining.IsZero() {
		return vdao.Zero(), false, nil
	}
	if !reward.Lt(remaining) {
		return remaining, true, nil
	}
	return reward, false, nil
}

// Unstake releases the stake. Matured stakes get their reward, early ones pay the exit fee.
func (p *Pool) Unstake(account vdao.Address, stakeID uint64, now uint64) (*Payout, error) {
	stake, err := p.GetStake(stakeID)
	if err != nil {
		return nil, err
	}
	if stake.Account != account {
		return nil, ErrNotStakeOwner
	}
	if stake.Claimed {
		return nil, errors.WithMessagef(ErrStakeAlreadyClaimed, "stake %d", stakeID)
	}
	tier, err := p.Tier(stake.Tier)
	if err != nil {
		return nil, err
	}

	payout := &Payout{
		Principal: new(uint256.Int).Set(stake.Principal),
		Reward:    vdao.Zero(),
		Penalty:   vdao.Zero(),
	}
	released := new(uint256.Int).Set(stake.Principal)
	if now >= stake.MaturityTime(tier) {
		reward, exhausted, err := p.reward(stake, tier, now)
		if err != nil {
			return nil, err
		}
		payout.Reward = reward
		tier.RewardPaid.Add(tier.RewardPaid, reward)
		released.Add(released, reward)
		if exhausted {
			tier.Exhausted = true
			logger.Info("tier reward pool exhausted", "tier", tier.ID)
		}
	} else {
		penalty, err := Penalty(stake.Principal, tier)
		if err != nil {
			return nil, err
		}
		payout.Penalty = penalty
		tier.FeesCollected.Add(tier.FeesCollected, penalty)
	}
	payout.Total = new(uint256.Int).Add(payout.Principal, payout.Reward)
	payout.Total.Sub(payout.Total, payout.Penalty)

	stake.Claimed = true
	if err := p.stakes.Update(solidity.Uint64(stakeID), stake.stakeBody); err != nil {
		return nil, errors.Wrap(err, "failed to update stake")
	}
	tier.Staked.Sub(tier.Staked, stake.Principal)
	if err := p.tiers.Update(solidity.Uint64(tier.ID), tier.tierBody); err != nil {
		return nil, errors.Wrap(err, "failed to update tier")
	}
	accountKey := accountTierKey(account, tier.ID)
	staked, err := p.accountStaked.Get(accountKey)
	if err != nil {
		return nil, err
	}
	if staked == nil || staked.Lt(stake.Principal) {
		return nil, errors.New("account stake counter out of sync")
	}
	if err := p.accountStaked.Update(accountKey, staked.Sub(staked, stake.Principal)); err != nil {
		return nil, errors.Wrap(err, "failed to update account stake")
	}
	if err := p.reserved.Sub(released); err != nil {
		return nil, errors.Wrap(err, "failed to release reservation")
	}
	if err := p.bank.Transfer(p.Address(), account, payout.Total); err != nil {
		return nil, err
	}

	logger.Debug("unstaked", "account", account, "stake", stakeID, "reward", payout.Reward, "penalty", payout.Penalty)
	p.sctx.Emit(&solidity.Event{Name: "Unstaked", Account: account, Ref: stakeID, Amount: payout.Total})
	return payout, nil
}
