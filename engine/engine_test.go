// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestradao/vdao/builtin"
	"github.com/vestradao/vdao/builtin/flexstake"
	"github.com/vestradao/vdao/builtin/lockstake"
	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/builtin/token"
	"github.com/vestradao/vdao/builtin/vesting"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/eventdb"
	"github.com/vestradao/vdao/lvldb"
	"github.com/vestradao/vdao/vdao"
)

const launch = uint64(1735689600)

var (
	operator = vdao.BytesToAddress([]byte("operator"))
	alice    = vdao.BytesToAddress([]byte("alice"))
	bob      = vdao.BytesToAddress([]byte("bob"))

	privateSale = vesting.Schedule{
		TGEPerMille:    100,
		Cliff:          vdao.MonthSeconds,
		PeriodDuration: vdao.MonthSeconds,
		UnlockPerMille: 150,
	}
)

func newEngine(t *testing.T) (*engine.Engine, *engine.FixedClock) {
	store, err := lvldb.NewMem()
	require.NoError(t, err)
	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() {
		events.Close()
		store.Close()
	})

	clock := engine.NewFixedClock(launch)
	eng := engine.New(store, events, clock)

	_, err = eng.Apply("genesis", launch, func(ctx *solidity.Context) error {
		tok := builtin.Token.With(ctx)
		if err := tok.Initialize(operator, vdao.Tokens(1_000_000)); err != nil {
			return err
		}
		for _, c := range []*builtin.Contract{builtin.Vesting.Contract, builtin.LockStake.Contract, builtin.Flexible.Contract} {
			if err := tok.Transfer(operator, c.Address, vdao.Tokens(100_000)); err != nil {
				return err
			}
		}
		if err := tok.Transfer(operator, alice, vdao.Tokens(10_000)); err != nil {
			return err
		}
		if err := builtin.Vesting.With(ctx).Initialize(operator, launch, vesting.RemainderRelease); err != nil {
			return err
		}
		if err := builtin.LockStake.With(ctx).Initialize(operator, launch); err != nil {
			return err
		}
		return builtin.Flexible.With(ctx).Initialize(operator, launch, flexstake.Params{
			DailyRatePPM: 1000,
			RewardBudget: vdao.Tokens(50_000),
		})
	})
	require.NoError(t, err)
	return eng, clock
}

func TestClaimFlow(t *testing.T) {
	eng, clock := newEngine(t)

	id, err := eng.CreateCategory(operator, vesting.CategoryParams{Name: "PrivateSale", TotalAmount: vdao.Tokens(50_000), Schedule: privateSale}, launch)
	require.NoError(t, err)
	require.NoError(t, eng.Allocate(operator, id, bob, vdao.Tokens(1000), launch))

	waiter := eng.NewWaiter()
	paid, err := eng.Claim(bob, id, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(100), paid)

	select {
	case <-waiter.C():
	case <-time.After(time.Second):
		t.Fatal("claim did not wake subscribers")
	}

	now := clock.Advance(vdao.MonthSeconds + 2*vdao.MonthSeconds)
	claimable, err := eng.Claimable(bob, id, now)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(300), claimable)

	paid, err = eng.Claim(bob, id, now)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(300), paid)

	bal, err := eng.Balance(bob)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(400), bal)

	claims, err := eng.Events(context.Background(), &eventdb.EventFilter{Name: "Claimed", Account: &bob})
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, "vesting.claim", claims[1].Op)
	assert.Equal(t, now, claims[1].Time)
	assert.Equal(t, builtin.Vesting.Address, claims[1].Address)
}

func TestFailedCallLeavesNoTrace(t *testing.T) {
	eng, _ := newEngine(t)

	before, err := eng.Events(context.Background(), nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = eng.Apply("partial", launch, func(ctx *solidity.Context) error {
		if err := builtin.Token.With(ctx).Transfer(alice, bob, vdao.Tokens(5)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	bal, err := eng.Balance(bob)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
	bal, err = eng.Balance(alice)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(10_000), bal)

	after, err := eng.Events(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestRevertKeepsEarlierWrites(t *testing.T) {
	eng, _ := newEngine(t)

	id, err := eng.CreateCategory(operator, vesting.CategoryParams{Name: "Team", TotalAmount: vdao.Tokens(100), Schedule: privateSale}, launch)
	require.NoError(t, err)
	require.NoError(t, eng.Allocate(operator, id, bob, vdao.Tokens(60), launch))

	err = eng.Allocate(operator, id, alice, vdao.Tokens(41), launch)
	assert.ErrorIs(t, err, vesting.ErrCategoryOverAllocated)
	assert.Equal(t, reverts.Capacity, reverts.KindOf(err))

	cat, err := eng.Category(id)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(60), cat.Allocated)
	alloc, err := eng.Allocation(alice, id)
	require.NoError(t, err)
	assert.True(t, alloc.IsEmpty())
}

func TestTransfer(t *testing.T) {
	eng, _ := newEngine(t)

	require.NoError(t, eng.Transfer(alice, bob, vdao.Tokens(1), launch))
	err := eng.Transfer(bob, alice, vdao.Tokens(2), launch)
	assert.ErrorIs(t, err, token.ErrInsufficientBalance)

	supply, err := eng.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(1_000_000), supply)
}

func TestLockStakeThroughEngine(t *testing.T) {
	eng, _ := newEngine(t)

	tier, err := eng.CreateMaturityStake(operator, lockstake.TierParams{
		Name:                   "1 month",
		MaturityMonths:         1,
		APRBasisPoints:         400,
		UnlockDuration:         30 * vdao.DaySeconds,
		RewardPool:             vdao.Tokens(1000),
		MaxPerAccount:          vdao.Tokens(5000),
		TotalCap:               vdao.Tokens(50_000),
		LateUnstakeFeeDuration: 7 * vdao.DaySeconds,
	}, launch)
	require.NoError(t, err)

	_, err = eng.CreateMaturityStake(alice, lockstake.TierParams{}, launch)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	byMaturity, err := eng.TierByMaturity(1)
	require.NoError(t, err)
	assert.Equal(t, tier, byMaturity.ID)
	_, err = eng.TierByMaturity(2)
	assert.ErrorIs(t, err, lockstake.ErrTierNotFound)

	id, err := eng.Stake(alice, tier, vdao.Tokens(1000), launch)
	require.NoError(t, err)

	stakes, err := eng.StakesOf(alice)
	require.NoError(t, err)
	require.Len(t, stakes, 1)
	assert.Equal(t, id, stakes[0].ID)

	payout, err := eng.Unstake(alice, id, launch+30*vdao.DaySeconds)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(1000), payout.Principal)
	assert.True(t, payout.Penalty.IsZero())
	assert.False(t, payout.Reward.IsZero())

	_, err = eng.Unstake(alice, id, launch+31*vdao.DaySeconds)
	assert.ErrorIs(t, err, lockstake.ErrStakeAlreadyClaimed)
}

func TestFlexPoolThroughEngine(t *testing.T) {
	eng, clock := newEngine(t)

	require.NoError(t, eng.FlexStake("Flexible", alice, vdao.Tokens(1000), launch))
	now := clock.Advance(vdao.DaySeconds)

	pos, err := eng.FlexPosition("Flexible", alice, now)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(1), pos.AccumulatedReward)

	paid, err := eng.FlexClaimReward("Flexible", alice, now)
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(1), paid)

	info, err := eng.FlexPool("Flexible")
	require.NoError(t, err)
	assert.Equal(t, vdao.Tokens(1000), info.TotalStaked)
	assert.Equal(t, vdao.Tokens(1), info.RewardPaid)
	assert.Equal(t, new(uint256.Int).Sub(vdao.Tokens(50_000), vdao.Tokens(1)), info.RemainingBudget)

	err = eng.FlexStake("Nope", alice, vdao.Tokens(1), now)
	assert.ErrorIs(t, err, engine.ErrUnknownPool)
	assert.Equal(t, reverts.Validation, reverts.KindOf(err))
}

func TestFixedClock(t *testing.T) {
	c := engine.NewFixedClock(10)
	assert.Equal(t, uint64(10), c.Now())
	assert.Equal(t, uint64(15), c.Advance(5))
	c.Set(3)
	assert.Equal(t, uint64(3), c.Now())

	assert.InDelta(t, float64(time.Now().Unix()), float64(engine.SystemClock{}.Now()), 2)
}
