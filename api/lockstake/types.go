// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockstake

import (
	"github.com/holiman/uint256"

	pool "github.com/vestradao/vdao/builtin/lockstake"
	"github.com/vestradao/vdao/vdao"
)

type Tier struct {
	ID                     uint64       `json:"id"`
	Name                   string       `json:"name"`
	MaturityMonths         uint64       `json:"maturityMonths"`
	APRBasisPoints         uint64       `json:"aprBasisPoints"`
	UnlockDuration         uint64       `json:"unlockDuration"`
	LateUnstakeFeeDuration uint64       `json:"lateUnstakeFeeDuration"`
	RewardPool             *uint256.Int `json:"rewardPool"`
	RewardPaid             *uint256.Int `json:"rewardPaid"`
	RemainingReward        *uint256.Int `json:"remainingReward"`
	MaxPerAccount          *uint256.Int `json:"maxPerAccount"`
	TotalCap               *uint256.Int `json:"totalCap"`
	Staked                 *uint256.Int `json:"staked"`
	FeesCollected          *uint256.Int `json:"feesCollected"`
	Exhausted              bool         `json:"exhausted"`
}

func convertTier(t *pool.Tier) *Tier {
	return &Tier{
		ID:                     t.ID,
		Name:                   t.Name,
		MaturityMonths:         t.MaturityMonths,
		APRBasisPoints:         t.APRBasisPoints,
		UnlockDuration:         t.UnlockDuration,
		LateUnstakeFeeDuration: t.LateUnstakeFeeDuration,
		RewardPool:             t.RewardPool,
		RewardPaid:             t.RewardPaid,
		RemainingReward:        t.RemainingReward(),
		MaxPerAccount:          t.MaxPerAccount,
		TotalCap:               t.TotalCap,
		Staked:                 t.Staked,
		FeesCollected:          t.FeesCollected,
		Exhausted:              t.Exhausted,
	}
}

// CreateTier is the body of a maturity tier creation. A zero unlock duration
// defaults to the maturity in months.
type CreateTier struct {
	Name                   string       `json:"name"`
	MaturityMonths         uint64       `json:"maturityMonths"`
	APRBasisPoints         uint64       `json:"aprBasisPoints"`
	UnlockDuration         uint64       `json:"unlockDuration,omitempty"`
	LateUnstakeFeeDuration uint64       `json:"lateUnstakeFeeDuration"`
	RewardPool             *uint256.Int `json:"rewardPool"`
	MaxPerAccount          *uint256.Int `json:"maxPerAccount"`
	TotalCap               *uint256.Int `json:"totalCap"`
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return vdao.Zero()
	}
	return v
}

// Params converts the body into pool parameters.
func (c *CreateTier) Params() pool.TierParams {
	unlock := c.UnlockDuration
	if unlock == 0 {
		if d, overflow := vdao.MulTime(c.MaturityMonths, vdao.MonthSeconds); !overflow {
			unlock = d
		}
	}
	return pool.TierParams{
		Name:                   c.Name,
		MaturityMonths:         c.MaturityMonths,
		APRBasisPoints:         c.APRBasisPoints,
		UnlockDuration:         unlock,
		RewardPool:             orZero(c.RewardPool),
		MaxPerAccount:          orZero(c.MaxPerAccount),
		TotalCap:               orZero(c.TotalCap),
		LateUnstakeFeeDuration: c.LateUnstakeFeeDuration,
	}
}

type Created struct {
	ID uint64 `json:"id"`
}

type StakeRequest struct {
	Amount *uint256.Int `json:"amount"`
}

type Stake struct {
	ID            uint64       `json:"id"`
	Account       vdao.Address `json:"account"`
	Tier          uint64       `json:"tier"`
	Principal     *uint256.Int `json:"principal"`
	StartTime     uint64       `json:"startTime"`
	MaturityTime  uint64       `json:"maturityTime"`
	Claimed       bool         `json:"claimed"`
	PendingReward *uint256.Int `json:"pendingReward"`
}

type Payout struct {
	Principal *uint256.Int `json:"principal"`
	Reward    *uint256.Int `json:"reward"`
	Penalty   *uint256.Int `json:"penalty"`
	Total     *uint256.Int `json:"total"`
}
