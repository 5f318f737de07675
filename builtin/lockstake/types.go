// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockstake

import (
	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/vdao"
)

type config struct {
	Operator vdao.Address
	Launch   uint64
}

// TierParams describes a maturity tier to create.
type TierParams struct {
	Name                   string
	MaturityMonths         uint64
	APRBasisPoints         uint64
	UnlockDuration         uint64
	RewardPool             *uint256.Int
	MaxPerAccount          *uint256.Int
	TotalCap               *uint256.Int
	LateUnstakeFeeDuration uint64
}

type tierBody struct {
	Name                   string
	MaturityMonths         uint64
	APRBasisPoints         uint64
	UnlockDuration         uint64
	RewardPool             *uint256.Int
	RewardPaid             *uint256.Int
	MaxPerAccount          *uint256.Int
	TotalCap               *uint256.Int
	LateUnstakeFeeDuration uint64
	Staked                 *uint256.Int
	FeesCollected          *uint256.Int
	Exhausted              bool
}

// Tier is a maturity bucket with its own rate, caps and reward pool.
type Tier struct {
	ID uint64
	*tierBody
}

// RemainingReward returns the part of the reward pool not yet paid out.
func (t *Tier) RemainingReward() *uint256.Int {
	if t.RewardPaid.Gt(t.RewardPool) {
		return vdao.Zero()
	}
	return new(uint256.Int).Sub(t.RewardPool, t.RewardPaid)
}

type stakeBody struct {
	Account   vdao.Address
	Tier      uint64
	Principal *uint256.Int
	StartTime uint64
	Claimed   bool
}

// Stake is a principal locked in a tier.
type Stake struct {
	ID uint64
	*stakeBody
}

// MaturityTime returns when the stake can leave without penalty.
func (s *Stake) MaturityTime(tier *Tier) uint64 {
	return s.StartTime + tier.UnlockDuration
}

// Payout is the result of an unstake.
type Payout struct {
	Principal *uint256.Int
	Reward    *uint256.Int
	Penalty   *uint256.Int
	Total     *uint256.Int
}

func accountTierKey(account vdao.Address, tier uint64) vdao.Bytes32 {
	return vdao.Blake2b(account.Bytes(), vdao.Uint64ToBytes32(tier).Bytes())
}

func accountStakeKey(account vdao.Address, n uint64) vdao.Bytes32 {
	return vdao.Blake2b([]byte("stake"), account.Bytes(), vdao.Uint64ToBytes32(n).Bytes())
}
