// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package flexstake

import (
	"github.com/holiman/uint256"

	flex "github.com/vestradao/vdao/builtin/flexstake"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/vdao"
)

type Pool struct {
	Name            string       `json:"name"`
	Address         vdao.Address `json:"address"`
	Launch          uint64       `json:"launch"`
	DailyRatePPM    uint64       `json:"dailyRatePPM"`
	LockPeriod      uint64       `json:"lockPeriod"`
	RewardBudget    *uint256.Int `json:"rewardBudget"`
	TotalStaked     *uint256.Int `json:"totalStaked"`
	RemainingBudget *uint256.Int `json:"remainingBudget"`
	RewardPaid      *uint256.Int `json:"rewardPaid"`
	Exhausted       bool         `json:"exhausted"`
}

func convertPool(info *engine.FlexPoolInfo) *Pool {
	return &Pool{
		Name:            info.Name,
		Address:         info.Address,
		Launch:          info.Launch,
		DailyRatePPM:    info.Params.DailyRatePPM,
		LockPeriod:      info.Params.LockPeriod,
		RewardBudget:    info.Params.RewardBudget,
		TotalStaked:     info.TotalStaked,
		RemainingBudget: info.RemainingBudget,
		RewardPaid:      info.RewardPaid,
		Exhausted:       info.Exhausted,
	}
}

// Position is the stake of one account with its reward accrued until Time.
type Position struct {
	Account       vdao.Address `json:"account"`
	Principal     *uint256.Int `json:"principal"`
	PendingReward *uint256.Int `json:"pendingReward"`
	LastStakeTime uint64       `json:"lastStakeTime"`
	UnlockTime    uint64       `json:"unlockTime"`
	Time          uint64       `json:"time"`
}

func convertPosition(account vdao.Address, pos *flex.Position, lockPeriod, now uint64) *Position {
	return &Position{
		Account:       account,
		Principal:     pos.Principal,
		PendingReward: pos.AccumulatedReward,
		LastStakeTime: pos.LastStakeTime,
		UnlockTime:    pos.UnlockTime(lockPeriod),
		Time:          now,
	}
}

type AmountRequest struct {
	Amount *uint256.Int `json:"amount"`
}

type Claimed struct {
	Amount *uint256.Int `json:"amount"`
	Time   uint64       `json:"time"`
}
