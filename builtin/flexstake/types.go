// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package flexstake

import (
	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/vdao"
)

var dayBasis = new(uint256.Int).Mul(uint256.NewInt(vdao.PartsPerMil), uint256.NewInt(vdao.DaySeconds))

// Params configure a flexible pool.
type Params struct {
	DailyRatePPM uint64
	LockPeriod   uint64
	RewardBudget *uint256.Int
}

type config struct {
	Operator     vdao.Address
	Launch       uint64
	DailyRatePPM uint64
	LockPeriod   uint64
}

// Position is the stake of one account.
type Position struct {
	Principal         *uint256.Int
	LastAccrualTime   uint64
	AccumulatedReward *uint256.Int
	LastStakeTime     uint64
}

func newPosition() *Position {
	return &Position{Principal: vdao.Zero(), AccumulatedReward: vdao.Zero()}
}

// CalcReward returns the accumulated reward grown until now at the given daily rate.
func (p *Position) CalcReward(dailyRatePPM uint64, now uint64) (*uint256.Int, error) {
	acc := new(uint256.Int).Set(p.AccumulatedReward)
	if p.LastAccrualTime >= now || p.Principal.IsZero() {
		return acc, nil
	}
	rate := new(uint256.Int).Mul(uint256.NewInt(dailyRatePPM), uint256.NewInt(now-p.LastAccrualTime))
	grown, overflow := vdao.MulDiv(p.Principal, rate, dayBasis)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	if _, overflow := acc.AddOverflow(acc, grown); overflow {
		return nil, reverts.ErrOverflow
	}
	return acc, nil
}

// UnlockTime returns when the principal can leave a pool with the given lock period.
func (p *Position) UnlockTime(lockPeriod uint64) uint64 {
	t, overflow := vdao.AddTime(p.LastStakeTime, lockPeriod)
	if overflow {
		return ^uint64(0)
	}
	return t
}
