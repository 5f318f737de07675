// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/vdao"
)

// Policy decides how the last period of a schedule is paid.
type Policy uint8

const (
	// RemainderRelease pays whatever is left of the amount in the last period,
	// so truncation dust never stays locked.
	RemainderRelease Policy = iota
	// StrictTruncation pays every period its own truncated per-mille share.
	// Up to a few base units per allocation may stay in custody.
	StrictTruncation
)

func (p Policy) String() string {
	switch p {
	case RemainderRelease:
		return "remainder"
	case StrictTruncation:
		return "strict"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy parses the textual form produced by String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "remainder":
		return RemainderRelease, nil
	case "strict":
		return StrictTruncation, nil
	}
	return 0, errors.Errorf("unknown release policy %q", s)
}

// Schedule is a linear release with a cliff, expressed in per-mille of the vested amount.
//
//	launch                  launch+cliff
//	|-- TGE                 |-- after cliff, then one unlock per full period
type Schedule struct {
	TGEPerMille        uint64
	Cliff              uint64
	AfterCliffPerMille uint64
	PeriodDuration     uint64
	UnlockPerMille     uint64
}

// Validate checks that the schedule reaches exactly 1000 per-mille in a finite number of periods.
func (s Schedule) Validate() error {
	switch {
	case s.TGEPerMille > vdao.PerMille:
		return errors.WithMessage(ErrInvalidSchedule, "tge above 1000")
	case s.AfterCliffPerMille > vdao.PerMille:
		return errors.WithMessage(ErrInvalidSchedule, "after-cliff unlock above 1000")
	case s.UnlockPerMille > vdao.PerMille:
		return errors.WithMessage(ErrInvalidSchedule, "periodic unlock above 1000")
	case s.TGEPerMille+s.AfterCliffPerMille > vdao.PerMille:
		return errors.WithMessage(ErrInvalidSchedule, "tge and after-cliff unlock exceed 1000")
	}
	if s.rest() > 0 && (s.UnlockPerMille == 0 || s.PeriodDuration == 0) {
		return errors.WithMessage(ErrInvalidSchedule, "schedule never reaches 1000")
	}
	span, overflow := vdao.MulTime(s.PeriodDuration, s.Periods())
	if overflow {
		return errors.WithMessage(ErrInvalidSchedule, "schedule duration overflows")
	}
	if _, overflow := vdao.AddTime(s.Cliff, span); overflow {
		return errors.WithMessage(ErrInvalidSchedule, "schedule duration overflows")
	}
	return nil
}

// rest is the per-mille released by the periodic unlocks.
func (s Schedule) rest() uint64 {
	return vdao.PerMille - s.TGEPerMille - s.AfterCliffPerMille
}

// Periods returns the number of full periods after the cliff needed to release everything.
func (s Schedule) Periods() uint64 {
	rest := s.rest()
	if rest == 0 || s.UnlockPerMille == 0 {
		return 0
	}
	return (rest + s.UnlockPerMille - 1) / s.UnlockPerMille
}

// Duration returns the time from launch until the schedule is fully released.
func (s Schedule) Duration() uint64 {
	return s.Cliff + s.PeriodDuration*s.Periods()
}

// Vested returns how much of amount the schedule has released at now.
// The schedule must be valid.
func (s Schedule) Vested(amount *uint256.Int, launch, now uint64, policy Policy) (*uint256.Int, error) {
	if now < launch {
		return vdao.Zero(), nil
	}
	elapsed := now - launch

	vested, err := share(amount, s.TGEPerMille)
	if err != nil {
		return nil, err
	}
	if elapsed < s.Cliff {
		return vested, nil
	}
	after, err := share(amount, s.AfterCliffPerMille)
	if err != nil {
		return nil, err
	}
	vested.Add(vested, after)

	need := s.Periods()
	var periods uint64
	if need > 0 {
		periods = (elapsed - s.Cliff) / s.PeriodDuration
	}
	if periods >= need {
		if policy == RemainderRelease {
			return new(uint256.Int).Set(amount), nil
		}
		return s.strictTotal(amount, vested, need)
	}

	unlock, err := share(amount, s.UnlockPerMille)
	if err != nil {
		return nil, err
	}
	if _, overflow := unlock.MulOverflow(unlock, uint256.NewInt(periods)); overflow {
		return nil, reverts.ErrOverflow
	}
	return vested.Add(vested, unlock), nil
}

// strictTotal sums the truncated shares of every period, the last one being the
// per-mille left after the full periods before it.
func (s Schedule) strictTotal(amount, vested *uint256.Int, need uint64) (*uint256.Int, error) {
	if need == 0 {
		return vested, nil
	}
	unlock, err := share(amount, s.UnlockPerMille)
	if err != nil {
		return nil, err
	}
	if _, overflow := unlock.MulOverflow(unlock, uint256.NewInt(need-1)); overflow {
		return nil, reverts.ErrOverflow
	}
	last, err := share(amount, s.rest()-s.UnlockPerMille*(need-1))
	if err != nil {
		return nil, err
	}
	vested.Add(vested, unlock)
	return vested.Add(vested, last), nil
}

func share(amount *uint256.Int, perMille uint64) (*uint256.Int, error) {
	v, overflow := vdao.MulDiv(amount, uint256.NewInt(perMille), uint256.NewInt(vdao.PerMille))
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return v, nil
}
