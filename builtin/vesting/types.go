// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/vdao"
)

type config struct {
	Operator vdao.Address
	Launch   uint64
	Policy   uint8
}

type body struct {
	Name               string
	TotalAmount        *uint256.Int
	TGEPerMille        uint64
	Cliff              uint64
	AfterCliffPerMille uint64
	PeriodDuration     uint64
	UnlockPerMille     uint64
	Allocated          *uint256.Int
	Claimed            *uint256.Int
}

// Category is a named pool of tokens released under one schedule.
type Category struct {
	ID uint64
	*body
}

func (c *Category) Schedule() Schedule {
	return Schedule{
		TGEPerMille:        c.body.TGEPerMille,
		Cliff:              c.body.Cliff,
		AfterCliffPerMille: c.body.AfterCliffPerMille,
		PeriodDuration:     c.body.PeriodDuration,
		UnlockPerMille:     c.body.UnlockPerMille,
	}
}

// Unallocated returns the part of the category not yet promised to an account.
func (c *Category) Unallocated() *uint256.Int {
	return new(uint256.Int).Sub(c.TotalAmount, c.Allocated)
}

// CategoryParams describes a category to create.
type CategoryParams struct {
	Name        string
	TotalAmount *uint256.Int
	Schedule
}

// Allocation is the entitlement of one account in one category.
type Allocation struct {
	Category    uint64
	Entitlement *uint256.Int
	Claimed     *uint256.Int
}

func (a *Allocation) IsEmpty() bool {
	return a == nil || a.Entitlement == nil || a.Entitlement.IsZero()
}

func allocationKey(account vdao.Address, category uint64) vdao.Bytes32 {
	return vdao.Blake2b(account.Bytes(), vdao.Uint64ToBytes32(category).Bytes())
}
