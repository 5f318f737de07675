// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"github.com/holiman/uint256"

	ledger "github.com/vestradao/vdao/builtin/vesting"
	"github.com/vestradao/vdao/vdao"
)

// Schedule is the release shape of a category. Durations are in seconds.
type Schedule struct {
	TGEPerMille        uint64 `json:"tgePerMille"`
	Cliff              uint64 `json:"cliff"`
	AfterCliffPerMille uint64 `json:"afterCliffPerMille"`
	PeriodDuration     uint64 `json:"periodDuration"`
	UnlockPerMille     uint64 `json:"unlockPerMille"`
}

func (s Schedule) convert() ledger.Schedule {
	return ledger.Schedule{
		TGEPerMille:        s.TGEPerMille,
		Cliff:              s.Cliff,
		AfterCliffPerMille: s.AfterCliffPerMille,
		PeriodDuration:     s.PeriodDuration,
		UnlockPerMille:     s.UnlockPerMille,
	}
}

type Category struct {
	ID          uint64       `json:"id"`
	Name        string       `json:"name"`
	TotalAmount *uint256.Int `json:"totalAmount"`
	Allocated   *uint256.Int `json:"allocated"`
	Claimed     *uint256.Int `json:"claimed"`
	Schedule
}

// CreateCategory is the body of a category creation.
type CreateCategory struct {
	Name        string       `json:"name"`
	TotalAmount *uint256.Int `json:"totalAmount"`
	Schedule
}

// Params converts the body into ledger parameters.
func (c *CreateCategory) Params() ledger.CategoryParams {
	total := c.TotalAmount
	if total == nil {
		total = vdao.Zero()
	}
	return ledger.CategoryParams{
		Name:        c.Name,
		TotalAmount: total,
		Schedule:    c.Schedule.convert(),
	}
}

type Created struct {
	ID uint64 `json:"id"`
}

type Allocate struct {
	Account vdao.Address `json:"account"`
	Amount  *uint256.Int `json:"amount"`
}

type Allocation struct {
	Category    uint64       `json:"category"`
	Entitlement *uint256.Int `json:"entitlement"`
	Claimed     *uint256.Int `json:"claimed"`
	Claimable   *uint256.Int `json:"claimable"`
}

type Claimed struct {
	Amount *uint256.Int `json:"amount"`
	Time   uint64       `json:"time"`
}

type Ledger struct {
	Policy     string      `json:"policy"`
	Categories []*Category `json:"categories"`
}

// ConvertCategory converts a ledger category for marshalling.
func ConvertCategory(c *ledger.Category) *Category {
	s := c.Schedule()
	return &Category{
		ID:          c.ID,
		Name:        c.Name,
		TotalAmount: c.TotalAmount,
		Allocated:   c.Allocated,
		Claimed:     c.Claimed,
		Schedule: Schedule{
			TGEPerMille:        s.TGEPerMille,
			Cliff:              s.Cliff,
			AfterCliffPerMille: s.AfterCliffPerMille,
			PeriodDuration:     s.PeriodDuration,
			UnlockPerMille:     s.UnlockPerMille,
		},
	}
}

// ConvertCategories converts a list of ledger categories, never returning nil.
func ConvertCategories(cats []*ledger.Category) []*Category {
	out := make([]*Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, ConvertCategory(c))
	}
	return out
}

func convertAllocation(a *ledger.Allocation, claimable *uint256.Int) *Allocation {
	return &Allocation{
		Category:    a.Category,
		Entitlement: a.Entitlement,
		Claimed:     a.Claimed,
		Claimable:   claimable,
	}
}
