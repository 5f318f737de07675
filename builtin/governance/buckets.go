// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/builtin/vesting"
	"github.com/vestradao/vdao/vdao"
)

// CreateCategory opens a DAO bucket. The whole bucket is allocated to the treasury.
func (g *Governance) CreateCategory(caller vdao.Address, params vesting.CategoryParams) (uint64, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return 0, err
	}
	id, err := g.ledger.CreateCategory(caller, params)
	if err != nil {
		return 0, err
	}
	if err := g.ledger.Allocate(caller, id, cfg.Treasury, params.TotalAmount); err != nil {
		return 0, err
	}
	return id, nil
}

// ClaimCategory releases what the bucket has vested to the treasury. Only delegates may trigger it.
func (g *Governance) ClaimCategory(caller vdao.Address, id uint64, now uint64) (*uint256.Int, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := g.requireDelegate(caller, now); err != nil {
		return nil, err
	}
	return g.ledger.Claim(cfg.Treasury, id, now)
}

// CategoryClaimable returns what the bucket would release to the treasury at now.
func (g *Governance) CategoryClaimable(id uint64, now uint64) (*uint256.Int, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	return g.ledger.Claimable(cfg.Treasury, id, now)
}
