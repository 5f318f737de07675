// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/vdao"
)

// Account for marshal account
type Account struct {
	Address vdao.Address `json:"address"`
	Balance *uint256.Int `json:"balance"`
	Tokens  string       `json:"tokens"`
}

type Supply struct {
	TotalSupply *uint256.Int `json:"totalSupply"`
	Tokens      string       `json:"tokens"`
}

// Transfer moves Amount base units from the caller to the account in the path.
type Transfer struct {
	Amount *uint256.Int `json:"amount"`
}
