// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/vdao"
)

// Event is the log record a builtin leaves behind after a state change.
type Event struct {
	Address vdao.Address `json:"address"`
	Name    string       `json:"name"`
	Account vdao.Address `json:"account"`
	Ref     uint64       `json:"ref"`
	Amount  *uint256.Int `json:"amount"`
}
