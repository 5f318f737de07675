// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vestradao/vdao/vdao"
)

// Contract is a builtin with a fixed address derived from its name.
type Contract struct {
	Name    string
	Address vdao.Address
}

func newContract(name string) *Contract {
	return &Contract{
		Name:    name,
		Address: vdao.BytesToAddress([]byte(name)),
	}
}
