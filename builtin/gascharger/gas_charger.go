// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"fmt"

	"github.com/vestradao/vdao/vdao"
)

// Charger tallies the storage gas of one engine call.
type Charger struct {
	sloadOps       uint64
	sstoreSetOps   uint64
	sstoreResetOps uint64
	customGas      uint64
	totalGas       uint64
}

func New() *Charger {
	return &Charger{}
}

func (c *Charger) Charge(gas uint64) {
	c.totalGas += gas

	switch {
	// Handle multiples and single operations
	case gas%vdao.SstoreSetGas == 0 && gas > 0:
		c.sstoreSetOps += gas / vdao.SstoreSetGas

	case gas%vdao.SstoreResetGas == 0 && gas > 0:
		c.sstoreResetOps += gas / vdao.SstoreResetGas

	case gas%vdao.SloadGas == 0 && gas > 0:
		c.sloadOps += gas / vdao.SloadGas

	default:
		// Unknown/custom gas amount
		c.customGas += gas
	}
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"SLOAD: %d ops (%d gas) | SSTORE_SET: %d ops (%d gas) | SSTORE_RESET: %d ops (%d gas) | CUSTOM: %d gas | TOTAL: %d gas",
		c.sloadOps,
		c.sloadOps*vdao.SloadGas,
		c.sstoreSetOps,
		c.sstoreSetOps*vdao.SstoreSetGas,
		c.sstoreResetOps,
		c.sstoreResetOps*vdao.SstoreResetGas,
		c.customGas,
		c.totalGas,
	)
}

func (c *Charger) TotalGas() uint64 {
	return c.totalGas
}
