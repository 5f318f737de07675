// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vestradao/vdao/vdao"
)

func TestCharger(t *testing.T) {
	c := New()
	c.Charge(vdao.SloadGas)
	c.Charge(2 * vdao.SstoreSetGas)
	c.Charge(vdao.SstoreResetGas)
	c.Charge(7)

	assert.Equal(t, vdao.SloadGas+2*vdao.SstoreSetGas+vdao.SstoreResetGas+7, c.TotalGas())
	assert.Equal(t,
		"SLOAD: 1 ops (200 gas) | SSTORE_SET: 2 ops (40000 gas) | SSTORE_RESET: 1 ops (5000 gas) | CUSTOM: 7 gas | TOTAL: 45207 gas",
		c.Breakdown())
}
