// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/vestradao/vdao/vdao"
)

func RandAddress() (addr vdao.Address) {
	rand.Read(addr[:])
	return
}

func RandBytes32() (b vdao.Bytes32) {
	rand.Read(b[:])
	return
}
