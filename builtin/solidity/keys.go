// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "encoding/binary"

// Key is any value that can address a mapping entry.
type Key interface {
	Bytes() []byte
}

// Uint64 is a mapping key for sequential IDs.
type Uint64 uint64

func (u Uint64) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(u))
	return b[:]
}

// String is a mapping key for names.
type String string

func (s String) Bytes() []byte {
	return []byte(s)
}
