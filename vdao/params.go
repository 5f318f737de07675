// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vdao

// Time constants, all in seconds.
const (
	DaySeconds   uint64 = 60 * 60 * 24
	MonthSeconds uint64 = DaySeconds * 30
	YearSeconds  uint64 = DaySeconds * 365
)

// Rate denominators.
const (
	PerMille    uint64 = 1000
	BasisPoints uint64 = 10000
	PartsPerMil uint64 = 1000000
)

// Token constants.
const (
	Decimals = 18
)

// Storage gas, charged by builtin storage accessors.
const (
	SloadGas       uint64 = 200
	SstoreSetGas   uint64 = 20000
	SstoreResetGas uint64 = 5000
)
