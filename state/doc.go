// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the storage slots of the builtin contracts.
//
// Every slot is addressed by the owning contract address and a 32-byte key.
// Changes are kept in memory, can be reverted to a checkpoint, and are
// written to the backing kv store only when a Stage is committed.
package state
