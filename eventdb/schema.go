// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	time INTEGER NOT NULL,
	op TEXT NOT NULL,
	address BLOB(20) NOT NULL,
	name TEXT NOT NULL,
	account BLOB(20) NOT NULL,
	ref INTEGER NOT NULL,
	amount BLOB
);

CREATE INDEX IF NOT EXISTS eventAddressIndex ON event(address);
CREATE INDEX IF NOT EXISTS eventAccountIndex ON event(account);
CREATE INDEX IF NOT EXISTS eventTimeIndex ON event(time);
`

const contractTableSchema = `
CREATE TABLE IF NOT EXISTS contract (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	network TEXT NOT NULL,
	name TEXT NOT NULL,
	address BLOB(20) NOT NULL,
	time INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS contractNameIndex ON contract(network, name);
`

const gasTableSchema = `
CREATE TABLE IF NOT EXISTS gas (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	network TEXT NOT NULL,
	script TEXT NOT NULL,
	gas INTEGER NOT NULL,
	time INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS gasScriptIndex ON gas(network, script);
`
