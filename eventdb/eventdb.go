// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists engine events and the deployment bookkeeping
// (contract address book and gas log) in sqlite.
package eventdb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/log"
	"github.com/vestradao/vdao/vdao"
)

var logger = log.WithContext("pkg", "eventdb")

// ErrContractNotFound is returned when the address book has no entry.
var ErrContractNotFound = errors.New("contract not found")

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New creates or opens the event db at the given path.
func New(path string) (edb *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open eventdb")
	}
	defer func() {
		if edb == nil {
			db.Close()
		}
	}()
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema + contractTableSchema + gasTableSchema); err != nil {
		return nil, errors.Wrap(err, "create eventdb schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("eventdb opened", "path", path, "sqlite", driverVer)
	return &EventDB{path, db, driverVer}, nil
}

// NewMem creates an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

func (db *EventDB) execInTx(ctx context.Context, proc func(*sql.Tx) error) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// WriteEvents appends the events in one transaction and assigns their Seq.
func (db *EventDB) WriteEvents(ctx context.Context, events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	err := db.execInTx(ctx, func(tx *sql.Tx) error {
		for _, ev := range events {
			amount := ev.Amount
			if amount == nil {
				amount = new(uint256.Int)
			}
			res, err := tx.ExecContext(ctx,
				"INSERT INTO event(time, op, address, name, account, ref, amount) VALUES (?, ?, ?, ?, ?, ?, ?)",
				ev.Time,
				ev.Op,
				ev.Address.Bytes(),
				ev.Name,
				ev.Account.Bytes(),
				ev.Ref,
				amount.Bytes(),
			)
			if err != nil {
				return err
			}
			seq, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ev.Seq = uint64(seq)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "write events")
	}
	metricEventsWritten().Add(int64(len(events)))
	return nil
}

// FilterEvents returns the events matching filter, oldest first unless the
// filter asks otherwise.
func (db *EventDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT seq, time, op, address, name, account, ref, amount FROM event ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		conds = []string{"1"}
		args  []any
	)
	if filter.Address != nil {
		conds = append(conds, "address = ?")
		args = append(args, filter.Address.Bytes())
	}
	if filter.Account != nil {
		conds = append(conds, "account = ?")
		args = append(args, filter.Account.Bytes())
	}
	if filter.Name != "" {
		conds = append(conds, "name = ?")
		args = append(args, filter.Name)
	}
	if filter.After > 0 {
		conds = append(conds, "seq > ?")
		args = append(args, filter.After)
	}
	if filter.From > 0 {
		conds = append(conds, "time >= ?")
		args = append(args, filter.From)
	}
	if filter.To > 0 {
		conds = append(conds, "time <= ?")
		args = append(args, filter.To)
	}

	stmt := "SELECT seq, time, op, address, name, account, ref, amount FROM event WHERE " + strings.Join(conds, " AND ")
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			ev      Event
			address []byte
			account []byte
			amount  []byte
		)
		if err := rows.Scan(&ev.Seq, &ev.Time, &ev.Op, &address, &ev.Name, &account, &ev.Ref, &amount); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		ev.Address = vdao.BytesToAddress(address)
		ev.Account = vdao.BytesToAddress(account)
		ev.Amount = new(uint256.Int).SetBytes(amount)
		events = append(events, &ev)
	}
	return events, errors.Wrap(rows.Err(), "iterate events")
}

// RecordContract appends an address book entry. The latest entry of a name wins.
func (db *EventDB) RecordContract(ctx context.Context, c *Contract) error {
	_, err := db.db.ExecContext(ctx,
		"INSERT INTO contract(network, name, address, time) VALUES (?, ?, ?, ?)",
		c.Network, c.Name, c.Address.Bytes(), c.Time)
	return errors.Wrapf(err, "record contract %s", c.Name)
}

// ContractAddress returns the latest address recorded for name on network.
func (db *EventDB) ContractAddress(ctx context.Context, network, name string) (vdao.Address, error) {
	var raw []byte
	err := db.db.QueryRowContext(ctx,
		"SELECT address FROM contract WHERE network = ? AND name = ? ORDER BY seq DESC LIMIT 1",
		network, name).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vdao.Address{}, errors.WithMessagef(ErrContractNotFound, "%s/%s", network, name)
		}
		return vdao.Address{}, errors.Wrap(err, "query contract")
	}
	return vdao.BytesToAddress(raw), nil
}

// Contracts lists the current address book of network, one entry per name.
func (db *EventDB) Contracts(ctx context.Context, network string) ([]*Contract, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT c.network, c.name, c.address, c.time FROM contract c
		WHERE c.network = ? AND c.seq = (SELECT MAX(seq) FROM contract WHERE network = c.network AND name = c.name)
		ORDER BY c.seq ASC`, network)
	if err != nil {
		return nil, errors.Wrap(err, "query contracts")
	}
	defer rows.Close()

	var out []*Contract
	for rows.Next() {
		var (
			c   Contract
			raw []byte
		)
		if err := rows.Scan(&c.Network, &c.Name, &raw, &c.Time); err != nil {
			return nil, errors.Wrap(err, "scan contract")
		}
		c.Address = vdao.BytesToAddress(raw)
		out = append(out, &c)
	}
	return out, errors.Wrap(rows.Err(), "iterate contracts")
}

// RecordGas appends a gas log entry.
func (db *EventDB) RecordGas(ctx context.Context, r *GasRecord) error {
	_, err := db.db.ExecContext(ctx,
		"INSERT INTO gas(network, script, gas, time) VALUES (?, ?, ?, ?)",
		r.Network, r.Script, r.Gas, r.Time)
	return errors.Wrapf(err, "record gas %s", r.Script)
}

// GasLog returns every gas entry of network in insertion order.
func (db *EventDB) GasLog(ctx context.Context, network string) ([]*GasRecord, error) {
	rows, err := db.db.QueryContext(ctx,
		"SELECT network, script, gas, time FROM gas WHERE network = ? ORDER BY seq ASC", network)
	if err != nil {
		return nil, errors.Wrap(err, "query gas")
	}
	defer rows.Close()

	var out []*GasRecord
	for rows.Next() {
		var r GasRecord
		if err := rows.Scan(&r.Network, &r.Script, &r.Gas, &r.Time); err != nil {
			return nil, errors.Wrap(err, "scan gas")
		}
		out = append(out, &r)
	}
	return out, errors.Wrap(rows.Err(), "iterate gas")
}
