// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/eventdb"
	"github.com/vestradao/vdao/log"
)

var logger = log.WithContext("pkg", "genesis")

type script struct {
	name     string
	contract *builtin.Contract
	run      func(ctx *solidity.Context) error
}

// Builder collects deployment scripts and runs them in order, each as one
// engine call.
type Builder struct {
	timestamp uint64
	scripts   []script
}

// Timestamp sets the time the scripts run at.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// Script adds a step. A non-nil contract is recorded in the address book once the step commits.
func (b *Builder) Script(name string, contract *builtin.Contract, run func(ctx *solidity.Context) error) *Builder {
	b.scripts = append(b.scripts, script{name, contract, run})
	return b
}

// Result lists what a build recorded.
type Result struct {
	Contracts []*eventdb.Contract
	Gas       []*eventdb.GasRecord
}

// TotalGas sums the gas of every script.
func (r *Result) TotalGas() uint64 {
	var total uint64
	for _, g := range r.Gas {
		total += g.Gas
	}
	return total
}

// Build runs every script against eng. The address book and the gas log of
// network are written to the engine's event db when it has one. A failing
// script stops the build; earlier scripts stay committed.
func (b *Builder) Build(ctx context.Context, eng *engine.Engine, network string) (*Result, error) {
	var (
		res = &Result{}
		db  = eng.EventDB()
	)
	for _, s := range b.scripts {
		rcpt, err := eng.Apply("genesis."+s.name, b.timestamp, s.run)
		if err != nil {
			return res, errors.WithMessagef(err, "genesis script %s", s.name)
		}
		gas := &eventdb.GasRecord{Network: network, Script: s.name, Gas: rcpt.Gas, Time: b.timestamp}
		res.Gas = append(res.Gas, gas)
		if db != nil {
			if err := db.RecordGas(ctx, gas); err != nil {
				return res, err
			}
		}
		if s.contract != nil {
			c := &eventdb.Contract{Network: network, Name: s.contract.Name, Address: s.contract.Address, Time: b.timestamp}
			res.Contracts = append(res.Contracts, c)
			if db != nil {
				if err := db.RecordContract(ctx, c); err != nil {
					return res, err
				}
			}
		}
		logger.Info("genesis script applied", "script", s.name, "gas", rcpt.Gas, "events", len(rcpt.Events))
	}
	return res, nil
}
