// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/vdao"
)

// Event is a builtin event as it is persisted, tagged with the engine
// operation that produced it.
type Event struct {
	Seq     uint64       `json:"seq"`
	Time    uint64       `json:"time"`
	Op      string       `json:"op"`
	Address vdao.Address `json:"address"`
	Name    string       `json:"name"`
	Account vdao.Address `json:"account"`
	Ref     uint64       `json:"ref"`
	Amount  *uint256.Int `json:"amount"`
}

// NewEvent converts an emitted builtin event. Seq is assigned on write.
func NewEvent(time uint64, op string, ev *solidity.Event) *Event {
	amount := ev.Amount
	if amount == nil {
		amount = new(uint256.Int)
	}
	return &Event{
		Time:    time,
		Op:      op,
		Address: ev.Address,
		Name:    ev.Name,
		Account: ev.Account,
		Ref:     ev.Ref,
		Amount:  new(uint256.Int).Set(amount),
	}
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Options is the pagination window.
type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Nil and empty fields match everything.
type EventFilter struct {
	Address *vdao.Address
	Account *vdao.Address
	Name    string
	// After skips every event with a Seq up to and including it.
	After uint64
	// From and To bound the event time, both inclusive. To == 0 means no upper bound.
	From    uint64
	To      uint64
	Order   Order
	Options *Options
}

// Contract is one entry of the deployment address book.
type Contract struct {
	Network string       `json:"network"`
	Name    string       `json:"name"`
	Address vdao.Address `json:"address"`
	Time    uint64       `json:"time"`
}

// GasRecord is the gas a deployment script consumed.
type GasRecord struct {
	Network string `json:"network"`
	Script  string `json:"script"`
	Gas     uint64 `json:"gas"`
	Time    uint64 `json:"time"`
}
