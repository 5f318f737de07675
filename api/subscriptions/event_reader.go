// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/eventdb"
	"github.com/vestradao/vdao/vdao"
)

// readBatch caps the events one Read returns.
const readBatch = 256

// EventFilter narrows a subscription. Nil fields match everything.
type EventFilter struct {
	Address *vdao.Address
	Account *vdao.Address
	Name    string
}

type eventReader struct {
	eng    *engine.Engine
	filter *EventFilter
	pos    uint64
}

// newEventReader reads the events after the sequence number pos.
func newEventReader(eng *engine.Engine, pos uint64, filter *EventFilter) *eventReader {
	return &eventReader{
		eng:    eng,
		filter: filter,
		pos:    pos,
	}
}

// Read returns the next matching events and whether there were any.
func (er *eventReader) Read(ctx context.Context) ([]*eventdb.Event, bool, error) {
	events, err := er.eng.Events(ctx, &eventdb.EventFilter{
		Address: er.filter.Address,
		Account: er.filter.Account,
		Name:    er.filter.Name,
		After:   er.pos,
		Order:   eventdb.ASC,
		Options: &eventdb.Options{Limit: readBatch},
	})
	if err != nil {
		return nil, false, err
	}
	if len(events) > 0 {
		er.pos = events[len(events)-1].Seq
	}
	return events, len(events) > 0, nil
}
