// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package engine runs builtin entry points against the persisted state.
// Calls are serialized; each one either commits all of its writes or none.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin/gascharger"
	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/co"
	"github.com/vestradao/vdao/eventdb"
	"github.com/vestradao/vdao/kv"
	"github.com/vestradao/vdao/log"
	"github.com/vestradao/vdao/state"
	"github.com/vestradao/vdao/vdao"
)

var logger = log.WithContext("pkg", "engine")

// Receipt describes a committed call.
type Receipt struct {
	Op     string
	Time   uint64
	Gas    uint64
	Events []*eventdb.Event
}

type Engine struct {
	mu     sync.Mutex
	store  kv.Store
	events *eventdb.EventDB
	clock  Clock
	signal co.Signal
}

// New creates an engine over store. Committed events go to events.
func New(store kv.Store, events *eventdb.EventDB, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		store:  store,
		events: events,
		clock:  clock,
	}
}

// Now samples the engine clock.
func (e *Engine) Now() uint64 {
	return e.clock.Now()
}

// NewWaiter returns a waiter woken after every committed call that emitted events.
func (e *Engine) NewWaiter() co.Waiter {
	return e.signal.NewWaiter()
}

// Events queries the persisted events.
func (e *Engine) Events(ctx context.Context, filter *eventdb.EventFilter) ([]*eventdb.Event, error) {
	return e.events.FilterEvents(ctx, filter)
}

// EventDB returns the event store the engine writes to.
func (e *Engine) EventDB() *eventdb.EventDB {
	return e.events
}

// Apply runs fn as one atomic call named op. It is the escape hatch genesis
// and bulk tooling use; regular callers go through the typed entry points.
func (e *Engine) Apply(op string, now uint64, fn func(ctx *solidity.Context) error) (*Receipt, error) {
	return e.exec(op, now, fn)
}

func (e *Engine) exec(op string, now uint64, fn func(ctx *solidity.Context) error) (*Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		start   = time.Now()
		charger = gascharger.New()
		emitted []*solidity.Event
		st      = state.New(e.store)
	)
	sctx := solidity.NewContext(vdao.Address{}, st, charger.Charge).WithEmitter(func(ev *solidity.Event) {
		emitted = append(emitted, ev)
	})

	checkpoint := st.NewCheckpoint()
	if err := fn(sctx); err != nil {
		st.RevertTo(checkpoint)
		metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": resultLabel(err)})
		if reverts.IsRevertErr(err) {
			logger.Debug("call reverted", "op", op, "now", now, "err", err)
		} else {
			logger.Info("call failed", "op", op, "now", now, "err", err)
		}
		return nil, err
	}

	if err := st.Stage().Commit(e.store); err != nil {
		metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": "error"})
		logger.Error("commit failed", "op", op, "err", err)
		return nil, errors.WithMessagef(err, "commit %s", op)
	}

	rcpt := &Receipt{Op: op, Time: now, Gas: charger.TotalGas()}
	for _, ev := range emitted {
		rcpt.Events = append(rcpt.Events, eventdb.NewEvent(now, op, ev))
		metricEvents().AddWithLabel(1, map[string]string{"name": ev.Name})
	}
	if e.events != nil && len(rcpt.Events) > 0 {
		// state is already committed, a lost event row must not undo it
		if err := e.events.WriteEvents(context.Background(), rcpt.Events); err != nil {
			logger.Error("failed to record events", "op", op, "err", err)
		}
	}

	metricCalls().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	metricGas().ObserveWithLabels(int64(rcpt.Gas), map[string]string{"op": op})
	logger.Debug("call committed", "op", op, "now", now, "gas", rcpt.Gas, "events", len(rcpt.Events), "elapsed", time.Since(start))
	logger.Trace("gas breakdown", "op", op, "gas", charger.Breakdown())

	if len(rcpt.Events) > 0 {
		e.signal.Broadcast()
	}
	return rcpt, nil
}

// view runs fn against the committed state and discards anything it writes.
func (e *Engine) view(fn func(ctx *solidity.Context) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fn(solidity.NewContext(vdao.Address{}, state.New(e.store), nil))
}
