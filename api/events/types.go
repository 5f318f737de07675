// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"

	"github.com/vestradao/vdao/eventdb"
	"github.com/vestradao/vdao/vdao"
)

// Range bounds the event time, both ends inclusive. A zero To is unbounded.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64  `json:"offset"`
	Limit  *uint64 `json:"limit,omitempty"`
}

type EventFilter struct {
	Address *vdao.Address `json:"address,omitempty"`
	Account *vdao.Address `json:"account,omitempty"`
	Name    string        `json:"name,omitempty"`
	After   uint64        `json:"after,omitempty"`
	Range   *Range        `json:"range,omitempty"`
	Options *Options      `json:"options,omitempty"`
	Order   eventdb.Order `json:"order,omitempty"`
}

func (f *EventFilter) validate(maxLimit uint64) error {
	switch f.Order {
	case "", eventdb.ASC, eventdb.DESC:
	default:
		return fmt.Errorf("order: unknown value %q", f.Order)
	}
	if f.Range != nil && f.Range.To != 0 && f.Range.From > f.Range.To {
		return fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	if f.Options != nil {
		if f.Options.Offset > math.MaxInt64 {
			return fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64))
		}
		if f.Options.Limit != nil && *f.Options.Limit > maxLimit {
			return fmt.Errorf("options.limit exceeds the maximum allowed value of %d", maxLimit)
		}
	}
	return nil
}

func convertEventFilter(f *EventFilter, limit uint64) *eventdb.EventFilter {
	filter := &eventdb.EventFilter{
		Address: f.Address,
		Account: f.Account,
		Name:    f.Name,
		After:   f.After,
		Order:   f.Order,
		Options: &eventdb.Options{Limit: limit},
	}
	if f.Range != nil {
		filter.From = f.Range.From
		filter.To = f.Range.To
	}
	if f.Options != nil {
		filter.Options.Offset = f.Options.Offset
		if f.Options.Limit != nil {
			filter.Options.Limit = *f.Options.Limit
		}
	}
	return filter
}
