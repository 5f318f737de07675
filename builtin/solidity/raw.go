// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "github.com/vestradao/vdao/vdao"

// Raw is a single RLP encoded value stored at a fixed position.
type Raw[V any] struct {
	context *Context
	pos     vdao.Bytes32
}

func NewRaw[V any](context *Context, pos vdao.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

func (r *Raw[V]) Get() (value V, err error) {
	err = decodeSlot(r.context, r.pos, &value)
	return
}

func (r *Raw[V]) Insert(value V) error {
	return encodeSlot(r.context, r.pos, value, true)
}

func (r *Raw[V]) Update(value V) error {
	return encodeSlot(r.context, r.pos, value, false)
}

func (r *Raw[V]) Upsert(value V) error {
	raw, err := r.context.state.GetStorage(r.context.address, r.pos)
	if err != nil {
		return err
	}
	return encodeSlot(r.context, r.pos, value, len(raw) == 0)
}

// Counter hands out sequential IDs starting at 1.
type Counter struct {
	raw *Raw[uint64]
}

func NewCounter(context *Context, pos vdao.Bytes32) *Counter {
	return &Counter{raw: NewRaw[uint64](context, pos)}
}

// Current returns the last ID handed out, 0 if none.
func (c *Counter) Current() (uint64, error) {
	return c.raw.Get()
}

// Next increments the counter and returns the new ID.
func (c *Counter) Next() (uint64, error) {
	id, err := c.raw.Get()
	if err != nil {
		return 0, err
	}
	id, overflow := vdao.AddTime(id, 1)
	if overflow {
		return 0, errCounterOverflow
	}
	if err := c.raw.Upsert(id); err != nil {
		return 0, err
	}
	return id, nil
}
