// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/vdao"
)

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Absent entries decode to the zero value of V, which is nil for pointer types.
type Mapping[K Key, V any] struct {
	context *Context
	basePos vdao.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos vdao.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) vdao.Bytes32 {
	return vdao.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = decodeSlot(m.context, m.position(key), &value)
	return
}

// Exists reports whether the entry holds a value.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.context.state.GetStorage(m.context.address, m.position(key))
	if err != nil {
		return false, err
	}
	m.context.UseGas(vdao.SloadGas)
	return len(raw) > 0, nil
}

// Insert writes a value into an empty entry.
func (m *Mapping[K, V]) Insert(key K, value V) error {
	return encodeSlot(m.context, m.position(key), value, true)
}

// Update overwrites an existing entry.
func (m *Mapping[K, V]) Update(key K, value V) error {
	return encodeSlot(m.context, m.position(key), value, false)
}

// Upsert inserts or updates the entry depending on whether it holds a value.
func (m *Mapping[K, V]) Upsert(key K, value V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	return encodeSlot(m.context, m.position(key), value, !exists)
}

func decodeSlot[V any](ctx *Context, pos vdao.Bytes32, value *V) error {
	return ctx.state.DecodeStorage(ctx.address, pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		slots := (uint64(len(raw)) + 31) / 32
		ctx.UseGas(slots * vdao.SloadGas)
		if reflect.ValueOf(value).Elem().Kind() == reflect.Ptr {
			typ := reflect.TypeOf(value).Elem().Elem()
			ptr := reflect.New(typ)
			if err := rlp.DecodeBytes(raw, ptr.Interface()); err != nil {
				return errors.Wrap(err, "decode slot")
			}
			reflect.ValueOf(value).Elem().Set(ptr)
			return nil
		}
		return errors.Wrap(rlp.DecodeBytes(raw, value), "decode slot")
	})
}

func encodeSlot[V any](ctx *Context, pos vdao.Bytes32, value V, newValue bool) error {
	return ctx.state.EncodeStorage(ctx.address, pos, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, errors.Wrap(err, "encode slot")
		}
		slots := (uint64(len(val)) + 31) / 32
		if newValue {
			ctx.UseGas(slots * vdao.SstoreSetGas)
		} else {
			ctx.UseGas(slots * vdao.SstoreResetGas)
		}
		return val, nil
	})
}
