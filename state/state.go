// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/vestradao/vdao/kv"
	"github.com/vestradao/vdao/stackedmap"
	"github.com/vestradao/vdao/vdao"
)

const storageKeyPrefix = 's'

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr vdao.Address
	key  vdao.Bytes32
}

func (k storageKey) encode() []byte {
	b := make([]byte, 0, 1+vdao.AddressLength+32)
	b = append(b, storageKeyPrefix)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages the storage of builtin contracts.
type State struct {
	db kv.Getter
	sm *stackedmap.StackedMap
}

// New create state object over db.
func New(db kv.Getter) *State {
	state := State{db: db}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.dbGetter(key)
	})
	return &state
}

// dbGetter implements stackedmap.MapGetter.
func (s *State) dbGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case storageKey:
		v, err := s.db.Get(k.encode())
		if err != nil {
			if s.db.IsNotFound(err) {
				return []byte(nil), true, nil
			}
			return nil, false, err
		}
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// GetStorage returns the raw value of the slot. Empty slots return a nil slice.
func (s *State) GetStorage(addr vdao.Address, key vdao.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v.([]byte), nil
}

// SetStorage sets the raw value of the slot. An empty value clears the slot.
func (s *State) SetStorage(addr vdao.Address, key vdao.Bytes32, value []byte) {
	s.sm.Put(storageKey{addr, key}, value)
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by Error type.
func (s *State) DecodeStorage(addr vdao.Address, key vdao.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by Error type.
func (s *State) EncodeStorage(addr vdao.Address, key vdao.Bytes32, enc func() ([]byte, error)) error {
	data, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetStorage(addr, key, data)
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 0 {
		panic("invalid revision")
	}
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the latest value of every changed slot.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey][]byte)
	var order []storageKey
	s.sm.Journal(func(k, v any) bool {
		key := k.(storageKey)
		if _, ok := changes[key]; !ok {
			order = append(order, key)
		}
		changes[key] = v.([]byte)
		return true
	})
	return &Stage{changes: changes, order: order}
}
