// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/kv"
)

// Stage holds the pending slot changes of a State.
type Stage struct {
	changes map[storageKey][]byte
	order   []storageKey
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes all changes into store in one atomic bulk.
func (s *Stage) Commit(store kv.Store) error {
	if len(s.order) == 0 {
		return nil
	}
	bulk := store.Bulk()
	for _, key := range s.order {
		val := s.changes[key]
		var err error
		if len(val) == 0 {
			err = bulk.Delete(key.encode())
		} else {
			err = bulk.Put(key.encode(), val)
		}
		if err != nil {
			return errors.Wrap(err, "stage")
		}
	}
	return errors.Wrap(bulk.Write(), "commit state")
}
