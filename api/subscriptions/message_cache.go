// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vestradao/vdao/eventdb"
)

// messageCache holds encoded events so concurrent subscribers encode each one once.
type messageCache struct {
	cache *lru.Cache
	mu    sync.RWMutex
}

func newMessageCache(cacheSize uint32) *messageCache {
	if cacheSize > 1000 {
		cacheSize = 1000
	}
	if cacheSize == 0 {
		cacheSize = 1
	}
	cache, err := lru.New(int(cacheSize))
	if err != nil {
		// lru.New only throws an error if the number is less than 1
		panic(fmt.Errorf("failed to create message cache: %v", err))
	}
	return &messageCache{
		cache: cache,
	}
}

// GetOrAdd returns the encoded event, encoding and caching it on a miss.
// The second return value indicates whether the message is newly generated.
func (mc *messageCache) GetOrAdd(ev *eventdb.Event) ([]byte, bool, error) {
	mc.mu.RLock()
	msg, ok := mc.cache.Get(ev.Seq)
	mc.mu.RUnlock()
	if ok {
		return msg.([]byte), false, nil
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	msg, ok = mc.cache.Get(ev.Seq)
	if ok {
		return msg.([]byte), false, nil
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return nil, false, err
	}
	mc.cache.Add(ev.Seq, data)
	return data, true, nil
}
