// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"sync/atomic"
	"time"
)

// Clock supplies the unix time an entry point runs at.
type Clock interface {
	Now() uint64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// FixedClock returns a pinned time until moved explicitly.
type FixedClock struct {
	t atomic.Uint64
}

func NewFixedClock(t uint64) *FixedClock {
	c := &FixedClock{}
	c.t.Store(t)
	return c
}

func (c *FixedClock) Now() uint64 {
	return c.t.Load()
}

func (c *FixedClock) Set(t uint64) {
	c.t.Store(t)
}

// Advance moves the clock forward by d seconds and returns the new time.
func (c *FixedClock) Advance(d uint64) uint64 {
	return c.t.Add(d)
}
