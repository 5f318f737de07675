// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vestradao/vdao/state"
	"github.com/vestradao/vdao/vdao"
)

type UseGasFunc func(gas uint64)

type EmitFunc func(ev *Event)

// Context binds storage access of one builtin to a state, a gas charger and an event sink.
type Context struct {
	address vdao.Address
	state   *state.State
	charger UseGasFunc
	emitter EmitFunc
}

func NewContext(address vdao.Address, state *state.State, charger UseGasFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

// WithEmitter returns a copy of the context that forwards emitted events to fn.
func (c *Context) WithEmitter(fn EmitFunc) *Context {
	cpy := *c
	cpy.emitter = fn
	return &cpy
}

// At returns a copy of the context bound to another address.
func (c *Context) At(address vdao.Address) *Context {
	cpy := *c
	cpy.address = address
	return &cpy
}

func (c *Context) Address() vdao.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) UseGas(gas uint64) {
	if c.charger != nil {
		c.charger(gas)
	}
}

// Emit stamps the event with the context address and hands it to the emitter.
func (c *Context) Emit(ev *Event) {
	ev.Address = c.address
	if c.emitter != nil {
		c.emitter(ev)
	}
}
