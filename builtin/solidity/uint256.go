// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/vdao"
)

var (
	errCounterOverflow = errors.New("counter overflow")
	// ErrUint256Overflow is returned when an addition exceeds 256 bits.
	ErrUint256Overflow = errors.New("uint256 overflow")
	// ErrUint256Underflow is returned when a subtraction would go below zero.
	ErrUint256Underflow = errors.New("uint256 underflow")
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	context *Context
	pos     vdao.Bytes32
}

func NewUint256(context *Context, slot vdao.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	u.context.UseGas(vdao.SloadGas)
	return new(uint256.Int).SetBytes(storage), nil
}

func (u *Uint256) Set(value *uint256.Int) {
	if value == nil || value.IsZero() {
		u.context.UseGas(vdao.SstoreResetGas)
		u.context.state.SetStorage(u.context.address, u.pos, nil)
		return
	}
	u.context.UseGas(vdao.SstoreSetGas)
	u.context.state.SetStorage(u.context.address, u.pos, value.Bytes())
}

func (u *Uint256) Add(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if _, overflow := storage.AddOverflow(storage, value); overflow {
		return ErrUint256Overflow
	}
	u.Set(storage)
	return nil
}

func (u *Uint256) Sub(value *uint256.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Lt(value) {
		return ErrUint256Underflow
	}
	storage.Sub(storage, value)
	u.Set(storage)
	return nil
}
