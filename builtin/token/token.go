// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token keeps the balances of the fixed supply token.
package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/vdao"
)

var (
	slotSupply   = vdao.BytesToBytes32([]byte("total-supply"))
	slotBalances = vdao.BytesToBytes32([]byte("balances"))
)

var (
	ErrInsufficientBalance = reverts.NewCapacity("insufficient balance")
	ErrAlreadyInitialized  = reverts.NewState("token supply already minted")
	ErrInvalidAmount       = reverts.NewValidation("amount must be positive")
)

type Token struct {
	supply   *solidity.Uint256
	balances *solidity.Mapping[vdao.Address, *uint256.Int]
}

func New(sctx *solidity.Context) *Token {
	return &Token{
		supply:   solidity.NewUint256(sctx, slotSupply),
		balances: solidity.NewMapping[vdao.Address, *uint256.Int](sctx, slotBalances),
	}
}

// Initialize mints the whole supply to holder. It can only happen once.
func (t *Token) Initialize(holder vdao.Address, supply *uint256.Int) error {
	if supply == nil || supply.IsZero() {
		return ErrInvalidAmount
	}
	current, err := t.supply.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return ErrAlreadyInitialized
	}
	t.supply.Set(supply)
	return t.balances.Upsert(holder, supply)
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.supply.Get()
}

func (t *Token) BalanceOf(addr vdao.Address) (*uint256.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	if bal == nil {
		return vdao.Zero(), nil
	}
	return bal, nil
}

// Transfer moves amount from one account to another. A zero amount is a no-op.
func (t *Token) Transfer(from, to vdao.Address, amount *uint256.Int) error {
	if amount.IsZero() || from == to {
		return nil
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return errors.WithMessagef(ErrInsufficientBalance, "%v has %v, needs %v", from, fromBal.Dec(), amount.Dec())
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if _, overflow := toBal.AddOverflow(toBal, amount); overflow {
		return reverts.ErrOverflow
	}
	fromBal.Sub(fromBal, amount)
	if err := t.balances.Upsert(from, fromBal); err != nil {
		return err
	}
	return t.balances.Upsert(to, toBal)
}
