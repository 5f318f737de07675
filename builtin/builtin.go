// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vestradao/vdao/builtin/flexstake"
	"github.com/vestradao/vdao/builtin/governance"
	"github.com/vestradao/vdao/builtin/lockstake"
	"github.com/vestradao/vdao/builtin/solidity"
	"github.com/vestradao/vdao/builtin/token"
	"github.com/vestradao/vdao/builtin/vesting"
)

// Builtin contracts binding.
var (
	Token      = &tokenContract{newContract("Token")}
	Vesting    = &vestingContract{newContract("Vesting")}
	LockStake  = &lockStakeContract{newContract("LockStake")}
	Flexible   = &flexStakeContract{newContract("Flexible")}
	StakingDAO = &flexStakeContract{newContract("StakingDAO")}
	Governance = &governanceContract{newContract("Governance")}
)

type (
	tokenContract      struct{ *Contract }
	vestingContract    struct{ *Contract }
	lockStakeContract  struct{ *Contract }
	flexStakeContract  struct{ *Contract }
	governanceContract struct{ *Contract }
)

func (t *tokenContract) With(ctx *solidity.Context) *token.Token {
	return token.New(ctx.At(t.Address))
}

func (v *vestingContract) With(ctx *solidity.Context) *vesting.Ledger {
	return vesting.New(ctx.At(v.Address), Token.With(ctx))
}

func (l *lockStakeContract) With(ctx *solidity.Context) *lockstake.Pool {
	return lockstake.New(ctx.At(l.Address), Token.With(ctx))
}

func (f *flexStakeContract) With(ctx *solidity.Context) *flexstake.Pool {
	return flexstake.New(ctx.At(f.Address), Token.With(ctx))
}

func (g *governanceContract) With(ctx *solidity.Context) *governance.Governance {
	return governance.New(ctx.At(g.Address), Token.With(ctx))
}

// FlexPool returns the flexible pool contract registered under name.
func FlexPool(name string) (*flexStakeContract, bool) {
	switch name {
	case Flexible.Name:
		return Flexible, true
	case StakingDAO.Name:
		return StakingDAO, true
	}
	return nil, false
}

// Contracts returns every builtin, in deployment order.
func Contracts() []*Contract {
	return []*Contract{
		Token.Contract,
		Vesting.Contract,
		LockStake.Contract,
		Flexible.Contract,
		StakingDAO.Contract,
		Governance.Contract,
	}
}
