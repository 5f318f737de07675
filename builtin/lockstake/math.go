// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockstake

import (
	"github.com/holiman/uint256"

	"github.com/vestradao/vdao/builtin/reverts"
	"github.com/vestradao/vdao/vdao"
)

var yearBasis = new(uint256.Int).Mul(uint256.NewInt(vdao.BasisPoints), uint256.NewInt(vdao.YearSeconds))

// AprAmount returns principal * apr * duration / (10000 * YEAR), truncated.
func AprAmount(principal *uint256.Int, aprBasisPoints, duration uint64) (*uint256.Int, error) {
	rate := new(uint256.Int).Mul(uint256.NewInt(aprBasisPoints), uint256.NewInt(duration))
	v, overflow := vdao.MulDiv(principal, rate, yearBasis)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return v, nil
}

// Penalty returns the early exit fee: the tier rate over the fee window, never more than principal.
func Penalty(principal *uint256.Int, tier *Tier) (*uint256.Int, error) {
	fee, err := AprAmount(principal, tier.APRBasisPoints, tier.LateUnstakeFeeDuration)
	if err != nil {
		return nil, err
	}
	if fee.Gt(principal) {
		fee.Set(principal)
	}
	return fee, nil
}
