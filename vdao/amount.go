// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vdao

import (
	"math/bits"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// unit is 10^Decimals, the number of base units in one whole token.
var unit = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(Decimals))

// Zero returns a new zero amount.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// Tokens converts whole tokens into base units. It panics on overflow
// and is meant for constants and tests.
func Tokens(n uint64) *uint256.Int {
	v, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(n), unit)
	if overflow {
		panic("token amount overflow")
	}
	return v
}

// ParseTokens parses a decimal token amount such as "1875000" or "0.5"
// into base units. At most Decimals fractional digits are accepted.
func ParseTokens(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty amount")
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > Decimals {
		return nil, errors.Errorf("too many decimals in %q", s)
	}
	frac += strings.Repeat("0", Decimals-len(frac))
	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		return Zero(), nil
	}
	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return nil, errors.Wrapf(err, "parse amount %q", s)
	}
	return v, nil
}

// FormatTokens renders base units as a decimal token amount.
func FormatTokens(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	q, r := new(uint256.Int), new(uint256.Int)
	q.DivMod(v, unit, r)
	if r.IsZero() {
		return q.Dec()
	}
	frac := r.Dec()
	frac = strings.Repeat("0", Decimals-len(frac)) + frac
	return q.Dec() + "." + strings.TrimRight(frac, "0")
}

// MulDiv returns x*y/d with a 512-bit intermediate product, truncating.
// The second return value reports overflow of the result or a zero divisor.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, bool) {
	if d.IsZero() {
		return Zero(), true
	}
	return new(uint256.Int).MulDivOverflow(x, y, d)
}

// AddTime adds two unix second values, reporting overflow.
func AddTime(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry != 0
}

// MulTime multiplies two durations, reporting overflow.
func MulTime(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi != 0
}
