// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vestradao/vdao/vdao"
)

// Amount is a token amount written in whole tokens, e.g. "1875000" or "0.5".
type Amount uint256.Int

func tokens(n uint64) Amount {
	return Amount(*vdao.Tokens(n))
}

// Int returns the amount in base units.
func (a Amount) Int() *uint256.Int {
	v := uint256.Int(a)
	return &v
}

func (a Amount) IsZero() bool {
	return a.Int().IsZero()
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", node.Line)
	}
	v, err := vdao.ParseTokens(node.Value)
	if err != nil {
		return errors.WithMessagef(err, "line %d", node.Line)
	}
	*a = Amount(*v)
	return nil
}

func (a Amount) MarshalYAML() (any, error) {
	return vdao.FormatTokens(a.Int()), nil
}
