// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Amount is an unsigned 256 bit integer written as a decimal or 0x prefixed hex string.
type Amount struct {
	*big.Int
}

func NewAmount(v *big.Int) Amount {
	return Amount{new(big.Int).Set(v)}
}

// Big returns the value, zero if unset.
func (a Amount) Big() *big.Int {
	if a.Int == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.Int)
}

func (a Amount) IsZero() bool {
	return a.Int == nil || a.Sign() == 0
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, ok := math.ParseBig256(s)
	if !ok || v.Sign() < 0 {
		return errors.Errorf("line %d: invalid amount %q", node.Line, s)
	}
	a.Int = v
	return nil
}

func (a Amount) MarshalYAML() (any, error) {
	return a.Big().String(), nil
}
