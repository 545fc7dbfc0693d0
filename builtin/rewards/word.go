// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/types"
)

// toWord encodes an int256 as a 32 byte two's complement word.
func toWord(v *big.Int) (types.Bytes32, error) {
	if v.BitLen() > 255 {
		return types.Bytes32{}, ErrOverflow
	}
	w, _ := uint256.FromBig(v)
	return w.Bytes32(), nil
}

// fromWord decodes a 32 byte two's complement word.
func fromWord(b types.Bytes32) *big.Int {
	w := new(uint256.Int).SetBytes32(b[:])
	if w.Sign() < 0 {
		return new(big.Int).Neg(new(uint256.Int).Neg(w).ToBig())
	}
	return w.ToBig()
}

// mul256 multiplies two uint256 values, failing on overflow.
func mul256(x, y *big.Int) (*big.Int, error) {
	a, overflow := uint256.FromBig(x)
	if overflow || x.Sign() < 0 {
		return nil, ErrOverflow
	}
	b, overflow := uint256.FromBig(y)
	if overflow || y.Sign() < 0 {
		return nil, ErrOverflow
	}
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z.ToBig(), nil
}

// add256 adds two uint256 values, failing on overflow.
func add256(x, y *big.Int) (*big.Int, error) {
	a, overflow := uint256.FromBig(x)
	if overflow || x.Sign() < 0 {
		return nil, ErrOverflow
	}
	b, overflow := uint256.FromBig(y)
	if overflow || y.Sign() < 0 {
		return nil, ErrOverflow
	}
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z.ToBig(), nil
}
