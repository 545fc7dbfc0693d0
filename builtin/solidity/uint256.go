// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/types"
)

var (
	// ErrOverflow is returned when a value does not fit an unsigned 256 bit slot.
	ErrOverflow = errors.New("uint256 overflow")
	// ErrUnderflow is returned when a subtraction would go below zero.
	ErrUnderflow = errors.New("uint256 underflow")
)

// Uint256 is an unsigned 256 bit integer in a storage slot. Writes that do not
// fit fail and leave the slot unchanged, like checked arithmetic in a contract.
type Uint256 struct {
	context *Context
	pos     types.Bytes32
}

func NewUint256(context *Context, slot types.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) get() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

func (u *Uint256) put(v *uint256.Int) {
	u.context.state.SetStorage(u.context.address, u.pos, types.Bytes32(v.Bytes32()))
}

func (u *Uint256) Get() (*big.Int, error) {
	v, err := u.get()
	if err != nil {
		return nil, err
	}
	return v.ToBig(), nil
}

func (u *Uint256) Set(value *big.Int) error {
	v, err := toUint256(value)
	if err != nil {
		return err
	}
	u.put(v)
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	delta, err := toUint256(value)
	if err != nil {
		return err
	}
	v, err := u.get()
	if err != nil {
		return err
	}
	if _, overflow := v.AddOverflow(v, delta); overflow {
		return ErrOverflow
	}
	u.put(v)
	return nil
}

func (u *Uint256) Sub(value *big.Int) error {
	delta, err := toUint256(value)
	if err != nil {
		return err
	}
	v, err := u.get()
	if err != nil {
		return err
	}
	if _, underflow := v.SubOverflow(v, delta); underflow {
		return ErrUnderflow
	}
	u.put(v)
	return nil
}

func toUint256(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, ErrUnderflow
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrOverflow
	}
	return u, nil
}
