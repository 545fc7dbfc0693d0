// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible tokens used as deposit and reward tokens of the pools.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/events"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/types"
)

var (
	slotMeta     = nameToSlot("token-meta")
	slotSupply   = nameToSlot("token-supply")
	slotBalances = nameToSlot("token-balances")
)

func nameToSlot(name string) types.Bytes32 {
	return types.BytesToBytes32([]byte(name))
}

// Meta is the immutable description of a token.
type Meta struct {
	Name   string
	Symbol string
}

// Token implements a fungible token stored at its own address.
type Token struct {
	addr     types.Address
	meta     *solidity.Raw[*Meta]
	supply   *solidity.Uint256
	balances *solidity.Mapping[types.Address, *big.Int]
	emitter  events.Emitter
}

// New create a new instance.
func New(addr types.Address, state *state.State, emitter events.Emitter) *Token {
	sctx := solidity.NewContext(addr, state)
	if emitter == nil {
		emitter = events.Discard
	}
	return &Token{
		addr:     addr,
		meta:     solidity.NewRaw[*Meta](sctx, slotMeta),
		supply:   solidity.NewUint256(sctx, slotSupply),
		balances: solidity.NewMapping[types.Address, *big.Int](sctx, slotBalances),
		emitter:  emitter,
	}
}

// Address returns the token address.
func (t *Token) Address() types.Address {
	return t.addr
}

// Initialize writes the token meta, only once.
func (t *Token) Initialize(meta *Meta) error {
	_, exists, err := t.meta.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get meta")
	}
	if exists {
		return errors.Errorf("token %v already initialized", t.addr)
	}
	return t.meta.Set(meta)
}

// Meta returns the token meta, or a revert if the token is unknown.
func (t *Token) Meta() (*Meta, error) {
	meta, exists, err := t.meta.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get meta")
	}
	if !exists {
		return nil, reverts.Newf(reverts.UnknownContract, "unknown token %v", t.addr)
	}
	return meta, nil
}

// TotalSupply returns the minted amount.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.supply.Get()
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr types.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func (t *Token) setBalance(addr types.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		t.balances.Delete(addr)
		return nil
	}
	if err := t.balances.Set(addr, bal); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

// Mint creates amount tokens for to.
func (t *Token) Mint(to types.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "negative mint")
	}
	if amount.Sign() == 0 {
		return reverts.New(reverts.ZeroAmount, "zero mint")
	}
	if _, err := t.Meta(); err != nil {
		return err
	}
	// balances are bounded by the supply
	if err := t.supply.Add(amount); err != nil {
		if errors.Is(err, solidity.ErrOverflow) {
			return reverts.Newf(reverts.Overflow, "supply of %v overflows", t.addr)
		}
		return errors.Wrap(err, "failed to add supply")
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	t.emitter.Emit(events.Transfer(t.addr, types.Address{}, to, amount))
	return nil
}

// Transfer moves amount from one account to another, all or nothing.
// Zero amount is a no-op.
func (t *Token) Transfer(from, to types.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "negative amount")
	}
	if _, err := t.Meta(); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "insufficient balance of %v", from)
	}
	if err := t.setBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(to, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	t.emitter.Emit(events.Transfer(t.addr, from, to, amount))
	return nil
}
