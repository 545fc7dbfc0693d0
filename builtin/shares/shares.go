// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package shares keeps the share balances of a pool, the weighting basis of rewards.
package shares

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/events"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/types"
)

var (
	slotBalances = nameToSlot("share-balances")
	slotTotal    = nameToSlot("share-total")
)

func nameToSlot(name string) types.Bytes32 {
	return types.BytesToBytes32([]byte(name))
}

// TransferPolicy tells whether shares can move between accounts.
type TransferPolicy uint8

const (
	TransferDisabled TransferPolicy = iota
	TransferEnabled
)

func (p TransferPolicy) String() string {
	if p == TransferEnabled {
		return "enabled"
	}
	return "disabled"
}

// Ledger owns the share balance of each account and the total outstanding shares.
type Ledger struct {
	addr     types.Address
	balances *solidity.Mapping[types.Address, *big.Int]
	total    *solidity.Uint256
	policy   TransferPolicy
	emitter  events.Emitter
}

// New creates a ledger in the storage of the pool.
func New(sctx *solidity.Context, policy TransferPolicy, emitter events.Emitter) *Ledger {
	if emitter == nil {
		emitter = events.Discard
	}
	return &Ledger{
		addr:     sctx.Address(),
		balances: solidity.NewMapping[types.Address, *big.Int](sctx, slotBalances),
		total:    solidity.NewUint256(sctx, slotTotal),
		policy:   policy,
		emitter:  emitter,
	}
}

func (l *Ledger) Policy() TransferPolicy {
	return l.policy
}

// ShareBalanceOf returns the shares held by addr.
func (l *Ledger) ShareBalanceOf(addr types.Address) (*big.Int, error) {
	bal, err := l.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get shares")
	}
	return bal, nil
}

// TotalShares returns the outstanding shares.
func (l *Ledger) TotalShares() (*big.Int, error) {
	total, err := l.total.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total shares")
	}
	return total, nil
}

func (l *Ledger) setBalance(addr types.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		l.balances.Delete(addr)
		return nil
	}
	if err := l.balances.Set(addr, bal); err != nil {
		return errors.Wrap(err, "failed to set shares")
	}
	return nil
}

// CheckMint reverts with Overflow if minting amount would push the total past 256 bits.
func (l *Ledger) CheckMint(amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "negative shares")
	}
	total, err := l.TotalShares()
	if err != nil {
		return err
	}
	if new(big.Int).Add(total, amount).BitLen() > 256 {
		return reverts.New(reverts.Overflow, "total shares overflow")
	}
	return nil
}

// Mint creates shares for to. Balances never exceed the total, so only the
// total is bound checked.
func (l *Ledger) Mint(to types.Address, amount *big.Int) error {
	if err := l.CheckMint(amount); err != nil {
		return err
	}
	if err := l.total.Add(amount); err != nil {
		return errors.Wrap(err, "failed to add total shares")
	}
	bal, err := l.ShareBalanceOf(to)
	if err != nil {
		return err
	}
	if err := l.setBalance(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	l.emitter.Emit(events.SharesTransferred(l.addr, types.Address{}, to, amount))
	return nil
}

// Burn destroys shares of from.
func (l *Ledger) Burn(from types.Address, amount *big.Int) error {
	bal, err := l.ShareBalanceOf(from)
	if err != nil {
		return err
	}
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "negative shares")
	}
	if bal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "insufficient shares of %v", from)
	}
	if err := l.setBalance(from, bal.Sub(bal, amount)); err != nil {
		return err
	}
	if err := l.total.Sub(amount); err != nil {
		return errors.Wrap(err, "failed to sub total shares")
	}
	l.emitter.Emit(events.SharesTransferred(l.addr, from, types.Address{}, amount))
	return nil
}

// Transfer moves shares between accounts if the policy allows it.
func (l *Ledger) Transfer(from, to types.Address, amount *big.Int) error {
	if l.policy != TransferEnabled {
		return reverts.New(reverts.NonTransferable, "non-transferable")
	}
	if amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "negative transfer")
	}
	if amount.Sign() == 0 {
		return reverts.New(reverts.ZeroAmount, "zero transfer")
	}
	fromBal, err := l.ShareBalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "insufficient shares of %v", from)
	}
	if err := l.setBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := l.ShareBalanceOf(to)
	if err != nil {
		return err
	}
	if err := l.setBalance(to, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	l.emitter.Emit(events.SharesTransferred(l.addr, from, to, amount))
	return nil
}
