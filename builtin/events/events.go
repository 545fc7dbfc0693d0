// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the records emitted by builtin tokens and pools.
package events

import (
	"math/big"
	"strconv"

	"github.com/vechain/stakepool/types"
)

// Event names.
const (
	NameTransfer           = "Transfer"
	NameSharesTransferred  = "SharesTransferred"
	NameRewardsDistributed = "RewardsDistributed"
	NameRewardsWithdrawn   = "RewardsWithdrawn"
	NameDeposited          = "Deposited"
	NameWithdrawn          = "Withdrawn"
	NameRewardsClaimed     = "RewardsClaimed"
)

// Record is an event emitted by a builtin contract.
// Subjects are the accounts the event is indexed by.
type Record struct {
	Contract types.Address
	Name     string
	Subjects []types.Address
	Args     map[string]string
}

// Emitter receives the records of an operation.
type Emitter interface {
	Emit(rec *Record)
}

// EmitterFunc adapts a func to Emitter.
type EmitterFunc func(rec *Record)

func (f EmitterFunc) Emit(rec *Record) { f(rec) }

// Discard is an emitter dropping everything.
var Discard Emitter = EmitterFunc(func(*Record) {})

func amount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func Transfer(token, from, to types.Address, value *big.Int) *Record {
	return &Record{
		Contract: token,
		Name:     NameTransfer,
		Subjects: []types.Address{from, to},
		Args: map[string]string{
			"from":  from.String(),
			"to":    to.String(),
			"value": amount(value),
		},
	}
}

func SharesTransferred(pool, from, to types.Address, value *big.Int) *Record {
	return &Record{
		Contract: pool,
		Name:     NameSharesTransferred,
		Subjects: []types.Address{from, to},
		Args: map[string]string{
			"from":  from.String(),
			"to":    to.String(),
			"value": amount(value),
		},
	}
}

func RewardsDistributed(pool, by types.Address, value *big.Int) *Record {
	return &Record{
		Contract: pool,
		Name:     NameRewardsDistributed,
		Subjects: []types.Address{by},
		Args: map[string]string{
			"by":     by.String(),
			"amount": amount(value),
		},
	}
}

func RewardsWithdrawn(pool, account types.Address, value *big.Int) *Record {
	return &Record{
		Contract: pool,
		Name:     NameRewardsWithdrawn,
		Subjects: []types.Address{account},
		Args: map[string]string{
			"account": account.String(),
			"amount":  amount(value),
		},
	}
}

func Deposited(pool types.Address, value *big.Int, duration uint64, receiver, from types.Address) *Record {
	return &Record{
		Contract: pool,
		Name:     NameDeposited,
		Subjects: []types.Address{receiver, from},
		Args: map[string]string{
			"amount":   amount(value),
			"duration": strconv.FormatUint(duration, 10),
			"receiver": receiver.String(),
			"from":     from.String(),
		},
	}
}

func Withdrawn(pool types.Address, depositID uint64, receiver, from types.Address, value *big.Int) *Record {
	return &Record{
		Contract: pool,
		Name:     NameWithdrawn,
		Subjects: []types.Address{receiver, from},
		Args: map[string]string{
			"depositId": strconv.FormatUint(depositID, 10),
			"receiver":  receiver.String(),
			"from":      from.String(),
			"amount":    amount(value),
		},
	}
}

func RewardsClaimed(pool, from, receiver types.Address, escrowed, direct *big.Int) *Record {
	return &Record{
		Contract: pool,
		Name:     NameRewardsClaimed,
		Subjects: []types.Address{from, receiver},
		Args: map[string]string{
			"from":              from.String(),
			"receiver":          receiver.String(),
			"escrowedAmount":    amount(escrowed),
			"nonEscrowedAmount": amount(direct),
		},
	}
}
