// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/builtin/events"
	"github.com/vechain/stakepool/node"
	"github.com/vechain/stakepool/types"
)

// Amount returns v as a json amount, hex encoded.
func Amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}

// BigOf returns the value of a json amount, nil stays nil.
func BigOf(a *math.HexOrDecimal256) *big.Int {
	if a == nil {
		return nil
	}
	return (*big.Int)(a)
}

type Event struct {
	Contract types.Address     `json:"contract"`
	Name     string            `json:"name"`
	Subjects []types.Address   `json:"subjects"`
	Args     map[string]string `json:"args"`
}

func ConvertEvent(rec *events.Record) *Event {
	return &Event{
		Contract: rec.Contract,
		Name:     rec.Name,
		Subjects: rec.Subjects,
		Args:     rec.Args,
	}
}

// Receipt is the outcome of a committed operation.
type Receipt struct {
	Seq       uint64        `json:"seq"`
	Op        string        `json:"op"`
	Time      uint64        `json:"time"`
	StateHash types.Bytes32 `json:"stateHash"`
	Events    []*Event      `json:"events"`
}

func ConvertReceipt(r *node.Receipt) *Receipt {
	evs := make([]*Event, 0, len(r.Events))
	for _, rec := range r.Events {
		evs = append(evs, ConvertEvent(rec))
	}
	return &Receipt{
		Seq:       r.Seq,
		Op:        r.Name,
		Time:      r.Time,
		StateHash: r.StateHash,
		Events:    evs,
	}
}
