// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/vechain/stakepool/builtin/events"
	"github.com/vechain/stakepool/types"
)

// MaxSubjects is the count of indexed subjects per event.
const MaxSubjects = 2

// Event is an events.Record stored in db.
type Event struct {
	Seq      uint64 // insertion order
	OpSeq    uint64 // sequence of the operation that emitted it
	Index    uint32 // index within the operation
	Time     uint64
	Contract types.Address
	Name     string
	Subjects []types.Address
	Args     map[string]string
}

func newEvent(opSeq uint64, index uint32, time uint64, rec *events.Record) *Event {
	subjects := rec.Subjects
	if len(subjects) > MaxSubjects {
		subjects = subjects[:MaxSubjects]
	}
	return &Event{
		OpSeq:    opSeq,
		Index:    index,
		Time:     time,
		Contract: rec.Contract,
		Name:     rec.Name,
		Subjects: subjects,
		Args:     rec.Args,
	}
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects events. Nil or empty criteria match everything.
type Filter struct {
	Contract *types.Address
	Name     string
	Subject  *types.Address
	Order    Order
	Options  *Options
}
