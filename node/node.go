// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node runs pool and token operations one at a time over the shared state.
package node

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/events"
	"github.com/vechain/stakepool/builtin/lockpool"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/eventdb"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/types"
)

var logger = log.WithContext("pkg", "node")

// Op is an operation over the environment. A returned error undoes all of its effects.
type Op func(env *lockpool.Env) error

// Receipt describes a committed operation.
type Receipt struct {
	Seq       uint64
	Name      string
	Time      uint64
	StateHash types.Bytes32 // hash of the changed slots
	Events    []*events.Record
}

// Node is the single writer of the state.
type Node struct {
	mu      sync.Mutex
	stater  *state.Stater
	eventDB *eventdb.EventDB
	clock   Clock
	seq     uint64

	lastCommit time.Time
	indexErr   error
}

// New creates a node. eventDB is optional; without it events are only returned in receipts.
func New(stater *state.Stater, eventDB *eventdb.EventDB, clock Clock) (*Node, error) {
	n := &Node{
		stater:  stater,
		eventDB: eventDB,
		clock:   clock,
	}
	if eventDB != nil {
		seq, err := eventDB.LastOpSeq(context.Background())
		if err != nil {
			return nil, errors.Wrap(err, "load last op seq")
		}
		n.seq = seq
	}
	return n, nil
}

// Now returns the current time of the node clock.
func (n *Node) Now() uint64 {
	return n.clock.Now()
}

// Seq returns the sequence of the last committed operation.
func (n *Node) Seq() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seq
}

func (n *Node) EventDB() *eventdb.EventDB {
	return n.eventDB
}

// LastCommit returns the wall time of the last committed operation, zero if none
// since the node started.
func (n *Node) LastCommit() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastCommit
}

// IndexErr returns the error of the last failed event persisting, nil once the
// events of a later operation are persisted.
func (n *Node) IndexErr() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.indexErr
}

// Execute runs op and commits its effects, or discards them if op fails.
// A committed op succeeds even when its events fail to persist; see IndexErr.
func (n *Node) Execute(name string, op Op) (*Receipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	start := time.Now()
	defer func() {
		metricOpDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": name})
	}()

	var (
		now      = n.clock.Now()
		st       = n.stater.NewState()
		recorder = events.NewRecorder()
		env      = &lockpool.Env{State: st, Now: now, Emitter: recorder}
	)
	logger.Debug("executing", "op", name, "seq", n.seq+1, "time", now)

	checkpoint := st.NewCheckpoint()
	if err := op(env); err != nil {
		st.RevertTo(checkpoint)
		recorder.RevertTo(0)
		if reverts.IsRevertErr(err) {
			metricOpCount().AddWithLabel(1, map[string]string{"op": name, "result": "reverted"})
			logger.Info("reverted", "op", name, "error", err)
		} else {
			metricOpCount().AddWithLabel(1, map[string]string{"op": name, "result": "failed"})
			logger.Error("failed", "op", name, "error", err)
		}
		return nil, err
	}

	stage := st.Stage()
	receipt := &Receipt{
		Seq:       n.seq + 1,
		Name:      name,
		Time:      now,
		StateHash: stage.Hash(),
		Events:    recorder.Records(),
	}
	if err := stage.Commit(); err != nil {
		metricOpCount().AddWithLabel(1, map[string]string{"op": name, "result": "failed"})
		logger.Error("failed to commit state", "op", name, "error", err)
		return nil, errors.Wrap(err, "commit state")
	}
	n.seq = receipt.Seq
	n.lastCommit = time.Now()
	metricOpSeq().Set(int64(n.seq))

	if n.eventDB != nil {
		if err := n.eventDB.NewBatch(receipt.Seq, now).Add(receipt.Events...).Commit(); err != nil {
			// the op is committed and stands, only the history misses it
			logger.Error("failed to persist events", "op", name, "seq", receipt.Seq, "error", err)
			n.indexErr = errors.Wrapf(err, "persist events of op %d", receipt.Seq)
		} else {
			n.indexErr = nil
		}
	}

	metricOpCount().AddWithLabel(1, map[string]string{"op": name, "result": "committed"})
	logger.Info("executed", "op", name, "seq", receipt.Seq, "events", len(receipt.Events), "state", receipt.StateHash.AbbrevString())
	return receipt, nil
}

// View runs a read-only op. Any write done by op is discarded.
func (n *Node) View(op Op) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	env := &lockpool.Env{
		State:   n.stater.NewState(),
		Now:     n.clock.Now(),
		Emitter: events.Discard,
	}
	return op(env)
}
