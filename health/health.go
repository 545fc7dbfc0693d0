// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"time"

	"github.com/vechain/stakepool/node"
)

type Ledger struct {
	Seq        uint64     `json:"seq"`
	LastCommit *time.Time `json:"lastCommit"`
}

type Index struct {
	Enabled bool   `json:"enabled"`
	Error   string `json:"error,omitempty"`
}

type Status struct {
	Healthy bool    `json:"healthy"`
	Ledger  *Ledger `json:"ledger"`
	Index   *Index  `json:"index"`
}

type Health struct {
	node *node.Node
}

func New(n *node.Node) *Health {
	return &Health{node: n}
}

// Status reports healthy once genesis is built and the event index keeps up
// with the committed operations.
func (h *Health) Status() *Status {
	ledger := &Ledger{Seq: h.node.Seq()}
	if last := h.node.LastCommit(); !last.IsZero() {
		ledger.LastCommit = &last
	}

	index := &Index{Enabled: h.node.EventDB() != nil}
	if err := h.node.IndexErr(); err != nil {
		index.Error = err.Error()
	}

	return &Status{
		Healthy: ledger.Seq > 0 && index.Error == "",
		Ledger:  ledger,
		Index:   index,
	}
}
