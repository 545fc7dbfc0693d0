// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockpool

import (
	"math/big"
)

// Status of a deposit.
type Status uint8

const (
	StatusCreated Status = iota
	StatusMature
	StatusWithdrawn
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusMature:
		return "mature"
	case StatusWithdrawn:
		return "withdrawn"
	}
	return "unknown"
}

// Deposit is one lock position. It is destroyed on withdrawal.
type Deposit struct {
	Amount *big.Int
	Start  uint64
	End    uint64
}

// Duration returns the effective lock duration.
func (d *Deposit) Duration() uint64 {
	return d.End - d.Start
}

// Status returns the status of a live deposit at now.
func (d *Deposit) Status(now uint64) Status {
	if now < d.End {
		return StatusCreated
	}
	return StatusMature
}
