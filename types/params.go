// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"math/big"
)

// Constants of the staking pools.
const (
	// MinLockDuration is the floor every lock duration is clamped to (unit: second).
	MinLockDuration uint64 = 10 * 60
)

var (
	// Precision is the fixed-point base of multipliers and portions, 1e18 == 100%.
	Precision = big.NewInt(1e18)

	// PointsMultiplier scales the points-per-share accumulator, max uint128.
	PointsMultiplier = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// Ether returns n * 1e18 as big.Int, handy for token amounts with 18 decimals.
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Precision)
}
