// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockpool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/shares"
	"github.com/vechain/stakepool/types"
)

// ErrInvalidConfig is returned when a pool can not be constructed from its config.
var ErrInvalidConfig = errors.New("invalid pool config")

// Config is fixed at construction and immutable afterwards.
type Config struct {
	Name            string // share token name
	Symbol          string // share token symbol
	DepositToken    types.Address
	RewardToken     types.Address
	EscrowPool      types.Address // zero means no escrow
	EscrowPortion   *big.Int      // 1e18 == 100%
	EscrowDuration  uint64
	MaxBonus        *big.Int // 1e18 == +100%
	MaxLockDuration uint64
	Transfer        shares.TransferPolicy
}

// HasEscrow tells whether claims are partly escrowed.
func (c *Config) HasEscrow() bool {
	return !c.EscrowPool.IsZero()
}

// Validate checks the config in isolation.
func (c *Config) Validate() error {
	if c.DepositToken.IsZero() {
		return errors.Wrap(ErrInvalidConfig, "zero deposit token")
	}
	if c.RewardToken.IsZero() {
		return errors.Wrap(ErrInvalidConfig, "zero reward token")
	}
	if c.EscrowPortion == nil || c.EscrowPortion.Sign() < 0 || c.EscrowPortion.Cmp(types.Precision) > 0 {
		return errors.Wrap(ErrInvalidConfig, "escrow portion out of [0, 1e18]")
	}
	if c.MaxBonus == nil || c.MaxBonus.Sign() < 0 {
		return errors.Wrap(ErrInvalidConfig, "negative max bonus")
	}
	if c.MaxLockDuration < types.MinLockDuration {
		return errors.Wrapf(ErrInvalidConfig, "max lock duration below %d", types.MinLockDuration)
	}
	return nil
}
