// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/builtin/lockpool"
	"github.com/vechain/stakepool/builtin/shares"
	"github.com/vechain/stakepool/types"
)

type Pool struct {
	Name            string                `json:"name"`
	Address         types.Address         `json:"address"`
	ShareName       string                `json:"shareName"`
	ShareSymbol     string                `json:"shareSymbol"`
	DepositToken    types.Address         `json:"depositToken"`
	RewardToken     types.Address         `json:"rewardToken"`
	EscrowPool      *types.Address        `json:"escrowPool"`
	EscrowPortion   *math.HexOrDecimal256 `json:"escrowPortion"`
	EscrowDuration  uint64                `json:"escrowDuration"`
	MaxBonus        *math.HexOrDecimal256 `json:"maxBonus"`
	MaxLockDuration uint64                `json:"maxLockDuration"`
	Transferable    bool                  `json:"transferable"`
	TotalShares     *math.HexOrDecimal256 `json:"totalShares"`
	PointsPerShare  *math.HexOrDecimal256 `json:"pointsPerShare"`
}

func convertPool(name string, p *lockpool.Pool) (*Pool, error) {
	total, err := p.TotalShares()
	if err != nil {
		return nil, err
	}
	pps, err := p.PointsPerShare()
	if err != nil {
		return nil, err
	}
	cfg := p.Config()
	out := &Pool{
		Name:            name,
		Address:         p.Address(),
		ShareName:       cfg.Name,
		ShareSymbol:     cfg.Symbol,
		DepositToken:    cfg.DepositToken,
		RewardToken:     cfg.RewardToken,
		EscrowPortion:   utils.Amount(cfg.EscrowPortion),
		EscrowDuration:  cfg.EscrowDuration,
		MaxBonus:        utils.Amount(cfg.MaxBonus),
		MaxLockDuration: cfg.MaxLockDuration,
		Transferable:    cfg.Transfer == shares.TransferEnabled,
		TotalShares:     utils.Amount(total),
		PointsPerShare:  utils.Amount(pps),
	}
	if cfg.HasEscrow() {
		escrow := cfg.EscrowPool
		out.EscrowPool = &escrow
	}
	return out, nil
}

type Account struct {
	Shares              *math.HexOrDecimal256 `json:"shares"`
	TotalDeposit        *math.HexOrDecimal256 `json:"totalDeposit"`
	Deposits            uint64                `json:"deposits"`
	WithdrawableRewards *math.HexOrDecimal256 `json:"withdrawableRewards"`
	CumulativeRewards   *math.HexOrDecimal256 `json:"cumulativeRewards"`
	WithdrawnRewards    *math.HexOrDecimal256 `json:"withdrawnRewards"`
}

type Deposit struct {
	ID         uint64                `json:"id"`
	Amount     *math.HexOrDecimal256 `json:"amount"`
	Start      uint64                `json:"start"`
	End        uint64                `json:"end"`
	Shares     *math.HexOrDecimal256 `json:"shares"`
	Multiplier *math.HexOrDecimal256 `json:"multiplier"`
	Status     string                `json:"status"`
}

type Multiplier struct {
	Duration        uint64                `json:"duration"`
	ClampedDuration uint64                `json:"clampedDuration"`
	Multiplier      *math.HexOrDecimal256 `json:"multiplier"`
}

// DepositRequest deposits for Receiver, the caller when nil.
type DepositRequest struct {
	Caller   types.Address         `json:"caller"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
	Duration uint64                `json:"duration"`
	Receiver *types.Address        `json:"receiver"`
}

type DepositResult struct {
	DepositID uint64         `json:"depositId"`
	Receipt   *utils.Receipt `json:"receipt"`
}

type WithdrawRequest struct {
	Caller    types.Address  `json:"caller"`
	DepositID uint64         `json:"depositId"`
	Receiver  *types.Address `json:"receiver"`
}

type ClaimRequest struct {
	Caller   types.Address  `json:"caller"`
	Receiver *types.Address `json:"receiver"`
}

type ClaimResult struct {
	Escrowed *math.HexOrDecimal256 `json:"escrowed"`
	Direct   *math.HexOrDecimal256 `json:"direct"`
	Receipt  *utils.Receipt        `json:"receipt"`
}

type DistributeRequest struct {
	Caller types.Address         `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type TransferRequest struct {
	Caller types.Address         `json:"caller"`
	To     types.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func receiverOf(caller types.Address, receiver *types.Address) types.Address {
	if receiver == nil {
		return caller
	}
	return *receiver
}
