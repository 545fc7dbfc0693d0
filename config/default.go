// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"math/big"

	"github.com/vechain/stakepool/types"
)

const year = 365 * 24 * 3600

// DevAccounts are funded by Default.
var DevAccounts = []types.Address{
	types.NamedAddress("dev", "alice"),
	types.NamedAddress("dev", "bob"),
	types.NamedAddress("dev", "carol"),
}

// Default is a dev setup: one token, an escrow pool and a main pool
// escrowing 30% of claimed rewards for a year.
func Default() *Config {
	allocs := make([]Allocation, 0, len(DevAccounts))
	for _, acc := range DevAccounts {
		allocs = append(allocs, Allocation{
			Address: acc.String(),
			Amount:  NewAmount(types.Ether(1_000_000)),
		})
	}
	return &Config{
		DataDir: "./stakepool-data",
		API: API{
			Addr: "localhost:8669",
		},
		Metrics: Metrics{
			Addr: "localhost:2112",
		},
		Tokens: []Token{{
			Name:        "MC",
			Symbol:      "MC",
			Allocations: allocs,
		}},
		Pools: []Pool{
			{
				Name:            "escrow",
				ShareName:       "Escrowed Merit Circle",
				ShareSymbol:     "EMC",
				DepositToken:    "MC",
				RewardToken:     "MC",
				MaxBonus:        NewAmount(types.Ether(1)),
				MaxLockDuration: year,
			},
			{
				Name:            "main",
				ShareName:       "Staked Merit Circle",
				ShareSymbol:     "SMC",
				DepositToken:    "MC",
				RewardToken:     "MC",
				EscrowPool:      "escrow",
				EscrowPortion:   NewAmount(big.NewInt(0.3e18)),
				EscrowDuration:  year,
				MaxBonus:        NewAmount(types.Ether(1)),
				MaxLockDuration: year,
				Transferable:    true,
			},
		},
	}
}
