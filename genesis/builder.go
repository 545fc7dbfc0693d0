// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/lockpool"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/types"
)

// Builder helper to build the genesis state.
type Builder struct {
	id    types.Bytes32
	procs []func(env *lockpool.Env) error
}

// ID sets the genesis id, recorded in state when built.
func (b *Builder) ID(id types.Bytes32) *Builder {
	b.id = id
	return b
}

// State adds a state process.
func (b *Builder) State(proc func(env *lockpool.Env) error) *Builder {
	b.procs = append(b.procs, proc)
	return b
}

// Token adds a token with its initial allocations.
func (b *Builder) Token(addr types.Address, meta *token.Meta, allocs map[types.Address]*big.Int) *Builder {
	return b.State(func(env *lockpool.Env) error {
		tok := token.New(addr, env.State, env.Emitter)
		if err := tok.Initialize(meta); err != nil {
			return err
		}
		for _, acc := range sortedAccounts(allocs) {
			if allocs[acc].Sign() == 0 {
				continue
			}
			if err := tok.Mint(acc, allocs[acc]); err != nil {
				return errors.WithMessagef(err, "allocate %v", acc)
			}
		}
		return nil
	})
}

// Pool adds a locked deposit pool. Tokens and the escrow pool must be added before.
func (b *Builder) Pool(addr types.Address, cfg *lockpool.Config) *Builder {
	return b.State(func(env *lockpool.Env) error {
		_, err := lockpool.Create(addr, env, cfg)
		return err
	})
}

// Build runs the processes and marks the state as built.
func (b *Builder) Build(env *lockpool.Env) error {
	id, err := LoadID(env)
	if err != nil {
		return err
	}
	if !id.IsZero() {
		return errors.Errorf("genesis %v already built", id)
	}
	for _, proc := range b.procs {
		if err := proc(env); err != nil {
			return errors.WithMessage(err, "state process")
		}
	}
	env.State.SetStorage(markerAddress, markerSlot, b.id)
	return nil
}
