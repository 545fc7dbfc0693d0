// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis creates the tokens and pools of a setup exactly once.
package genesis

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/builtin/lockpool"
	"github.com/vechain/stakepool/builtin/shares"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/config"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/node"
	"github.com/vechain/stakepool/types"
)

var (
	logger = log.WithContext("pkg", "genesis")

	markerAddress = types.NamedAddress("genesis", "stakepool")
	markerSlot    = types.Blake2b([]byte("genesis-id"))
)

func TokenAddress(name string) types.Address { return types.NamedAddress("token", name) }
func PoolAddress(name string) types.Address  { return types.NamedAddress("pool", name) }

// Entry is a named contract created at genesis.
type Entry struct {
	Name    string
	Address types.Address
}

// Genesis is the setup derived from config.
type Genesis struct {
	id      types.Bytes32
	builder *Builder
	tokens  []Entry
	pools   []Entry
}

// New derives the genesis from the tokens and pools of cfg.
func New(cfg *config.Config) (*Genesis, error) {
	id, err := computeID(cfg)
	if err != nil {
		return nil, err
	}
	g := &Genesis{
		id:      id,
		builder: new(Builder).ID(id),
	}

	for _, t := range cfg.Tokens {
		allocs := make(map[types.Address]*big.Int)
		for _, a := range t.Allocations {
			addr, err := types.ParseAddress(a.Address)
			if err != nil {
				return nil, errors.WithMessagef(err, "token %v: allocation", t.Name)
			}
			sum := allocs[*addr]
			if sum == nil {
				sum = new(big.Int)
			}
			allocs[*addr] = sum.Add(sum, a.Amount.Big())
		}
		addr := TokenAddress(t.Name)
		g.builder.Token(addr, &token.Meta{Name: t.Name, Symbol: t.Symbol}, allocs)
		g.tokens = append(g.tokens, Entry{t.Name, addr})
	}

	ordered, err := poolOrder(cfg.Pools)
	if err != nil {
		return nil, err
	}
	for _, p := range ordered {
		addr := PoolAddress(p.Name)
		g.builder.Pool(addr, poolConfig(p))
		g.pools = append(g.pools, Entry{p.Name, addr})
	}
	return g, nil
}

// ID identifies the setup.
func (g *Genesis) ID() types.Bytes32 { return g.id }

// Tokens returns the tokens in config order.
func (g *Genesis) Tokens() []Entry { return g.tokens }

// Pools returns the pools in creation order, escrow pools first.
func (g *Genesis) Pools() []Entry { return g.pools }

// Build writes the setup into env.
func (g *Genesis) Build(env *lockpool.Env) error {
	return g.builder.Build(env)
}

// Setup builds the genesis through n unless already built. A state built from
// another setup is rejected.
func (g *Genesis) Setup(n *node.Node) error {
	var id types.Bytes32
	if err := n.View(func(env *lockpool.Env) (err error) {
		id, err = LoadID(env)
		return
	}); err != nil {
		return err
	}
	if !id.IsZero() {
		if id != g.id {
			return errors.Errorf("genesis mismatch: state built from %v, config is %v", id, g.id)
		}
		logger.Info("genesis already built", "id", id.AbbrevString())
		return nil
	}
	if _, err := n.Execute("genesis", g.Build); err != nil {
		return errors.WithMessage(err, "build genesis")
	}
	logger.Info("genesis built", "id", g.id.AbbrevString(), "tokens", len(g.tokens), "pools", len(g.pools))
	return nil
}

// LoadID returns the id of the built genesis, zero if not built.
func LoadID(env *lockpool.Env) (types.Bytes32, error) {
	return env.State.GetStorage(markerAddress, markerSlot)
}

func computeID(cfg *config.Config) (types.Bytes32, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(struct {
		Tokens []config.Token `yaml:"tokens"`
		Pools  []config.Pool  `yaml:"pools"`
	}{cfg.Tokens, cfg.Pools}); err != nil {
		return types.Bytes32{}, errors.Wrap(err, "encode genesis")
	}
	if err := enc.Close(); err != nil {
		return types.Bytes32{}, errors.Wrap(err, "encode genesis")
	}
	return types.Blake2b(buf.Bytes()), nil
}

func poolConfig(p config.Pool) *lockpool.Config {
	cfg := &lockpool.Config{
		Name:            p.ShareName,
		Symbol:          p.ShareSymbol,
		DepositToken:    TokenAddress(p.DepositToken),
		RewardToken:     TokenAddress(p.RewardToken),
		EscrowPortion:   p.EscrowPortion.Big(),
		EscrowDuration:  p.EscrowDuration,
		MaxBonus:        p.MaxBonus.Big(),
		MaxLockDuration: p.MaxLockDuration,
		Transfer:        shares.TransferDisabled,
	}
	if p.EscrowPool != "" {
		cfg.EscrowPool = PoolAddress(p.EscrowPool)
	}
	if p.Transferable {
		cfg.Transfer = shares.TransferEnabled
	}
	return cfg
}

// poolOrder sorts pools so every escrow pool comes before the pools escrowing into it.
func poolOrder(pools []config.Pool) ([]config.Pool, error) {
	var (
		ordered = make([]config.Pool, 0, len(pools))
		done    = make(map[string]bool)
		pending = pools
	)
	for len(pending) > 0 {
		var next []config.Pool
		for _, p := range pending {
			if p.EscrowPool == "" || p.EscrowPool == p.Name || done[p.EscrowPool] {
				ordered = append(ordered, p)
				done[p.Name] = true
			} else {
				next = append(next, p)
			}
		}
		if len(next) == len(pending) {
			return nil, errors.Errorf("pool %v: escrow pools form a cycle", next[0].Name)
		}
		pending = next
	}
	return ordered, nil
}

func sortedAccounts(allocs map[types.Address]*big.Int) []types.Address {
	accs := make([]types.Address, 0, len(allocs))
	for acc := range allocs {
		accs = append(accs, acc)
	}
	sort.Slice(accs, func(i, j int) bool {
		return bytes.Compare(accs[i][:], accs[j][:]) < 0
	})
	return accs
}
