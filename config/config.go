// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the node configuration and the genesis setup.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/types"
)

// Environment variables overriding the file.
const (
	EnvDataDir = "STAKEPOOL_DATA_DIR"
	EnvAPIAddr = "STAKEPOOL_API_ADDR"
)

type Config struct {
	DataDir     string        `yaml:"data_dir"`
	ClockOffset time.Duration `yaml:"clock_offset"`
	API         API           `yaml:"api"`
	Metrics     Metrics       `yaml:"metrics"`
	Tokens      []Token       `yaml:"tokens"`
	Pools       []Pool        `yaml:"pools"`
}

type API struct {
	Addr        string   `yaml:"addr"`
	CORS        []string `yaml:"cors"`
	RequestLogs bool     `yaml:"request_logs"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Token is an external token created at genesis.
type Token struct {
	Name        string       `yaml:"name"`
	Symbol      string       `yaml:"symbol"`
	Allocations []Allocation `yaml:"allocations"`
}

type Allocation struct {
	Address string `yaml:"address"`
	Amount  Amount `yaml:"amount"`
}

// Pool is a locked deposit pool created at genesis. Tokens and the escrow
// pool are referenced by name.
type Pool struct {
	Name            string `yaml:"name"`
	ShareName       string `yaml:"share_name"`
	ShareSymbol     string `yaml:"share_symbol"`
	DepositToken    string `yaml:"deposit_token"`
	RewardToken     string `yaml:"reward_token"`
	EscrowPool      string `yaml:"escrow_pool"`
	EscrowPortion   Amount `yaml:"escrow_portion"`
	EscrowDuration  uint64 `yaml:"escrow_duration"`
	MaxBonus        Amount `yaml:"max_bonus"`
	MaxLockDuration uint64 `yaml:"max_lock_duration"`
	Transferable    bool   `yaml:"transferable"`
}

// Load reads the config at path, then applies environment overrides.
// An empty path loads Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if cfg, err = Parse(data); err != nil {
			return nil, errors.WithMessagef(err, "parse config %v", path)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes yaml over the defaults of the outer surfaces. Tokens and pools are
// taken from data only.
func Parse(data []byte) (*Config, error) {
	def := Default()
	cfg := &Config{
		DataDir: def.DataDir,
		API:     def.API,
		Metrics: def.Metrics,
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvAPIAddr); v != "" {
		c.API.Addr = v
	}
}

// Validate checks names and references. Pool parameters are checked when the pool is created.
func (c *Config) Validate() error {
	tokens := make(map[string]bool)
	for i, tok := range c.Tokens {
		if tok.Name == "" {
			return errors.Errorf("tokens[%d]: empty name", i)
		}
		if tokens[tok.Name] {
			return errors.Errorf("token %v: duplicated", tok.Name)
		}
		tokens[tok.Name] = true
		for j, alloc := range tok.Allocations {
			if _, err := types.ParseAddress(alloc.Address); err != nil {
				return errors.WithMessagef(err, "token %v: allocations[%d]", tok.Name, j)
			}
		}
	}
	pools := make(map[string]bool)
	for i, p := range c.Pools {
		if p.Name == "" {
			return errors.Errorf("pools[%d]: empty name", i)
		}
		if pools[p.Name] {
			return errors.Errorf("pool %v: duplicated", p.Name)
		}
		pools[p.Name] = true
	}
	for _, p := range c.Pools {
		if !tokens[p.DepositToken] {
			return errors.Errorf("pool %v: unknown deposit token %q", p.Name, p.DepositToken)
		}
		if !tokens[p.RewardToken] {
			return errors.Errorf("pool %v: unknown reward token %q", p.Name, p.RewardToken)
		}
		if p.EscrowPool != "" && !pools[p.EscrowPool] {
			return errors.Errorf("pool %v: unknown escrow pool %q", p.Name, p.EscrowPool)
		}
	}
	return nil
}
