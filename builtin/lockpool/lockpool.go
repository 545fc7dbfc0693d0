// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lockpool implements time locked deposit pools.
//
// A deposit mints shares scaled by a bonus growing with the lock duration. Rewards are
// distributed over the shares and claimed with an optional portion escrowed into a
// sibling pool.
package lockpool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/builtin/events"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/builtin/rewards"
	"github.com/vechain/stakepool/builtin/shares"
	"github.com/vechain/stakepool/builtin/solidity"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/types"
)

var logger = log.WithContext("pkg", "lockpool")

var (
	slotConfig   = nameToSlot("pool-config")
	slotDeposits = nameToSlot("pool-deposits")
)

func nameToSlot(name string) types.Bytes32 {
	return types.BytesToBytes32([]byte(name))
}

// Env is what an operation runs against.
type Env struct {
	State   *state.State
	Now     uint64 // unix seconds, read once per operation
	Emitter events.Emitter
}

// Depositor is the entry point of a pool used by the escrow of another pool.
type Depositor interface {
	Deposit(from types.Address, amount *big.Int, duration uint64, receiver types.Address) (uint64, error)
}

var _ Depositor = (*Pool)(nil)

// Pool is a locked deposit pool bound to an Env.
type Pool struct {
	addr     types.Address
	env      *Env
	cfg      *Config
	ledger   *shares.Ledger
	acct     *rewards.Accountant
	deposits *solidity.List[types.Address, *Deposit]
}

func newPool(addr types.Address, env *Env, cfg *Config) *Pool {
	if env.Emitter == nil {
		env.Emitter = events.Discard
	}
	sctx := solidity.NewContext(addr, env.State)
	ledger := shares.New(sctx, cfg.Transfer, env.Emitter)
	return &Pool{
		addr:     addr,
		env:      env,
		cfg:      cfg,
		ledger:   ledger,
		acct:     rewards.New(sctx, ledger, env.Emitter),
		deposits: solidity.NewList[types.Address, *Deposit](sctx, slotDeposits),
	}
}

func configStorage(addr types.Address, st *state.State) *solidity.Raw[*Config] {
	return solidity.NewRaw[*Config](solidity.NewContext(addr, st), slotConfig)
}

// Create validates cfg and stores it at addr. A pool is created once.
func Create(addr types.Address, env *Env, cfg *Config) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	storage := configStorage(addr, env.State)
	if _, exists, err := storage.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	} else if exists {
		return nil, errors.Wrapf(ErrInvalidConfig, "pool %v already exists", addr)
	}

	for _, tok := range []types.Address{cfg.DepositToken, cfg.RewardToken} {
		if _, err := token.New(tok, env.State, nil).Meta(); err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "token %v: %v", tok, err)
		}
	}

	if cfg.HasEscrow() {
		escrowDepositToken := cfg.DepositToken
		if cfg.EscrowPool != addr {
			escrow, err := Load(cfg.EscrowPool, env)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidConfig, "escrow pool %v: %v", cfg.EscrowPool, err)
			}
			escrowDepositToken = escrow.cfg.DepositToken
		}
		if escrowDepositToken != cfg.RewardToken {
			return nil, errors.Wrap(ErrInvalidConfig, "escrow pool deposit token is not the reward token")
		}
	}

	if err := storage.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set config")
	}
	logger.Info("pool created", "pool", addr, "name", cfg.Name, "escrow", cfg.EscrowPool, "transfer", cfg.Transfer)
	return newPool(addr, env, cfg), nil
}

// Load binds the pool stored at addr.
func Load(addr types.Address, env *Env) (*Pool, error) {
	cfg, exists, err := configStorage(addr, env.State).Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	if !exists {
		return nil, reverts.Newf(reverts.UnknownContract, "unknown pool %v", addr)
	}
	return newPool(addr, env, cfg), nil
}

// Exists reports whether a pool is stored at addr.
func Exists(addr types.Address, st *state.State) (bool, error) {
	_, exists, err := configStorage(addr, st).Get()
	return exists, err
}

func (p *Pool) Address() types.Address {
	return p.addr
}

// Config returns a copy of the pool config.
func (p *Pool) Config() Config {
	return *p.cfg
}

func (p *Pool) depositToken() *token.Token {
	return token.New(p.cfg.DepositToken, p.env.State, p.env.Emitter)
}

func (p *Pool) rewardToken() *token.Token {
	return token.New(p.cfg.RewardToken, p.env.State, p.env.Emitter)
}

//
// Getters - no state change
//

// GetMultiplier returns 1e18 + maxBonus * duration / maxLockDuration.
func (p *Pool) GetMultiplier(duration uint64) *big.Int {
	bonus := new(big.Int).Mul(p.cfg.MaxBonus, new(big.Int).SetUint64(duration))
	bonus.Div(bonus, new(big.Int).SetUint64(p.cfg.MaxLockDuration))
	return bonus.Add(bonus, types.Precision)
}

// ClampDuration brings duration into [MinLockDuration, MaxLockDuration].
func (p *Pool) ClampDuration(duration uint64) uint64 {
	return min(max(duration, types.MinLockDuration), p.cfg.MaxLockDuration)
}

// sharesFor computes the shares minted for amount locked during duration.
func (p *Pool) sharesFor(amount *big.Int, duration uint64) *big.Int {
	s := new(big.Int).Mul(amount, p.GetMultiplier(duration))
	return s.Div(s, types.Precision)
}

// GetDeposits returns all live deposits of addr, indexed by deposit id.
func (p *Pool) GetDeposits(addr types.Address) ([]*Deposit, error) {
	deposits, err := p.deposits.All(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deposits")
	}
	return deposits, nil
}

// GetDepositsLength returns the count of live deposits of addr.
func (p *Pool) GetDepositsLength(addr types.Address) (uint64, error) {
	n, err := p.deposits.Len(addr)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get deposits length")
	}
	return n, nil
}

// GetDeposit returns the deposit id of addr.
func (p *Pool) GetDeposit(addr types.Address, id uint64) (*Deposit, error) {
	n, err := p.GetDepositsLength(addr)
	if err != nil {
		return nil, err
	}
	if id >= n {
		return nil, reverts.New(reverts.NotFound, "no such deposit")
	}
	d, err := p.deposits.Get(addr, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get deposit")
	}
	return d, nil
}

// GetTotalDeposit sums the principal of the live deposits of addr.
func (p *Pool) GetTotalDeposit(addr types.Address) (*big.Int, error) {
	deposits, err := p.GetDeposits(addr)
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	for _, d := range deposits {
		total.Add(total, d.Amount)
	}
	return total, nil
}

func (p *Pool) SharesOf(addr types.Address) (*big.Int, error) {
	return p.ledger.ShareBalanceOf(addr)
}

func (p *Pool) TotalShares() (*big.Int, error) {
	return p.ledger.TotalShares()
}

func (p *Pool) PointsPerShare() (*big.Int, error) {
	return p.acct.PointsPerShare()
}

func (p *Pool) WithdrawableRewardsOf(addr types.Address) (*big.Int, error) {
	return p.acct.WithdrawableRewardsOf(addr)
}

func (p *Pool) CumulativeRewardsOf(addr types.Address) (*big.Int, error) {
	return p.acct.CumulativeRewardsOf(addr)
}

func (p *Pool) WithdrawnRewardsOf(addr types.Address) (*big.Int, error) {
	return p.acct.WithdrawnRewardsOf(addr)
}

//
// Setters - state change
//

// Deposit locks amount of the deposit token, pulled from from, for the clamped duration.
// The position and its shares belong to receiver. It returns the deposit id.
func (p *Pool) Deposit(from types.Address, amount *big.Int, duration uint64, receiver types.Address) (uint64, error) {
	if amount == nil || amount.Sign() == 0 {
		return 0, reverts.New(reverts.ZeroAmount, "zero deposit")
	}
	if amount.Sign() < 0 {
		return 0, reverts.New(reverts.InvalidAmount, "negative deposit")
	}
	duration = p.ClampDuration(duration)
	minted := p.sharesFor(amount, duration)
	if err := p.ledger.CheckMint(minted); err != nil {
		return 0, err
	}

	if err := p.depositToken().Transfer(from, p.addr, amount); err != nil {
		return 0, err
	}

	id, err := p.deposits.Push(receiver, &Deposit{
		Amount: new(big.Int).Set(amount),
		Start:  p.env.Now,
		End:    p.env.Now + duration,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to push deposit")
	}
	if err := p.mint(receiver, minted); err != nil {
		return 0, err
	}

	p.env.Emitter.Emit(events.Deposited(p.addr, amount, duration, receiver, from))
	return id, nil
}

// Withdraw releases the mature deposit id of from, paying the principal to receiver.
func (p *Pool) Withdraw(from types.Address, id uint64, receiver types.Address) error {
	d, err := p.GetDeposit(from, id)
	if err != nil {
		return err
	}
	if p.env.Now < d.End {
		return reverts.New(reverts.TooSoon, "too soon")
	}

	burnt := p.sharesFor(d.Amount, d.Duration())
	if err := p.deposits.SwapRemove(from, id); err != nil {
		return errors.Wrap(err, "failed to remove deposit")
	}
	if err := p.burn(from, burnt); err != nil {
		return err
	}
	if err := p.depositToken().Transfer(p.addr, receiver, d.Amount); err != nil {
		return err
	}

	p.env.Emitter.Emit(events.Withdrawn(p.addr, id, receiver, from, d.Amount))
	return nil
}

// TransferShares moves shares and their future rewards, if the pool allows it.
func (p *Pool) TransferShares(from, to types.Address, amount *big.Int) error {
	if err := p.ledger.Transfer(from, to, amount); err != nil {
		return err
	}
	return p.acct.CorrectOnTransfer(from, to, amount)
}

// Distribute pulls amount of the reward token from from and spreads it over the shares.
func (p *Pool) Distribute(from types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return reverts.New(reverts.InvalidAmount, "negative amount")
	}
	total, err := p.TotalShares()
	if err != nil {
		return err
	}
	if total.Sign() == 0 {
		return reverts.New(reverts.EmptyPool, "empty pool")
	}
	if err := p.rewardToken().Transfer(from, p.addr, amount); err != nil {
		return err
	}
	return p.acct.Distribute(from, amount)
}

// Claim collects the rewards of from. The escrow portion is deposited into the escrow
// pool on behalf of receiver, the rest is paid to receiver directly.
func (p *Pool) Claim(from, receiver types.Address) (escrowed, direct *big.Int, err error) {
	claimable, err := p.acct.Collect(from)
	if err != nil {
		return nil, nil, err
	}

	escrowed = new(big.Int)
	if p.cfg.HasEscrow() {
		escrowed.Mul(claimable, p.cfg.EscrowPortion)
		escrowed.Div(escrowed, types.Precision)
	}
	direct = new(big.Int).Sub(claimable, escrowed)

	if escrowed.Sign() > 0 {
		escrow, err := p.escrow()
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("escrow rewards", "pool", p.addr, "escrow", p.cfg.EscrowPool, "amount", escrowed, "receiver", receiver)
		if _, err := escrow.Deposit(p.addr, escrowed, p.cfg.EscrowDuration, receiver); err != nil {
			return nil, nil, errors.WithMessage(err, "escrow deposit")
		}
	}

	// a direct amount of one unit is dust and not paid
	if direct.Cmp(big.NewInt(1)) > 0 {
		if err := p.rewardToken().Transfer(p.addr, receiver, direct); err != nil {
			return nil, nil, err
		}
	}

	p.env.Emitter.Emit(events.RewardsClaimed(p.addr, from, receiver, escrowed, direct))
	return escrowed, direct, nil
}

// escrow resolves the escrow pool within the same Env.
func (p *Pool) escrow() (Depositor, error) {
	if p.cfg.EscrowPool == p.addr {
		return p, nil
	}
	return Load(p.cfg.EscrowPool, p.env)
}

func (p *Pool) mint(to types.Address, amount *big.Int) error {
	if err := p.ledger.Mint(to, amount); err != nil {
		return err
	}
	return p.acct.CorrectOnMint(to, amount)
}

func (p *Pool) burn(from types.Address, amount *big.Int) error {
	if err := p.ledger.Burn(from, amount); err != nil {
		return err
	}
	return p.acct.CorrectOnBurn(from, amount)
}
