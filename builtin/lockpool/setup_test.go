// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lockpool

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin/events"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/builtin/shares"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/types"
)

const year = uint64(31536000)

var (
	alice = types.BytesToAddress([]byte("alice"))
	bob   = types.BytesToAddress([]byte("bob"))

	mcToken    = types.NamedAddress("token", "MC")
	mainPool   = types.NamedAddress("pool", "main")
	escrowPool = types.NamedAddress("pool", "escrow")
)

// fixture holds a state with the MC token, an escrow pool and a main pool escrowing 30% for a year.
type fixture struct {
	env *Env
	rec *events.Recorder
}

func newFixture(t *testing.T, mainCfg func(cfg *Config)) *fixture {
	db, _ := lvldb.NewMem()
	st := state.NewStater(db, 0).NewState()
	rec := events.NewRecorder()
	env := &Env{State: st, Now: 1_000_000, Emitter: rec}

	mc := token.New(mcToken, st, rec)
	require.NoError(t, mc.Initialize(&token.Meta{Name: "Merit Circle", Symbol: "MC"}))
	for _, acc := range []types.Address{alice, bob} {
		require.NoError(t, mc.Mint(acc, types.Ether(1_000_000)))
	}

	_, err := Create(escrowPool, env, &Config{
		Name:            "Escrowed Merit Circle",
		Symbol:          "EMC",
		DepositToken:    mcToken,
		RewardToken:     mcToken,
		EscrowPortion:   new(big.Int),
		MaxBonus:        types.Ether(1),
		MaxLockDuration: year,
		Transfer:        shares.TransferDisabled,
	})
	require.NoError(t, err)

	cfg := &Config{
		Name:            "Staked Merit Circle",
		Symbol:          "SMC",
		DepositToken:    mcToken,
		RewardToken:     mcToken,
		EscrowPool:      escrowPool,
		EscrowPortion:   big.NewInt(0.3e18),
		EscrowDuration:  year,
		MaxBonus:        types.Ether(1),
		MaxLockDuration: year,
		Transfer:        shares.TransferEnabled,
	}
	if mainCfg != nil {
		mainCfg(cfg)
	}
	_, err = Create(mainPool, env, cfg)
	require.NoError(t, err)

	return &fixture{env: env, rec: rec}
}

func (f *fixture) pool(t *testing.T, addr types.Address) *Pool {
	p, err := Load(addr, f.env)
	require.NoError(t, err)
	return p
}

func (f *fixture) balance(t *testing.T, addr types.Address) *big.Int {
	bal, err := token.New(mcToken, f.env.State, nil).BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	fixture *fixture
	pool    types.Address

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(f *fixture, pool types.Address) *TestSequence {
	return &TestSequence{fixture: f, pool: pool, funcs: make([]TestFunc, 0)}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) At(now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.fixture.env.Now = now
	})
}

func (st *TestSequence) Deposit(from types.Address, amount *big.Int, duration uint64, receiver types.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		id, err := st.fixture.pool(t, st.pool).Deposit(from, amount, duration, receiver)
		if err != nil {
			t.Fatalf("failed to deposit %v from %s: %v", amount, from, err)
		}
		t.Logf("deposit %d of %v for %s", id, amount, receiver)
	})
}

func (st *TestSequence) Withdraw(from types.Address, id uint64, receiver types.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.fixture.pool(t, st.pool).Withdraw(from, id, receiver); err != nil {
			t.Fatalf("failed to withdraw deposit %d of %s: %v", id, from, err)
		}
		t.Logf("withdrawn deposit %d of %s", id, from)
	})
}

func (st *TestSequence) WithdrawReverts(from types.Address, id uint64, reason reverts.Reason) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.fixture.pool(t, st.pool).Withdraw(from, id, from)
		assert.True(t, reverts.HasReason(err, reason), "expected %s, got %v", reason, err)
	})
}

func (st *TestSequence) Distribute(from types.Address, amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.fixture.pool(t, st.pool).Distribute(from, amount); err != nil {
			t.Fatalf("failed to distribute %v: %v", amount, err)
		}
		t.Logf("distributed %v", amount)
	})
}

func (st *TestSequence) Claim(from, receiver types.Address, escrowed, direct *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		e, d, err := st.fixture.pool(t, st.pool).Claim(from, receiver)
		if err != nil {
			t.Fatalf("failed to claim for %s: %v", from, err)
		}
		assert.Equal(t, escrowed.String(), e.String(), "escrowed")
		assert.Equal(t, direct.String(), d.String(), "direct")
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

type AccountAssertions struct {
	fixture *fixture
	pool    types.Address
	addr    types.Address

	shares       *big.Int
	withdrawable *big.Int
	deposits     *uint64
	totalDeposit *big.Int
}

func AssertAccount(f *fixture, pool, addr types.Address) *AccountAssertions {
	return &AccountAssertions{fixture: f, pool: pool, addr: addr}
}

func (aa *AccountAssertions) Shares(expected *big.Int) *AccountAssertions {
	aa.shares = expected
	return aa
}

func (aa *AccountAssertions) Withdrawable(expected *big.Int) *AccountAssertions {
	aa.withdrawable = expected
	return aa
}

func (aa *AccountAssertions) Deposits(expected uint64) *AccountAssertions {
	aa.deposits = &expected
	return aa
}

func (aa *AccountAssertions) TotalDeposit(expected *big.Int) *AccountAssertions {
	aa.totalDeposit = expected
	return aa
}

func (aa *AccountAssertions) Assert(t *testing.T) {
	p := aa.fixture.pool(t, aa.pool)
	if aa.shares != nil {
		s, err := p.SharesOf(aa.addr)
		require.NoError(t, err)
		assert.Equal(t, aa.shares.String(), s.String(), "shares of %s", aa.addr)
	}
	if aa.withdrawable != nil {
		w, err := p.WithdrawableRewardsOf(aa.addr)
		require.NoError(t, err)
		assert.Equal(t, aa.withdrawable.String(), w.String(), "withdrawable of %s", aa.addr)
	}
	if aa.deposits != nil {
		n, err := p.GetDepositsLength(aa.addr)
		require.NoError(t, err)
		assert.Equal(t, *aa.deposits, n, "deposits of %s", aa.addr)
	}
	if aa.totalDeposit != nil {
		total, err := p.GetTotalDeposit(aa.addr)
		require.NoError(t, err)
		assert.Equal(t, aa.totalDeposit.String(), total.String(), "total deposit of %s", aa.addr)
	}
}
