// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/builtin/events"
	"github.com/vechain/stakepool/builtin/lockpool"
	"github.com/vechain/stakepool/builtin/reverts"
	"github.com/vechain/stakepool/builtin/token"
	"github.com/vechain/stakepool/eventdb"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/types"
)

var (
	mc    = types.NamedAddress("token", "MC")
	alice = types.BytesToAddress([]byte("alice"))
)

func newTestNode(t *testing.T) (*Node, *ManualClock) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() {
		edb.Close()
		db.Close()
	})

	clock := NewManualClock(1000)
	n, err := New(state.NewStater(db, 64), edb, clock)
	require.NoError(t, err)

	_, err = n.Execute("init", func(env *lockpool.Env) error {
		return token.New(mc, env.State, env.Emitter).Initialize(&token.Meta{Name: "Merit Circle", Symbol: "MC"})
	})
	require.NoError(t, err)
	return n, clock
}

func mint(amount int64) Op {
	return func(env *lockpool.Env) error {
		return token.New(mc, env.State, env.Emitter).Mint(alice, big.NewInt(amount))
	}
}

func balance(t *testing.T, n *Node) *big.Int {
	var bal *big.Int
	require.NoError(t, n.View(func(env *lockpool.Env) (err error) {
		bal, err = token.New(mc, env.State, env.Emitter).BalanceOf(alice)
		return
	}))
	return bal
}

func TestExecuteCommits(t *testing.T) {
	n, clock := newTestNode(t)
	clock.Set(2000)

	receipt, err := n.Execute("mint", mint(10))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), receipt.Seq)
	assert.Equal(t, "mint", receipt.Name)
	assert.Equal(t, uint64(2000), receipt.Time)
	assert.False(t, receipt.StateHash.IsZero())
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, events.NameTransfer, receipt.Events[0].Name)

	assert.Equal(t, "10", balance(t, n).String())
	assert.Equal(t, uint64(2), n.Seq())

	stored, err := n.EventDB().Filter(context.Background(), &eventdb.Filter{Name: events.NameTransfer})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, uint64(2), stored[0].OpSeq)
	assert.Equal(t, uint64(2000), stored[0].Time)
}

func TestExecuteRevertDiscards(t *testing.T) {
	n, _ := newTestNode(t)
	_, err := n.Execute("mint", mint(10))
	require.NoError(t, err)

	receipt, err := n.Execute("mint-then-fail", func(env *lockpool.Env) error {
		if err := mint(5)(env); err != nil {
			return err
		}
		return reverts.New(reverts.TooSoon, "too soon")
	})
	assert.Nil(t, receipt)
	assert.True(t, reverts.HasReason(err, reverts.TooSoon))
	assert.Equal(t, "10", balance(t, n).String())
	assert.Equal(t, uint64(2), n.Seq())

	_, err = n.Execute("mint-then-break", func(env *lockpool.Env) error {
		if err := mint(5)(env); err != nil {
			return err
		}
		return errors.New("broken")
	})
	assert.EqualError(t, err, "broken")
	assert.Equal(t, "10", balance(t, n).String())

	count, err := n.EventDB().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestExecuteUsesClock(t *testing.T) {
	n, clock := newTestNode(t)
	clock.Advance(500)

	var seen uint64
	_, err := n.Execute("noop", func(env *lockpool.Env) error {
		seen = env.Now
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), seen)
	assert.Equal(t, uint64(1500), n.Now())
}

func TestViewDiscardsWrites(t *testing.T) {
	n, _ := newTestNode(t)
	require.NoError(t, n.View(mint(7)))
	assert.Equal(t, "0", balance(t, n).String())
	assert.Equal(t, uint64(1), n.Seq())
}

func TestSeqResumes(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	defer edb.Close()

	stater := state.NewStater(db, 0)
	n, err := New(stater, edb, NewManualClock(0))
	require.NoError(t, err)
	_, err = n.Execute("init", func(env *lockpool.Env) error {
		return token.New(mc, env.State, env.Emitter).Initialize(&token.Meta{Name: "MC", Symbol: "MC"})
	})
	require.NoError(t, err)
	_, err = n.Execute("mint", mint(1))
	require.NoError(t, err)

	restarted, err := New(stater, edb, NewManualClock(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), restarted.Seq())
	assert.Equal(t, "1", balance(t, restarted).String())
}

func TestSingleWriter(t *testing.T) {
	n, _ := newTestNode(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := n.Execute("mint", mint(1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, "20", balance(t, n).String())
	assert.Equal(t, uint64(21), n.Seq())
}

func TestSystemClock(t *testing.T) {
	now := uint64(time.Now().Unix())
	assert.InDelta(t, float64(now), float64(SystemClock(0).Now()), 2)
	assert.InDelta(t, float64(now+3600), float64(SystemClock(time.Hour).Now()), 2)
}

func TestIndexErr(t *testing.T) {
	n, _ := newTestNode(t)
	assert.NoError(t, n.IndexErr())
	assert.False(t, n.LastCommit().IsZero())

	require.NoError(t, n.EventDB().Close())
	receipt, err := n.Execute("mint", mint(5))
	require.NoError(t, err, "committed op succeeds without the index")
	assert.Equal(t, receipt.Seq, n.Seq())
	assert.Error(t, n.IndexErr())

	seq := n.Seq()
	_, err = n.Execute("mint", mint(5))
	require.NoError(t, err)
	assert.Equal(t, seq+1, n.Seq())
	assert.ErrorContains(t, n.IndexErr(), fmt.Sprintf("op %d", seq+1))
}
