// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakepool/types"
)

func TestRecords(t *testing.T) {
	pool := types.NamedAddress("pool", "main")
	alice := types.BytesToAddress([]byte("alice"))
	bob := types.BytesToAddress([]byte("bob"))

	rec := RewardsClaimed(pool, alice, bob, big.NewInt(300), big.NewInt(700))
	assert.Equal(t, NameRewardsClaimed, rec.Name)
	assert.Equal(t, pool, rec.Contract)
	assert.Equal(t, []types.Address{alice, bob}, rec.Subjects)
	assert.Equal(t, "300", rec.Args["escrowedAmount"])
	assert.Equal(t, "700", rec.Args["nonEscrowedAmount"])

	rec = Deposited(pool, big.NewInt(100), 600, bob, alice)
	assert.Equal(t, "600", rec.Args["duration"])
	assert.Equal(t, bob.String(), rec.Args["receiver"])

	rec = Withdrawn(pool, 2, bob, alice, nil)
	assert.Equal(t, "2", rec.Args["depositId"])
	assert.Equal(t, "0", rec.Args["amount"])
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	pool := types.NamedAddress("pool", "main")
	alice := types.BytesToAddress([]byte("alice"))

	r.Emit(RewardsDistributed(pool, alice, big.NewInt(1)))
	chk := r.Len()
	r.Emit(RewardsWithdrawn(pool, alice, big.NewInt(1)))
	r.Emit(RewardsWithdrawn(pool, alice, big.NewInt(2)))
	assert.Equal(t, 3, r.Len())

	r.RevertTo(chk)
	assert.Len(t, r.Records(), 1)
	assert.Equal(t, NameRewardsDistributed, r.Records()[0].Name)

	r.RevertTo(5)
	assert.Equal(t, 1, r.Len())

	var got []*Record
	EmitterFunc(func(rec *Record) { got = append(got, rec) }).Emit(r.Records()[0])
	assert.Len(t, got, 1)
	Discard.Emit(r.Records()[0])
}
