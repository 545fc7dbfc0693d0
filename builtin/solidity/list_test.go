// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/types"
)

type item struct {
	ID uint64
}

func TestList(t *testing.T) {
	ctx := newTestContext()
	list := NewList[types.Address, item](ctx, types.BytesToBytes32([]byte("items")))

	alice := types.BytesToAddress([]byte("alice"))
	bob := types.BytesToAddress([]byte("bob"))

	n, err := list.Len(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	for i := uint64(0); i < 4; i++ {
		idx, err := list.Push(alice, item{ID: i})
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	_, err = list.Push(bob, item{ID: 100})
	require.NoError(t, err)

	all, err := list.All(alice)
	require.NoError(t, err)
	assert.Equal(t, []item{{0}, {1}, {2}, {3}}, all)

	// remove from the middle, the last one fills the hole
	require.NoError(t, list.SwapRemove(alice, 1))
	all, err = list.All(alice)
	require.NoError(t, err)
	assert.Equal(t, []item{{0}, {3}, {2}}, all)

	// remove the last one
	require.NoError(t, list.SwapRemove(alice, 2))
	all, err = list.All(alice)
	require.NoError(t, err)
	assert.Equal(t, []item{{0}, {3}}, all)

	_, err = list.Get(alice, 2)
	assert.Error(t, err)
	assert.Error(t, list.SwapRemove(alice, 5))

	v, err := list.Get(bob, 0)
	require.NoError(t, err)
	assert.Equal(t, item{ID: 100}, v)

	require.NoError(t, list.SwapRemove(alice, 0))
	require.NoError(t, list.SwapRemove(alice, 0))
	n, err = list.Len(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
}
