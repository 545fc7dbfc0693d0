// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU(t *testing.T) {
	_, err := NewLRU[string, string](0)
	assert.Error(t, err)

	c, err := NewLRU[string, string](2)
	assert.NoError(t, err)

	loads := 0
	loader := func(key string) (string, error) {
		loads++
		if key == "bad" {
			return "", errors.New("bad key")
		}
		return key + "!", nil
	}

	v, err := c.GetOrLoad("a", loader)
	assert.NoError(t, err)
	assert.Equal(t, "a!", v)

	v, err = c.GetOrLoad("a", loader)
	assert.NoError(t, err)
	assert.Equal(t, "a!", v)
	assert.Equal(t, 1, loads)

	_, err = c.GetOrLoad("bad", loader)
	assert.Error(t, err)
	assert.False(t, c.Contains("bad"))

	c.GetOrLoad("b", loader)
	c.GetOrLoad("c", loader)
	assert.False(t, c.Contains("a"), "evicted")
	assert.Equal(t, 2, c.Len())

	hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(4), miss)

	c.Add("a", "set")
	v, _ = c.GetOrLoad("a", loader)
	assert.Equal(t, "set", v)
}

func TestNilLRU(t *testing.T) {
	var c *LRU[int, int]

	loads := 0
	for i := 0; i < 2; i++ {
		v, err := c.GetOrLoad(3, func(k int) (int, error) {
			loads++
			return k * 2, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 6, v)
	}
	assert.Equal(t, 2, loads)

	c.Add(1, 1)
	assert.False(t, c.Contains(1))
	assert.Zero(t, c.Len())
	hit, miss := c.Stats()
	assert.Zero(t, hit+miss)
}
