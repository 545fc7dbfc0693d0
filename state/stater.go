// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/kv"
)

const storeName = "state"

// Stater is the state creator.
type Stater struct {
	store kv.Store
	cache *cache.LRU[storageKey, rlp.RawValue]
}

// NewStater create a new stater.
// cacheSize <= 0 disables the read cache.
func NewStater(db kv.Store, cacheSize int) *Stater {
	var c *cache.LRU[storageKey, rlp.RawValue]
	if cacheSize > 0 {
		c, _ = cache.NewLRU[storageKey, rlp.RawValue](cacheSize)
	}
	return &Stater{
		store: kv.Bucket(storeName).NewStore(db),
		cache: c,
	}
}

// NewState create a new state object over the committed storage.
func (s *Stater) NewState() *State {
	return New(s.store, s.cache)
}
