// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/types"
)

// Stage abstracts changes of the storage.
type Stage struct {
	store   kv.Store
	cache   *cache.LRU[storageKey, rlp.RawValue]
	keys    []storageKey
	changes map[storageKey]rlp.RawValue
}

func newStage(store kv.Store, cache *cache.LRU[storageKey, rlp.RawValue], changes map[storageKey]rlp.RawValue) *Stage {
	keys := make([]storageKey, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].dbKey(), keys[j].dbKey()) < 0
	})
	return &Stage{
		store:   store,
		cache:   cache,
		keys:    keys,
		changes: changes,
	}
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Hash computes the digest of the changes.
func (s *Stage) Hash() types.Bytes32 {
	return types.Blake2bFn(func(w io.Writer) {
		for _, k := range s.keys {
			w.Write(k.dbKey())
			rlp.Encode(w, s.changes[k])
		}
	})
}

// Commit writes all changes into the store.
func (s *Stage) Commit() error {
	bulk := s.store.Bulk()
	for _, k := range s.keys {
		v := s.changes[k]
		if len(v) == 0 {
			if err := bulk.Delete(k.dbKey()); err != nil {
				return errors.Wrap(err, "delete slot")
			}
		} else {
			if err := bulk.Put(k.dbKey(), v); err != nil {
				return errors.Wrap(err, "put slot")
			}
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write bulk")
	}
	metricStorageCounter().AddWithLabel(int64(len(s.keys)), map[string]string{"type": "write", "target": "store"})

	for _, k := range s.keys {
		s.cache.Add(k, s.changes[k])
	}
	return nil
}
