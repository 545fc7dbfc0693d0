// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb backs the ledger state with goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/vechain/stakepool/kv"
)

var _ kv.Store = (*LevelDB)(nil)

const minCacheSize = 16 // MiB and open files

// Options tunes a level db instance.
type Options struct {
	CacheSize              int // in MiB, split between block cache and write buffer
	OpenFilesCacheCapacity int
	// Sync makes every committed bulk fsync before returning.
	Sync bool
}

// LevelDB is a kv.Store over goleveldb.
type LevelDB struct {
	db        *leveldb.DB
	bulkWrite *opt.WriteOptions
}

// New opens the level db at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open level db storage [%v]", path)
	}
	return open(stg, opts)
}

// NewMem creates a level db in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cacheSize := max(opts.CacheSize, minCacheSize)
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: max(opts.OpenFilesCacheCapacity, minCacheSize),
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db: db, bulkWrite: &opt.WriteOptions{Sync: opts.Sync}}, nil
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get returns an error checkable by IsNotFound when key is absent.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) { return ldb.db.Get(key, nil) }
func (ldb *LevelDB) Has(key []byte) (bool, error)   { return ldb.db.Has(key, nil) }
func (ldb *LevelDB) Put(key, value []byte) error    { return ldb.db.Put(key, value, nil) }
func (ldb *LevelDB) Delete(key []byte) error        { return ldb.db.Delete(key, nil) }

// Close closes the db. Later calls fail with leveldb.ErrClosed.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

// Bulk starts an atomic batch. State commits go through it.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &bulk{ldb, new(leveldb.Batch)}
}

type bulk struct {
	ldb   *LevelDB
	batch *leveldb.Batch
}

func (b *bulk) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *bulk) Len() int {
	return b.batch.Len()
}

func (b *bulk) Write() error {
	if err := b.ldb.db.Write(b.batch, b.ldb.bulkWrite); err != nil {
		return errors.Wrap(err, "write level db batch")
	}
	b.batch.Reset()
	return nil
}
