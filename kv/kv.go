// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key-value contracts the ledger state is stored through.
package kv

// Getter reads values. Get on a missing key returns an error matched by IsNotFound.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk collects puts and deletes, applied atomically by Write.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

type Store interface {
	Getter
	Putter
	Bulk() Bulk
}
