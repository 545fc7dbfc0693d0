// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"io"

	"golang.org/x/crypto/blake2b"
)

// Blake2b hashes the concatenation of data.
func Blake2b(data ...[]byte) Bytes32 {
	return Blake2bFn(func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	})
}

// Blake2bFn hashes what fn writes.
func Blake2bFn(fn func(w io.Writer)) (h Bytes32) {
	hasher, _ := blake2b.New256(nil)
	fn(hasher)
	hasher.Sum(h[:0])
	return
}

// StorageSlot locates the entry of key in a storage map rooted at base,
// like Solidity places mapping values.
func StorageSlot(key []byte, base Bytes32) Bytes32 {
	return Blake2b(key, base[:])
}
