// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/vechain/stakepool/types"
)

// List is an indexed list per key, like a dynamic array inside a Solidity mapping.
// The length lives at blake2b(key, basePos), the i-th item at blake2b(lengthPos, i).
// Removal swaps the last item into the hole, so order is not preserved.
type List[K Key, V any] struct {
	context *Context
	basePos types.Bytes32
}

func NewList[K Key, V any](context *Context, pos types.Bytes32) *List[K, V] {
	return &List[K, V]{context: context, basePos: pos}
}

func (l *List[K, V]) lengthPos(key K) types.Bytes32 {
	return types.StorageSlot(key.Bytes(), l.basePos)
}

func (l *List[K, V]) items(key K) *Mapping[index, V] {
	return NewMapping[index, V](l.context, l.lengthPos(key))
}

func (l *List[K, V]) length(key K) *Uint256 {
	return NewUint256(l.context, l.lengthPos(key))
}

// Len returns the number of items of key.
func (l *List[K, V]) Len(key K) (uint64, error) {
	n, err := l.length(key).Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// Get returns the i-th item of key.
func (l *List[K, V]) Get(key K, i uint64) (value V, err error) {
	n, err := l.Len(key)
	if err != nil {
		return value, err
	}
	if i >= n {
		return value, fmt.Errorf("index %d out of range [0, %d)", i, n)
	}
	return l.items(key).Get(index(i))
}

// Push appends value and returns its index.
func (l *List[K, V]) Push(key K, value V) (uint64, error) {
	n, err := l.Len(key)
	if err != nil {
		return 0, err
	}
	if err := l.items(key).Set(index(n), value); err != nil {
		return 0, err
	}
	if err := l.length(key).Set(new(big.Int).SetUint64(n + 1)); err != nil {
		return 0, err
	}
	return n, nil
}

// SwapRemove removes the i-th item by moving the last item into its place.
func (l *List[K, V]) SwapRemove(key K, i uint64) error {
	n, err := l.Len(key)
	if err != nil {
		return err
	}
	if i >= n {
		return fmt.Errorf("index %d out of range [0, %d)", i, n)
	}
	items := l.items(key)
	last := n - 1
	if i != last {
		v, err := items.Get(index(last))
		if err != nil {
			return err
		}
		if err := items.Set(index(i), v); err != nil {
			return err
		}
	}
	items.Delete(index(last))
	return l.length(key).Set(new(big.Int).SetUint64(last))
}

// All returns every item of key, in storage order.
func (l *List[K, V]) All(key K) ([]V, error) {
	n, err := l.Len(key)
	if err != nil {
		return nil, err
	}
	items := l.items(key)
	all := make([]V, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := items.Get(index(i))
		if err != nil {
			return nil, err
		}
		all = append(all, v)
	}
	return all, nil
}

type index uint64

func (i index) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(i))
}
