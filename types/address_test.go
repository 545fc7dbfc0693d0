// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"0x7567d83b", true},
		{"0xzz67d83b7b8d80addcb281a71d54fc7b3364ffed", true},
	}

	for _, tt := range tests {
		addr, err := ParseAddress(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
	}
}

func TestAddressJSON(t *testing.T) {
	original := `"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"`

	var addr Address
	assert.NoError(t, json.Unmarshal([]byte(original), &addr))

	byValue, err := json.Marshal(addr)
	assert.NoError(t, err)
	assert.Equal(t, original, string(byValue))

	byPtr, err := json.Marshal(&addr)
	assert.NoError(t, err)
	assert.Equal(t, original, string(byPtr))

	assert.Error(t, json.Unmarshal([]byte(`"0x12"`), &addr))
}

func TestNamedAddress(t *testing.T) {
	a := NamedAddress("pool", "main")
	assert.Equal(t, a, NamedAddress("pool", "main"))
	assert.NotEqual(t, a, NamedAddress("pool", "escrow"))
	assert.NotEqual(t, a, NamedAddress("token", "main"))
	assert.False(t, a.IsZero())
}

func TestPointsMultiplier(t *testing.T) {
	assert.Equal(t, 128, PointsMultiplier.BitLen())
	assert.Equal(t, "340282366920938463463374607431768211455", PointsMultiplier.String())
	assert.Equal(t, "5000000000000000000", Ether(5).String())
}

func TestBlake2b(t *testing.T) {
	one := Blake2b([]byte("foobar"))
	two := Blake2b([]byte("foo"), []byte("bar"))
	assert.Equal(t, one, two)
	assert.False(t, one.IsZero())
	assert.Equal(t, one, BytesToBytes32(one.Bytes()))
	assert.Equal(t, Bytes32(blake2b.Sum256([]byte("foobar"))), one)
}

func TestStorageSlot(t *testing.T) {
	base := Blake2b([]byte("balances"))
	alice := []byte("alice")

	slot := StorageSlot(alice, base)
	assert.Equal(t, Blake2b(alice, base.Bytes()), slot)
	assert.NotEqual(t, slot, StorageSlot(alice, Blake2b([]byte("shares"))))
	assert.NotEqual(t, slot, StorageSlot([]byte("bob"), base))
}

func TestBytes32JSON(t *testing.T) {
	b := Blake2b([]byte("slot"))
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, `"`+b.String()+`"`, string(data))

	var decoded Bytes32
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"0x1234"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`12`), &decoded))
}
