// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novachain/nova/kv"
	"github.com/novachain/nova/nova"
)

func TestEmptyTrie(t *testing.T) {
	var trie Trie
	assert.Equal(t, emptyRoot, trie.Hash())
	assert.Equal(t, EmptyRoot(), trie.Hash())
}

func TestNull(t *testing.T) {
	var trie Trie
	key := make([]byte, 20)
	value := []byte("test")
	require.NoError(t, trie.Update(key, value))

	got, err := trie.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestMissingRoot(t *testing.T) {
	db := kv.NewMem()
	defer db.Close()

	_, err := New(nova.Bytes32{1, 2, 3, 4, 5}, db)
	require.Error(t, err)
	assert.IsType(t, &MissingNodeError{}, err)
}

func TestInsertGetDelete(t *testing.T) {
	var trie Trie
	kvs := map[string]string{
		"do":     "verb",
		"nova":   "coin",
		"horse":  "stallion",
		"shaman": "horse",
		"doge":   "coin",
		"dog":    "puppy",
	}
	for k, v := range kvs {
		require.NoError(t, trie.Update([]byte(k), []byte(v)))
	}
	for k, v := range kvs {
		got, err := trie.Get([]byte(k))
		require.NoError(t, err)
		assert.Equal(t, []byte(v), got)
	}

	got, err := trie.Get([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, got)

	for k := range kvs {
		require.NoError(t, trie.Delete([]byte(k)))
	}
	assert.Equal(t, emptyRoot, trie.Hash())
}

func TestUpdateEmptyValueDeletes(t *testing.T) {
	var trie Trie
	require.NoError(t, trie.Update([]byte("k"), []byte("v")))
	root := trie.Hash()

	require.NoError(t, trie.Update([]byte("k2"), []byte("v2")))
	require.NoError(t, trie.Update([]byte("k2"), nil))
	assert.Equal(t, root, trie.Hash())
}

func TestRootDeterminism(t *testing.T) {
	kvs := make(map[string]string)
	for i := 0; i < 200; i++ {
		kvs[fmt.Sprintf("key-%03d", i)] = fmt.Sprintf("value-%d", i)
	}

	var roots []nova.Bytes32
	for n := 0; n < 3; n++ {
		keys := make([]string, 0, len(kvs))
		for k := range kvs {
			keys = append(keys, k)
		}
		rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

		var trie Trie
		for _, k := range keys {
			require.NoError(t, trie.Update([]byte(k), []byte(kvs[k])))
		}
		roots = append(roots, trie.Hash())
	}
	assert.Equal(t, roots[0], roots[1])
	assert.Equal(t, roots[1], roots[2])
}

func TestCommitReload(t *testing.T) {
	db := kv.NewMem()
	defer db.Close()

	trie, err := New(nova.Bytes32{}, db)
	require.NoError(t, err)

	kvs := map[string]string{}
	for i := 0; i < 100; i++ {
		k := fmt.Sprintf("account-%03d", i)
		kvs[k] = fmt.Sprintf("record-%d", i)
		require.NoError(t, trie.Update([]byte(k), []byte(kvs[k])))
	}

	batch := db.NewBatch()
	root, err := trie.Commit(batch)
	require.NoError(t, err)
	require.NoError(t, batch.Write())

	reloaded, err := New(root, db)
	require.NoError(t, err)
	for k, v := range kvs {
		got, err := reloaded.Get([]byte(k))
		require.NoError(t, err)
		assert.Equal(t, []byte(v), got)
	}
	assert.Equal(t, root, reloaded.Hash())

	// mutate the reloaded trie and ensure the old root stays readable
	require.NoError(t, reloaded.Update([]byte("account-000"), []byte("changed")))
	newRoot := reloaded.Hash()
	assert.NotEqual(t, root, newRoot)

	old, err := New(root, db)
	require.NoError(t, err)
	got, err := old.Get([]byte("account-000"))
	require.NoError(t, err)
	assert.Equal(t, []byte("record-0"), got)
}

func TestIterate(t *testing.T) {
	db := kv.NewMem()
	defer db.Close()

	trie, err := New(nova.Bytes32{}, db)
	require.NoError(t, err)

	kvs := map[string]string{}
	for i := 0; i < 50; i++ {
		k := fmt.Sprintf("k%02d", i)
		kvs[k] = fmt.Sprintf("v%d", i)
		require.NoError(t, trie.Update([]byte(k), []byte(kvs[k])))
	}

	batch := db.NewBatch()
	root, err := trie.Commit(batch)
	require.NoError(t, err)
	require.NoError(t, batch.Write())

	reloaded, err := New(root, db)
	require.NoError(t, err)

	var lastKey string
	n := 0
	require.NoError(t, reloaded.Iterate(func(key, value []byte) bool {
		assert.Equal(t, kvs[string(key)], string(value))
		assert.Greater(t, string(key), lastKey) // ascending byte order
		lastKey = string(key)
		n++
		return true
	}))
	assert.Equal(t, len(kvs), n)

	// early stop
	n = 0
	require.NoError(t, reloaded.Iterate(func(_, _ []byte) bool {
		n++
		return n < 10
	}))
	assert.Equal(t, 10, n)
}

type rlpList [][]byte

func (l rlpList) Len() int            { return len(l) }
func (l rlpList) GetRlp(i int) []byte { return l[i] }

func TestDeriveRoot(t *testing.T) {
	root := DeriveRoot(rlpList{[]byte{0x80}, []byte{0x81, 0x01}})
	assert.NotEqual(t, emptyRoot, root)
	assert.Equal(t, root, DeriveRoot(rlpList{[]byte{0x80}, []byte{0x81, 0x01}}))
	assert.Equal(t, emptyRoot, DeriveRoot(rlpList{}))
}
