// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"github.com/qianbin/drlp"

	"github.com/novachain/nova/nova"
)

// DerivableList is the list of items from which the root hash is derived.
type DerivableList interface {
	Len() int
	GetRlp(i int) []byte
}

// DeriveRoot computes the root hash of the trie keyed by list indices.
func DeriveRoot(list DerivableList) nova.Bytes32 {
	var (
		trie Trie
		key  []byte
	)

	for i := 0; i < list.Len(); i++ {
		key = drlp.AppendUint(key[:0], uint64(i))
		trie.Update(key, list.GetRlp(i))
	}

	return trie.Hash()
}
