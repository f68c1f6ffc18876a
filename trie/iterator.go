// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import "fmt"

// Iterate traverses all leaves of the trie in ascending key order, invoking
// cb with the keybytes-encoded key and the stored value. The traversal stops
// early if cb returns false. Hash nodes are resolved from the database on
// demand; a missing node aborts the walk with a MissingNodeError.
func (t *Trie) Iterate(cb func(key, value []byte) bool) error {
	_, err := t.iterate(t.root, nil, cb)
	return err
}

func (t *Trie) iterate(n node, prefix []byte, cb func(key, value []byte) bool) (bool, error) {
	switch n := n.(type) {
	case nil:
		return true, nil
	case valueNode:
		return cb(hexToKeybytes(prefix), n), nil
	case *shortNode:
		return t.iterate(n.Val, append(prefix, n.Key...), cb)
	case *fullNode:
		for i, child := range &n.Children {
			if child == nil {
				continue
			}
			var (
				cont bool
				err  error
			)
			if i == 16 {
				cont, err = t.iterate(child, append(prefix, 16), cb)
			} else {
				cont, err = t.iterate(child, append(prefix, byte(i)), cb)
			}
			if err != nil || !cont {
				return cont, err
			}
		}
		return true, nil
	case hashNode:
		resolved, err := t.resolveHash(n, prefix)
		if err != nil {
			return false, err
		}
		return t.iterate(resolved, prefix, cb)
	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}
