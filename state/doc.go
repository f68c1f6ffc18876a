// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the Merkleized account state.
//
// A State is a single-writer view: it must not be shared across goroutines.
// Concurrent readers instead open independent views of the same committed
// root via Stater, which also shares a record cache between them. Writes
// accumulate in a journal and only reach the trie through Stage/Commit, so a
// State that is thrown away leaves the committed state untouched.
package state
