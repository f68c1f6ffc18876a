// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/trie"
)

// Transactions a slice of transactions.
type Transactions []*Transaction

// implements trie.DerivableList
func (txs Transactions) Len() int {
	return len(txs)
}

func (txs Transactions) GetRlp(i int) []byte {
	data, err := rlp.EncodeToBytes(txs[i])
	if err != nil {
		panic(err)
	}
	return data
}

// RootHash computes the merkle root hash of the transactions.
func (txs Transactions) RootHash() nova.Bytes32 {
	return trie.DeriveRoot(txs)
}

// Sign signs the transaction with the given private key and returns the signed
// copy.
func Sign(tx *Transaction, priv *ecdsa.PrivateKey) (*Transaction, error) {
	hash := tx.SigningHash()
	sig, err := crypto.Sign(hash[:], priv)
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(sig), nil
}

// MustSign signs the transaction and panics on error. Meant for tests and
// tools that generate keys themselves.
func MustSign(tx *Transaction, priv *ecdsa.PrivateKey) *Transaction {
	signed, err := Sign(tx, priv)
	if err != nil {
		panic(err)
	}
	return signed
}
