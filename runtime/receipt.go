// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/novachain/nova/account"
	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/trie"
)

// TxReceipt records the delta tokens of one applied transaction. Replaying
// them in reverse undoes the transaction exactly.
type TxReceipt struct {
	ID     nova.Bytes32
	Burned uint64
	Deltas []*account.Delta
}

// TxReceipts a slice of tx receipts.
type TxReceipts []*TxReceipt

// implements trie.DerivableList
func (rs TxReceipts) Len() int {
	return len(rs)
}

func (rs TxReceipts) GetRlp(i int) []byte {
	data, err := rlp.EncodeToBytes(rs[i])
	if err != nil {
		panic(err)
	}
	return data
}

// RootHash computes the merkle root hash of the receipts.
func (rs TxReceipts) RootHash() nova.Bytes32 {
	return trie.DeriveRoot(rs)
}

// BlockReceipt is the auditable undo record of a whole block.
type BlockReceipt struct {
	PriorRoot nova.Bytes32
	Root      nova.Bytes32
	Minted    uint64
	Burned    uint64
	Receipts  TxReceipts
	Reward    []*account.Delta
}

// Encode returns the RLP encoding of the receipt.
func (r *BlockReceipt) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

// DecodeBlockReceipt parses an RLP encoded block receipt.
func DecodeBlockReceipt(data []byte) (*BlockReceipt, error) {
	var r BlockReceipt
	if err := rlp.DecodeBytes(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
