// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/novachain/nova/nova"
)

// Builder to make it easy to build a transaction.
type Builder struct {
	body body
}

// Sender sets the debited account address.
func (b *Builder) Sender(addr nova.Address) *Builder {
	b.body.Sender = addr
	return b
}

// Recipient sets the account the transaction acts on.
func (b *Builder) Recipient(addr nova.Address) *Builder {
	b.body.Recipient = addr
	return b
}

// Amount sets the transferred value.
func (b *Builder) Amount(amount uint64) *Builder {
	b.body.Amount = amount
	return b
}

// Fee sets the fee.
func (b *Builder) Fee(fee uint64) *Builder {
	b.body.Fee = fee
	return b
}

// Type sets the transaction type tag.
func (b *Builder) Type(typ Type) *Builder {
	b.body.Type = typ
	return b
}

// Data sets the raw type-specific payload.
func (b *Builder) Data(data []byte) *Builder {
	b.body.Data = append([]byte(nil), data...)
	return b
}

// Payload RLP-encodes the given payload struct as the type-specific data.
func (b *Builder) Payload(payload interface{}) *Builder {
	data, err := rlp.EncodeToBytes(payload)
	if err != nil {
		panic(err)
	}
	b.body.Data = data
	return b
}

// Nonce sets the nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Build builds a tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	return &tx
}
