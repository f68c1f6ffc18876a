// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/novachain/nova/nova"
)

// Type selects the account-variant semantics a transaction invokes.
type Type uint8

const (
	// TypeTransfer moves value from a basic or vesting account to a basic account.
	TypeTransfer Type = iota
	// TypeCreateVesting creates a vesting account at the recipient address.
	TypeCreateVesting
	// TypeCreateHTLC creates a hashed time-locked contract at the recipient address.
	TypeCreateHTLC
	// TypeRedeemHTLC resolves an HTLC. The sender is the contract address and the
	// signer proves the preimage or timeout path.
	TypeRedeemHTLC
	// TypeStaking invokes the staking subsystem. The concrete operation is
	// selected by the StakingData payload.
	TypeStaking
)

var errIntrinsic = errors.New("intrinsic tx error")

// IsIntrinsicError distinguishes structural transaction errors, which can never
// become valid, from state-dependent ones.
func IsIntrinsicError(err error) bool {
	return errors.Cause(err) == errIntrinsic
}

func intrinsicError(msg string) error {
	return errors.WithMessage(errIntrinsic, msg)
}

// Transaction is an immutable transaction type.
type Transaction struct {
	body body

	cache struct {
		signingHash atomic.Value
		id          atomic.Value
		origin      atomic.Value
	}
}

// body describes details of a tx.
type body struct {
	Sender    nova.Address
	Recipient nova.Address
	Amount    uint64
	Fee       uint64
	Type      Type
	Data      []byte
	Nonce     uint64
	Signature []byte
}

// Sender returns the debited account address.
func (t *Transaction) Sender() nova.Address { return t.body.Sender }

// Recipient returns the account the transaction acts on.
func (t *Transaction) Recipient() nova.Address { return t.body.Recipient }

// Amount returns the transferred value in smallest units.
func (t *Transaction) Amount() uint64 { return t.body.Amount }

// Fee returns the fee in smallest units. Fees are burned.
func (t *Transaction) Fee() uint64 { return t.body.Fee }

// Total returns amount plus fee, with overflow reported.
func (t *Transaction) Total() (uint64, error) {
	total := t.body.Amount + t.body.Fee
	if total < t.body.Amount {
		return 0, intrinsicError("amount plus fee overflows")
	}
	return total, nil
}

// Type returns the transaction type tag.
func (t *Transaction) Type() Type { return t.body.Type }

// Data returns the type-specific payload.
func (t *Transaction) Data() []byte { return append([]byte(nil), t.body.Data...) }

// Nonce returns the replay-protection nonce chosen by the signer.
func (t *Transaction) Nonce() uint64 { return t.body.Nonce }

// Signature returns the 65-byte secp256k1 signature.
func (t *Transaction) Signature() []byte { return append([]byte(nil), t.body.Signature...) }

// SigningHash returns the hash of the tx excluding the signature.
func (t *Transaction) SigningHash() (hash nova.Bytes32) {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return cached.(nova.Bytes32)
	}
	defer func() { t.cache.signingHash.Store(hash) }()

	hash = nova.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []interface{}{
			t.body.Sender,
			t.body.Recipient,
			t.body.Amount,
			t.body.Fee,
			t.body.Type,
			t.body.Data,
			t.body.Nonce,
		})
	})
	return
}

// ID returns the hash of the whole tx including the signature.
func (t *Transaction) ID() (id nova.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(nova.Bytes32)
	}
	defer func() { t.cache.id.Store(id) }()

	id = nova.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, &t.body)
	})
	return
}

// Origin extracts the signer address from the signature.
//
// For transfers and creations the origin must equal the sender (or the vesting
// owner); for contract-resolving and staking control transactions it proves the
// controlling identity instead.
func (t *Transaction) Origin() (nova.Address, error) {
	if cached := t.cache.origin.Load(); cached != nil {
		return cached.(nova.Address), nil
	}

	if len(t.body.Signature) != 65 {
		return nova.Address{}, intrinsicError("invalid signature length")
	}
	hash := t.SigningHash()
	pub, err := crypto.SigToPub(hash[:], t.body.Signature)
	if err != nil {
		return nova.Address{}, errors.WithMessage(errIntrinsic, err.Error())
	}
	origin := nova.PubkeyToAddress(pub)
	t.cache.origin.Store(origin)
	return origin, nil
}

// WithSignature creates a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{body: t.body}
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// EncodeRLP implements rlp.Encoder.
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder.
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}
