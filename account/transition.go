// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/pkg/errors"

	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/tx"
)

// Store is the account record access transitions operate on. *state.State
// implements it.
type Store interface {
	// Get returns the record at addr, or nil if the account does not exist.
	Get(addr nova.Address) (Record, error)
	// Put stores the record. Storing an empty record removes it.
	Put(addr nova.Address, rec Record)
	// Delete removes the record.
	Delete(addr nova.Address)
}

// put prunes empty records; the caller must have noted the removal already
// when rec can be empty.
func put(store Store, addr nova.Address, rec Record) {
	if rec.IsEmpty() {
		store.Delete(addr)
	} else {
		store.Put(addr, rec)
	}
}

// Debit removes total from the account at addr and records the inverse in ds.
//
// Basic accounts must be controlled by origin directly; vesting accounts by
// their owner, and only the released part of the balance is spendable. Other
// variants cannot be debited this way. A zero total from the origin's own
// absent account is a no-op, so fee-less control operations stay valid after
// the basic account is pruned.
func Debit(store Store, ds *DeltaSet, addr, origin nova.Address, total uint64, height uint32) error {
	rec, err := store.Get(addr)
	if err != nil {
		return err
	}
	if rec == nil {
		if total == 0 && addr == origin {
			return nil
		}
		return errors.WithMessagef(ErrAccountNotFound, "sender %v", addr)
	}

	switch r := rec.(type) {
	case *BasicAccount:
		if origin != addr {
			return errors.WithMessage(ErrInvalidProof, "signer does not control sender")
		}
		if r.Bal < total {
			return errors.WithMessagef(ErrInsufficientBalance, "have %d, need %d", r.Bal, total)
		}
	case *VestingAccount:
		if origin != r.Owner {
			return errors.WithMessage(ErrInvalidProof, "signer is not the vesting owner")
		}
		if spendable := r.SpendableAt(height); spendable < total {
			return errors.WithMessagef(ErrInsufficientBalance, "spendable %d, need %d", spendable, total)
		}
	default:
		return errors.WithMessagef(ErrPreconditionFailed, "cannot debit %v account", rec.Type())
	}

	if total == 0 {
		return nil
	}
	delta := ds.Touch(addr)
	updated := rec.Copy()
	newBal := rec.Balance() - total
	if err := setBalance(updated, newBal); err != nil {
		return err
	}
	if updated.IsEmpty() {
		delta.NoteRemoved(Encode(rec))
	} else {
		delta.NoteBalance(rec.Balance())
	}
	put(store, addr, updated)
	return nil
}

// Credit adds amount to the basic account at addr, creating it if absent, and
// records the inverse in ds. Crediting any other variant fails.
func Credit(store Store, ds *DeltaSet, addr nova.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	rec, err := store.Get(addr)
	if err != nil {
		return err
	}
	delta := ds.Touch(addr)
	if rec == nil {
		delta.NoteCreated()
		store.Put(addr, &BasicAccount{Bal: amount})
		return nil
	}
	basic, ok := rec.(*BasicAccount)
	if !ok {
		return errors.WithMessagef(ErrPreconditionFailed, "cannot credit %v account", rec.Type())
	}
	if basic.Bal+amount < basic.Bal {
		return errors.WithMessage(ErrPreconditionFailed, "balance overflow")
	}
	delta.NoteBalance(basic.Bal)
	store.Put(addr, &BasicAccount{Bal: basic.Bal + amount})
	return nil
}

// CreateVesting creates a vesting account at addr funded with amount. The
// address must be previously unused and the funding must match the schedule
// total.
func CreateVesting(store Store, ds *DeltaSet, addr, owner nova.Address, data *tx.VestingData, amount uint64) error {
	rec, err := store.Get(addr)
	if err != nil {
		return err
	}
	if rec != nil {
		return errors.WithMessagef(ErrPreconditionFailed, "address %v already in use", addr)
	}
	if amount != data.TotalAmount {
		return errors.WithMessage(ErrMalformedTransaction, "funding does not match schedule total")
	}
	ds.Touch(addr).NoteCreated()
	store.Put(addr, &VestingAccount{
		Owner:       owner,
		Start:       data.Start,
		StepBlocks:  data.StepBlocks,
		StepAmount:  data.StepAmount,
		TotalAmount: data.TotalAmount,
		Bal:         amount,
	})
	return nil
}

// CreateHTLC creates a hashed time-locked contract at addr funded with amount.
// origin becomes the refund party for timeout reclaims.
func CreateHTLC(store Store, ds *DeltaSet, addr, origin nova.Address, data *tx.HTLCData, amount uint64, height uint32) error {
	rec, err := store.Get(addr)
	if err != nil {
		return err
	}
	if rec != nil {
		return errors.WithMessagef(ErrPreconditionFailed, "address %v already in use", addr)
	}
	if amount == 0 {
		return errors.WithMessage(ErrMalformedTransaction, "unfunded time-lock")
	}
	if data.Timeout <= height {
		return errors.WithMessage(ErrPreconditionFailed, "timeout not in the future")
	}
	ds.Touch(addr).NoteCreated()
	store.Put(addr, &HTLCAccount{
		Sender:    origin,
		Recipient: data.Recipient,
		HashAlgo:  nova.HashAlgorithm(data.HashAlgo),
		HashLock:  data.HashLock,
		Timeout:   data.Timeout,
		Bal:       amount,
	})
	return nil
}

// RedeemHTLC resolves the contract at addr, consuming it entirely. Before the
// timeout the contract recipient redeems with the hash preimage; at or after
// the timeout the contract sender reclaims without one. total must equal the
// contract balance.
func RedeemHTLC(store Store, ds *DeltaSet, addr, origin nova.Address, proof *tx.HTLCProof, total uint64, height uint32) error {
	rec, err := store.Get(addr)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.WithMessagef(ErrAccountNotFound, "no contract at %v", addr)
	}
	htlc, ok := rec.(*HTLCAccount)
	if !ok {
		return errors.WithMessagef(ErrPreconditionFailed, "%v account is not a time-lock", rec.Type())
	}
	if total != htlc.Bal {
		return errors.WithMessage(ErrMalformedTransaction, "contract must be consumed entirely")
	}

	if proof.OnTimeout {
		if height < htlc.Timeout {
			return errors.WithMessage(ErrInvalidProof, "timeout not reached")
		}
		if origin != htlc.Sender {
			return errors.WithMessage(ErrInvalidProof, "signer is not the contract sender")
		}
	} else {
		if height >= htlc.Timeout {
			return errors.WithMessage(ErrInvalidProof, "contract timed out")
		}
		if origin != htlc.Recipient {
			return errors.WithMessage(ErrInvalidProof, "signer is not the contract recipient")
		}
		if !htlc.VerifyPreimage(proof.Preimage) {
			return errors.WithMessage(ErrInvalidProof, "preimage does not match hash lock")
		}
	}

	ds.Touch(addr).NoteRemoved(Encode(htlc))
	store.Delete(addr)
	return nil
}
