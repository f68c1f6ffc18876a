// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/pkg/errors"

	"github.com/novachain/nova/nova"
)

// DeltaFlags marks which parts of a delta token are populated.
type DeltaFlags uint8

const (
	// FlagCreated the record did not exist before the transaction.
	FlagCreated DeltaFlags = 1 << iota
	// FlagRemoved the record was removed; Prior holds its full encoding.
	FlagRemoved
	// FlagBalance PriorBalance holds the balance before the transaction.
	FlagBalance
	// FlagStake PriorStake holds a validator's total stake before the transaction.
	FlagStake
	// FlagStatus PriorInactive and PriorRetirement hold a validator's status
	// before the transaction.
	FlagStatus
	// FlagDelegation PriorDelegation holds a staker's delegation before the
	// transaction.
	FlagDelegation
	// FlagQueue Consumed and Appended describe withdrawal queue changes.
	FlagQueue
)

// Delta is the inverse data recorded for one account touched by one
// transaction. Applying it through Revert restores the account to its state
// before that transaction.
type Delta struct {
	Addr            nova.Address
	Flags           DeltaFlags
	Prior           []byte // full record encoding, FlagRemoved only
	PriorBalance    uint64
	PriorStake      uint64
	PriorInactive   bool
	PriorRetirement uint32
	PriorDelegation []byte            // empty or an address
	Consumed        []WithdrawalEntry // matured entries removed from the queue head
	Appended        uint16            // entries appended to the queue tail
}

// The Note helpers record the pre-transaction value of a field the first time
// it is touched; later notes for the same field are ignored, so callers can
// note unconditionally before every mutation.

func (d *Delta) NoteCreated() {
	d.Flags |= FlagCreated
}

func (d *Delta) NoteRemoved(prior []byte) {
	if d.Flags&FlagRemoved != 0 {
		return
	}
	d.Flags |= FlagRemoved
	d.Prior = prior
}

func (d *Delta) NoteBalance(prior uint64) {
	if d.Flags&FlagBalance != 0 {
		return
	}
	d.Flags |= FlagBalance
	d.PriorBalance = prior
}

func (d *Delta) NoteStake(prior uint64) {
	if d.Flags&FlagStake != 0 {
		return
	}
	d.Flags |= FlagStake
	d.PriorStake = prior
}

func (d *Delta) NoteStatus(inactive bool, retirement uint32) {
	if d.Flags&FlagStatus != 0 {
		return
	}
	d.Flags |= FlagStatus
	d.PriorInactive = inactive
	d.PriorRetirement = retirement
}

func (d *Delta) NoteDelegation(prior *nova.Address) {
	if d.Flags&FlagDelegation != 0 {
		return
	}
	d.Flags |= FlagDelegation
	if prior != nil {
		d.PriorDelegation = prior.Bytes()
	}
}

func (d *Delta) NoteConsumed(entries []WithdrawalEntry) {
	d.Flags |= FlagQueue
	d.Consumed = append(d.Consumed, entries...)
}

func (d *Delta) NoteAppended(n int) {
	d.Flags |= FlagQueue
	d.Appended += uint16(n)
}

// Revert undoes the recorded changes on the store. It consumes only the delta
// itself; nothing is recomputed from transaction semantics.
func (d *Delta) Revert(store Store) error {
	// A record can be removed and a fresh one created at the same address
	// within one transaction, so the removal is checked first: the original
	// record wins.
	if d.Flags&FlagRemoved != 0 {
		rec, err := Decode(d.Prior)
		if err != nil {
			return errors.WithMessage(err, "corrupt delta token")
		}
		store.Put(d.Addr, rec)
		return nil
	}
	if d.Flags&FlagCreated != 0 {
		store.Delete(d.Addr)
		return nil
	}

	rec, err := store.Get(d.Addr)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.WithMessage(ErrAccountNotFound, "delta refers to missing record")
	}
	rec = rec.Copy()

	if d.Flags&FlagQueue != 0 {
		staker, ok := rec.(*StakerAccount)
		if !ok {
			return errors.WithMessage(ErrPreconditionFailed, "queue delta on non-staker record")
		}
		if n := int(d.Appended); n > 0 {
			if n > len(staker.Pending) {
				return errors.WithMessage(ErrPreconditionFailed, "queue delta underflow")
			}
			staker.Pending = staker.Pending[:len(staker.Pending)-n]
		}
		if len(d.Consumed) > 0 {
			staker.Pending = append(append([]WithdrawalEntry(nil), d.Consumed...), staker.Pending...)
		}
	}
	if d.Flags&FlagDelegation != 0 {
		staker, ok := rec.(*StakerAccount)
		if !ok {
			return errors.WithMessage(ErrPreconditionFailed, "delegation delta on non-staker record")
		}
		staker.Delegation = nil
		if len(d.PriorDelegation) == nova.AddressLength {
			addr := nova.BytesToAddress(d.PriorDelegation)
			staker.Delegation = &addr
		}
	}
	if d.Flags&(FlagStatus|FlagStake) != 0 {
		validator, ok := rec.(*ValidatorAccount)
		if !ok {
			return errors.WithMessage(ErrPreconditionFailed, "validator delta on non-validator record")
		}
		if d.Flags&FlagStatus != 0 {
			validator.Inactive = d.PriorInactive
			validator.RetirementHeight = d.PriorRetirement
		}
		if d.Flags&FlagStake != 0 {
			validator.TotalStake = d.PriorStake
		}
	}
	if d.Flags&FlagBalance != 0 {
		if err := setBalance(rec, d.PriorBalance); err != nil {
			return err
		}
	}
	store.Put(d.Addr, rec)
	return nil
}

func setBalance(rec Record, bal uint64) error {
	switch r := rec.(type) {
	case *BasicAccount:
		r.Bal = bal
	case *VestingAccount:
		r.Bal = bal
	case *HTLCAccount:
		r.Bal = bal
	case *ValidatorAccount:
		r.Bal = bal
	case *StakerAccount:
		r.Bal = bal
	default:
		return errors.WithMessage(ErrPreconditionFailed, "unknown record variant")
	}
	return nil
}

// DeltaSet collects the delta tokens of a single transaction, one per touched
// account, in first-touch order.
type DeltaSet struct {
	order []*Delta
	index map[nova.Address]*Delta
}

func NewDeltaSet() *DeltaSet {
	return &DeltaSet{index: make(map[nova.Address]*Delta)}
}

// Touch returns the delta token for the address, creating it on first use.
func (s *DeltaSet) Touch(addr nova.Address) *Delta {
	if d, ok := s.index[addr]; ok {
		return d
	}
	d := &Delta{Addr: addr}
	s.index[addr] = d
	s.order = append(s.order, d)
	return d
}

// Deltas returns the collected tokens in first-touch order.
func (s *DeltaSet) Deltas() []*Delta {
	return s.order
}
