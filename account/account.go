// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"bytes"
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"

	"github.com/novachain/nova/nova"
)

// Type tags the account variants stored in the trie.
type Type uint8

// The closed set of account variants. Tag values are part of the canonical
// record encoding and must never be reordered.
const (
	TypeBasic Type = iota
	TypeVesting
	TypeHTLC
	TypeValidator
	TypeStaker
)

// SigningKeyLength is the length of a compressed BLS12-381 G1 public key.
const SigningKeyLength = 48

func (t Type) String() string {
	switch t {
	case TypeBasic:
		return "basic"
	case TypeVesting:
		return "vesting"
	case TypeHTLC:
		return "htlc"
	case TypeValidator:
		return "validator"
	case TypeStaker:
		return "staker"
	default:
		return "unknown"
	}
}

// Record is an account record stored in the state trie. The variant set is
// closed; code dispatching on records uses a type switch over the concrete
// types below.
type Record interface {
	Type() Type
	Balance() uint64
	// IsEmpty reports whether the record carries no state and must be pruned
	// from the trie. Storing an empty record is identical to removing it.
	IsEmpty() bool
	// Copy returns a deep copy safe to mutate.
	Copy() Record

	sealed()
}

// BasicAccount is a plain balance-holding account.
type BasicAccount struct {
	Bal uint64
}

func (a *BasicAccount) Type() Type      { return TypeBasic }
func (a *BasicAccount) Balance() uint64 { return a.Bal }
func (a *BasicAccount) IsEmpty() bool   { return a.Bal == 0 }
func (a *BasicAccount) Copy() Record    { cpy := *a; return &cpy }
func (a *BasicAccount) sealed()         {}

// VestingAccount releases its funds to the owner on a step schedule.
type VestingAccount struct {
	Owner       nova.Address
	Start       uint32
	StepBlocks  uint32
	StepAmount  uint64
	TotalAmount uint64
	Bal         uint64
}

func (a *VestingAccount) Type() Type      { return TypeVesting }
func (a *VestingAccount) Balance() uint64 { return a.Bal }
func (a *VestingAccount) IsEmpty() bool   { return a.Bal == 0 }
func (a *VestingAccount) Copy() Record    { cpy := *a; return &cpy }
func (a *VestingAccount) sealed()         {}

// ReleasedAt returns the cumulative amount released by the schedule at the
// given block height, capped at the total amount.
func (a *VestingAccount) ReleasedAt(height uint32) uint64 {
	if height <= a.Start || a.StepBlocks == 0 || a.StepAmount == 0 {
		return 0
	}
	steps := uint64((height - a.Start) / a.StepBlocks)
	full := a.TotalAmount / a.StepAmount
	if a.TotalAmount%a.StepAmount != 0 {
		full++
	}
	if steps >= full {
		return a.TotalAmount
	}
	return steps * a.StepAmount
}

// SpendableAt returns the part of the balance not locked by the schedule at
// the given block height.
func (a *VestingAccount) SpendableAt(height uint32) uint64 {
	locked := a.TotalAmount - a.ReleasedAt(height)
	if a.Bal <= locked {
		return 0
	}
	return a.Bal - locked
}

// HTLCAccount is a hashed time-locked contract. Its balance can only move as a
// whole: to the recipient with the hash preimage before the timeout, or back
// to the sender at or after the timeout.
type HTLCAccount struct {
	Sender    nova.Address
	Recipient nova.Address
	HashAlgo  nova.HashAlgorithm
	HashLock  nova.Bytes32
	Timeout   uint32
	Bal       uint64
}

func (a *HTLCAccount) Type() Type      { return TypeHTLC }
func (a *HTLCAccount) Balance() uint64 { return a.Bal }
func (a *HTLCAccount) IsEmpty() bool   { return a.Bal == 0 }
func (a *HTLCAccount) Copy() Record    { cpy := *a; return &cpy }
func (a *HTLCAccount) sealed()         {}

// VerifyPreimage reports whether hashing the preimage with the contract's
// algorithm yields the hash lock.
func (a *HTLCAccount) VerifyPreimage(preimage []byte) bool {
	var digest []byte
	switch a.HashAlgo {
	case nova.HashSha256:
		sum := sha256.Sum256(preimage)
		digest = sum[:]
	case nova.HashBlake2b:
		sum := blake2b.Sum256(preimage)
		digest = sum[:]
	case nova.HashKeccak256:
		digest = crypto.Keccak256(preimage)
	default:
		return false
	}
	return bytes.Equal(digest, a.HashLock.Bytes())
}

// ValidatorAccount holds a validator's deposit, its consensus signing key and
// the total stake delegated to it.
type ValidatorAccount struct {
	SigningKey       [SigningKeyLength]byte
	RewardAddr       nova.Address
	Inactive         bool
	RetirementHeight uint32
	TotalStake       uint64
	Bal              uint64 // the deposit
}

func (a *ValidatorAccount) Type() Type      { return TypeValidator }
func (a *ValidatorAccount) Balance() uint64 { return a.Bal }
func (a *ValidatorAccount) IsEmpty() bool   { return a.Bal == 0 && a.TotalStake == 0 }
func (a *ValidatorAccount) Copy() Record    { cpy := *a; return &cpy }
func (a *ValidatorAccount) sealed()         {}

// WithdrawableAt reports whether the deposit can be withdrawn at the given
// block height.
func (a *ValidatorAccount) WithdrawableAt(height uint32) bool {
	if !a.Inactive || a.TotalStake != 0 {
		return false
	}
	return height >= a.RetirementHeight+nova.WithdrawalDelay()
}

// WithdrawalEntry is a pending withdrawal of previously active stake.
type WithdrawalEntry struct {
	Amount        uint64
	ReleaseHeight uint32
}

// StakerAccount holds active stake, an optional delegation target, and a
// queue of pending withdrawals ordered by insertion. Release heights grow
// monotonically along the queue.
type StakerAccount struct {
	Owner      nova.Address
	Delegation *nova.Address
	Bal        uint64 // active stake
	Pending    []WithdrawalEntry
}

func (a *StakerAccount) Type() Type      { return TypeStaker }
func (a *StakerAccount) Balance() uint64 { return a.Bal }
func (a *StakerAccount) IsEmpty() bool {
	return a.Bal == 0 && len(a.Pending) == 0 && a.Delegation == nil
}
func (a *StakerAccount) Copy() Record {
	cpy := *a
	if a.Delegation != nil {
		d := *a.Delegation
		cpy.Delegation = &d
	}
	cpy.Pending = append([]WithdrawalEntry(nil), a.Pending...)
	return &cpy
}
func (a *StakerAccount) sealed() {}

// PendingTotal returns the sum of all queued withdrawals.
func (a *StakerAccount) PendingTotal() uint64 {
	var total uint64
	for _, e := range a.Pending {
		total += e.Amount
	}
	return total
}

// MaturedAt returns the number of leading queue entries whose release height
// has been reached at the given block height.
func (a *StakerAccount) MaturedAt(height uint32) int {
	n := 0
	for _, e := range a.Pending {
		if e.ReleaseHeight > height {
			break
		}
		n++
	}
	return n
}
