// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"crypto/sha256"
	"testing"

	"github.com/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/tx"
)

type memStore map[nova.Address]Record

func (m memStore) Get(addr nova.Address) (Record, error) {
	rec, ok := m[addr]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

func (m memStore) Put(addr nova.Address, rec Record) {
	if rec.IsEmpty() {
		delete(m, addr)
		return
	}
	m[addr] = rec.Copy()
}

func (m memStore) Delete(addr nova.Address) {
	delete(m, addr)
}

func addr(s string) nova.Address {
	return nova.BytesToAddress([]byte(s))
}

func TestVestingSchedule(t *testing.T) {
	v := &VestingAccount{
		Owner:       addr("owner"),
		Start:       100,
		StepBlocks:  10,
		StepAmount:  25,
		TotalAmount: 100,
		Bal:         100,
	}

	assert.Equal(t, uint64(0), v.ReleasedAt(0))
	assert.Equal(t, uint64(0), v.ReleasedAt(100))
	assert.Equal(t, uint64(0), v.ReleasedAt(109))
	assert.Equal(t, uint64(25), v.ReleasedAt(110))
	assert.Equal(t, uint64(50), v.ReleasedAt(125))
	assert.Equal(t, uint64(100), v.ReleasedAt(140))
	assert.Equal(t, uint64(100), v.ReleasedAt(1<<30))

	assert.Equal(t, uint64(0), v.SpendableAt(105))
	assert.Equal(t, uint64(25), v.SpendableAt(110))
	assert.Equal(t, uint64(100), v.SpendableAt(140))

	// partially spent, remaining locked portion still binds
	v.Bal = 60
	assert.Equal(t, uint64(0), v.SpendableAt(110)) // locked 75 > 60
	assert.Equal(t, uint64(10), v.SpendableAt(125))
	assert.Equal(t, uint64(60), v.SpendableAt(140))
}

func TestVestingScheduleUnevenTail(t *testing.T) {
	v := &VestingAccount{
		Start:       0,
		StepBlocks:  1,
		StepAmount:  30,
		TotalAmount: 100,
		Bal:         100,
	}
	assert.Equal(t, uint64(90), v.ReleasedAt(3))
	assert.Equal(t, uint64(100), v.ReleasedAt(4))
}

func TestHTLCPreimage(t *testing.T) {
	preimage := []byte("secret")

	sum := sha256.Sum256(preimage)
	h := &HTLCAccount{HashAlgo: nova.HashSha256, HashLock: nova.BytesToBytes32(sum[:])}
	assert.True(t, h.VerifyPreimage(preimage))
	assert.False(t, h.VerifyPreimage([]byte("wrong")))

	h.HashAlgo = nova.HashBlake2b
	assert.False(t, h.VerifyPreimage(preimage))

	h.HashLock = nova.Blake2b(preimage)
	assert.True(t, h.VerifyPreimage(preimage))

	h.HashAlgo = 99
	assert.False(t, h.VerifyPreimage(preimage))
}

func TestCodecRoundTrip(t *testing.T) {
	delegation := addr("validator")
	var key [SigningKeyLength]byte
	key[0] = 0xa0

	records := []Record{
		&BasicAccount{Bal: 123},
		&VestingAccount{Owner: addr("o"), Start: 1, StepBlocks: 2, StepAmount: 3, TotalAmount: 30, Bal: 30},
		&HTLCAccount{
			Sender:    addr("s"),
			Recipient: addr("r"),
			HashAlgo:  nova.HashSha256,
			HashLock:  nova.BytesToBytes32([]byte("lock")),
			Timeout:   77,
			Bal:       9,
		},
		&ValidatorAccount{SigningKey: key, RewardAddr: addr("reward"), Inactive: true, RetirementHeight: 5, TotalStake: 100, Bal: 50},
		&StakerAccount{Owner: addr("owner"), Bal: 10},
		&StakerAccount{
			Owner:      addr("owner"),
			Delegation: &delegation,
			Bal:        10,
			Pending:    []WithdrawalEntry{{Amount: 4, ReleaseHeight: 9}, {Amount: 6, ReleaseHeight: 12}},
		},
	}

	for _, rec := range records {
		data := Encode(rec)
		decoded, err := Decode(data)
		require.NoError(t, err, "%v", rec.Type())
		assert.Equal(t, rec, decoded)
		// determinism
		assert.Equal(t, data, Encode(decoded))
	}
}

func TestCodecRejections(t *testing.T) {
	cases := map[string][]byte{
		"empty":       {},
		"unknown tag": {0xff, 0, 0, 0, 0, 0, 0, 0, 0},
		"truncated":   Encode(&BasicAccount{Bal: 1})[:5],
		"trailing":    append(Encode(&BasicAccount{Bal: 1}), 0),
	}
	for name, data := range cases {
		_, err := Decode(data)
		assert.Error(t, err, name)
	}

	// non-canonical bool in validator record
	data := Encode(&ValidatorAccount{Bal: 1})
	data[1+SigningKeyLength+nova.AddressLength] = 2
	_, err := Decode(data)
	assert.Error(t, err)

	// cleared delegation must be all-zero
	data = Encode(&StakerAccount{Owner: addr("o"), Bal: 1})
	data[1+nova.AddressLength+1] = 0xee
	_, err = Decode(data)
	assert.Error(t, err)

	// withdrawal count must match the remaining bytes
	data = Encode(&StakerAccount{Owner: addr("o"), Bal: 1, Pending: []WithdrawalEntry{{Amount: 1, ReleaseHeight: 2}}})
	_, err = Decode(data[:len(data)-entrySize])
	assert.Error(t, err)
}

func TestDebitBasic(t *testing.T) {
	store := memStore{addr("a"): &BasicAccount{Bal: 100}}
	ds := NewDeltaSet()

	err := Debit(store, ds, addr("a"), addr("b"), 10, 1)
	assert.Equal(t, ErrInvalidProof, causeOf(err))

	err = Debit(store, ds, addr("a"), addr("a"), 101, 1)
	assert.Equal(t, ErrInsufficientBalance, causeOf(err))

	err = Debit(store, ds, addr("missing"), addr("missing"), 1, 1)
	assert.Equal(t, ErrAccountNotFound, causeOf(err))

	// a zero total from the origin's own absent account is a no-op
	require.NoError(t, Debit(store, ds, addr("missing"), addr("missing"), 0, 1))
	err = Debit(store, ds, addr("missing"), addr("other"), 0, 1)
	assert.Equal(t, ErrAccountNotFound, causeOf(err))

	require.NoError(t, Debit(store, ds, addr("a"), addr("a"), 31, 1))
	assert.Equal(t, uint64(69), store[addr("a")].Balance())

	// debit to zero prunes and records the removal
	ds = NewDeltaSet()
	require.NoError(t, Debit(store, ds, addr("a"), addr("a"), 69, 1))
	_, exists := store[addr("a")]
	assert.False(t, exists)
	delta := ds.Deltas()[0]
	assert.NotZero(t, delta.Flags&FlagRemoved)

	require.NoError(t, delta.Revert(store))
	assert.Equal(t, uint64(69), store[addr("a")].Balance())
}

func TestDebitVesting(t *testing.T) {
	store := memStore{addr("v"): &VestingAccount{
		Owner:       addr("owner"),
		Start:       0,
		StepBlocks:  10,
		StepAmount:  50,
		TotalAmount: 100,
		Bal:         100,
	}}
	ds := NewDeltaSet()

	err := Debit(store, ds, addr("v"), addr("v"), 1, 10)
	assert.Equal(t, ErrInvalidProof, causeOf(err))

	err = Debit(store, ds, addr("v"), addr("owner"), 60, 10)
	assert.Equal(t, ErrInsufficientBalance, causeOf(err))

	require.NoError(t, Debit(store, ds, addr("v"), addr("owner"), 50, 10))
	assert.Equal(t, uint64(50), store[addr("v")].Balance())
}

func TestCredit(t *testing.T) {
	store := memStore{}
	ds := NewDeltaSet()

	require.NoError(t, Credit(store, ds, addr("a"), 30))
	assert.Equal(t, uint64(30), store[addr("a")].Balance())
	assert.NotZero(t, ds.Touch(addr("a")).Flags&FlagCreated)

	require.NoError(t, Credit(store, ds, addr("a"), 12))
	assert.Equal(t, uint64(42), store[addr("a")].Balance())

	store[addr("h")] = &HTLCAccount{Bal: 1}
	err := Credit(store, ds, addr("h"), 1)
	assert.Equal(t, ErrPreconditionFailed, causeOf(err))
}

func TestCreateAndRedeemHTLC(t *testing.T) {
	sender, recipient := addr("sender"), addr("claimant")
	preimage := []byte("open sesame")
	sum := sha256.Sum256(preimage)

	data := &tx.HTLCData{
		Recipient: recipient,
		HashAlgo:  uint8(nova.HashSha256),
		HashLock:  nova.BytesToBytes32(sum[:]),
		Timeout:   1000,
	}

	store := memStore{}
	ds := NewDeltaSet()
	require.NoError(t, CreateHTLC(store, ds, addr("h"), sender, data, 40, 100))

	err := CreateHTLC(store, ds, addr("h"), sender, data, 40, 100)
	assert.Equal(t, ErrPreconditionFailed, causeOf(err), "address reuse")

	err = CreateHTLC(store, ds, addr("h2"), sender, data, 40, 1000)
	assert.Equal(t, ErrPreconditionFailed, causeOf(err), "timeout in the past")

	// wrong preimage
	err = RedeemHTLC(store, ds, addr("h"), recipient, &tx.HTLCProof{Preimage: []byte("nope")}, 40, 500)
	assert.Equal(t, ErrInvalidProof, causeOf(err))

	// preimage path after timeout
	err = RedeemHTLC(store, ds, addr("h"), recipient, &tx.HTLCProof{Preimage: preimage}, 40, 1500)
	assert.Equal(t, ErrInvalidProof, causeOf(err))

	// timeout path before timeout
	err = RedeemHTLC(store, ds, addr("h"), sender, &tx.HTLCProof{OnTimeout: true}, 40, 500)
	assert.Equal(t, ErrInvalidProof, causeOf(err))

	// partial consumption
	err = RedeemHTLC(store, ds, addr("h"), recipient, &tx.HTLCProof{Preimage: preimage}, 39, 500)
	assert.Equal(t, ErrMalformedTransaction, causeOf(err))

	prior := Encode(store[addr("h")])
	ds = NewDeltaSet()
	require.NoError(t, RedeemHTLC(store, ds, addr("h"), recipient, &tx.HTLCProof{Preimage: preimage}, 40, 500))
	_, exists := store[addr("h")]
	assert.False(t, exists)

	// revert recreates the contract exactly
	require.NoError(t, ds.Deltas()[0].Revert(store))
	assert.Equal(t, prior, Encode(store[addr("h")]))
}

func TestCreateVesting(t *testing.T) {
	store := memStore{}
	ds := NewDeltaSet()
	data := &tx.VestingData{Start: 1, StepBlocks: 10, StepAmount: 5, TotalAmount: 50}

	err := CreateVesting(store, ds, addr("v"), addr("owner"), data, 49)
	assert.Equal(t, ErrMalformedTransaction, causeOf(err))

	require.NoError(t, CreateVesting(store, ds, addr("v"), addr("owner"), data, 50))
	v := store[addr("v")].(*VestingAccount)
	assert.Equal(t, addr("owner"), v.Owner)
	assert.Equal(t, uint64(50), v.Bal)
}

func TestDeltaRevertQueueAndDelegation(t *testing.T) {
	delegation := addr("val")
	store := memStore{addr("s"): &StakerAccount{
		Owner:      addr("owner"),
		Delegation: &delegation,
		Bal:        80,
		Pending:    []WithdrawalEntry{{Amount: 5, ReleaseHeight: 10}, {Amount: 7, ReleaseHeight: 20}},
	}}

	// simulate: two matured entries claimed, one appended, delegation cleared
	staker := store[addr("s")].(*StakerAccount).Copy().(*StakerAccount)
	delta := &Delta{Addr: addr("s")}
	delta.NoteConsumed(staker.Pending[:2])
	staker.Pending = nil
	delta.NoteAppended(1)
	staker.Pending = append(staker.Pending, WithdrawalEntry{Amount: 30, ReleaseHeight: 99})
	delta.NoteDelegation(staker.Delegation)
	staker.Delegation = nil
	delta.NoteBalance(staker.Bal)
	staker.Bal = 50
	store.Put(addr("s"), staker)

	require.NoError(t, delta.Revert(store))
	restored := store[addr("s")].(*StakerAccount)
	assert.Equal(t, uint64(80), restored.Bal)
	require.NotNil(t, restored.Delegation)
	assert.Equal(t, delegation, *restored.Delegation)
	assert.Equal(t, []WithdrawalEntry{{Amount: 5, ReleaseHeight: 10}, {Amount: 7, ReleaseHeight: 20}}, restored.Pending)
}

func TestDeltaSetMergesTouches(t *testing.T) {
	ds := NewDeltaSet()
	d1 := ds.Touch(addr("a"))
	d1.NoteBalance(100)
	d1.NoteBalance(50) // later notes ignored
	d2 := ds.Touch(addr("a"))
	assert.Same(t, d1, d2)
	assert.Equal(t, uint64(100), d1.PriorBalance)
	assert.Len(t, ds.Deltas(), 1)
}

func causeOf(err error) error {
	return errors.Cause(err)
}
