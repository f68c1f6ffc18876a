// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/novachain/nova/nova"
)

// Record encodings are canonical: fixed-width big-endian fields behind a
// single variant tag byte, so that equal records always produce equal bytes
// and therefore equal trie roots.
const (
	basicSize     = 1 + 8
	vestingSize   = 1 + nova.AddressLength + 4 + 4 + 8 + 8 + 8
	htlcSize      = 1 + 2*nova.AddressLength + 1 + 32 + 4 + 8
	validatorSize = 1 + SigningKeyLength + nova.AddressLength + 1 + 4 + 8 + 8
	stakerMinSize = 1 + nova.AddressLength + 1 + nova.AddressLength + 8 + 2
	entrySize     = 8 + 4
)

// ErrDecode is the cause of all record decoding failures.
var ErrDecode = errors.New("invalid account record encoding")

type encoder struct {
	buf []byte
}

func (e *encoder) u8(v uint8)   { e.buf = append(e.buf, v) }
func (e *encoder) u16(v uint16) { e.buf = binary.BigEndian.AppendUint16(e.buf, v) }
func (e *encoder) u32(v uint32) { e.buf = binary.BigEndian.AppendUint32(e.buf, v) }
func (e *encoder) u64(v uint64) { e.buf = binary.BigEndian.AppendUint64(e.buf, v) }
func (e *encoder) bytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *encoder) bool(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

// Encode returns the canonical encoding of the record.
func Encode(rec Record) []byte {
	var e encoder
	switch r := rec.(type) {
	case *BasicAccount:
		e.buf = make([]byte, 1, basicSize)
		e.buf[0] = uint8(TypeBasic)
		e.u64(r.Bal)
	case *VestingAccount:
		e.buf = make([]byte, 1, vestingSize)
		e.buf[0] = uint8(TypeVesting)
		e.bytes(r.Owner.Bytes())
		e.u32(r.Start)
		e.u32(r.StepBlocks)
		e.u64(r.StepAmount)
		e.u64(r.TotalAmount)
		e.u64(r.Bal)
	case *HTLCAccount:
		e.buf = make([]byte, 1, htlcSize)
		e.buf[0] = uint8(TypeHTLC)
		e.bytes(r.Sender.Bytes())
		e.bytes(r.Recipient.Bytes())
		e.u8(uint8(r.HashAlgo))
		e.bytes(r.HashLock.Bytes())
		e.u32(r.Timeout)
		e.u64(r.Bal)
	case *ValidatorAccount:
		e.buf = make([]byte, 1, validatorSize)
		e.buf[0] = uint8(TypeValidator)
		e.bytes(r.SigningKey[:])
		e.bytes(r.RewardAddr.Bytes())
		e.bool(r.Inactive)
		e.u32(r.RetirementHeight)
		e.u64(r.TotalStake)
		e.u64(r.Bal)
	case *StakerAccount:
		e.buf = make([]byte, 1, stakerMinSize+len(r.Pending)*entrySize)
		e.buf[0] = uint8(TypeStaker)
		e.bytes(r.Owner.Bytes())
		e.bool(r.Delegation != nil)
		if r.Delegation != nil {
			e.bytes(r.Delegation.Bytes())
		} else {
			e.bytes(make([]byte, nova.AddressLength))
		}
		e.u64(r.Bal)
		e.u16(uint16(len(r.Pending)))
		for _, entry := range r.Pending {
			e.u64(entry.Amount)
			e.u32(entry.ReleaseHeight)
		}
	default:
		panic("unknown record variant")
	}
	return e.buf
}

type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.off+n > len(d.buf) {
		d.err = errors.WithMessage(ErrDecode, "truncated")
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (d *decoder) u64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (d *decoder) addr() (a nova.Address) {
	copy(a[:], d.take(nova.AddressLength))
	return
}

func (d *decoder) bytes32() (b nova.Bytes32) {
	copy(b[:], d.take(32))
	return
}

func (d *decoder) bool() (bool, error) {
	switch d.u8() {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.WithMessage(ErrDecode, "non-canonical bool")
	}
}

func (d *decoder) finish(rec Record) (Record, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(d.buf) {
		return nil, errors.WithMessage(ErrDecode, "trailing bytes")
	}
	return rec, nil
}

// Decode parses a canonical record encoding. It rejects truncated input,
// trailing bytes and non-canonical field values.
func Decode(data []byte) (Record, error) {
	if len(data) == 0 {
		return nil, errors.WithMessage(ErrDecode, "empty input")
	}
	d := decoder{buf: data, off: 1}
	switch Type(data[0]) {
	case TypeBasic:
		return d.finish(&BasicAccount{Bal: d.u64()})
	case TypeVesting:
		return d.finish(&VestingAccount{
			Owner:       d.addr(),
			Start:       d.u32(),
			StepBlocks:  d.u32(),
			StepAmount:  d.u64(),
			TotalAmount: d.u64(),
			Bal:         d.u64(),
		})
	case TypeHTLC:
		return d.finish(&HTLCAccount{
			Sender:    d.addr(),
			Recipient: d.addr(),
			HashAlgo:  nova.HashAlgorithm(d.u8()),
			HashLock:  d.bytes32(),
			Timeout:   d.u32(),
			Bal:       d.u64(),
		})
	case TypeValidator:
		var rec ValidatorAccount
		copy(rec.SigningKey[:], d.take(SigningKeyLength))
		rec.RewardAddr = d.addr()
		inactive, err := d.bool()
		if err != nil {
			return nil, err
		}
		rec.Inactive = inactive
		rec.RetirementHeight = d.u32()
		rec.TotalStake = d.u64()
		rec.Bal = d.u64()
		return d.finish(&rec)
	case TypeStaker:
		var rec StakerAccount
		rec.Owner = d.addr()
		hasDelegation, err := d.bool()
		if err != nil {
			return nil, err
		}
		delegation := d.addr()
		if hasDelegation {
			rec.Delegation = &delegation
		} else if !delegation.IsZero() {
			return nil, errors.WithMessage(ErrDecode, "non-canonical delegation")
		}
		rec.Bal = d.u64()
		n := int(d.u16())
		if d.err == nil && len(d.buf)-d.off != n*entrySize {
			return nil, errors.WithMessage(ErrDecode, "withdrawal count mismatch")
		}
		for i := 0; i < n; i++ {
			rec.Pending = append(rec.Pending, WithdrawalEntry{
				Amount:        d.u64(),
				ReleaseHeight: d.u32(),
			})
		}
		return d.finish(&rec)
	default:
		return nil, errors.WithMessage(ErrDecode, "unknown variant tag")
	}
}
