// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/novachain/nova/account"
	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/state"
)

// Candidate is an active validator eligible for slot leadership.
type Candidate struct {
	Addr nova.Address
	// Power is the validator's deposit plus the stake delegated to it.
	Power uint64
}

// Candidates collects the active validator set from committed state. The trie
// iterates in key order, so the result is deterministic.
func Candidates(st *state.State) ([]Candidate, error) {
	var candidates []Candidate
	err := st.ForEachCommitted(func(addr nova.Address, rec account.Record) bool {
		validator, ok := rec.(*account.ValidatorAccount)
		if !ok || validator.Inactive {
			return true
		}
		power := validator.Bal + validator.TotalStake
		if power < validator.Bal {
			power = ^uint64(0)
		}
		candidates = append(candidates, Candidate{Addr: addr, Power: power})
		return true
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// Schedule assigns a leader to every slot of the epoch. beta is the verified
// VRF output seeding the epoch; the caller is responsible for verifying the
// proof it came from.
func Schedule(beta []byte, epoch uint32, candidates []Candidate) ([]nova.Address, error) {
	var num [4]byte
	binary.BigEndian.PutUint32(num[:], epoch)
	seed := nova.Blake2b(beta, num[:])
	return Leaders(seed.Bytes(), candidates, nova.SlotsPerEpoch())
}

// Leaders assigns a leader to every slot of an epoch by stake-weighted
// selection over the epoch seed. Equal inputs always produce the equal
// schedule.
func Leaders(seed []byte, candidates []Candidate, slots uint32) ([]nova.Address, error) {
	if len(candidates) == 0 {
		return nil, errors.New("empty candidate set")
	}

	cum := make([]uint64, len(candidates))
	var total uint64
	for i, c := range candidates {
		total += c.Power
		cum[i] = total
	}
	if total == 0 {
		return nil, errors.New("candidate set has no power")
	}

	leaders := make([]nova.Address, slots)
	var num [4]byte
	for slot := uint32(0); slot < slots; slot++ {
		binary.BigEndian.PutUint32(num[:], slot)
		hash := nova.Blake2b(seed, num[:])
		pick := binary.BigEndian.Uint64(hash.Bytes()) % total

		// first candidate whose cumulative power exceeds the pick
		lo, hi := 0, len(cum)-1
		for lo < hi {
			mid := (lo + hi) / 2
			if cum[mid] <= pick {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		leaders[slot] = candidates[lo].Addr
	}
	return leaders, nil
}
