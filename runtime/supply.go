// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/novachain/nova/account"
	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/state"
)

// TotalFunds sums the funds held by every committed record, including stake
// parked in pending withdrawal queues. The per-account sum exceeds uint64
// range in aggregate, so the total is a 256-bit integer.
func TotalFunds(st *state.State) (*uint256.Int, error) {
	total := uint256.NewInt(0)
	var entry uint256.Int
	err := st.ForEachCommitted(func(_ nova.Address, rec account.Record) bool {
		entry.SetUint64(rec.Balance())
		total.Add(total, &entry)
		if staker, ok := rec.(*account.StakerAccount); ok {
			entry.SetUint64(staker.PendingTotal())
			total.Add(total, &entry)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return total, nil
}

// CheckSupply verifies the conservation invariant against an expected supply:
// committed funds must equal expected plus everything minted minus everything
// burned.
func CheckSupply(st *state.State, expected *uint256.Int, minted, burned uint64) error {
	total, err := TotalFunds(st)
	if err != nil {
		return err
	}
	want := new(uint256.Int).Set(expected)
	want.Add(want, uint256.NewInt(minted))
	want.Sub(want, uint256.NewInt(burned))
	if total.Cmp(want) != 0 {
		return errors.Errorf("supply mismatch: have %s, want %s", total, want)
	}
	return nil
}
