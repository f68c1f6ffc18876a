// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial account state.
package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/novachain/nova/account"
	"github.com/novachain/nova/kv"
	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/state"
	"github.com/novachain/nova/trie"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp  uint64
	stateProcs []func(st *state.State) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process.
func (b *Builder) State(proc func(st *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Alloc funds a basic account.
func (b *Builder) Alloc(addr nova.Address, balance uint64) *Builder {
	return b.State(func(st *state.State) error {
		rec, err := st.Get(addr)
		if err != nil {
			return err
		}
		if rec != nil {
			return errors.Errorf("duplicate allocation for %v", addr)
		}
		st.Put(addr, &account.BasicAccount{Bal: balance})
		return nil
	})
}

// Build runs the state processes and commits the genesis state, returning its
// root.
func (b *Builder) Build(db kv.Store) (nova.Bytes32, error) {
	st, err := state.New(trie.EmptyRoot(), db)
	if err != nil {
		return nova.Bytes32{}, err
	}
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nova.Bytes32{}, errors.WithMessage(err, "state process")
		}
	}
	stage, err := st.Stage()
	if err != nil {
		return nova.Bytes32{}, err
	}
	return stage.Commit()
}

// ID computes a chain identifier from the genesis root and timestamp.
func (b *Builder) ID(root nova.Bytes32) nova.Bytes32 {
	var ts [8]byte
	for i := 0; i < 8; i++ {
		ts[7-i] = byte(b.timestamp >> (8 * i))
	}
	return nova.Blake2b(root.Bytes(), ts[:])
}

// DevAccount account for development.
type DevAccount struct {
	Address    nova.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"99f0500549792796c14fed62011a51081dc5b5e68fe8bd8a13b86be829c4fd36",
		"7b067f53d350f1cf20ec13df416b7b73e88a1dc7331bc904b92108b1e76a08b1",
		"f4a1a17039216f535d42ec23732c79943ffb45a089fbb6a16b7ff41e8a20fc67",
		"35b5cc144faca7d7f220fca7ad3420090861d5231d80eb23e1013426847371c4",
		"10c851d8d6c6ed9e6f625742063f292f4cf57c2dbeea8099fa3aca53ef90aef1",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{nova.PubkeyToAddress(&pk.PublicKey), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// NewDevnet creates a genesis builder with every dev account funded.
func NewDevnet() *Builder {
	builder := new(Builder).Timestamp(1735689600)
	share := nova.InitialSupply / uint64(len(DevAccounts()))
	for _, acc := range DevAccounts() {
		builder.Alloc(acc.Address, share)
	}
	return builder
}
