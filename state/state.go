// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"time"

	"github.com/pkg/errors"

	"github.com/novachain/nova/account"
	"github.com/novachain/nova/kv"
	"github.com/novachain/nova/metrics"
	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/stackedmap"
	"github.com/novachain/nova/trie"
)

var metricCommitDuration = metrics.LazyLoadHistogram("trie_commit_duration_ms", metrics.Bucket10s)

// State manages the account trie at a fixed root plus a journal of
// uncommitted changes. Changes live in the journal until Stage is called; the
// trie itself is only read, so reverting is a matter of popping journal
// levels.
type State struct {
	db    kv.Store
	root  nova.Bytes32
	trie  *trie.Trie
	cache *recordCache // shared, may be nil
	sm    *stackedmap.StackedMap
}

var _ account.Store = (*State)(nil)

// New creates a state object bound to the trie at root.
func New(root nova.Bytes32, db kv.Store) (*State, error) {
	return newState(root, db, nil)
}

func newState(root nova.Bytes32, db kv.Store, cache *recordCache) (*State, error) {
	tr, err := trie.New(root, db)
	if err != nil {
		return nil, err
	}
	state := State{
		db:    db,
		root:  root,
		trie:  tr,
		cache: cache,
	}
	state.sm = stackedmap.New(state.loadCommitted)
	// base level; checkpoints handed out by NewCheckpoint sit above it
	state.sm.Push()
	return &state, nil
}

// Root returns the root the state was opened at. Journal changes do not move
// it; only committing a stage yields a new root.
func (s *State) Root() nova.Bytes32 {
	return s.root
}

// loadCommitted reads a record from the committed trie, consulting the shared
// record cache first.
func (s *State) loadCommitted(key any) (any, bool, error) {
	addr := key.(nova.Address)
	if s.cache != nil {
		if rec, ok := s.cache.get(s.root, addr); ok {
			return rec, true, nil
		}
	}
	data, err := s.trie.Get(addr.Bytes())
	if err != nil {
		return nil, false, err
	}
	var rec account.Record
	if len(data) > 0 {
		if rec, err = account.Decode(data); err != nil {
			return nil, false, errors.WithMessagef(err, "record at %v", addr)
		}
	}
	if s.cache != nil {
		s.cache.put(s.root, addr, rec)
	}
	return rec, true, nil
}

// Get returns the record at addr, or nil if the account does not exist.
// Callers must not mutate the returned record; Copy it first.
func (s *State) Get(addr nova.Address) (account.Record, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(account.Record), nil
}

// Exists returns whether an account exists at addr.
func (s *State) Exists(addr nova.Address) (bool, error) {
	rec, err := s.Get(addr)
	return rec != nil, err
}

// Put stores the record at addr. Storing an empty record removes the account,
// so that equal states always reach equal roots.
func (s *State) Put(addr nova.Address, rec account.Record) {
	if rec == nil || rec.IsEmpty() {
		s.sm.Put(addr, (account.Record)(nil))
		return
	}
	s.sm.Put(addr, rec)
}

// Delete removes the account at addr.
func (s *State) Delete(addr nova.Address) {
	s.sm.Put(addr, (account.Record)(nil))
}

// NewCheckpoint makes a checkpoint of the current journal depth.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts journal changes up to the given checkpoint.
func (s *State) RevertTo(checkpoint int) {
	s.sm.PopTo(checkpoint)
}

// ForEachCommitted iterates all committed account records in key order. The
// journal is not consulted.
func (s *State) ForEachCommitted(cb func(addr nova.Address, rec account.Record) bool) error {
	var decodeErr error
	err := s.trie.Iterate(func(key, value []byte) bool {
		rec, err := account.Decode(value)
		if err != nil {
			decodeErr = errors.WithMessagef(err, "record at key %x", key)
			return false
		}
		return cb(nova.BytesToAddress(key), rec)
	})
	if err != nil {
		return err
	}
	return decodeErr
}

// Stage collects journal changes into a new trie ready to be hashed or
// committed. The state itself is left untouched.
func (s *State) Stage() (*Stage, error) {
	tr, err := trie.New(s.root, s.db)
	if err != nil {
		return nil, err
	}

	var updateErr error
	s.sm.Journal(func(key, value any) bool {
		addr := key.(nova.Address)
		if value == nil {
			updateErr = tr.Delete(addr.Bytes())
		} else {
			updateErr = tr.Update(addr.Bytes(), account.Encode(value.(account.Record)))
		}
		return updateErr == nil
	})
	if updateErr != nil {
		return nil, updateErr
	}
	return &Stage{db: s.db, trie: tr}, nil
}

// Stage is the uncommitted result of journal changes applied to a trie.
type Stage struct {
	db   kv.Store
	trie *trie.Trie
}

// Hash computes the root hash without persisting anything.
func (s *Stage) Hash() nova.Bytes32 {
	return s.trie.Hash()
}

// Commit persists the trie nodes and returns the new root.
func (s *Stage) Commit() (nova.Bytes32, error) {
	defer func(started time.Time) {
		metricCommitDuration().Observe(time.Since(started).Milliseconds())
	}(time.Now())

	batch := s.db.NewBatch()
	root, err := s.trie.Commit(batch)
	if err != nil {
		return nova.Bytes32{}, err
	}
	if err := batch.Write(); err != nil {
		return nova.Bytes32{}, err
	}
	return root, nil
}
