// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/novachain/nova/genesis"
	"github.com/novachain/nova/kv"
	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/runtime"
	"github.com/novachain/nova/state"
)

// chain properties live in their own bucket, away from trie nodes
var (
	propBucket = kv.Bucket("prop-")
	headKey    = []byte("head")
)

// head is the persisted tip of the dev chain.
type head struct {
	Number uint32
	Root   nova.Bytes32
}

// solo produces empty blocks at a fixed interval on top of a devnet genesis,
// persisting the head so a restart resumes where it left off.
type solo struct {
	db       kv.Store
	stater   *state.Stater
	head     head
	interval time.Duration
}

func newSolo(db kv.Store, gene *genesis.Builder, interval time.Duration) (*solo, error) {
	s := &solo{
		db:       db,
		stater:   state.NewStater(db),
		interval: interval,
	}

	if data, err := propBucket.NewGetter(db).Get(headKey); err == nil {
		if err := rlp.DecodeBytes(data, &s.head); err != nil {
			return nil, errors.Wrap(err, "decode chain head")
		}
		logger.Info("resuming dev chain", "number", s.head.Number, "root", s.head.Root)
		return s, nil
	} else if !db.IsNotFound(err) {
		return nil, err
	}

	root, err := gene.Build(db)
	if err != nil {
		return nil, errors.Wrap(err, "build genesis")
	}
	s.head = head{Number: 0, Root: root}
	if err := s.saveHead(); err != nil {
		return nil, err
	}
	logger.Info("dev chain initialized", "id", gene.ID(root), "root", root)
	return s, nil
}

func (s *solo) saveHead() error {
	data, err := rlp.EncodeToBytes(&s.head)
	if err != nil {
		return err
	}
	return propBucket.NewPutter(s.db).Put(headKey, data)
}

// packBlock applies an empty block on the current head and commits it.
func (s *solo) packBlock() error {
	st, err := s.stater.NewState(s.head.Root)
	if err != nil {
		return err
	}

	num := s.head.Number + 1
	rt := runtime.New(st, runtime.BlockContext{
		Number:      num,
		Time:        uint64(time.Now().Unix()),
		Beneficiary: genesis.DevAccounts()[0].Address,
	})
	receipt, stage, err := rt.ApplyBlock(nil)
	if err != nil {
		return errors.Wrapf(err, "pack block %d", num)
	}
	root, err := stage.Commit()
	if err != nil {
		return errors.Wrapf(err, "commit block %d", num)
	}

	s.head = head{Number: num, Root: root}
	if err := s.saveHead(); err != nil {
		return err
	}
	logger.Info("📦 new block packed", "number", num, "root", root, "minted", receipt.Minted)
	return nil
}

// loop packs blocks until done is closed.
func (s *solo) loop(done <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			logger.Info("stopping block packing....")
			return
		case <-ticker.C:
			if err := s.packBlock(); err != nil {
				logger.Error("failed to pack block", "err", err)
			}
		}
	}
}
