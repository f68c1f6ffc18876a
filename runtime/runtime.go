// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime drives the transactional block apply and revert protocol
// over the account state.
package runtime

import (
	"time"

	"github.com/pkg/errors"

	"github.com/novachain/nova/account"
	"github.com/novachain/nova/log"
	"github.com/novachain/nova/metrics"
	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/staking"
	"github.com/novachain/nova/state"
	"github.com/novachain/nova/tx"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricBlocksApplied  = metrics.LazyLoadCounter("blocks_applied_count")
	metricBlocksReverted = metrics.LazyLoadCounter("blocks_reverted_count")
	metricTxsApplied     = metrics.LazyLoadCounter("txs_applied_count")
	metricApplyDuration  = metrics.LazyLoadHistogram("block_apply_duration_ms", metrics.Bucket10s)
)

// ErrBlockInvalid marks a block rejected by transaction validation. The state
// is left untouched.
var ErrBlockInvalid = errors.New("block invalid")

// IsBlockInvalid reports whether err rejects a block.
func IsBlockInvalid(err error) bool {
	return errors.Cause(err) == ErrBlockInvalid
}

// BlockContext is the environment a block executes in.
type BlockContext struct {
	Number      uint32
	Time        uint64
	Beneficiary nova.Address // credited with the block reward
}

// Runtime applies and reverts blocks on a state opened at a committed root.
type Runtime struct {
	state *state.State
	ctx   BlockContext
}

// New creates a runtime. The state must be freshly opened: the runtime owns
// its journal.
func New(st *state.State, ctx BlockContext) *Runtime {
	return &Runtime{state: st, ctx: ctx}
}

// State returns the underlying state.
func (rt *Runtime) State() *state.State { return rt.state }

// Context returns the block context.
func (rt *Runtime) Context() BlockContext { return rt.ctx }

// ValidateTransaction checks whether the transaction would apply cleanly at
// the current position. The state is left unchanged.
func (rt *Runtime) ValidateTransaction(trx *tx.Transaction) error {
	checkpoint := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(checkpoint)
	return rt.applyTx(trx, account.NewDeltaSet())
}

// ApplyBlock applies all transactions in order, then mints the block reward
// to the beneficiary. Any transaction failure rejects the whole block with
// ErrBlockInvalid and leaves the state untouched. On success it returns the
// block receipt and the stage holding the post-block trie; the receipt root
// fields are filled from the stage.
func (rt *Runtime) ApplyBlock(txs tx.Transactions) (*BlockReceipt, *state.Stage, error) {
	started := time.Now()
	base := rt.state.NewCheckpoint()

	receipt := BlockReceipt{
		PriorRoot: rt.state.Root(),
	}

	for i, trx := range txs {
		ds := account.NewDeltaSet()
		if err := rt.applyTx(trx, ds); err != nil {
			rt.state.RevertTo(base)
			if account.IsRejection(err) || tx.IsIntrinsicError(err) {
				return nil, nil, errors.WithMessagef(ErrBlockInvalid, "tx #%d: %s", i, err.Error())
			}
			return nil, nil, err
		}
		receipt.Burned += trx.Fee()
		receipt.Receipts = append(receipt.Receipts, &TxReceipt{
			ID:     trx.ID(),
			Burned: trx.Fee(),
			Deltas: ds.Deltas(),
		})
	}

	// reward inherent; fees are burned, the reward is minted
	reward := account.NewDeltaSet()
	if err := account.Credit(rt.state, reward, rt.ctx.Beneficiary, nova.RewardPerBlock()); err != nil {
		rt.state.RevertTo(base)
		return nil, nil, errors.WithMessage(err, "reward inherent")
	}
	receipt.Minted = nova.RewardPerBlock()
	receipt.Reward = reward.Deltas()

	stage, err := rt.state.Stage()
	if err != nil {
		rt.state.RevertTo(base)
		return nil, nil, err
	}
	receipt.Root = stage.Hash()

	metricBlocksApplied().Add(1)
	metricTxsApplied().Add(int64(len(txs)))
	metricApplyDuration().Observe(time.Since(started).Milliseconds())
	logger.Debug("block applied",
		"number", rt.ctx.Number,
		"txs", len(txs),
		"root", receipt.Root)
	return &receipt, stage, nil
}

// RevertBlock undoes a previously applied block by replaying its delta tokens
// in reverse. The runtime state must be opened at the receipt's post-block
// root; the resulting stage must hash to the receipt's prior root, anything
// else means the receipt does not belong to this state and is reported as
// corruption.
func (rt *Runtime) RevertBlock(receipt *BlockReceipt) (*state.Stage, error) {
	if rt.state.Root() != receipt.Root {
		return nil, errors.Errorf("receipt root %v does not match state root %v", receipt.Root, rt.state.Root())
	}
	base := rt.state.NewCheckpoint()

	revert := func(deltas []*account.Delta) error {
		for i := len(deltas) - 1; i >= 0; i-- {
			if err := deltas[i].Revert(rt.state); err != nil {
				return err
			}
		}
		return nil
	}

	if err := revert(receipt.Reward); err != nil {
		rt.state.RevertTo(base)
		return nil, errors.WithMessage(err, "reward inherent")
	}
	for i := len(receipt.Receipts) - 1; i >= 0; i-- {
		if err := revert(receipt.Receipts[i].Deltas); err != nil {
			rt.state.RevertTo(base)
			return nil, errors.WithMessagef(err, "tx #%d", i)
		}
	}

	stage, err := rt.state.Stage()
	if err != nil {
		rt.state.RevertTo(base)
		return nil, err
	}
	if stage.Hash() != receipt.PriorRoot {
		rt.state.RevertTo(base)
		return nil, errors.Errorf("reverted root %v does not match prior root %v, receipt corrupt", stage.Hash(), receipt.PriorRoot)
	}

	metricBlocksReverted().Add(1)
	logger.Debug("block reverted",
		"number", rt.ctx.Number,
		"root", receipt.PriorRoot)
	return stage, nil
}

// applyTx validates and applies a single transaction, collecting one delta
// token per touched account into ds. On error the caller discards journal
// changes via checkpoints.
func (rt *Runtime) applyTx(trx *tx.Transaction, ds *account.DeltaSet) error {
	origin, err := trx.Origin()
	if err != nil {
		return err
	}
	total, err := trx.Total()
	if err != nil {
		return err
	}
	height := rt.ctx.Number

	switch trx.Type() {
	case tx.TypeTransfer:
		if err := account.Debit(rt.state, ds, trx.Sender(), origin, total, height); err != nil {
			return err
		}
		return account.Credit(rt.state, ds, trx.Recipient(), trx.Amount())

	case tx.TypeCreateVesting:
		data, err := tx.DecodeVestingData(trx.Data())
		if err != nil {
			return err
		}
		if err := account.Debit(rt.state, ds, trx.Sender(), origin, total, height); err != nil {
			return err
		}
		return account.CreateVesting(rt.state, ds, trx.Recipient(), origin, data, trx.Amount())

	case tx.TypeCreateHTLC:
		data, err := tx.DecodeHTLCData(trx.Data())
		if err != nil {
			return err
		}
		if err := account.Debit(rt.state, ds, trx.Sender(), origin, total, height); err != nil {
			return err
		}
		return account.CreateHTLC(rt.state, ds, trx.Recipient(), origin, data, trx.Amount(), height)

	case tx.TypeRedeemHTLC:
		proof, err := tx.DecodeHTLCProof(trx.Data())
		if err != nil {
			return err
		}
		// the fee burns out of the contract balance
		if err := account.RedeemHTLC(rt.state, ds, trx.Sender(), origin, proof, total, height); err != nil {
			return err
		}
		return account.Credit(rt.state, ds, trx.Recipient(), trx.Amount())

	case tx.TypeStaking:
		data, err := tx.DecodeStakingData(trx.Data())
		if err != nil {
			return err
		}
		if err := account.Debit(rt.state, ds, trx.Sender(), origin, total, height); err != nil {
			return err
		}
		return staking.Apply(rt.state, ds, trx, data, origin, height)

	default:
		return errors.WithMessagef(account.ErrMalformedTransaction, "unknown tx type %d", trx.Type())
	}
}
