// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the validator and staker account operations.
package staking

import (
	"github.com/pkg/errors"

	"github.com/novachain/nova/account"
	"github.com/novachain/nova/bls"
	"github.com/novachain/nova/nova"
	"github.com/novachain/nova/tx"
)

// Apply runs the staking operation selected by data. The transaction amount
// has already been debited from the sender; operations that pay out credit
// the origin account themselves.
func Apply(store account.Store, ds *account.DeltaSet, trx *tx.Transaction, data *tx.StakingData, origin nova.Address, height uint32) error {
	addr := trx.Recipient()
	switch data.Op {
	case tx.OpCreateValidator:
		return createValidator(store, ds, addr, data, trx.Amount())
	case tx.OpRetireValidator:
		return retireValidator(store, ds, addr, origin, trx.Amount(), height)
	case tx.OpReactivateValidator:
		return reactivateValidator(store, ds, addr, origin, trx.Amount())
	case tx.OpWithdrawDeposit:
		return withdrawDeposit(store, ds, addr, origin, trx.Amount(), height)
	case tx.OpCreateStaker:
		return createStaker(store, ds, addr, origin, data, trx.Amount())
	case tx.OpStake:
		return stake(store, ds, addr, origin, trx.Amount())
	case tx.OpDelegate:
		return delegate(store, ds, addr, origin, data.DelegationAddr(), trx.Amount())
	case tx.OpUnstake:
		return unstake(store, ds, addr, origin, data.Amount, trx.Amount(), height)
	case tx.OpClaim:
		return claim(store, ds, addr, origin, trx.Amount(), height)
	default:
		return errors.WithMessage(account.ErrMalformedTransaction, "unknown staking operation")
	}
}

func getValidator(store account.Store, addr nova.Address) (*account.ValidatorAccount, error) {
	rec, err := store.Get(addr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.WithMessagef(account.ErrAccountNotFound, "no validator at %v", addr)
	}
	validator, ok := rec.(*account.ValidatorAccount)
	if !ok {
		return nil, errors.WithMessagef(account.ErrPreconditionFailed, "%v account is not a validator", rec.Type())
	}
	return validator, nil
}

func getStaker(store account.Store, addr, origin nova.Address) (*account.StakerAccount, error) {
	rec, err := store.Get(addr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.WithMessagef(account.ErrAccountNotFound, "no staker at %v", addr)
	}
	staker, ok := rec.(*account.StakerAccount)
	if !ok {
		return nil, errors.WithMessagef(account.ErrPreconditionFailed, "%v account is not a staker", rec.Type())
	}
	if origin != staker.Owner {
		return nil, errors.WithMessage(account.ErrInvalidProof, "signer is not the staker owner")
	}
	return staker, nil
}

func requireNoAmount(amount uint64) error {
	if amount != 0 {
		return errors.WithMessage(account.ErrMalformedTransaction, "operation must not carry value")
	}
	return nil
}

// adjustTotalStake moves the delegated-stake index of the validator at addr
// by diff, noting the prior value.
func adjustTotalStake(store account.Store, ds *account.DeltaSet, addr nova.Address, diff int64) error {
	validator, err := getValidator(store, addr)
	if err != nil {
		return err
	}
	updated := validator.Copy().(*account.ValidatorAccount)
	if diff >= 0 {
		if updated.TotalStake+uint64(diff) < updated.TotalStake {
			return errors.WithMessage(account.ErrPreconditionFailed, "total stake overflow")
		}
		updated.TotalStake += uint64(diff)
	} else {
		if updated.TotalStake < uint64(-diff) {
			return errors.WithMessage(account.ErrPreconditionFailed, "total stake underflow")
		}
		updated.TotalStake -= uint64(-diff)
	}
	ds.Touch(addr).NoteStake(validator.TotalStake)
	store.Put(addr, updated)
	return nil
}

func createValidator(store account.Store, ds *account.DeltaSet, addr nova.Address, data *tx.StakingData, amount uint64) error {
	rec, err := store.Get(addr)
	if err != nil {
		return err
	}
	if rec != nil {
		return errors.WithMessagef(account.ErrPreconditionFailed, "address %v already in use", addr)
	}
	if amount < nova.MinValidatorStake() {
		return errors.WithMessagef(account.ErrPreconditionFailed, "deposit %d below minimum %d", amount, nova.MinValidatorStake())
	}

	signingKey, err := bls.PublicKeyFromBytes(data.SigningKey)
	if err != nil {
		return errors.WithMessage(account.ErrMalformedTransaction, err.Error())
	}
	proof, err := bls.SignatureFromBytes(data.Proof)
	if err != nil {
		return errors.WithMessage(account.ErrMalformedTransaction, err.Error())
	}
	if !bls.VerifyPossession(signingKey, proof) {
		return errors.WithMessage(account.ErrInvalidProof, "proof of possession does not verify")
	}

	validator := account.ValidatorAccount{
		SigningKey: signingKey.Bytes(),
		RewardAddr: data.RewardAddr,
		Bal:        amount,
	}
	ds.Touch(addr).NoteCreated()
	store.Put(addr, &validator)
	return nil
}

func retireValidator(store account.Store, ds *account.DeltaSet, addr, origin nova.Address, amount uint64, height uint32) error {
	if err := requireNoAmount(amount); err != nil {
		return err
	}
	validator, err := getValidator(store, addr)
	if err != nil {
		return err
	}
	if origin != validator.RewardAddr {
		return errors.WithMessage(account.ErrInvalidProof, "signer does not control the validator")
	}
	if validator.Inactive {
		return errors.WithMessage(account.ErrPreconditionFailed, "validator already retired")
	}

	updated := validator.Copy().(*account.ValidatorAccount)
	updated.Inactive = true
	updated.RetirementHeight = height
	ds.Touch(addr).NoteStatus(validator.Inactive, validator.RetirementHeight)
	store.Put(addr, updated)
	return nil
}

func reactivateValidator(store account.Store, ds *account.DeltaSet, addr, origin nova.Address, amount uint64) error {
	if err := requireNoAmount(amount); err != nil {
		return err
	}
	validator, err := getValidator(store, addr)
	if err != nil {
		return err
	}
	if origin != validator.RewardAddr {
		return errors.WithMessage(account.ErrInvalidProof, "signer does not control the validator")
	}
	if !validator.Inactive {
		return errors.WithMessage(account.ErrPreconditionFailed, "validator is active")
	}

	updated := validator.Copy().(*account.ValidatorAccount)
	updated.Inactive = false
	updated.RetirementHeight = 0
	ds.Touch(addr).NoteStatus(validator.Inactive, validator.RetirementHeight)
	store.Put(addr, updated)
	return nil
}

func withdrawDeposit(store account.Store, ds *account.DeltaSet, addr, origin nova.Address, amount uint64, height uint32) error {
	if err := requireNoAmount(amount); err != nil {
		return err
	}
	validator, err := getValidator(store, addr)
	if err != nil {
		return err
	}
	if origin != validator.RewardAddr {
		return errors.WithMessage(account.ErrInvalidProof, "signer does not control the validator")
	}
	if !validator.Inactive {
		return errors.WithMessage(account.ErrPreconditionFailed, "validator not retired")
	}
	if validator.TotalStake != 0 {
		return errors.WithMessage(account.ErrPreconditionFailed, "delegated stake remains")
	}
	if !validator.WithdrawableAt(height) {
		return errors.WithMessagef(account.ErrPreconditionFailed, "withdrawal locked until block %d", validator.RetirementHeight+nova.WithdrawalDelay())
	}

	ds.Touch(addr).NoteRemoved(account.Encode(validator))
	store.Delete(addr)
	return account.Credit(store, ds, origin, validator.Bal)
}

func createStaker(store account.Store, ds *account.DeltaSet, addr, origin nova.Address, data *tx.StakingData, amount uint64) error {
	rec, err := store.Get(addr)
	if err != nil {
		return err
	}
	if rec != nil {
		return errors.WithMessagef(account.ErrPreconditionFailed, "address %v already in use", addr)
	}
	if amount == 0 {
		return errors.WithMessage(account.ErrMalformedTransaction, "unfunded staker")
	}

	delegation := data.DelegationAddr()
	if delegation != nil {
		validator, err := getValidator(store, *delegation)
		if err != nil {
			return err
		}
		if validator.Inactive {
			return errors.WithMessage(account.ErrPreconditionFailed, "cannot delegate to a retired validator")
		}
		if err := adjustTotalStake(store, ds, *delegation, int64(amount)); err != nil {
			return err
		}
	}

	ds.Touch(addr).NoteCreated()
	store.Put(addr, &account.StakerAccount{
		Owner:      origin,
		Delegation: delegation,
		Bal:        amount,
	})
	return nil
}

func stake(store account.Store, ds *account.DeltaSet, addr, origin nova.Address, amount uint64) error {
	staker, err := getStaker(store, addr, origin)
	if err != nil {
		return err
	}
	if amount == 0 {
		return errors.WithMessage(account.ErrMalformedTransaction, "zero stake")
	}
	if staker.Bal+amount < staker.Bal {
		return errors.WithMessage(account.ErrPreconditionFailed, "stake overflow")
	}

	if staker.Delegation != nil {
		if err := adjustTotalStake(store, ds, *staker.Delegation, int64(amount)); err != nil {
			return err
		}
	}

	updated := staker.Copy().(*account.StakerAccount)
	updated.Bal += amount
	ds.Touch(addr).NoteBalance(staker.Bal)
	store.Put(addr, updated)
	return nil
}

func delegate(store account.Store, ds *account.DeltaSet, addr, origin nova.Address, target *nova.Address, amount uint64) error {
	if err := requireNoAmount(amount); err != nil {
		return err
	}
	staker, err := getStaker(store, addr, origin)
	if err != nil {
		return err
	}
	if len(staker.Pending) != 0 {
		return errors.WithMessage(account.ErrPreconditionFailed, "pending withdrawals block redelegation")
	}

	if staker.Delegation != nil {
		if err := adjustTotalStake(store, ds, *staker.Delegation, -int64(staker.Bal)); err != nil {
			return err
		}
	}
	if target != nil {
		validator, err := getValidator(store, *target)
		if err != nil {
			return err
		}
		if validator.Inactive {
			return errors.WithMessage(account.ErrPreconditionFailed, "cannot delegate to a retired validator")
		}
		if err := adjustTotalStake(store, ds, *target, int64(staker.Bal)); err != nil {
			return err
		}
	}

	updated := staker.Copy().(*account.StakerAccount)
	updated.Delegation = target
	delta := ds.Touch(addr)
	if updated.IsEmpty() {
		delta.NoteRemoved(account.Encode(staker))
		store.Delete(addr)
		return nil
	}
	delta.NoteDelegation(staker.Delegation)
	store.Put(addr, updated)
	return nil
}

func unstake(store account.Store, ds *account.DeltaSet, addr, origin nova.Address, amount, txAmount uint64, height uint32) error {
	if err := requireNoAmount(txAmount); err != nil {
		return err
	}
	staker, err := getStaker(store, addr, origin)
	if err != nil {
		return err
	}
	if amount == 0 {
		return errors.WithMessage(account.ErrMalformedTransaction, "zero unstake")
	}
	if staker.Bal < amount {
		return errors.WithMessagef(account.ErrInsufficientBalance, "active stake %d, need %d", staker.Bal, amount)
	}
	if len(staker.Pending) >= nova.MaxPendingWithdrawals {
		return errors.WithMessage(account.ErrPreconditionFailed, "withdrawal queue full")
	}

	if staker.Delegation != nil {
		if err := adjustTotalStake(store, ds, *staker.Delegation, -int64(amount)); err != nil {
			return err
		}
	}

	updated := staker.Copy().(*account.StakerAccount)
	updated.Bal -= amount
	updated.Pending = append(updated.Pending, account.WithdrawalEntry{
		Amount:        amount,
		ReleaseHeight: height + nova.WithdrawalDelay(),
	})
	delta := ds.Touch(addr)
	delta.NoteBalance(staker.Bal)
	delta.NoteAppended(1)
	store.Put(addr, updated)
	return nil
}

func claim(store account.Store, ds *account.DeltaSet, addr, origin nova.Address, amount uint64, height uint32) error {
	if err := requireNoAmount(amount); err != nil {
		return err
	}
	staker, err := getStaker(store, addr, origin)
	if err != nil {
		return err
	}
	matured := staker.MaturedAt(height)
	if matured == 0 {
		return errors.WithMessage(account.ErrPreconditionFailed, "no matured withdrawals")
	}

	var total uint64
	for _, entry := range staker.Pending[:matured] {
		total += entry.Amount
	}

	updated := staker.Copy().(*account.StakerAccount)
	consumed := append([]account.WithdrawalEntry(nil), updated.Pending[:matured]...)
	updated.Pending = updated.Pending[matured:]

	delta := ds.Touch(addr)
	if updated.IsEmpty() {
		delta.NoteRemoved(account.Encode(staker))
		store.Delete(addr)
	} else {
		delta.NoteConsumed(consumed)
		store.Put(addr, updated)
	}
	return account.Credit(store, ds, origin, total)
}
