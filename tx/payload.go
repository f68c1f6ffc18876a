// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/novachain/nova/nova"
)

// VestingData parameterizes a vesting account creation.
type VestingData struct {
	Start       uint32
	StepBlocks  uint32
	StepAmount  uint64
	TotalAmount uint64
}

// HTLCData parameterizes an HTLC creation.
type HTLCData struct {
	Recipient nova.Address
	HashAlgo  uint8
	HashLock  nova.Bytes32
	Timeout   uint32
}

// HTLCProof resolves an HTLC. A regular redemption carries the preimage of the
// hash lock; a timeout redemption carries none and is only valid at or after
// the contract timeout.
type HTLCProof struct {
	OnTimeout bool
	Preimage  []byte
}

// StakingOp selects a staking subsystem operation.
type StakingOp uint8

const (
	// OpCreateValidator registers a validator. The amount is the deposit.
	OpCreateValidator StakingOp = iota
	// OpRetireValidator marks a validator inactive and starts the withdrawal delay.
	OpRetireValidator
	// OpReactivateValidator clears a retirement.
	OpReactivateValidator
	// OpWithdrawDeposit pays a retired validator's deposit back to its owner.
	OpWithdrawDeposit
	// OpCreateStaker creates a staker account, optionally delegated.
	OpCreateStaker
	// OpStake adds to a staker's active balance.
	OpStake
	// OpDelegate changes a staker's delegation target.
	OpDelegate
	// OpUnstake moves active stake into the pending withdrawal queue.
	OpUnstake
	// OpClaim pays matured pending withdrawals back to the staker's owner.
	OpClaim
)

// StakingData is the payload of a TypeStaking transaction. Only the fields the
// selected operation reads need to be populated.
type StakingData struct {
	Op         StakingOp
	SigningKey []byte       // BLS public key, create validator
	Proof      []byte       // BLS proof of possession, create validator
	RewardAddr nova.Address // create validator
	Delegation []byte       // validator address, create staker and delegate; empty clears
	Amount     uint64       // unstake
}

// DecodeVestingData decodes and sanity-checks a vesting creation payload.
func DecodeVestingData(data []byte) (*VestingData, error) {
	var vd VestingData
	if err := rlp.DecodeBytes(data, &vd); err != nil {
		return nil, intrinsicError("invalid vesting payload")
	}
	if vd.StepBlocks == 0 || vd.StepAmount == 0 || vd.TotalAmount == 0 {
		return nil, intrinsicError("degenerate vesting schedule")
	}
	return &vd, nil
}

// DecodeHTLCData decodes and sanity-checks an HTLC creation payload.
func DecodeHTLCData(data []byte) (*HTLCData, error) {
	var hd HTLCData
	if err := rlp.DecodeBytes(data, &hd); err != nil {
		return nil, intrinsicError("invalid htlc payload")
	}
	if !nova.HashAlgorithm(hd.HashAlgo).IsSupported() {
		return nil, intrinsicError("unsupported hash algorithm")
	}
	return &hd, nil
}

// DecodeHTLCProof decodes an HTLC resolution payload.
func DecodeHTLCProof(data []byte) (*HTLCProof, error) {
	var hp HTLCProof
	if err := rlp.DecodeBytes(data, &hp); err != nil {
		return nil, intrinsicError("invalid htlc proof")
	}
	return &hp, nil
}

// DecodeStakingData decodes a staking payload.
func DecodeStakingData(data []byte) (*StakingData, error) {
	var sd StakingData
	if err := rlp.DecodeBytes(data, &sd); err != nil {
		return nil, intrinsicError("invalid staking payload")
	}
	if len(sd.Delegation) != 0 && len(sd.Delegation) != nova.AddressLength {
		return nil, intrinsicError("invalid delegation address")
	}
	return &sd, nil
}

// DelegationAddr returns the delegation target, or nil if the payload clears
// or omits it.
func (sd *StakingData) DelegationAddr() *nova.Address {
	if len(sd.Delegation) != nova.AddressLength {
		return nil
	}
	addr := nova.BytesToAddress(sd.Delegation)
	return &addr
}
