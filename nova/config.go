// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nova

// Config is the configurable protocol policy of nova. All parameters have default
// values and will be 'locked' for production networks. For testing purposes or
// custom networks, the parameters can be updated before locking.

var (
	minValidatorStake uint64 = 100_000 * 1e9 // minimum deposit to register a validator
	withdrawalDelay   uint32 = 8640          // blocks between unstake and claim, 1 day
	epochLength       uint32 = 180           // blocks per epoch
	slotsPerEpoch     uint32 = 180           // leader slots per epoch
	rewardPerBlock    uint64 = 2 * 1e9       // minted to the block beneficiary

	locked bool
)

type Config struct {
	MinValidatorStake uint64 `json:"minValidatorStake"` // minimum validator deposit.
	WithdrawalDelay   uint32 `json:"withdrawalDelay"`   // blocks a pending withdrawal stays locked.
	EpochLength       uint32 `json:"epochLength"`       // number of blocks per epoch.
	SlotsPerEpoch     uint32 `json:"slotsPerEpoch"`     // leader slots per epoch.
	RewardPerBlock    uint64 `json:"rewardPerBlock"`    // block reward minted to the beneficiary.
}

// SetConfig sets the config.
// If the config is not set, the default values will be used.
// If the config is locked, will panic.
func SetConfig(cfg Config) {
	if locked {
		panic("config is locked, cannot be set")
	}

	if cfg.MinValidatorStake != 0 {
		minValidatorStake = cfg.MinValidatorStake
	}

	if cfg.WithdrawalDelay != 0 {
		withdrawalDelay = cfg.WithdrawalDelay
	}

	if cfg.EpochLength != 0 {
		epochLength = cfg.EpochLength
	}

	if cfg.SlotsPerEpoch != 0 {
		slotsPerEpoch = cfg.SlotsPerEpoch
	}

	if cfg.RewardPerBlock != 0 {
		rewardPerBlock = cfg.RewardPerBlock
	}
}

// LockConfig locks the config, preventing any further changes.
// Required for mainnet and testnet.
func LockConfig() {
	locked = true
}

func MinValidatorStake() uint64 {
	return minValidatorStake
}

func WithdrawalDelay() uint32 {
	return withdrawalDelay
}

func EpochLength() uint32 {
	return epochLength
}

func SlotsPerEpoch() uint32 {
	return slotsPerEpoch
}

func RewardPerBlock() uint64 {
	return rewardPerBlock
}

// EpochAt returns the epoch number of the given block number.
func EpochAt(blockNum uint32) uint32 {
	return blockNum / epochLength
}
