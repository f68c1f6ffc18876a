// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nova

// Constants of block chain.
const (
	BlockInterval uint64 = 10 // time interval between two consecutive blocks.

	// MaxPendingWithdrawals caps the withdrawal queue of a single staker.
	MaxPendingWithdrawals = 16

	// InitialSupply the total supply minted in the genesis block.
	InitialSupply uint64 = 21e6 * 1e9
)

// HashAlgorithm identifies a hash function usable in a hashed time-lock.
type HashAlgorithm uint8

// Supported hash algorithms for hashed time-locks.
const (
	HashSha256 HashAlgorithm = iota + 1
	HashBlake2b
	HashKeccak256
)

func (a HashAlgorithm) String() string {
	switch a {
	case HashSha256:
		return "sha256"
	case HashBlake2b:
		return "blake2b"
	case HashKeccak256:
		return "keccak256"
	default:
		return "unknown"
	}
}

// IsSupported returns whether the algorithm is accepted by the protocol.
func (a HashAlgorithm) IsSupported() bool {
	switch a {
	case HashSha256, HashBlake2b, HashKeccak256:
		return true
	default:
		return false
	}
}
