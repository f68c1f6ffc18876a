// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import "github.com/pkg/errors"

// Transaction rejection causes. Any of these from a transition marks the
// transaction, and therefore the whole block, invalid; state is left
// untouched.
var (
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInvalidProof         = errors.New("invalid proof")
	ErrPreconditionFailed   = errors.New("precondition failed")
	ErrAccountNotFound      = errors.New("account not found")
	ErrMalformedTransaction = errors.New("malformed transaction")
)

// IsRejection reports whether the error is a transaction rejection rather
// than an infrastructure failure such as a missing trie node.
func IsRejection(err error) bool {
	switch errors.Cause(err) {
	case ErrInsufficientBalance, ErrInvalidProof, ErrPreconditionFailed,
		ErrAccountNotFound, ErrMalformedTransaction:
		return true
	default:
		return false
	}
}
