// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/novachain/nova/nova"
)

func RandBytes32() (b nova.Bytes32) {
	rand.Read(b[:])
	return
}

func RandAddress() (a nova.Address) {
	rand.Read(a[:])
	return
}

func RandBytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

func RandUint64() uint64 {
	return mathrand.Uint64() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}
