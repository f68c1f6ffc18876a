// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nova

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.NoError(t, err)
	assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())

	_, err = ParseAddress("7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.NoError(t, err)

	_, err = ParseAddress("0x7567")
	assert.Error(t, err)

	_, err = ParseAddress("zz7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.Error(t, err)
}

func TestBytesToAddress(t *testing.T) {
	assert.True(t, BytesToAddress(nil).IsZero())
	assert.Equal(t, MustParseAddress("0x0000000000000000000000000000000000000001"), BytesToAddress([]byte{1}))
}

func TestParseBytes32(t *testing.T) {
	b32, err := ParseBytes32("0x00000000000000000000000000000000000000000000000000006d6173746572")
	assert.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000000000000000006d6173746572", b32.String())

	_, err = ParseBytes32("0x6d6173746572")
	assert.Error(t, err)
}

func TestBlake2b(t *testing.T) {
	// split input must hash the same as joined input
	assert.Equal(t, Blake2b([]byte("multipledata")), Blake2b([]byte("multi"), []byte("ple"), []byte("data")))

	h := Blake2bFn(func(w io.Writer) {
		w.Write([]byte("custom writer"))
	})
	assert.Equal(t, Blake2b([]byte("custom writer")), h)

	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
}

func TestHashAlgorithm(t *testing.T) {
	assert.True(t, HashSha256.IsSupported())
	assert.True(t, HashBlake2b.IsSupported())
	assert.True(t, HashKeccak256.IsSupported())
	assert.False(t, HashAlgorithm(0).IsSupported())
	assert.False(t, HashAlgorithm(9).IsSupported())
	assert.Equal(t, "sha256", HashSha256.String())
}

func TestConfig(t *testing.T) {
	assert.Equal(t, uint32(0), EpochAt(EpochLength()-1))
	assert.Equal(t, uint32(1), EpochAt(EpochLength()))
	assert.NotZero(t, MinValidatorStake())
	assert.NotZero(t, WithdrawalDelay())
	assert.NotZero(t, RewardPerBlock())
	assert.NotZero(t, SlotsPerEpoch())
}
