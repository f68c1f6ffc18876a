// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	sk, err := GenerateKey()
	require.NoError(t, err)
	pk := sk.PublicKey()

	msg := []byte("block seed")
	sig := sk.Sign(msg)

	assert.True(t, Verify(pk, msg, sig))
	assert.False(t, Verify(pk, []byte("other message"), sig))

	other, err := GenerateKey()
	require.NoError(t, err)
	assert.False(t, Verify(other.PublicKey(), msg, sig))
}

func TestProofOfPossession(t *testing.T) {
	sk, err := GenerateKey()
	require.NoError(t, err)
	pk := sk.PublicKey()

	proof := sk.ProvePossession()
	assert.True(t, VerifyPossession(pk, proof))

	// a plain signature over the key bytes does not qualify
	key := pk.Bytes()
	assert.False(t, VerifyPossession(pk, sk.Sign(key[:])))
}

func TestEncoding(t *testing.T) {
	sk, err := GenerateKey()
	require.NoError(t, err)
	pk := sk.PublicKey()
	sig := sk.Sign([]byte("m"))

	pkBytes := pk.Bytes()
	parsed, err := PublicKeyFromBytes(pkBytes[:])
	require.NoError(t, err)
	assert.Equal(t, pkBytes, parsed.Bytes())

	sigBytes := sig.Bytes()
	parsedSig, err := SignatureFromBytes(sigBytes[:])
	require.NoError(t, err)
	assert.True(t, Verify(parsed, []byte("m"), parsedSig))

	_, err = PublicKeyFromBytes(make([]byte, PublicKeyLength))
	assert.Error(t, err)
	_, err = PublicKeyFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
	_, err = SignatureFromBytes(make([]byte, 10))
	assert.Error(t, err)
}
