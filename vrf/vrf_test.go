// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vrf

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novachain/nova/nova"
)

func TestProveVerify(t *testing.T) {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)

	alpha := []byte("epoch seed 7")
	beta, proof, err := Prove(sk, alpha)
	require.NoError(t, err)
	require.Len(t, proof, ProofLength)

	got, err := Verify(&sk.PublicKey, alpha, proof)
	require.NoError(t, err)
	assert.Equal(t, beta, got)

	_, err = Verify(&sk.PublicKey, []byte("other alpha"), proof)
	assert.Error(t, err)
}

func TestSignature(t *testing.T) {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)

	alpha := []byte("alpha")
	beta, proof, err := Prove(sk, alpha)
	require.NoError(t, err)

	vs := NewSignature(crypto.CompressPubkey(&sk.PublicKey), proof)

	got, err := vs.Validate(alpha)
	require.NoError(t, err)
	assert.Equal(t, beta, got)

	signer, err := vs.Signer()
	require.NoError(t, err)
	assert.Equal(t, nova.PubkeyToAddress(&sk.PublicKey), signer)

	_, err = NewSignature(nil, nil).Validate(alpha)
	assert.Error(t, err)

	data, err := rlp.EncodeToBytes(vs)
	require.NoError(t, err)
	var decoded Signature
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	got, err = decoded.Validate(alpha)
	require.NoError(t, err)
	assert.Equal(t, beta, got)
}
