// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vrf wraps the elliptic curve VRF that drives the epoch randomness
// beacon.
package vrf

import (
	"crypto/ecdsa"
	"errors"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/go-ecvrf"

	"github.com/novachain/nova/nova"
)

const (
	// ProofLength length of a secp256k1 VRF proof.
	ProofLength = 81
	// PublicKeyLength length of a compressed secp256k1 public key.
	PublicKeyLength = 33
)

// Prove computes the VRF output beta and its proof for the input alpha.
func Prove(sk *ecdsa.PrivateKey, alpha []byte) (beta, proof []byte, err error) {
	return ecvrf.Secp256k1Sha256Tai.Prove(sk, alpha)
}

// Verify checks the proof over alpha and returns the VRF output.
func Verify(pub *ecdsa.PublicKey, alpha, proof []byte) (beta []byte, err error) {
	return ecvrf.Secp256k1Sha256Tai.Verify(pub, alpha, proof)
}

// Signature is a self-contained VRF proof over an epoch seed.
// Composed by [ Compressed Public Key(33bytes) + Proof(81bytes) ]
type Signature struct {
	body  []byte
	cache struct {
		signer atomic.Value
	}
}

// NewSignature creates a new signature from a compressed public key and a
// proof.
func NewSignature(pub, proof []byte) *Signature {
	var vs Signature
	vs.body = append(vs.body, pub...)
	vs.body = append(vs.body, proof...)
	return &vs
}

// Bytes returns the content in byte slice.
func (vs *Signature) Bytes() []byte {
	return append([]byte(nil), vs.body...)
}

// Validate validates the proof and returns the VRF output.
func (vs *Signature) Validate(alpha []byte) (beta []byte, err error) {
	if len(vs.body) != PublicKeyLength+ProofLength {
		return nil, errors.New("invalid VRF signature length, 114 bytes needed")
	}

	pubkey, err := crypto.DecompressPubkey(vs.body[:PublicKeyLength])
	if err != nil {
		return nil, err
	}
	return Verify(pubkey, alpha, vs.body[PublicKeyLength:])
}

// Signer computes the address from the public key.
func (vs *Signature) Signer() (signer nova.Address, err error) {
	if cached := vs.cache.signer.Load(); cached != nil {
		return cached.(nova.Address), nil
	}
	defer func() { vs.cache.signer.Store(signer) }()

	if len(vs.body) < PublicKeyLength {
		return nova.Address{}, errors.New("invalid VRF signature length")
	}
	pubkey, err := crypto.DecompressPubkey(vs.body[:PublicKeyLength])
	if err != nil {
		return nova.Address{}, err
	}
	signer = nova.PubkeyToAddress(pubkey)
	return
}

// EncodeRLP implements rlp.Encoder.
func (vs *Signature) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &vs.body)
}

// DecodeRLP implements rlp.Decoder.
func (vs *Signature) DecodeRLP(s *rlp.Stream) error {
	var body []byte
	if err := s.Decode(&body); err != nil {
		return err
	}
	*vs = Signature{body: body}
	return nil
}
