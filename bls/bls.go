// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bls implements the BLS12-381 signatures used for validator signing
// keys. Public keys live in G1 (48 bytes compressed), signatures in G2 (96
// bytes compressed).
package bls

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/pkg/errors"
)

const (
	// PublicKeyLength compressed G1 point size.
	PublicKeyLength = 48
	// SignatureLength compressed G2 point size.
	SignatureLength = 96
)

// Domain separation tags for regular signatures and proofs of possession.
var (
	dstSignature  = []byte("NOVA_BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_")
	dstPossession = []byte("NOVA_BLS_POP_BLS12381G2_XMD:SHA-256_SSWU_RO_")
)

// PublicKey is a point in G1.
type PublicKey struct {
	p bls12381.G1Affine
}

// Signature is a point in G2.
type Signature struct {
	p bls12381.G2Affine
}

// PublicKeyFromBytes parses a compressed G1 point. Points off the curve,
// outside the subgroup or at infinity are rejected.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeyLength {
		return nil, errors.New("invalid public key length")
	}
	var pk PublicKey
	if _, err := pk.p.SetBytes(b); err != nil {
		return nil, errors.WithMessage(err, "invalid public key")
	}
	if pk.p.IsInfinity() {
		return nil, errors.New("public key is the identity")
	}
	return &pk, nil
}

// Bytes returns the compressed encoding.
func (pk *PublicKey) Bytes() [PublicKeyLength]byte {
	return pk.p.Bytes()
}

// SignatureFromBytes parses a compressed G2 point.
func SignatureFromBytes(b []byte) (*Signature, error) {
	if len(b) != SignatureLength {
		return nil, errors.New("invalid signature length")
	}
	var sig Signature
	if _, err := sig.p.SetBytes(b); err != nil {
		return nil, errors.WithMessage(err, "invalid signature")
	}
	return &sig, nil
}

// Bytes returns the compressed encoding.
func (sig *Signature) Bytes() [SignatureLength]byte {
	return sig.p.Bytes()
}

// Verify checks sig over msg under pk, i.e. e(pk, H(msg)) == e(g1, sig).
func Verify(pk *PublicKey, msg []byte, sig *Signature) bool {
	return verify(pk, msg, sig, dstSignature)
}

// VerifyPossession checks a proof of possession: a signature over the
// compressed public key itself under a dedicated domain tag. It guards
// validator registration against rogue-key attacks.
func VerifyPossession(pk *PublicKey, proof *Signature) bool {
	key := pk.Bytes()
	return verify(pk, key[:], proof, dstPossession)
}

func verify(pk *PublicKey, msg []byte, sig *Signature, dst []byte) bool {
	hm, err := bls12381.HashToG2(msg, dst)
	if err != nil {
		return false
	}
	_, _, g1, _ := bls12381.Generators()
	var negG1 bls12381.G1Affine
	negG1.Neg(&g1)

	// e(pk, H(m)) * e(-g1, sig) == 1
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{pk.p, negG1},
		[]bls12381.G2Affine{hm, sig.p},
	)
	return err == nil && ok
}

// SecretKey is a scalar in Fr. It exists for key generation tooling and
// tests; consensus only ever verifies.
type SecretKey struct {
	s fr.Element
}

// GenerateKey creates a random secret key.
func GenerateKey() (*SecretKey, error) {
	var sk SecretKey
	if _, err := sk.s.SetRandom(); err != nil {
		return nil, err
	}
	if sk.s.IsZero() {
		return nil, errors.New("zero secret key")
	}
	return &sk, nil
}

// PublicKey derives the public key g1^s.
func (sk *SecretKey) PublicKey() *PublicKey {
	var s big.Int
	sk.s.BigInt(&s)
	_, _, g1, _ := bls12381.Generators()
	var pk PublicKey
	pk.p.ScalarMultiplication(&g1, &s)
	return &pk
}

// Sign produces H(msg)^s.
func (sk *SecretKey) Sign(msg []byte) *Signature {
	return sk.sign(msg, dstSignature)
}

// ProvePossession signs the compressed public key under the possession tag.
func (sk *SecretKey) ProvePossession() *Signature {
	key := sk.PublicKey().Bytes()
	return sk.sign(key[:], dstPossession)
}

func (sk *SecretKey) sign(msg, dst []byte) *Signature {
	hm, err := bls12381.HashToG2(msg, dst)
	if err != nil {
		// HashToG2 only fails on expander output issues, which cannot
		// happen with our fixed tags.
		panic(err)
	}
	var s big.Int
	sk.s.BigInt(&s)
	var sig Signature
	sig.p.ScalarMultiplication(&hm, &s)
	return &sig
}
