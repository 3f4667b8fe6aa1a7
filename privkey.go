// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	cryptorand "crypto/rand"
	"io"
	"math/big"
)

// PrivKeyBytesLen defines the length in bytes of a serialized private key.
const PrivKeyBytesLen = 32

// PrivateKey provides facilities for working with P-256 private keys within
// this package and includes functionality such as serializing and parsing
// them as well as computing their associated public key.
type PrivateKey struct {
	Key ModNScalar
}

// NewPrivateKey instantiates a new private key from the passed scalar.  A
// zero scalar is rejected with ErrPrivKeyOutOfRange.
func NewPrivateKey(key *ModNScalar) (*PrivateKey, error) {
	if key.IsZero() {
		return nil, makeError(ErrPrivKeyOutOfRange, "invalid private key: "+
			"scalar is zero")
	}
	return &PrivateKey{Key: *key}, nil
}

// ParsePrivKey parses a 32-byte big-endian private key.  Unlike the lenient
// constructors of some libraries, no reduction is performed: the encoding
// must be exactly 32 bytes and hold a value in [1, n-1], otherwise an error
// of kind ErrPrivKeyInvalidLen or ErrPrivKeyOutOfRange is returned.
func ParsePrivKey(privKeyBytes []byte) (*PrivateKey, error) {
	if len(privKeyBytes) != PrivKeyBytesLen {
		return nil, makeError(ErrPrivKeyInvalidLen, "malformed private key: "+
			"expected 32 bytes")
	}
	var privKey PrivateKey
	overflow := privKey.Key.SetBytes((*[32]byte)(privKeyBytes))
	if overflow == 1 || privKey.Key.IsZero() {
		privKey.Key.Zero()
		return nil, makeError(ErrPrivKeyOutOfRange, "invalid private key: "+
			"not in [1, n-1]")
	}
	return &privKey, nil
}

// GeneratePrivateKeyFromRand generates a private key that is guaranteed to be
// in the valid range using the provided reader as a source of entropy.
//
// 64 bytes are read for every attempt and reduced modulo the group order,
// which leaves a bias below 2^-256.  A result of zero is discarded and
// another attempt is made.
func GeneratePrivateKeyFromRand(rand io.Reader) (*PrivateKey, error) {
	var b64 [64]byte
	defer func() {
		copy(b64[:32], zero32[:])
		copy(b64[32:], zero32[:])
	}()
	for {
		if _, err := io.ReadFull(rand, b64[:]); err != nil {
			return nil, err
		}
		var privKey PrivateKey
		privKey.Key.SetBytesWide(&b64)
		if privKey.Key.IsZero() {
			continue
		}
		return &privKey, nil
	}
}

// GeneratePrivateKey generates and returns a new cryptographically secure
// private key that is suitable for use with P-256.
func GeneratePrivateKey() (*PrivateKey, error) {
	return GeneratePrivateKeyFromRand(cryptorand.Reader)
}

// PubKey computes and returns the public key corresponding to this private
// key.  It returns nil when the key is zero, which only happens for a zero
// value PrivateKey or after Zero was called.
func (p *PrivateKey) PubKey() *PublicKey {
	if p.Key.IsZero() {
		return nil
	}
	var result JacobianPoint
	var affine AffinePoint
	ScalarBaseMult(&p.Key, &result)
	result.ToAffine(&affine)
	return newPublicKeyUnchecked(&affine)
}

// Zero manually clears the memory associated with the private key.  This can
// be used to explicitly clear key material from memory for enhanced security
// against memory scraping.
func (p *PrivateKey) Zero() {
	p.Key.Zero()
}

// Serialize returns the private key as a 256-bit big-endian binary-encoded
// number, padded to a length of 32 bytes.
func (p PrivateKey) Serialize() []byte {
	var privKeyBytes [PrivKeyBytesLen]byte
	p.Key.PutBytes(&privKeyBytes)
	return privKeyBytes[:]
}

// ToECDSA returns the private key as a *ecdsa.PrivateKey from the standard
// library, or nil when the key is zero.
func (p *PrivateKey) ToECDSA() *ecdsa.PrivateKey {
	pubKey := p.PubKey()
	if pubKey == nil {
		return nil
	}
	pub := pubKey.ToECDSA()
	keyBytes := p.Key.Bytes()
	defer zeroArray32(&keyBytes)
	return &ecdsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(keyBytes[:]),
	}
}

// ToECDH returns the private key as a *ecdh.PrivateKey from the standard
// library.
func (p *PrivateKey) ToECDH() (*ecdh.PrivateKey, error) {
	keyBytes := p.Key.Bytes()
	defer zeroArray32(&keyBytes)
	return ecdh.P256().NewPrivateKey(keyBytes[:])
}

// PrivKeyFromECDSA converts a private key from the standard library.  The
// key must be defined over P-256 and hold a scalar in [1, n-1].
func PrivKeyFromECDSA(key *ecdsa.PrivateKey) (*PrivateKey, error) {
	if key == nil || key.Curve == nil || key.Curve.Params().Name != "P-256" {
		return nil, makeError(ErrPrivKeyWrongCurve, "invalid private key: "+
			"not a P-256 key")
	}
	if key.D == nil || key.D.Sign() <= 0 || key.D.BitLen() > 256 {
		return nil, makeError(ErrPrivKeyOutOfRange, "invalid private key: "+
			"not in [1, n-1]")
	}
	var b [PrivKeyBytesLen]byte
	defer zeroArray32(&b)
	key.D.FillBytes(b[:])
	return ParsePrivKey(b[:])
}
