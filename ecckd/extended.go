// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecckd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"

	"github.com/ModChain/p256"
	"github.com/btcsuite/btcutil/base58"
)

const (
	// HardenedBit is set on child indexes of hardened derivations.
	HardenedBit = 0x80000000

	// MinSeedLen and MaxSeedLen bound the length of master seeds.
	MinSeedLen = 16
	MaxSeedLen = 64

	// serializedKeyLen is the length of a serialized extended key without
	// its checksum.
	serializedKeyLen = 4 + 1 + 4 + 4 + 32 + 33
)

// Nist256p1Seed is the HMAC key of master key generation for P-256.
var Nist256p1Seed = []byte("Nist256p1 seed")

type ExtendedKey struct {
	Version     KeyVersion
	Depth       uint8
	Fingerprint [4]byte
	ChildNumber uint32 // ser32(i) for i in xi = xpar/i, with xi the key being serialized. (0x00000000 if master key)
	KeyData     []byte // 32 bytes ser256(k) for private keys, 33 bytes serP(K) for public keys
	ChainCode   []byte // 32 bytes, the chain code
}

// FromSeed returns the master node derived from seed as defined by SLIP-0010
// for the NIST P-256 curve.
func FromSeed(seed []byte) (*ExtendedKey, error) {
	return FromSeedWithSecret(seed, Nist256p1Seed)
}

// FromSeedWithSecret returns a master node using a custom HMAC key.  While
// the HMAC output is not a valid key it is fed back as the next input.
func FromSeedWithSecret(seed, masterSecret []byte) (*ExtendedKey, error) {
	if len(seed) < MinSeedLen || len(seed) > MaxSeedLen {
		return nil, ErrInvalidSeed
	}
	if len(masterSecret) == 0 {
		return nil, ErrInvalidMasterKey
	}

	data := seed
	for {
		I, il, err := hmacCKD(data, masterSecret)
		if err == nil && !il.IsZero() {
			key := il.Bytes()
			il.Zero()
			return &ExtendedKey{
				Version:   MainnetPrivate,
				KeyData:   key[:],
				ChainCode: I[32:],
			}, nil
		}
		data = I
	}
}

// FromPublicKey returns a root extended public key for an existing public key
// and chain code.  This allows non-hardened derivation under keys that were
// not produced from a seed.
func FromPublicKey(pub *ecdsa.PublicKey, chainCode []byte) (*ExtendedKey, error) {
	if len(chainCode) != 32 {
		return nil, ErrInvalidChainCode
	}
	pk, err := p256.PubKeyFromECDSA(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return &ExtendedKey{
		Version:   MainnetPublic,
		KeyData:   pk.SerializeCompressed(),
		ChainCode: bytes.Clone(chainCode),
	}, nil
}

func FromString(str string) (*ExtendedKey, error) {
	bin := base58.Decode(str)
	e := &ExtendedKey{}
	return e, e.UnmarshalBinary(bin)
}

func (k *ExtendedKey) IsPrivate() bool {
	return k.Version.IsPrivate()
}

// Child derives extended key at a given index i.
// If parent is private, then derived key is also private. If parent is public, then derived is public.
//
// If i >= HardenedBit, then hardened key is generated.
// You can only generate hardened keys from private parent keys.
// If you try generating hardened key form public parent key, ErrDerivingHardenedFromPublic is returned.
//
// There are four CKD (child key derivation) scenarios:
// 1) Private extended key -> Hardened child private extended key
// 2) Private extended key -> Non-hardened child private extended key
// 3) Public extended key -> Non-hardened child public extended key
// 4) Public extended key -> Hardened child public extended key (INVALID!)
func (k *ExtendedKey) Child(i uint32) (*ExtendedKey, error) {
	child, il, err := k.childWithIL(i)
	if il != nil {
		il.Zero()
	}
	return child, err
}

// childWithIL derives the child at index i and also returns the tweak IL that
// was added to the parent key.
func (k *ExtendedKey) childWithIL(i uint32) (*ExtendedKey, *p256.ModNScalar, error) {
	if k.Depth == 0xff {
		return nil, nil, ErrMaxDepthExceeded
	}

	// A hardened child may not be created from a public extended key (Case #4).
	isChildHardened := i&HardenedBit == HardenedBit
	if !k.IsPrivate() && isChildHardened {
		return nil, nil, ErrDerivingHardenedFromPublic
	}

	parentPub, err := k.pubKey()
	if err != nil {
		return nil, nil, err
	}
	parentPubBytes := parentPub.SerializeCompressed()

	var data []byte
	if isChildHardened {
		// Case #1: 0x00 || ser256(parentKey) || ser32(i)
		data = make([]byte, 1, 1+32+4)
		data = paddedAppend(32, data, k.KeyData)
	} else {
		// Case #2 and #3: serP(parentPubKey) || ser32(i)
		data = make([]byte, 0, 33+4)
		data = append(data, parentPubBytes...)
	}
	data = appendUint32(data, i)

	child := &ExtendedKey{
		Depth:       k.Depth + 1,
		ChildNumber: i,
	}
	// The fingerprint for the derived child is the first 4 bytes of parent's
	// key identifier.
	copy(child.Fingerprint[:], rmd160sha256(parentPubBytes))

	if k.IsPrivate() {
		parent, err := k.privKey()
		if err != nil {
			return nil, nil, err
		}
		defer parent.Zero()

		// Case #1 or #2: childKey = parse256(IL) + parentKey, retried with
		// 0x01 || IR || ser32(i) while IL >= n or the child key is zero.
		for {
			I, il, err := hmacCKD(data, k.ChainCode)
			if err == nil {
				var childKey p256.ModNScalar
				childKey.Add2(il, &parent.Key)
				if !childKey.IsZero() {
					keyData := childKey.Bytes()
					childKey.Zero()
					child.KeyData = keyData[:]
					child.ChainCode = I[32:]
					child.Version = k.Version
					return child, il, nil
				}
			}
			data = retryData(I, i)
		}
	}

	// Case #3: childKey = serP(point(parse256(IL)) + parentKey), retried
	// while IL >= n or the result is the point at infinity.
	var parentPoint p256.JacobianPoint
	parentPub.AsJacobian(&parentPoint)
	for {
		I, il, err := hmacCKD(data, k.ChainCode)
		if err == nil {
			var tweak, sum p256.JacobianPoint
			p256.ScalarBaseMult(il, &tweak)
			p256.AddNonConst(&tweak, &parentPoint, &sum)
			if !sum.IsInfinity() {
				var a p256.AffinePoint
				sum.ToAffine(&a)
				pk, err := p256.NewPublicKey(&a.X, &a.Y)
				if err != nil {
					return nil, nil, err
				}
				child.KeyData = pk.SerializeCompressed()
				child.ChainCode = I[32:]
				child.Version = k.Version.ToPublic()
				return child, il, nil
			}
		}
		data = retryData(I, i)
	}
}

// Derive returns a derived child key at a given path
func (k *ExtendedKey) Derive(path []uint32) (*ExtendedKey, error) {
	il, extKey, err := k.DeriveWithIL(path)
	if il != nil {
		il.Zero()
	}
	return extKey, err
}

// DeriveWithIL derives the key at path and also returns the sum of the IL
// tweaks of every step modulo the group order.  The derived public key
// equals the public key of k plus IL·G, which lets the holder of a shared or
// external private key compute the derived private key on its own.
func (k *ExtendedKey) DeriveWithIL(path []uint32) (*p256.ModNScalar, *ExtendedKey, error) {
	total := new(p256.ModNScalar)
	extKey := k
	for n, i := range path {
		child, il, err := extKey.childWithIL(i)
		if err != nil {
			total.Zero()
			return nil, nil, fmt.Errorf("%w at depth %d: %w", ErrDerivingChild,
				n+1, err)
		}
		total.Add(il)
		il.Zero()
		extKey = child
	}
	return total, extKey, nil
}

// Public returns a new extended public key from a give extended private key.
// If the input extended key is already public, it will be returned unaltered.
func (k *ExtendedKey) Public() (*ExtendedKey, error) {
	// Already an extended public key.
	if !k.IsPrivate() {
		return k, nil
	}

	// Convert it to an extended public key.  The key for the new extended
	// key will simply be the pubkey of the current extended private key.
	pub, err := k.pubKey()
	if err != nil {
		return nil, err
	}
	return &ExtendedKey{
		Version:     k.Version.ToPublic(),
		KeyData:     pub.SerializeCompressed(),
		ChainCode:   k.ChainCode,
		Fingerprint: k.Fingerprint,
		Depth:       k.Depth,
		ChildNumber: k.ChildNumber,
	}, nil
}

// MarshalBinary encodes the key in standard format that can be base58 encoded for humans
func (k *ExtendedKey) MarshalBinary() ([]byte, error) {
	if len(k.ChainCode) != 32 {
		return nil, ErrInvalidChainCode
	}

	// The serialized format is:
	//   version (4) || depth (1) || parent fingerprint (4)) ||
	//   child num (4) || chain code (32) || key data (33) || checksum (4)
	serializedBytes := make([]byte, 0, serializedKeyLen+4)
	serializedBytes = append(serializedBytes, k.Version[:]...)
	serializedBytes = append(serializedBytes, k.Depth)
	serializedBytes = append(serializedBytes, k.Fingerprint[:]...)
	serializedBytes = appendUint32(serializedBytes, k.ChildNumber)
	serializedBytes = append(serializedBytes, k.ChainCode...)
	if k.IsPrivate() {
		if len(k.KeyData) > 32 {
			return nil, ErrInvalidKey
		}
		serializedBytes = append(serializedBytes, 0x00)
		serializedBytes = paddedAppend(32, serializedBytes, k.KeyData)
	} else {
		if len(k.KeyData) != p256.PubKeyBytesLenCompressed {
			return nil, ErrInvalidKey
		}
		serializedBytes = append(serializedBytes, k.KeyData...)
	}

	checkSum := doubleSha256(serializedBytes)[:4]
	serializedBytes = append(serializedBytes, checkSum...)
	return serializedBytes, nil
}

func (k *ExtendedKey) String() string {
	bin, err := k.MarshalBinary()
	if err != nil {
		return ""
	}
	return base58.Encode(bin)
}

// privKey returns the private key held by a private extended key.
func (k *ExtendedKey) privKey() (*p256.PrivateKey, error) {
	if !k.IsPrivate() {
		return nil, ErrInvalidKey
	}
	var keyData [32]byte
	if len(k.KeyData) > 32 {
		return nil, ErrInvalidKey
	}
	copy(keyData[32-len(k.KeyData):], k.KeyData)
	priv, err := p256.ParsePrivKey(keyData[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return priv, nil
}

// pubKey returns the public key associated with this extended key.  When the
// extended key is a private key the public key is computed from it.
func (k *ExtendedKey) pubKey() (*p256.PublicKey, error) {
	if !k.IsPrivate() {
		pub, err := p256.ParsePubKey(k.KeyData)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return pub, nil
	}

	priv, err := k.privKey()
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	return priv.PubKey(), nil
}

// PrivateKey returns the private key of a private extended key.
func (k *ExtendedKey) PrivateKey() (*p256.PrivateKey, error) {
	return k.privKey()
}

// PublicKey returns the public key of the extended key.
func (k *ExtendedKey) PublicKey() (*p256.PublicKey, error) {
	return k.pubKey()
}

// ToECDSA returns the key data as ecdsa.PrivateKey
func (k *ExtendedKey) ToECDSA() (*ecdsa.PrivateKey, error) {
	priv, err := k.privKey()
	if err != nil {
		return nil, err
	}
	defer priv.Zero()
	return priv.ToECDSA(), nil
}

func (k *ExtendedKey) UnmarshalBinary(data []byte) error {
	if len(data) != serializedKeyLen+4 {
		return ErrInvalidKeyLen
	}

	// The serialized format is:
	//   version (4) || depth (1) || parent fingerprint (4)) ||
	//   child num (4) || chain code (32) || key data (33) || checksum (4)

	// Split the payload and checksum up and ensure the checksum matches.
	payload := data[:len(data)-4]
	checkSum := data[len(data)-4:]
	expectedCheckSum := doubleSha256(payload)[:4]
	if !bytes.Equal(checkSum, expectedCheckSum) {
		return ErrBadChecksum
	}

	// Deserialize each of the payload fields.
	var version KeyVersion
	copy(version[:], payload[:4])
	if !version.IsKnown() {
		return ErrUnknownVersion
	}
	depth := payload[4:5][0]
	var fingerprint [4]byte
	copy(fingerprint[:], payload[5:9])
	childNumber := binary.BigEndian.Uint32(payload[9:13])
	chainCode := bytes.Clone(payload[13:45])
	keyData := bytes.Clone(payload[45:78])

	// The key data is a private key if it starts with 0x00.  Serialized
	// compressed pubkeys either start with 0x02 or 0x03.
	isPrivate := keyData[0] == 0x00
	if isPrivate != version.IsPrivate() {
		return ErrInvalidPrivateFlag
	}

	if isPrivate {
		// Ensure the private key is valid.  It must be within the range
		// of the order of the P-256 curve and not be 0.
		keyData = keyData[1:]
		priv, err := p256.ParsePrivKey(keyData)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		priv.Zero()
	} else {
		// Ensure the public key parses correctly and is actually on the
		// P-256 curve.
		if _, err := p256.ParsePubKey(keyData); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
	}

	k.Version = version
	k.KeyData = keyData
	k.ChainCode = chainCode
	k.Fingerprint = fingerprint
	k.Depth = depth
	k.ChildNumber = childNumber
	return nil
}
