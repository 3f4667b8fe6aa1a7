// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package jwk encodes P-256 keys as JSON Web Keys (RFC 7517) of type EC as
// registered by RFC 7518.  Coordinates and the private scalar are always
// encoded on 32 bytes using unpadded base64url.
package jwk

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ModChain/p256"
	json "github.com/goccy/go-json"
)

const (
	KeyTypeEC = "EC"
	CurveP256 = "P-256"
)

var (
	ErrInvalidKeyType    = errors.New("jwk: key type is not EC")
	ErrInvalidCurve      = errors.New("jwk: curve is not P-256")
	ErrInvalidCoordinate = errors.New("jwk: invalid coordinate")
	ErrInvalidPrivate    = errors.New("jwk: invalid private key")
	ErrNoPrivateKey      = errors.New("jwk: key has no private part")
	ErrKeyMismatch       = errors.New("jwk: private key does not match public key")
)

var b64 = base64.RawURLEncoding

// Key is the JSON representation of a P-256 key.
type Key struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
	D   string `json:"d,omitempty"`
	Kid string `json:"kid,omitempty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
}

// FromPublicKey returns the JWK form of a public key.
func FromPublicKey(pub *p256.PublicKey) *Key {
	x, y := pub.X(), pub.Y()
	return &Key{
		Kty: KeyTypeEC,
		Crv: CurveP256,
		X:   b64.EncodeToString(x.Bytes()[:]),
		Y:   b64.EncodeToString(y.Bytes()[:]),
	}
}

// FromPrivateKey returns the JWK form of a private key, including its public
// coordinates.
func FromPrivateKey(priv *p256.PrivateKey) *Key {
	k := FromPublicKey(priv.PubKey())
	d := priv.Serialize()
	k.D = b64.EncodeToString(d)
	for i := range d {
		d[i] = 0
	}
	return k
}

// IsPrivate reports whether the key carries a private scalar.
func (k *Key) IsPrivate() bool {
	return k.D != ""
}

// PublicKey validates the key header and coordinates and returns the public
// key.  The point must lie on the curve.
func (k *Key) PublicKey() (*p256.PublicKey, error) {
	if k.Kty != KeyTypeEC {
		return nil, ErrInvalidKeyType
	}
	if k.Crv != CurveP256 {
		return nil, ErrInvalidCurve
	}
	x, err := decodeCoordinate(k.X)
	if err != nil {
		return nil, fmt.Errorf("%w x: %w", ErrInvalidCoordinate, err)
	}
	y, err := decodeCoordinate(k.Y)
	if err != nil {
		return nil, fmt.Errorf("%w y: %w", ErrInvalidCoordinate, err)
	}
	pub, err := p256.NewPublicKey(x, y)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCoordinate, err)
	}
	return pub, nil
}

// PrivateKey returns the private key after checking that it matches the
// public coordinates of the key.
func (k *Key) PrivateKey() (*p256.PrivateKey, error) {
	if !k.IsPrivate() {
		return nil, ErrNoPrivateKey
	}
	pub, err := k.PublicKey()
	if err != nil {
		return nil, err
	}
	d, err := b64.DecodeString(k.D)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivate, err)
	}
	defer func() {
		for i := range d {
			d[i] = 0
		}
	}()
	priv, err := p256.ParsePrivKey(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivate, err)
	}
	if !priv.PubKey().IsEqual(pub) {
		priv.Zero()
		return nil, ErrKeyMismatch
	}
	return priv, nil
}

// Public returns a copy of the key without the private scalar.
func (k *Key) Public() *Key {
	pub := *k
	pub.D = ""
	return &pub
}

// Thumbprint returns the RFC 7638 SHA-256 thumbprint of the key.
func (k *Key) Thumbprint() ([]byte, error) {
	if _, err := k.PublicKey(); err != nil {
		return nil, err
	}
	// Required members in lexicographic order, without whitespace.
	buf, err := json.Marshal(struct {
		Crv string `json:"crv"`
		Kty string `json:"kty"`
		X   string `json:"x"`
		Y   string `json:"y"`
	}{k.Crv, k.Kty, k.X, k.Y})
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(buf)
	return sum[:], nil
}

// Marshal encodes the key as JSON.
func Marshal(k *Key) ([]byte, error) {
	return json.Marshal(k)
}

// Parse decodes a JSON key and validates its public part.
func Parse(data []byte) (*Key, error) {
	var k Key
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("jwk: %w", err)
	}
	if _, err := k.PublicKey(); err != nil {
		return nil, err
	}
	return &k, nil
}

// Equal reports whether both keys hold the same public coordinates.
func (k *Key) Equal(other *Key) bool {
	return subtle.ConstantTimeCompare([]byte(k.X), []byte(other.X)) == 1 &&
		subtle.ConstantTimeCompare([]byte(k.Y), []byte(other.Y)) == 1 &&
		k.Crv == other.Crv && k.Kty == other.Kty
}

func decodeCoordinate(s string) (*p256.FieldVal, error) {
	b, err := b64.DecodeString(s)
	if err != nil {
		return nil, err
	}
	var f p256.FieldVal
	if err := f.SetCanonicalBytes(b); err != nil {
		return nil, err
	}
	return &f, nil
}
