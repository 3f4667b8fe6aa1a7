// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"math/big"
)

// References:
//   [SEC1] Elliptic Curve Cryptography
//     https://www.secg.org/sec1-v2.pdf

const (
	// PubKeyBytesLenCompressed is the number of bytes of a serialized
	// compressed public key.
	PubKeyBytesLenCompressed = 33

	// PubKeyBytesLenUncompressed is the number of bytes of a serialized
	// uncompressed public key.
	PubKeyBytesLenUncompressed = 65

	// PubKeyFormatCompressedEven is the identifier prefix byte for a public
	// key whose Y coordinate is even when serialized in the compressed format
	// per section 2.3.4 of [SEC1](https://secg.org/sec1-v2.pdf#subsubsection.2.3.4).
	PubKeyFormatCompressedEven byte = 0x02

	// PubKeyFormatCompressedOdd is the identifier prefix byte for a public key
	// whose Y coordinate is odd when serialized in the compressed format.
	PubKeyFormatCompressedOdd byte = 0x03

	// PubKeyFormatUncompressed is the identifier prefix byte for a public key
	// when serialized according in the uncompressed format.
	PubKeyFormatUncompressed byte = 0x04

	// pubKeyFormatIdentity is the single byte SEC1 encoding of the point at
	// infinity.  It is recognized only to report a precise error.
	pubKeyFormatIdentity byte = 0x00
)

// PublicKey provides facilities for efficiently working with P-256 public
// keys within this package and includes functions to serialize in both
// uncompressed and compressed SEC (Standards for Efficient Cryptography)
// formats.
//
// A PublicKey is always a valid point on the curve other than the point at
// infinity.  The only ways to obtain one are ParsePubKey, NewPublicKey and
// PrivateKey.PubKey, all of which enforce that.
type PublicKey struct {
	x FieldVal
	y FieldVal
}

// NewPublicKey instantiates a new public key with the given affine
// coordinates.  It returns an error of kind ErrPubKeyNotOnCurve when the
// coordinates do not satisfy the curve equation.
func NewPublicKey(x, y *FieldVal) (*PublicKey, error) {
	p := AffinePoint{X: *x, Y: *y}
	if !p.IsOnCurve() {
		return nil, makeError(ErrPubKeyNotOnCurve, "invalid public key: "+
			"point is not on the curve")
	}
	return &PublicKey{x: *x, y: *y}, nil
}

// newPublicKeyUnchecked creates a public key from coordinates already known
// to be a non-identity point on the curve.
func newPublicKeyUnchecked(p *AffinePoint) *PublicKey {
	return &PublicKey{x: p.X, y: p.Y}
}

// ParsePubKey parses a P-256 public key encoded according to the format
// specified by ANSI X9.62-1998, which means it is also compatible with the
// SEC (Standards for Efficient Cryptography) specification which is a subset
// of the former.  In other words, it supports the uncompressed and compressed
// formats as follows:
//
// Compressed:
//
//	<format byte = 0x02/0x03><32-byte X coordinate>
//
// Uncompressed:
//
//	<format byte = 0x04><32-byte X coordinate><32-byte Y coordinate>
//
// NOTE: The hybrid formats (0x06/0x07) are not accepted and the single byte
// encoding of the point at infinity is rejected with ErrPubKeyIsIdentity.
//
// Coordinates must be canonical, meaning less than the field prime, and the
// resulting point must lie on the curve.
func ParsePubKey(serialized []byte) (*PublicKey, error) {
	var x, y FieldVal
	switch len(serialized) {
	case PubKeyBytesLenUncompressed:
		// Reject unsupported public key formats for the given length.
		format := serialized[0]
		if format != PubKeyFormatUncompressed {
			str := fmt.Sprintf("invalid public key: unsupported format: %x",
				format)
			return nil, makeError(ErrPubKeyInvalidFormat, str)
		}

		// Parse the x and y coordinates while ensuring that they are in the
		// allowed range.
		if overflow := x.SetBytes((*[32]byte)(serialized[1:33])); overflow == 1 {
			str := "invalid public key: x >= field prime"
			return nil, makeError(ErrPubKeyXTooBig, str)
		}
		if overflow := y.SetBytes((*[32]byte)(serialized[33:])); overflow == 1 {
			str := "invalid public key: y >= field prime"
			return nil, makeError(ErrPubKeyYTooBig, str)
		}

		// Ensure the public key is on the curve.  The curve has a cofactor of
		// one, so every point on it is in the prime order group.
		p := AffinePoint{X: x, Y: y}
		if !p.IsOnCurve() {
			str := fmt.Sprintf("invalid public key: [%v,%v] not on the curve",
				x, y)
			return nil, makeError(ErrPubKeyNotOnCurve, str)
		}

	case PubKeyBytesLenCompressed:
		// Reject unsupported public key formats for the given length.
		format := serialized[0]
		if format != PubKeyFormatCompressedEven &&
			format != PubKeyFormatCompressedOdd {

			str := fmt.Sprintf("invalid public key: unsupported format: %x",
				format)
			return nil, makeError(ErrPubKeyInvalidFormat, str)
		}

		// Parse the x coordinate while ensuring that it is in the allowed
		// range.
		if overflow := x.SetBytes((*[32]byte)(serialized[1:33])); overflow == 1 {
			str := "invalid public key: x >= field prime"
			return nil, makeError(ErrPubKeyXTooBig, str)
		}

		// Attempt to calculate the y coordinate for the given x coordinate
		// such that the result pair is a point on the curve and the solution
		// with desired oddness is chosen.
		wantOddY := format == PubKeyFormatCompressedOdd
		if !DecompressY(&x, wantOddY, &y) {
			str := fmt.Sprintf("invalid public key: x coordinate %v is not "+
				"on the curve", x)
			return nil, makeError(ErrPubKeyNotOnCurve, str)
		}

	case 1:
		if serialized[0] == pubKeyFormatIdentity {
			str := "invalid public key: point at infinity"
			return nil, makeError(ErrPubKeyIsIdentity, str)
		}
		fallthrough

	default:
		str := fmt.Sprintf("malformed public key: invalid length: %d",
			len(serialized))
		return nil, makeError(ErrPubKeyInvalidLen, str)
	}

	return &PublicKey{x: x, y: y}, nil
}

// SerializeUncompressed serializes a public key in the 65-byte uncompressed
// format.
func (p *PublicKey) SerializeUncompressed() []byte {
	// 0x04 || 32-byte x coordinate || 32-byte y coordinate
	var b [PubKeyBytesLenUncompressed]byte
	b[0] = PubKeyFormatUncompressed
	p.x.PutBytesUnchecked(b[1:33])
	p.y.PutBytesUnchecked(b[33:65])
	return b[:]
}

// SerializeCompressed serializes a public key in the 33-byte compressed
// format.
func (p *PublicKey) SerializeCompressed() []byte {
	// Choose the format byte depending on the oddness of the Y coordinate.
	format := PubKeyFormatCompressedEven
	if p.y.IsOdd() {
		format = PubKeyFormatCompressedOdd
	}

	// 0x02 or 0x03 || 32-byte x coordinate
	var b [PubKeyBytesLenCompressed]byte
	b[0] = format
	p.x.PutBytesUnchecked(b[1:33])
	return b[:]
}

// IsEqual compares this public key instance to the one passed, returning true
// if both public keys are equivalent.  A public key is equivalent to another,
// if they both have the same X and Y coordinates.
func (p *PublicKey) IsEqual(otherPubKey *PublicKey) bool {
	return p.x.Equals(&otherPubKey.x) && p.y.Equals(&otherPubKey.y)
}

// IsOnCurve reports whether the coordinates of the public key satisfy the
// curve equation.  It only fails for keys that were not built by the package
// constructors, such as the zero value.
func (p *PublicKey) IsOnCurve() bool {
	a := AffinePoint{X: p.x, Y: p.y}
	return a.IsOnCurve()
}

// AsJacobian converts the public key into a Jacobian point with Z=1 and
// stores the result in the provided result param.
func (p *PublicKey) AsJacobian(result *JacobianPoint) {
	result.X.Set(&p.x)
	result.Y.Set(&p.y)
	result.Z.SetInt(1)
}

// AsAffine stores the public key in the provided affine point.
func (p *PublicKey) AsAffine(result *AffinePoint) {
	result.X.Set(&p.x)
	result.Y.Set(&p.y)
	result.Infinity = false
}

// X returns a copy of the x coordinate of the public key.
func (p *PublicKey) X() FieldVal {
	return p.x
}

// Y returns a copy of the y coordinate of the public key.
func (p *PublicKey) Y() FieldVal {
	return p.y
}

// ToECDSA returns the public key as a *ecdsa.PublicKey from the standard
// library.
func (p *PublicKey) ToECDSA() *ecdsa.PublicKey {
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(p.x.Bytes()[:]),
		Y:     new(big.Int).SetBytes(p.y.Bytes()[:]),
	}
}

// ToECDH returns the public key as a *ecdh.PublicKey from the standard
// library.
func (p *PublicKey) ToECDH() (*ecdh.PublicKey, error) {
	return ecdh.P256().NewPublicKey(p.SerializeUncompressed())
}

// PubKeyFromECDSA converts a public key from the standard library.  The key
// must be defined over P-256 and is validated like any other untrusted key.
func PubKeyFromECDSA(key *ecdsa.PublicKey) (*PublicKey, error) {
	if key == nil || key.Curve == nil || key.Curve.Params().Name != "P-256" {
		return nil, makeError(ErrPubKeyWrongCurve, "invalid public key: "+
			"not a P-256 key")
	}
	if key.X == nil || key.Y == nil {
		return nil, makeError(ErrPubKeyNotOnCurve, "invalid public key: "+
			"missing coordinate")
	}
	if key.X.Sign() < 0 || key.X.BitLen() > 256 {
		return nil, makeError(ErrPubKeyXTooBig, "invalid public key: "+
			"x >= field prime")
	}
	if key.Y.Sign() < 0 || key.Y.BitLen() > 256 {
		return nil, makeError(ErrPubKeyYTooBig, "invalid public key: "+
			"y >= field prime")
	}
	var b [PubKeyBytesLenUncompressed]byte
	b[0] = PubKeyFormatUncompressed
	key.X.FillBytes(b[1:33])
	key.Y.FillBytes(b[33:])
	return ParsePubKey(b[:])
}
