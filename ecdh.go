// Copyright (c) 2015 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

// GenerateSharedSecret generates a shared secret based on a private key and a
// public key using Diffie-Hellman key exchange (ECDH) (RFC 5903).
// RFC5903 Section 9 states we should only return x.
//
// The multiplication runs in constant time since the private key is secret.
// The peer point is checked against the curve equation before use and a
// zero private key is refused, so points of small order on the quadratic
// twist never reach the multiplication.
//
// It is recommended to securely hash the result before using as a cryptographic
// key.
func GenerateSharedSecret(privkey *PrivateKey, pubkey *PublicKey) ([]byte, error) {
	if privkey.Key.IsZero() {
		return nil, makeError(ErrPrivKeyOutOfRange, "invalid private key: "+
			"scalar is zero")
	}
	if !pubkey.IsOnCurve() {
		return nil, makeError(ErrPubKeyNotOnCurve, "invalid public key: "+
			"point is not on the curve")
	}

	var point, result JacobianPoint
	var affine AffinePoint
	pubkey.AsJacobian(&point)
	ScalarMult(&privkey.Key, &point, &result)
	if result.IsInfinity() {
		return nil, makeError(ErrSharedSecretIdentity, "shared secret is "+
			"the point at infinity")
	}
	result.ToAffine(&affine)
	xBytes := affine.X.Bytes()
	return xBytes[:], nil
}

// ECDH generates a shared secret and is an alias to GenerateSharedSecret, however
// by being part of the private key it is closer to go's own ecdh api.
func (privkey *PrivateKey) ECDH(remote *PublicKey) ([]byte, error) {
	return GenerateSharedSecret(privkey, remote)
}
