// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"crypto/hmac"
	"crypto/sha256"
	"hash"
)

// References:
//   [RFC6979]: Deterministic Usage of the Digital Signature Algorithm (DSA)
//     and Elliptic Curve Digital Signature Algorithm (ECDSA)
//     https://www.rfc-editor.org/rfc/rfc6979

var (
	// singleZero is used during RFC6979 nonce generation.  It is provided
	// here to avoid the need to create it multiple times.
	singleZero = []byte{0x00}

	// singleOne is used during RFC6979 nonce generation.  It is provided here
	// to avoid the need to create it multiple times.
	singleOne = []byte{0x01}

	// oneInitializer is used during RFC6979 nonce generation.  It is provided
	// here to avoid the need to create it multiple times.
	oneInitializer = []byte{
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	}
)

// hmacDRBG is the HMAC-SHA256 state used by RFC6979 section 3.2.
type hmacDRBG struct {
	k, v [sha256.Size]byte
	mac  hash.Hash
}

// rekey replaces K with HMAC_K(data...) and refreshes the MAC instance.
func (d *hmacDRBG) rekey(data ...[]byte) {
	d.mac.Reset()
	for _, b := range data {
		d.mac.Write(b)
	}
	d.mac.Sum(d.k[:0])
	d.mac = hmac.New(sha256.New, d.k[:])
}

// next replaces V with HMAC_K(V).
func (d *hmacDRBG) next() {
	d.mac.Reset()
	d.mac.Write(d.v[:])
	d.mac.Sum(d.v[:0])
}

// NonceRFC6979 generates a nonce deterministically according to RFC 6979
// using HMAC-SHA256 for the hashing function.  It takes a 32-byte hash as an
// input and returns a 32-byte nonce to be used for deterministic signing.
// The extra and version arguments are optional, but allow additional data to
// be added to the input of the HMAC.  When provided, the extra data must be
// 32-bytes and version must be 16 bytes or they will be ignored.
//
// Finally, the extraIterations parameter provides a method to produce a
// stream of deterministic nonces to ensure the signing code is able to
// produce a nonce that results in a valid signature in the extremely unlikely
// event the original nonce produced results in an invalid signature (e.g. R
// == 0).  Signing code should start with 0 and increment it if necessary.
// Candidates outside [1, n-1] are skipped per section 3.2 step h.3 and do
// not count as iterations.
func NonceRFC6979(privKey []byte, hash []byte, extra []byte, version []byte,
	extraIterations uint32) *ModNScalar {

	// Input to HMAC is the 32-byte private key and the 32-byte hash.  In
	// addition, it may include the optional 32-byte extra data and 16-byte
	// version.  Create a fixed-size array to avoid extra allocs and slice it
	// properly.
	const (
		privKeyLen = 32
		hashLen    = 32
		extraLen   = 32
		versionLen = 16
	)
	var keyBuf [privKeyLen + hashLen + extraLen + versionLen]byte

	// Truncate rightmost bytes of private key and hash if they are too long
	// and leave left padding of zeros when they're too short.
	if len(privKey) > privKeyLen {
		privKey = privKey[:privKeyLen]
	}
	if len(hash) > hashLen {
		hash = hash[:hashLen]
	}
	offset := privKeyLen - len(privKey) // Zero left padding if needed.
	offset += copy(keyBuf[offset:], privKey)

	// The hash is converted with bits2octets, meaning it is reduced modulo
	// the group order.
	var hashScalar ModNScalar
	hashScalar.SetByteSlice(hash)
	hashScalar.PutBytesUnchecked(keyBuf[offset:])
	offset += hashLen
	if len(extra) == extraLen {
		offset += copy(keyBuf[offset:], extra)
		if len(version) == versionLen {
			offset += copy(keyBuf[offset:], version)
		}
	} else if len(version) == versionLen {
		// When the version was specified, but not the extra data, leave the
		// extra data portion all zero.
		offset += privKeyLen
		offset += copy(keyBuf[offset:], version)
	}
	key := keyBuf[:offset]

	// Step B.
	//
	// V = 0x01 0x01 0x01 ... 0x01 such that the length of V, in bits, is
	// equal to 8*ceil(hashLen/8).
	//
	// Step C.
	//
	// K = 0x00 0x00 0x00 ... 0x00 such that the length of K, in bits, is
	// equal to 8*ceil(hashLen/8).
	var d hmacDRBG
	copy(d.v[:], oneInitializer)
	d.mac = hmac.New(sha256.New, d.k[:])

	// Steps D through G.
	//
	// K = HMAC_K(V || 0x00 || int2octets(x) || bits2octets(h1))
	// V = HMAC_K(V)
	// K = HMAC_K(V || 0x01 || int2octets(x) || bits2octets(h1))
	// V = HMAC_K(V)
	d.rekey(d.v[:], singleZero, key)
	d.next()
	d.rekey(d.v[:], singleOne, key)
	d.next()

	// Step H.
	var generated uint32
	for {
		// Step H1 and H2.
		//
		// The length of V is the same as the order, so a single HMAC
		// yields exactly qlen bits.
		d.next()

		// Step H3.
		//
		// k = bits2int(T)
		// If k is within the range [1,q-1], return it.
		//
		// Otherwise, compute:
		// K = HMAC_K(V || 0x00)
		// V = HMAC_K(V)
		var secret ModNScalar
		overflow := secret.SetBytes(&d.v)
		if overflow == 0 && !secret.IsZero() {
			generated++
			if generated > extraIterations {
				zeroArray32(&d.k)
				zeroArray32(&d.v)
				for i := range keyBuf {
					keyBuf[i] = 0
				}
				return &secret
			}
		}

		d.rekey(d.v[:], singleZero)
		d.next()
	}
}
