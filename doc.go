// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package p256 implements optimized NIST P-256 elliptic curve operations in pure
Go.

This package provides a pure Go implementation of elliptic curve cryptography
operations over the P-256 curve, also known as secp256r1 and prime256v1, as
well as data structures and functions for working with public and private
P-256 keys.  See https://www.secg.org/sec2-v2.pdf for details on the standard.

An overview of the features provided by this package are as follows:

  - Private key generation, serialization, and parsing
  - Public key generation, serialization and parsing per ANSI X9.62-1998
  - Parses uncompressed and compressed public keys
  - Specialized types for performing constant time field operations
  - FieldVal type for working modulo the P-256 field prime
  - ModNScalar type for working modulo the P-256 group order
  - Elliptic curve operations in Jacobian projective coordinates
  - Constant time scalar multiplication with an arbitrary point and with the
    base point (group generator), plus variable time routines for public
    values
  - Point decompression from a given x coordinate
  - Hashing arbitrary messages to the curve per RFC 9380
  - Elliptic curve Diffie-Hellman key agreement

Field values and scalars are held in Montgomery form using four 64-bit words
and are always fully reduced.  Every operation on secret data executes the
same sequence of instructions and memory accesses regardless of the values
involved.  Routines whose names end in NonConst are the exception and must
only be used with public data.

This package also provides data structures and functions necessary to produce
and verify deterministic signatures in accordance with RFC6979 using the
Elliptic Curve Digital Signature Algorithm (ECDSA), as defined in FIPS 186-4,
as well as signatures with random nonces.  Low-s normalization is available
for interoperability profiles that demand it.

It also provides functions to parse and serialize the ECDSA signatures with the
more strict Distinguished Encoding Rules (DER) of ISO/IEC 8825-1, the 64-byte
fixed-width r || s format used by JOSE and WebAuthn, and a "compact" signature
format which allows efficient recovery of the public key from a given valid
signature and message hash combination.

Keys convert to and from the crypto/ecdsa and crypto/ecdh types of the
standard library, and PrivateKey implements crypto.Signer.

The oprf sub package implements an oblivious pseudorandom function on top of
this package, ecckd implements hierarchical deterministic key derivation and
jwk implements JSON Web Key encoding.
*/
package p256
