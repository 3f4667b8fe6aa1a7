// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

// TestNonceRFC6979 ensures that the deterministic nonces generated by
// NonceRFC6979 produces the expected nonces, including things such as when
// providing extra data and version information, short hashes, and multiple
// iterations.
func TestNonceRFC6979(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		hash       string
		extraData  string
		version    string
		iterations uint32
		expected   string
	}{{
		name:     "RFC6979 A.2.5 SHA-256 sample",
		key:      "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721",
		hash:     "af2bdbe1aa9b6ec1e2ade1d694f41fc71a831d0268e9891562113d8a62add1bf",
		expected: "a6e3c57dd01abe90086538398355dd4c3b17aa873382b0f24d6129493d8aad60",
	}, {
		name:     "RFC6979 A.2.5 SHA-256 test",
		key:      "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721",
		hash:     "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		expected: "d16b6ae827f17175e040871a1c7ec3500192c4c92677336ec2537acaee0008e0",
	}, {
		name:       "sample, one extra iteration",
		key:        "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721",
		hash:       "af2bdbe1aa9b6ec1e2ade1d694f41fc71a831d0268e9891562113d8a62add1bf",
		iterations: 1,
		expected:   "8e83dc490bc5fc4d5992bd63cd87f254adffcb930f8a8011702a88870f638fdb",
	}, {
		name:      "sample with 32-byte extra data",
		key:       "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721",
		hash:      "af2bdbe1aa9b6ec1e2ade1d694f41fc71a831d0268e9891562113d8a62add1bf",
		extraData: "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		expected:  "e7eb519fdfdf2373299ac1322cff7b26e78d5041e24740b2e2ecd18d01b56ebf",
	}, {
		name:      "sample with extra data and version",
		key:       "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721",
		hash:      "af2bdbe1aa9b6ec1e2ade1d694f41fc71a831d0268e9891562113d8a62add1bf",
		extraData: "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		version:   "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		expected:  "038d5316718930f721a415f5c43749898196949b7158f264121a74625d262d32",
	}, {
		name:     "sample with version only",
		key:      "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721",
		hash:     "af2bdbe1aa9b6ec1e2ade1d694f41fc71a831d0268e9891562113d8a62add1bf",
		version:  "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		expected: "d148b92148a7086a469a8b907c3465a3608831c30b1468630c33d581e7910ba5",
	}, {
		name:      "extra data of the wrong length is ignored",
		key:       "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721",
		hash:      "af2bdbe1aa9b6ec1e2ade1d694f41fc71a831d0268e9891562113d8a62add1bf",
		extraData: "0001020304",
		expected:  "a6e3c57dd01abe90086538398355dd4c3b17aa873382b0f24d6129493d8aad60",
	}}

	for _, test := range tests {
		privKey := hexToBytes(test.key)
		hash := hexToBytes(test.hash)
		extraData := hexToBytes(test.extraData)
		version := hexToBytes(test.version)
		wantNonce := hexToBytes(test.expected)

		// Ensure deterministically generated nonce is the expected value.
		gotNonce := NonceRFC6979(privKey, hash, extraData, version,
			test.iterations).Bytes()
		if !bytes.Equal(gotNonce[:], wantNonce) {
			t.Errorf("%s: unexpected nonce -- got %x, want %x", test.name,
				gotNonce, wantNonce)
			continue
		}
	}
}

// TestNonceRFC6979Distinct ensures consecutive iterations produce a stream of
// distinct nonces that are all in range.
func TestNonceRFC6979Distinct(t *testing.T) {
	key := hexToBytes("c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721")
	hash := sha256.Sum256([]byte("distinct"))
	seen := make(map[[32]byte]struct{})
	for i := uint32(0); i < 16; i++ {
		k := NonceRFC6979(key, hash[:], nil, nil, i)
		if k.IsZero() {
			t.Fatalf("iteration %d: zero nonce", i)
		}
		b := k.Bytes()
		if _, ok := seen[b]; ok {
			t.Fatalf("iteration %d: repeated nonce %x", i, b)
		}
		seen[b] = struct{}{}
	}
}

// BenchmarkNonceRFC6979 benchmarks how long it takes to generate a
// deterministic nonce according to RFC6979.
func BenchmarkNonceRFC6979(b *testing.B) {
	// Randomly generated keypair.
	privKey := hexToBytes("c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721")
	msgHash := hexToBytes("af2bdbe1aa9b6ec1e2ade1d694f41fc71a831d0268e9891562113d8a62add1bf")

	b.ReportAllocs()
	b.ResetTimer()
	var noElideNonce *ModNScalar
	for i := 0; i < b.N; i++ {
		noElideNonce = NonceRFC6979(privKey, msgHash, nil, nil, 0)
	}
	_ = noElideNonce
}
