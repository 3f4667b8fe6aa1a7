// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"bytes"
	"errors"
	"testing"
)

// TestGenerateSharedSecret ensures the shared secret is symmetric and agrees
// with crypto/ecdh.
func TestGenerateSharedSecret(t *testing.T) {
	privKey1, err := GeneratePrivateKey()
	if err != nil {
		t.Errorf("private key generation error: %s", err)
		return
	}
	privKey2, err := GeneratePrivateKey()
	if err != nil {
		t.Errorf("private key generation error: %s", err)
		return
	}

	pubKey1 := privKey1.PubKey()
	pubKey2 := privKey2.PubKey()
	secret1, err := GenerateSharedSecret(privKey1, pubKey2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	secret2, err := privKey2.ECDH(pubKey1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(secret1, secret2) {
		t.Errorf("ECDH failed, secrets mismatch - first: %x, second: %x",
			secret1, secret2)
	}
	if len(secret1) != 32 {
		t.Errorf("unexpected secret length %d", len(secret1))
	}

	stdPriv, err := privKey1.ToECDH()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stdPub, err := pubKey2.ToECDH()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := stdPriv.ECDH(stdPub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(secret1, want) {
		t.Errorf("mismatch with crypto/ecdh -- got %x, want %x", secret1, want)
	}
}

// TestSharedSecretKnownKey ensures the secret with the generator as public
// key is the x coordinate of the public key of the private key.
func TestSharedSecretKnownKey(t *testing.T) {
	privKey, _ := ParsePrivKey(hexToBytes(rfc6979Key))
	gen, _ := ParsePubKey(hexToBytes(gCompressedHex))
	secret, err := GenerateSharedSecret(privKey, gen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := hexToBytes("60fed4ba255a9d31c961eb74c6356d68c049b8923b61fa6ce669622e60f29fb6")
	if !bytes.Equal(secret, want) {
		t.Fatalf("mismatched secret -- got %x, want %x", secret, want)
	}
}

// TestSharedSecretInvalidPeer ensures points off the curve are refused before
// any multiplication.  The zero value public key holds (0, 0), which lies on a
// twist where it has order two, so small scalars would leak their parity.
func TestSharedSecretInvalidPeer(t *testing.T) {
	offCurve := hexToBytes(gUncompressedHex)
	offCurve[64]++
	var notOnCurve PublicKey
	notOnCurve.x.SetCanonicalBytes(offCurve[1:33])
	notOnCurve.y.SetCanonicalBytes(offCurve[33:65])

	tests := []struct {
		name string     // test description
		peer *PublicKey // invalid peer key
	}{{
		name: "zero value",
		peer: &PublicKey{},
	}, {
		name: "generator with y+1",
		peer: &notOnCurve,
	}}

	for _, test := range tests {
		for d := uint64(1); d <= 5; d++ {
			var k ModNScalar
			k.SetInt(d)
			priv, err := NewPrivateKey(&k)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			secret, err := GenerateSharedSecret(priv, test.peer)
			if !errors.Is(err, ErrPubKeyNotOnCurve) {
				t.Errorf("%s d=%d: mismatched err -- got %v, want %v", test.name,
					d, err, ErrPubKeyNotOnCurve)
			}
			if secret != nil {
				t.Errorf("%s d=%d: unexpected secret %x", test.name, d, secret)
			}
			if _, err := priv.ECDH(test.peer); !errors.Is(err, ErrPubKeyNotOnCurve) {
				t.Errorf("%s d=%d: mismatched ECDH err -- got %v, want %v",
					test.name, d, err, ErrPubKeyNotOnCurve)
			}
		}

		hash := hexToBytes("af2bdbe1aa9b6ec1e2ade1d694f41fc71a831d0268e9891562113d8a62add1bf")
		var one ModNScalar
		one.SetInt(1)
		sig, _ := NewSignature(&one, &one)
		if sig.Verify(hash, test.peer) {
			t.Errorf("%s: signature verified against invalid key", test.name)
		}
	}

	// A zero private key is refused too.
	gen, _ := ParsePubKey(hexToBytes(gCompressedHex))
	if _, err := GenerateSharedSecret(&PrivateKey{}, gen); !errors.Is(err, ErrPrivKeyOutOfRange) {
		t.Fatalf("mismatched err -- got %v, want %v", err, ErrPrivKeyOutOfRange)
	}
}
