// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

const (
	// gCompressedHex and gUncompressedHex are the serializations of the
	// generator, the public key for the private key 1.
	gCompressedHex   = "036b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"
	gUncompressedHex = "046b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296" +
		"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5"
)

// TestParsePubKey ensures that public keys are properly parsed according
// to SEC1 including both the positive and negative cases.
func TestParsePubKey(t *testing.T) {
	tests := []struct {
		name  string // test description
		key   string // hex encoded public key
		err   error  // expected error
		wantX string // expected x coordinate
		wantY string // expected y coordinate
	}{{
		name:  "uncompressed ok",
		key:   gUncompressedHex,
		err:   nil,
		wantX: "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		wantY: "4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
	}, {
		name:  "compressed ok (odd y)",
		key:   gCompressedHex,
		err:   nil,
		wantX: "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		wantY: "4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
	}, {
		name:  "compressed ok (even y)",
		key:   "026b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		err:   nil,
		wantX: "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		wantY: "b01cbd1c01e58065711814b583f061e9d431cca994cea1313449bf97c840ae0a",
	}, {
		name: "uncompressed x changed (not on curve)",
		key: "046b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c297" +
			"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		err: ErrPubKeyNotOnCurve,
	}, {
		name: "uncompressed y changed (not on curve)",
		key: "046b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296" +
			"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f4",
		err: ErrPubKeyNotOnCurve,
	}, {
		name: "uncompressed x == p",
		key: "04ffffffff00000001000000000000000000000000ffffffffffffffffffffffff" +
			"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		err: ErrPubKeyXTooBig,
	}, {
		name: "uncompressed y == p",
		key: "046b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296" +
			"ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
		err: ErrPubKeyYTooBig,
	}, {
		name: "uncompressed x == p + 1 (non-canonical)",
		key: "04ffffffff00000001000000000000000000000001000000000000000000000000" +
			"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		err: ErrPubKeyXTooBig,
	}, {
		name: "compressed x == p",
		key:  "03ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
		err:  ErrPubKeyXTooBig,
	}, {
		name: "compressed x not on curve",
		key:  "030000000000000000000000000000000000000000000000000000000000000001",
		err:  ErrPubKeyNotOnCurve,
	}, {
		name: "hybrid odd format rejected",
		key: "076b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296" +
			"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		err: ErrPubKeyInvalidFormat,
	}, {
		name: "uncompressed with compressed prefix",
		key: "036b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296" +
			"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		err: ErrPubKeyInvalidFormat,
	}, {
		name: "compressed with uncompressed prefix",
		key:  "046b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		err:  ErrPubKeyInvalidFormat,
	}, {
		name: "point at infinity",
		key:  "00",
		err:  ErrPubKeyIsIdentity,
	}, {
		name: "empty",
		key:  "",
		err:  ErrPubKeyInvalidLen,
	}, {
		name: "single non-identity byte",
		key:  "04",
		err:  ErrPubKeyInvalidLen,
	}, {
		name: "compressed truncated",
		key:  "036b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c2",
		err:  ErrPubKeyInvalidLen,
	}, {
		name: "uncompressed too long",
		key:  gUncompressedHex + "00",
		err:  ErrPubKeyInvalidLen,
	}}

	for _, test := range tests {
		pubKeyBytes := hexToBytes(test.key)
		pubKey, err := ParsePubKey(pubKeyBytes)
		if !errors.Is(err, test.err) {
			t.Errorf("%s mismatched err -- got %v, want %v", test.name, err,
				test.err)
			continue
		}
		if err != nil {
			var kerr Error
			if !errors.As(err, &kerr) {
				t.Errorf("%s: error is not an Error: %T", test.name, err)
			}
			continue
		}

		// Ensure the x and y coordinates match the expected values upon
		// success.
		wantX, wantY := hexToFieldVal(test.wantX), hexToFieldVal(test.wantY)
		x, y := pubKey.X(), pubKey.Y()
		if !x.Equals(&wantX) {
			t.Errorf("%s: mismatched x coordinate -- got %v, want %v",
				test.name, x, wantX)
			continue
		}
		if !y.Equals(&wantY) {
			t.Errorf("%s: mismatched y coordinate -- got %v, want %v",
				test.name, y, wantY)
			continue
		}
	}
}

// TestPubKeySerialize ensures that serializing public keys works as expected
// for both the compressed and uncompressed formats and round trips through
// the parser.
func TestPubKeySerialize(t *testing.T) {
	pub, err := ParsePubKey(hexToBytes(gUncompressedHex))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pub.SerializeCompressed(); !bytes.Equal(got, hexToBytes(gCompressedHex)) {
		t.Fatalf("mismatched compressed serialization -- got %x, want %s",
			got, gCompressedHex)
	}
	if got := pub.SerializeUncompressed(); !bytes.Equal(got, hexToBytes(gUncompressedHex)) {
		t.Fatalf("mismatched uncompressed serialization -- got %x, want %s",
			got, gUncompressedHex)
	}

	// decode(encode(P)) = P for a key with an even y coordinate too.
	var neg JacobianPoint
	g := jacobianG()
	neg.NegateVal(&g)
	var negAffine AffinePoint
	neg.ToAffine(&negAffine)
	negPub := newPublicKeyUnchecked(&negAffine)
	for _, ser := range [][]byte{negPub.SerializeCompressed(), negPub.SerializeUncompressed()} {
		parsed, err := ParsePubKey(ser)
		if err != nil {
			t.Fatalf("unexpected error parsing %x: %v", ser, err)
		}
		if !parsed.IsEqual(negPub) {
			t.Fatalf("round trip mismatch for %x: %v", ser, spew.Sdump(parsed))
		}
	}
	if negPub.SerializeCompressed()[0] != PubKeyFormatCompressedEven {
		t.Fatal("-G did not serialize with the even prefix")
	}
}

// TestNewPublicKey ensures coordinates off the curve are rejected.
func TestNewPublicKey(t *testing.T) {
	if _, err := NewPublicKey(&generatorX, &generatorY); err != nil {
		t.Fatalf("unexpected error for generator: %v", err)
	}
	badY := generatorY
	badY.AddInt(1)
	if _, err := NewPublicKey(&generatorX, &badY); !errors.Is(err, ErrPubKeyNotOnCurve) {
		t.Fatalf("mismatched err -- got %v, want %v", err, ErrPubKeyNotOnCurve)
	}
}

// TestPubKeyIsEqual ensures that equality testing between two public keys
// works as expected.
func TestPubKeyIsEqual(t *testing.T) {
	pub1, _ := ParsePubKey(hexToBytes(gCompressedHex))
	pub2, _ := ParsePubKey(hexToBytes(gUncompressedHex))
	pub3, _ := ParsePubKey(hexToBytes("026b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"))
	if !pub1.IsEqual(pub2) {
		t.Fatalf("value of IsEqual is incorrect, %v is equal to %v", pub1, pub2)
	}
	if pub1.IsEqual(pub3) {
		t.Fatalf("value of IsEqual is incorrect, %v is not equal to %v", pub1,
			pub3)
	}
}

// TestPubKeyStdlib ensures public keys convert to and from the standard
// library types.
func TestPubKeyStdlib(t *testing.T) {
	pub, _ := ParsePubKey(hexToBytes(gCompressedHex))

	ecdsaPub := pub.ToECDSA()
	if ecdsaPub.X.Cmp(elliptic.P256().Params().Gx) != 0 ||
		ecdsaPub.Y.Cmp(elliptic.P256().Params().Gy) != 0 {
		t.Fatalf("mismatched ecdsa key: %v", spew.Sdump(ecdsaPub))
	}
	back, err := PubKeyFromECDSA(ecdsaPub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.IsEqual(pub) {
		t.Fatal("ecdsa round trip mismatch")
	}

	ecdhPub, err := pub.ToECDH()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(ecdhPub.Bytes(), pub.SerializeUncompressed()) {
		t.Fatal("ecdh key mismatch")
	}

	// Keys on other curves are refused.
	other := &ecdsa.PublicKey{
		Curve: elliptic.P384(),
		X:     elliptic.P384().Params().Gx,
		Y:     elliptic.P384().Params().Gy,
	}
	if _, err := PubKeyFromECDSA(other); !errors.Is(err, ErrPubKeyWrongCurve) {
		t.Fatalf("mismatched err -- got %v, want %v", err, ErrPubKeyWrongCurve)
	}

	// Coordinates are validated like any untrusted key.
	offCurve := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).Set(elliptic.P256().Params().Gx),
		Y:     new(big.Int).Add(elliptic.P256().Params().Gy, big.NewInt(1)),
	}
	if _, err := PubKeyFromECDSA(offCurve); !errors.Is(err, ErrPubKeyNotOnCurve) {
		t.Fatalf("mismatched err -- got %v, want %v", err, ErrPubKeyNotOnCurve)
	}

	// Missing coordinates are an error rather than a panic.
	for _, key := range []*ecdsa.PublicKey{
		{Curve: elliptic.P256()},
		{Curve: elliptic.P256(), X: elliptic.P256().Params().Gx},
		{Curve: elliptic.P256(), Y: elliptic.P256().Params().Gy},
	} {
		if _, err := PubKeyFromECDSA(key); !errors.Is(err, ErrPubKeyNotOnCurve) {
			t.Fatalf("mismatched err -- got %v, want %v", err, ErrPubKeyNotOnCurve)
		}
	}
}

// BenchmarkParsePubKeyCompressed benchmarks how long it takes to decompress
// and validate a compressed public key.
func BenchmarkParsePubKeyCompressed(b *testing.B) {
	pkBytes := hexToBytes(gCompressedHex)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ParsePubKey(pkBytes)
	}
}
