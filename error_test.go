// Copyright (c) 2020 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	cryptorand "crypto/rand"
	"crypto/sha256"
	"errors"
	"testing"
)

// TestErrorKindStringer tests the stringized output for the ErrorKind type.
func TestErrorKindStringer(t *testing.T) {
	tests := []struct {
		in   ErrorKind
		want string
	}{
		{ErrFieldOverflow, "ErrFieldOverflow"},
		{ErrPrivKeyOutOfRange, "ErrPrivKeyOutOfRange"},
		{ErrPrivKeyWrongCurve, "ErrPrivKeyWrongCurve"},
		{ErrPubKeyNotOnCurve, "ErrPubKeyNotOnCurve"},
		{ErrSigTooShort, "ErrSigTooShort"},
		{ErrDSTEmpty, "ErrDSTEmpty"},
		{ErrSharedSecretIdentity, "ErrSharedSecretIdentity"},
	}

	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("#%d: got: %s want: %s", i, result, test.want)
			continue
		}
	}
}

// TestOperationErrorKinds ensures failing operations report their failure
// with the expected error kind, identifiable through errors.Is and errors.As,
// along with a description.
func TestOperationErrorKinds(t *testing.T) {
	priv, _ := ParsePrivKey(hexToBytes(rfc6979Key))
	p384, err := ecdsa.GenerateKey(elliptic.P384(), cryptorand.Reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prime := hexToBytes("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff")

	tests := []struct {
		name string       // test description
		op   func() error // operation expected to fail
		want ErrorKind    // expected error kind
	}{{
		name: "public key with bad length",
		op: func() error {
			_, err := ParsePubKey(hexToBytes(gCompressedHex)[:32])
			return err
		},
		want: ErrPubKeyInvalidLen,
	}, {
		name: "public key with unknown format",
		op: func() error {
			b := hexToBytes(gCompressedHex)
			b[0] = 0x05
			_, err := ParsePubKey(b)
			return err
		},
		want: ErrPubKeyInvalidFormat,
	}, {
		name: "field value with bad length",
		op: func() error {
			var f FieldVal
			return f.SetCanonicalBytes(prime[:31])
		},
		want: ErrFieldInvalidLen,
	}, {
		name: "field value equal to the prime",
		op: func() error {
			var f FieldVal
			return f.SetCanonicalBytes(prime)
		},
		want: ErrFieldOverflow,
	}, {
		name: "truncated DER signature",
		op: func() error {
			_, err := ParseDERSignature(hexToBytes("3000"))
			return err
		},
		want: ErrSigTooShort,
	}, {
		name: "DER signature with wrong sequence id",
		op: func() error {
			_, err := ParseDERSignature(hexToBytes("3106020101020101"))
			return err
		},
		want: ErrSigInvalidSeqID,
	}, {
		name: "expand with empty tag",
		op: func() error {
			_, err := ExpandMessageXMD(sha256.New, []byte("abc"), nil, 32)
			return err
		},
		want: ErrDSTEmpty,
	}, {
		name: "shared secret with zero value peer",
		op: func() error {
			_, err := GenerateSharedSecret(priv, &PublicKey{})
			return err
		},
		want: ErrPubKeyNotOnCurve,
	}, {
		name: "zero private key",
		op: func() error {
			_, err := NewPrivateKey(new(ModNScalar))
			return err
		},
		want: ErrPrivKeyOutOfRange,
	}, {
		name: "private key on another curve",
		op: func() error {
			_, err := PrivKeyFromECDSA(p384)
			return err
		},
		want: ErrPrivKeyWrongCurve,
	}}

	for _, test := range tests {
		err := test.op()
		if !errors.Is(err, test.want) {
			t.Errorf("%s: mismatched err -- got %v, want %v", test.name, err,
				test.want)
			continue
		}

		var kind ErrorKind
		if !errors.As(err, &kind) || kind != test.want {
			t.Errorf("%s: unexpected unwrapped kind -- got %v, want %v",
				test.name, kind, test.want)
			continue
		}

		var e Error
		if !errors.As(err, &e) {
			t.Errorf("%s: error is not an Error", test.name)
			continue
		}
		if e.Description == "" || e.Error() != e.Description {
			t.Errorf("%s: unexpected description %q", test.name, e.Description)
		}
		if errors.Is(err, ErrSharedSecretIdentity) {
			t.Errorf("%s: matched unrelated kind", test.name)
		}
	}
}
