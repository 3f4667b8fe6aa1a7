// Copyright (c) 2020-2022 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"bytes"
	"errors"
	"math/big"
	"math/rand"
	"testing"
	"time"
)

// curveOrder is the group order as a big integer for use as a test oracle.
var curveOrder, _ = new(big.Int).SetString(orderHex, 16)

// hexToModNScalar converts the passed hex string into a ModNScalar and will
// panic if there is an error.  This is only provided for the hard-coded
// constants so errors in the source code can be detected.  It will only (and
// must only) be called with hard-coded values.
func hexToModNScalar(s string) *ModNScalar {
	b := hexToBytes(s)
	var scalar ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow {
		panic("hex in source file overflows mod N scalar: " + s)
	}
	return &scalar
}

// randModNScalar returns a random scalar along with its value as a big
// integer.
func randModNScalar(rng *rand.Rand) (ModNScalar, *big.Int) {
	var buf [32]byte
	rng.Read(buf[:])
	v := new(big.Int).SetBytes(buf[:])
	v.Mod(v, curveOrder)
	var s ModNScalar
	s.SetBytes(bigTo32(v))
	return s, v
}

// scalarToBig returns the canonical value of a scalar as a big integer.
func scalarToBig(s *ModNScalar) *big.Int {
	b := s.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// TestModNScalarSetBytes ensures that setting a scalar to a 256-bit big-endian
// unsigned integer reduces it and reports overflow for edge cases.
func TestModNScalarSetBytes(t *testing.T) {
	tests := []struct {
		name     string // test description
		in       string // hex encoded test value
		expected string // expected canonical hex
		overflow bool   // expected overflow result
	}{{
		name:     "zero",
		in:       "00",
		expected: "0000000000000000000000000000000000000000000000000000000000000000",
		overflow: false,
	}, {
		name:     "group order - 1",
		in:       "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632550",
		expected: "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632550",
		overflow: false,
	}, {
		name:     "group order",
		in:       "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
		expected: "0000000000000000000000000000000000000000000000000000000000000000",
		overflow: true,
	}, {
		name:     "group order + 1",
		in:       "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632552",
		expected: "0000000000000000000000000000000000000000000000000000000000000001",
		overflow: true,
	}, {
		name:     "2^256 - 1",
		in:       "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		expected: "00000000ffffffff00000000000000004319055258e8617b0c46353d039cdaae",
		overflow: true,
	}}

	for _, test := range tests {
		var b32 [32]byte
		inBytes := hexToBytes(test.in)
		copy(b32[32-len(inBytes):], inBytes)

		var s ModNScalar
		overflow := s.SetBytes(&b32) == 1
		if overflow != test.overflow {
			t.Errorf("%s: unexpected overflow -- got: %v, want: %v", test.name,
				overflow, test.overflow)
			continue
		}
		if got := s.String(); got != test.expected {
			t.Errorf("%s: unexpected result\ngot: %s\nwant: %s", test.name,
				got, test.expected)
			continue
		}
	}
}

// TestModNScalarSetCanonicalBytes ensures strict decoding rejects wrong
// lengths and unreduced values.
func TestModNScalarSetCanonicalBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  error
	}{{
		name: "zero",
		in:   "0000000000000000000000000000000000000000000000000000000000000000",
		err:  nil,
	}, {
		name: "order - 1",
		in:   "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632550",
		err:  nil,
	}, {
		name: "order",
		in:   "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
		err:  ErrScalarOverflow,
	}, {
		name: "31 bytes",
		in:   "00000000000000000000000000000000000000000000000000000000000001",
		err:  ErrScalarInvalidLen,
	}, {
		name: "33 bytes",
		in:   "000000000000000000000000000000000000000000000000000000000000000001",
		err:  ErrScalarInvalidLen,
	}}

	for _, test := range tests {
		var s ModNScalar
		err := s.SetCanonicalBytes(hexToBytes(test.in))
		if !errors.Is(err, test.err) {
			t.Errorf("%s: mismatched err -- got %v, want %v", test.name, err,
				test.err)
			continue
		}
		if err != nil {
			continue
		}
		if got := s.Bytes(); !bytes.Equal(got[:], hexToBytes(test.in)) {
			t.Errorf("%s: round trip mismatch: got %x", test.name, got)
		}
	}
}

// TestModNScalarSetByteSlice ensures digests longer than 32 bytes are
// truncated to their leftmost 256 bits and shorter ones are left-padded.
func TestModNScalarSetByteSlice(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
		overflow bool
	}{{
		name:     "short",
		in:       "0102",
		expected: "0000000000000000000000000000000000000000000000000000000000000102",
	}, {
		name: "48 bytes truncated",
		in: "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20" +
			"ffffffffffffffffffffffffffffffff",
		expected: "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20",
	}, {
		name: "64 bytes truncated with overflow",
		in: "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632552" +
			"0000000000000000000000000000000000000000000000000000000000000000",
		expected: "0000000000000000000000000000000000000000000000000000000000000001",
		overflow: true,
	}}

	for _, test := range tests {
		var s ModNScalar
		overflow := s.SetByteSlice(hexToBytes(test.in))
		if overflow != test.overflow {
			t.Errorf("%s: unexpected overflow -- got %v, want %v", test.name,
				overflow, test.overflow)
			continue
		}
		if got := s.String(); got != test.expected {
			t.Errorf("%s: unexpected result\ngot: %s\nwant: %s", test.name,
				got, test.expected)
		}
	}
}

// TestModNScalarArithmeticRandom checks the scalar arithmetic against
// math/big for random values.
func TestModNScalarArithmeticRandom(t *testing.T) {
	seed := time.Now().Unix()
	rng := rand.New(rand.NewSource(seed))
	one := new(ModNScalar).SetInt(1)
	for i := 0; i < 500; i++ {
		a, aBig := randModNScalar(rng)
		b, bBig := randModNScalar(rng)

		var sum, diff, prod, sq, neg ModNScalar
		sum.Add2(&a, &b)
		diff.Sub2(&a, &b)
		prod.Mul2(&a, &b)
		sq.SquareVal(&a)
		neg.NegateVal(&a)

		check := func(op string, got *ModNScalar, want *big.Int) {
			t.Helper()
			if scalarToBig(got).Cmp(want) != 0 {
				t.Fatalf("%s mismatch (seed %d)\na: %x\nb: %x\ngot: %v\nwant: %x",
					op, seed, aBig, bBig, got, want)
			}
		}
		check("add", &sum, new(big.Int).Mod(new(big.Int).Add(aBig, bBig), curveOrder))
		check("sub", &diff, new(big.Int).Mod(new(big.Int).Sub(aBig, bBig), curveOrder))
		check("mul", &prod, new(big.Int).Mod(new(big.Int).Mul(aBig, bBig), curveOrder))
		check("square", &sq, new(big.Int).Mod(new(big.Int).Mul(aBig, aBig), curveOrder))
		check("negate", &neg, new(big.Int).Mod(new(big.Int).Neg(aBig), curveOrder))

		if !a.IsZero() {
			var inv ModNScalar
			inv.InverseVal(&a).Mul(&a)
			if !inv.Equals(one) {
				t.Fatalf("a*a^-1 != 1 (seed %d): a = %v", seed, a)
			}
		}

		halfBig := new(big.Int).Rsh(curveOrder, 1)
		if got, want := a.IsOverHalfOrder(), aBig.Cmp(halfBig) > 0; got != want {
			t.Fatalf("IsOverHalfOrder mismatch for %v: got %v, want %v", a,
				got, want)
		}
		if got, want := a.IsOdd(), aBig.Bit(0) == 1; got != want {
			t.Fatalf("IsOdd mismatch for %v: got %v, want %v", a, got, want)
		}
	}
}

// TestModNScalarIsOverHalfOrder checks the low-s boundary exactly.
func TestModNScalarIsOverHalfOrder(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"zero", "00", false},
		{"half order", "7fffffff800000007fffffffffffffffde737d56d38bcf4279dce5617e3192a8", false},
		{"half order + 1", "7fffffff800000007fffffffffffffffde737d56d38bcf4279dce5617e3192a9", true},
		{"order - 1", "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632550", true},
	}
	for _, test := range tests {
		s := hexToModNScalar(test.in)
		if got := s.IsOverHalfOrder(); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

// TestModNScalarSetBytesWide ensures the 512-bit reduction matches math/big.
func TestModNScalarSetBytesWide(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		var b [64]byte
		rng.Read(b[:])
		var s ModNScalar
		s.SetBytesWide(&b)
		want := new(big.Int).SetBytes(b[:])
		want.Mod(want, curveOrder)
		if scalarToBig(&s).Cmp(want) != 0 {
			t.Fatalf("#%d: wide reduction mismatch: got %v, want %x", i, s, want)
		}
	}
}

// TestScalarRecoding ensures both the fixed window and the non-adjacent form
// recodings reconstruct the original scalar.
func TestScalarRecoding(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	scalars := []*ModNScalar{
		new(ModNScalar),
		new(ModNScalar).SetInt(1),
		new(ModNScalar).SetInt(15),
		new(ModNScalar).SetInt(16),
		hexToModNScalar("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632550"),
	}
	for i := 0; i < 100; i++ {
		s, _ := randModNScalar(rng)
		scalars = append(scalars, &s)
	}

	for i, s := range scalars {
		want := scalarToBig(s)

		windows := s.windows4()
		got := new(big.Int)
		for j := len(windows) - 1; j >= 0; j-- {
			got.Lsh(got, 4)
			got.Add(got, big.NewInt(int64(windows[j])))
		}
		if got.Cmp(want) != 0 {
			t.Fatalf("#%d: windows4 reconstructs %x, want %x", i, got, want)
		}

		naf := s.nafVartime(nafWidth)
		got.SetInt64(0)
		lastNonZero := -nafWidth
		for j := len(naf) - 1; j >= 0; j-- {
			got.Lsh(got, 1)
			got.Add(got, big.NewInt(int64(naf[j])))
		}
		for j, d := range naf {
			if d == 0 {
				continue
			}
			if d%2 == 0 || d >= 1<<(nafWidth-1) || d <= -(1<<(nafWidth-1)) {
				t.Fatalf("#%d: invalid digit %d at %d", i, d, j)
			}
			if j-lastNonZero < nafWidth {
				t.Fatalf("#%d: nonzero digits too close at %d", i, j)
			}
			lastNonZero = j
		}
		if got.Cmp(want) != 0 {
			t.Fatalf("#%d: naf reconstructs %x, want %x", i, got, want)
		}
	}
}

// BenchmarkModNScalarMul benchmarks multiplying two scalars.
func BenchmarkModNScalarMul(b *testing.B) {
	s1 := hexToModNScalar("c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721")
	s2 := hexToModNScalar("a6e3c57dd01abe90086538398355dd4c3b17aa873382b0f24d6129493d8aad60")
	var r ModNScalar
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Mul2(s1, s2)
	}
}

// BenchmarkModNScalarInverse benchmarks inverting a scalar.
func BenchmarkModNScalarInverse(b *testing.B) {
	s := hexToModNScalar("c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var r ModNScalar
		r.InverseVal(s)
	}
}
