// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"encoding/binary"
	"math/bits"
)

// Both the field prime p and the group order n are 256-bit primes greater
// than 2^255, so field values and scalars share one representation: four
// little-endian 64-bit words holding the value in Montgomery form, x*R mod m
// where R = 2^256.
//
// Every routine in this file runs in time independent of the word values.
// There are no branches or memory accesses that depend on them, and
// conditional behavior is expressed through all-ones/all-zeros masks.

// montModulus houses a 256-bit odd modulus along with the constants needed to
// perform Montgomery arithmetic with it.  Instances are created once at
// package initialization and never modified afterwards.
type montModulus struct {
	// m is the modulus itself.
	m [4]uint64

	// m0inv is -m^-1 mod 2^64.
	m0inv uint64

	// one is R mod m, the Montgomery form of 1.
	one [4]uint64

	// rr is R^2 mod m and is used to convert into the Montgomery domain.
	rr [4]uint64

	// rrr is R^3 mod m and is used when reducing 512-bit values.
	rrr [4]uint64
}

// newMontModulus derives the Montgomery constants for the provided big-endian
// hex-encoded modulus.  It is only called for package-level constants.
func newMontModulus(hexModulus string) *montModulus {
	var md montModulus
	b := hexToBytes32(hexModulus)
	bytesToLimbs(&md.m, &b)

	// Newton iteration doubles the number of correct low bits of the
	// inverse each step.  Any odd number is its own inverse mod 8, so five
	// steps give 96 > 64 bits.
	inv := md.m[0]
	for i := 0; i < 5; i++ {
		inv *= 2 - md.m[0]*inv
	}
	md.m0inv = -inv

	// R mod m = 2^256 - m since m > 2^255.
	var borrow uint64
	md.one[0], borrow = bits.Sub64(0, md.m[0], 0)
	md.one[1], borrow = bits.Sub64(0, md.m[1], borrow)
	md.one[2], borrow = bits.Sub64(0, md.m[2], borrow)
	md.one[3], _ = bits.Sub64(0, md.m[3], borrow)

	// R^2 mod m by doubling R mod m another 256 times.
	md.rr = md.one
	for i := 0; i < 256; i++ {
		modAdd(&md.rr, &md.rr, &md.rr, &md.m)
	}
	montMul(&md.rrr, &md.rr, &md.rr, &md)
	return &md
}

// montMul sets z = x*y*R^-1 mod m.  One of the operands must be less than m
// while the other may be any 256-bit value, which guarantees the intermediate
// result stays below 2m before the final conditional subtraction.
func montMul(z, x, y *[4]uint64, md *montModulus) {
	var t [6]uint64
	for i := 0; i < 4; i++ {
		// t += x * y[i]
		var c, hi, lo, cc uint64
		for j := 0; j < 4; j++ {
			hi, lo = bits.Mul64(x[j], y[i])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j] = lo
			c = hi
		}
		t[4], cc = bits.Add64(t[4], c, 0)
		t[5] = cc

		// t = (t + q*m) / 2^64 where q makes the low word vanish.
		q := t[0] * md.m0inv
		hi, lo = bits.Mul64(q, md.m[0])
		_, cc = bits.Add64(lo, t[0], 0)
		c = hi + cc
		for j := 1; j < 4; j++ {
			hi, lo = bits.Mul64(q, md.m[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1] = lo
			c = hi
		}
		t[3], cc = bits.Add64(t[4], c, 0)
		t[4] = t[5] + cc
	}

	var r [4]uint64
	var borrow uint64
	r[0], borrow = bits.Sub64(t[0], md.m[0], 0)
	r[1], borrow = bits.Sub64(t[1], md.m[1], borrow)
	r[2], borrow = bits.Sub64(t[2], md.m[2], borrow)
	r[3], borrow = bits.Sub64(t[3], md.m[3], borrow)
	_, borrow = bits.Sub64(t[4], 0, borrow)

	// A final borrow means t < m already.
	keep := -borrow
	z[0] = t[0]&keep | r[0]&^keep
	z[1] = t[1]&keep | r[1]&^keep
	z[2] = t[2]&keep | r[2]&^keep
	z[3] = t[3]&keep | r[3]&^keep
}

// modAdd sets z = x + y mod m for x, y < m.
func modAdd(z, x, y, m *[4]uint64) {
	var t, r [4]uint64
	var carry, borrow uint64
	t[0], carry = bits.Add64(x[0], y[0], 0)
	t[1], carry = bits.Add64(x[1], y[1], carry)
	t[2], carry = bits.Add64(x[2], y[2], carry)
	t[3], carry = bits.Add64(x[3], y[3], carry)

	r[0], borrow = bits.Sub64(t[0], m[0], 0)
	r[1], borrow = bits.Sub64(t[1], m[1], borrow)
	r[2], borrow = bits.Sub64(t[2], m[2], borrow)
	r[3], borrow = bits.Sub64(t[3], m[3], borrow)
	_, borrow = bits.Sub64(carry, 0, borrow)

	keep := -borrow
	z[0] = t[0]&keep | r[0]&^keep
	z[1] = t[1]&keep | r[1]&^keep
	z[2] = t[2]&keep | r[2]&^keep
	z[3] = t[3]&keep | r[3]&^keep
}

// modSub sets z = x - y mod m for x, y < m.
func modSub(z, x, y, m *[4]uint64) {
	var t [4]uint64
	var borrow, carry uint64
	t[0], borrow = bits.Sub64(x[0], y[0], 0)
	t[1], borrow = bits.Sub64(x[1], y[1], borrow)
	t[2], borrow = bits.Sub64(x[2], y[2], borrow)
	t[3], borrow = bits.Sub64(x[3], y[3], borrow)

	mask := -borrow
	z[0], carry = bits.Add64(t[0], m[0]&mask, 0)
	z[1], carry = bits.Add64(t[1], m[1]&mask, carry)
	z[2], carry = bits.Add64(t[2], m[2]&mask, carry)
	z[3], _ = bits.Add64(t[3], m[3]&mask, carry)
}

// limbsLess returns 1 when x < y and 0 otherwise.
func limbsLess(x, y *[4]uint64) uint64 {
	var borrow uint64
	_, borrow = bits.Sub64(x[0], y[0], 0)
	_, borrow = bits.Sub64(x[1], y[1], borrow)
	_, borrow = bits.Sub64(x[2], y[2], borrow)
	_, borrow = bits.Sub64(x[3], y[3], borrow)
	return borrow
}

// limbsIsZero returns 1 when all words are zero and 0 otherwise.
func limbsIsZero(x *[4]uint64) uint64 {
	v := x[0] | x[1] | x[2] | x[3]
	return 1 ^ ((v | -v) >> 63)
}

// limbsEqual returns 1 when x == y and 0 otherwise.
func limbsEqual(x, y *[4]uint64) uint64 {
	v := (x[0] ^ y[0]) | (x[1] ^ y[1]) | (x[2] ^ y[2]) | (x[3] ^ y[3])
	return 1 ^ ((v | -v) >> 63)
}

// limbsSelect sets z = a when cond is 1 and z = b when cond is 0.
func limbsSelect(z, a, b *[4]uint64, cond uint64) {
	mask := -cond
	z[0] = a[0]&mask | b[0]&^mask
	z[1] = a[1]&mask | b[1]&^mask
	z[2] = a[2]&mask | b[2]&^mask
	z[3] = a[3]&mask | b[3]&^mask
}

// toMont converts a canonical value x < 2^256 into the Montgomery domain of
// md, reducing it in the process.
func toMont(z, x *[4]uint64, md *montModulus) {
	montMul(z, x, &md.rr, md)
}

// fromMont converts a value out of the Montgomery domain of md.
func fromMont(z, x *[4]uint64, md *montModulus) {
	one := [4]uint64{1}
	montMul(z, x, &one, md)
}

// reduceWide sets z to the Montgomery form of the 512-bit big-endian value b
// reduced modulo md.  Splitting b = hi*2^256 + lo gives
// b*R = hi*R^3*R^-1 + lo*R^2*R^-1, so two multiplications and one addition
// perform the full reduction without any bias.
func reduceWide(z *[4]uint64, b *[64]byte, md *montModulus) {
	var hi, lo, t [4]uint64
	bytesToLimbs(&hi, (*[32]byte)(b[:32]))
	bytesToLimbs(&lo, (*[32]byte)(b[32:]))
	montMul(&t, &hi, &md.rrr, md)
	montMul(z, &lo, &md.rr, md)
	modAdd(z, z, &t, &md.m)
}

// montPow sets z = x^e for the Montgomery value x and the canonical exponent
// e.  The exponent is treated as public, but the loop still performs the
// multiplication for every bit and selects the result with a mask so the
// sequence of operations is identical for every exponent.
func montPow(z, x, e *[4]uint64, md *montModulus) {
	res := md.one
	var t [4]uint64
	for i := 3; i >= 0; i-- {
		for j := 63; j >= 0; j-- {
			montMul(&res, &res, &res, md)
			montMul(&t, &res, x, md)
			limbsSelect(&res, &t, &res, (e[i]>>uint(j))&1)
		}
	}
	*z = res
}

// bytesToLimbs unpacks a 32-byte big-endian value into little-endian words.
func bytesToLimbs(z *[4]uint64, b *[32]byte) {
	z[3] = binary.BigEndian.Uint64(b[0:8])
	z[2] = binary.BigEndian.Uint64(b[8:16])
	z[1] = binary.BigEndian.Uint64(b[16:24])
	z[0] = binary.BigEndian.Uint64(b[24:32])
}

// limbsToBytes packs little-endian words into a 32-byte big-endian value.
func limbsToBytes(b *[32]byte, x *[4]uint64) {
	binary.BigEndian.PutUint64(b[0:8], x[3])
	binary.BigEndian.PutUint64(b[8:16], x[2])
	binary.BigEndian.PutUint64(b[16:24], x[1])
	binary.BigEndian.PutUint64(b[24:32], x[0])
}

// hexToBytes32 decodes a big-endian hex constant of at most 64 digits into a
// left-padded 32-byte array.  It panics on malformed input since it is only
// used with hard-coded constants.
func hexToBytes32(s string) [32]byte {
	if len(s) > 64 {
		panic("invalid hex constant " + s)
	}
	var b [32]byte
	for i := 0; i < len(s); i++ {
		c := s[len(s)-1-i]
		var v byte
		switch {
		case c >= '0' && c <= '9':
			v = c - '0'
		case c >= 'a' && c <= 'f':
			v = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v = c - 'A' + 10
		default:
			panic("invalid hex constant " + s)
		}
		b[31-i/2] |= v << (4 * uint(i%2))
	}
	return b
}
