// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"encoding/hex"
	"math/bits"
)

// References:
//   [SECG]: Recommended Elliptic Curve Domain Parameters
//     https://www.secg.org/sec2-v2.pdf
//
//   [FIPS186-4]: Digital Signature Standard
//     https://nvlpubs.nist.gov/nistpubs/FIPS/NIST.FIPS.186-4.pdf

// orderHex is the P-256 group order in big-endian hex.
const orderHex = "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"

// orderModulus houses the Montgomery constants for the group order.
var orderModulus = newMontModulus(orderHex)

var (
	// orderMinus2 is n - 2 in little-endian words and is the exponent used
	// to invert scalars.
	orderMinus2 = [4]uint64{
		0xf3b9cac2fc63254f, 0xbce6faada7179e84,
		0xffffffffffffffff, 0xffffffff00000000,
	}

	// halfOrder is floor(n/2) in little-endian words.
	halfOrder = [4]uint64{
		0x79dce5617e3192a8, 0xde737d56d38bcf42,
		0x7fffffffffffffff, 0x7fffffff80000000,
	}
)

// ModNScalar implements optimized 256-bit constant-time fixed-precision
// arithmetic over the P-256 group order.  This means all arithmetic is
// performed modulo:
//
//	0xffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551
//
// It only implements the arithmetic needed for elliptic curve operations and
// ECDSA; it is not a general purpose modular integer.  Scalars and field
// values are distinct types and are never substitutable for one another.
//
// The zero value is the scalar 0 and is ready to use.
type ModNScalar struct {
	n [4]uint64
}

// String returns the scalar as a big-endian hex string.
func (s ModNScalar) String() string {
	b := s.Bytes()
	return hex.EncodeToString(b[:])
}

// Zero sets the scalar to zero.  A newly created scalar is already set to
// zero.  This function can be useful to clear an existing scalar for reuse.
func (s *ModNScalar) Zero() {
	s.n = [4]uint64{}
}

// Set sets the scalar equal to a copy of the passed one in constant time.
func (s *ModNScalar) Set(val *ModNScalar) *ModNScalar {
	*s = *val
	return s
}

// SetInt sets the scalar to the passed integer in constant time.
func (s *ModNScalar) SetInt(ui uint64) *ModNScalar {
	x := [4]uint64{ui}
	toMont(&s.n, &x, orderModulus)
	return s
}

// SetBytes interprets the provided array as a 256-bit big-endian unsigned
// integer, reduces it modulo the group order, sets the scalar to the result,
// and returns either 1 if it was reduced (aka it overflowed) or 0 otherwise in
// constant time.
func (s *ModNScalar) SetBytes(b *[32]byte) uint32 {
	var x [4]uint64
	bytesToLimbs(&x, b)
	overflow := 1 ^ limbsLess(&x, &orderModulus.m)
	toMont(&s.n, &x, orderModulus)
	return uint32(overflow)
}

// SetCanonicalBytes sets the scalar to the passed big-endian encoding.  It
// returns an error of kind ErrScalarInvalidLen when the slice is not exactly
// 32 bytes and ErrScalarOverflow when the value is not less than the group
// order.  The scalar is unchanged on error.
func (s *ModNScalar) SetCanonicalBytes(b []byte) error {
	if len(b) != 32 {
		return makeError(ErrScalarInvalidLen, "malformed scalar: expected "+
			"32 bytes")
	}
	var tmp ModNScalar
	if tmp.SetBytes((*[32]byte)(b)) != 0 {
		return makeError(ErrScalarOverflow, "malformed scalar: >= group "+
			"order")
	}
	*s = tmp
	return nil
}

// SetByteSlice interprets the provided slice as a 256-bit big-endian unsigned
// integer (meaning it is truncated to the first 32 bytes), reduces it modulo
// the group order, sets the scalar to the result, and returns whether or not
// the resulting truncated 256-bit integer overflowed in constant time.
//
// Slices shorter than 32 bytes are treated as if they were left-padded with
// zeros.  This is the bits2int conversion ECDSA applies to message digests.
func (s *ModNScalar) SetByteSlice(b []byte) bool {
	var b32 [32]byte
	if len(b) > 32 {
		b = b[:32]
	}
	copy(b32[32-len(b):], b)
	result := s.SetBytes(&b32) != 0
	zeroArray32(&b32)
	return result
}

// SetBytesWide sets the scalar to the passed 64-byte big-endian value reduced
// modulo the group order.  Unlike SetByteSlice there is no truncation, so
// uniformly random or hash-derived input yields a scalar with negligible
// bias.
func (s *ModNScalar) SetBytesWide(b *[64]byte) *ModNScalar {
	reduceWide(&s.n, b, orderModulus)
	return s
}

// PutBytes unpacks the scalar to a 32-byte big-endian value using the passed
// byte array in constant time.
func (s *ModNScalar) PutBytes(b *[32]byte) {
	var x [4]uint64
	fromMont(&x, &s.n, orderModulus)
	limbsToBytes(b, &x)
}

// PutBytesUnchecked unpacks the scalar to a 32-byte big-endian value directly
// into the passed byte slice, which must have at least 32 bytes available.
func (s *ModNScalar) PutBytesUnchecked(b []byte) {
	s.PutBytes((*[32]byte)(b[:32]))
}

// Bytes returns the scalar as a 32-byte big-endian unsigned integer in
// constant time.
func (s *ModNScalar) Bytes() [32]byte {
	var b [32]byte
	s.PutBytes(&b)
	return b
}

// canonical returns the scalar out of the Montgomery domain.
func (s *ModNScalar) canonical() [4]uint64 {
	var x [4]uint64
	fromMont(&x, &s.n, orderModulus)
	return x
}

// IsZeroBit returns 1 when the scalar is equal to zero or 0 otherwise in
// constant time.
func (s *ModNScalar) IsZeroBit() uint32 {
	return uint32(limbsIsZero(&s.n))
}

// IsZero returns whether or not the scalar is equal to zero in constant time.
func (s *ModNScalar) IsZero() bool {
	return s.IsZeroBit() == 1
}

// IsOdd returns whether or not the scalar is an odd number in constant time.
func (s *ModNScalar) IsOdd() bool {
	x := s.canonical()
	return x[0]&1 == 1
}

// IsOverHalfOrder returns whether or not the scalar exceeds the group order
// divided by 2 in constant time.
func (s *ModNScalar) IsOverHalfOrder() bool {
	x := s.canonical()
	return limbsLess(&halfOrder, &x) == 1
}

// EqualsBit returns 1 when the two scalars are equal or 0 otherwise in
// constant time.
func (s *ModNScalar) EqualsBit(val *ModNScalar) uint32 {
	return uint32(limbsEqual(&s.n, &val.n))
}

// Equals returns whether or not the two scalars are the same in constant
// time.
func (s *ModNScalar) Equals(val *ModNScalar) bool {
	return s.EqualsBit(val) == 1
}

// Add2 adds the passed two scalars together modulo the group order in
// constant time and stores the result in s.
//
// The scalar is returned to support chaining.  This enables syntax like:
// s3.Add2(s, s2).Add(s) so that s3 = 2s + s2.
func (s *ModNScalar) Add2(val1, val2 *ModNScalar) *ModNScalar {
	modAdd(&s.n, &val1.n, &val2.n, &orderModulus.m)
	return s
}

// Add adds the passed scalar to the existing one modulo the group order in
// constant time and stores the result in s.
func (s *ModNScalar) Add(val *ModNScalar) *ModNScalar {
	return s.Add2(s, val)
}

// Sub2 sets s = val1 - val2 modulo the group order in constant time.
func (s *ModNScalar) Sub2(val1, val2 *ModNScalar) *ModNScalar {
	modSub(&s.n, &val1.n, &val2.n, &orderModulus.m)
	return s
}

// Mul2 multiplies the passed two scalars together modulo the group order in
// constant time and stores the result in s.
//
// The scalar is returned to support chaining.  This enables syntax like:
// s3.Mul2(s, s2).Add(s) so that s3 = (s * s2) + s.
func (s *ModNScalar) Mul2(val, val2 *ModNScalar) *ModNScalar {
	montMul(&s.n, &val.n, &val2.n, orderModulus)
	return s
}

// Mul multiplies the passed scalar with the existing one modulo the group
// order in constant time and stores the result in s.
func (s *ModNScalar) Mul(val *ModNScalar) *ModNScalar {
	return s.Mul2(s, val)
}

// SquareVal squares the passed scalar modulo the group order in constant time
// and stores the result in s.
func (s *ModNScalar) SquareVal(val *ModNScalar) *ModNScalar {
	montMul(&s.n, &val.n, &val.n, orderModulus)
	return s
}

// Square squares the scalar modulo the group order in constant time.  The
// existing scalar is modified.
func (s *ModNScalar) Square() *ModNScalar {
	return s.SquareVal(s)
}

// NegateVal negates the passed scalar modulo the group order and stores the
// result in s in constant time.
func (s *ModNScalar) NegateVal(val *ModNScalar) *ModNScalar {
	var zero [4]uint64
	modSub(&s.n, &zero, &val.n, &orderModulus.m)
	return s
}

// Negate negates the scalar modulo the group order in constant time.  The
// existing scalar is modified.
func (s *ModNScalar) Negate() *ModNScalar {
	return s.NegateVal(s)
}

// InverseVal finds the modular multiplicative inverse of the passed scalar
// and stores the result in s in constant time via Fermat's little theorem,
// val^(n-2) = val^-1 (mod n).  The inverse of zero is zero.
func (s *ModNScalar) InverseVal(val *ModNScalar) *ModNScalar {
	montPow(&s.n, &val.n, &orderMinus2, orderModulus)
	return s
}

// Inverse finds the modular multiplicative inverse of the scalar in constant
// time.  The existing scalar is modified.
func (s *ModNScalar) Inverse() *ModNScalar {
	return s.InverseVal(s)
}

// condAssign sets s = val when cond is 1 and leaves s unchanged when cond is
// 0 without branching on cond.
func (s *ModNScalar) condAssign(cond uint32, val *ModNScalar) *ModNScalar {
	limbsSelect(&s.n, &val.n, &s.n, uint64(cond))
	return s
}

// fieldValToScalar reduces the canonical value of a field element modulo the
// group order.  Since n < p < 2n a single conditional subtraction suffices.
// It returns 1 when the reduction changed the value.
func fieldValToScalar(s *ModNScalar, f *FieldVal) uint32 {
	var b [32]byte
	f.PutBytes(&b)
	return s.SetBytes(&b)
}

// scalarToFieldVal converts the canonical value of a scalar into a field
// value.  This is always exact since n < p.
func scalarToFieldVal(f *FieldVal, s *ModNScalar) {
	var b [32]byte
	s.PutBytes(&b)
	f.SetBytes(&b)
}

// windows4 splits the canonical value of the scalar into 64 unsigned 4-bit
// digits, least significant first.  It is used by the constant-time scalar
// multiplication routines and touches every digit regardless of value.
func (s *ModNScalar) windows4() [64]uint8 {
	x := s.canonical()
	var w [64]uint8
	for i := 0; i < 64; i++ {
		w[i] = uint8(x[i/16]>>(4*uint(i%16))) & 0xf
	}
	return w
}

// nafWidth is the window size of the non-adjacent form used by the
// variable-time multiplication routines.
const nafWidth = 5

// nafVartime returns the width-w non-adjacent form of the scalar, least
// significant digit first.  Every nonzero digit is odd and lies in
// (-2^(w-1), 2^(w-1)), and any w consecutive digits contain at most one
// nonzero value.
//
// The running time and memory access pattern depend on the scalar, so it
// must only be used with public values.
func (s *ModNScalar) nafVartime(w uint) [257]int8 {
	x := s.canonical()
	var naf [257]int8
	width := uint64(1) << w
	half := width >> 1
	var ext [5]uint64
	copy(ext[:], x[:])

	for i := 0; i < 257; i++ {
		if ext[0]|ext[1]|ext[2]|ext[3]|ext[4] == 0 {
			break
		}
		if ext[0]&1 == 1 {
			digit := ext[0] & (width - 1)
			if digit >= half {
				// Negative digit; add its magnitude back in.
				mag := width - digit
				naf[i] = -int8(mag)
				var c uint64
				ext[0], c = bits.Add64(ext[0], mag, 0)
				ext[1], c = bits.Add64(ext[1], 0, c)
				ext[2], c = bits.Add64(ext[2], 0, c)
				ext[3], c = bits.Add64(ext[3], 0, c)
				ext[4] += c
			} else {
				naf[i] = int8(digit)
				ext[0] -= digit
			}
		}
		ext[0] = ext[0]>>1 | ext[1]<<63
		ext[1] = ext[1]>>1 | ext[2]<<63
		ext[2] = ext[2]>>1 | ext[3]<<63
		ext[3] = ext[3]>>1 | ext[4]<<63
		ext[4] >>= 1
	}
	return naf
}

// zeroArray32 zeroes the provided 32-byte buffer.
func zeroArray32(b *[32]byte) {
	copy(b[:], zero32[:])
}

// zero32 is an array of 32 bytes used for the purposes of zeroing.
var zero32 = [32]byte{}
