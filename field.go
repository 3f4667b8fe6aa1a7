// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

// All elliptic curve operations for P-256 are done in a finite field
// characterized by the 256-bit prime
//
//	p = 2^256 - 2^224 + 2^192 + 2^96 - 1
//
// This file implements specialized fixed-precision field arithmetic rather
// than relying on an arbitrary-precision arithmetic package such as math/big.
// Each field value is represented by four 64-bit words holding the value in
// Montgomery form.  Fixed width is what allows every operation to execute in
// time that is independent of the values involved.
//
// Unlike representations with lazy reduction, every FieldVal is always fully
// reduced, so there is no magnitude to track and no explicit normalization
// step.  The only place the internal representation is observable is the
// conversion to and from the canonical 32-byte big-endian encoding.

import (
	"encoding/hex"
)

// fieldPrimeHex is the P-256 field prime in big-endian hex.
const fieldPrimeHex = "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff"

// fieldModulus houses the Montgomery constants for the field prime.
var fieldModulus = newMontModulus(fieldPrimeHex)

// fieldPMinus3Div4 is (p - 3) / 4 in little-endian words.
var fieldPMinus3Div4 = [4]uint64{
	0xffffffffffffffff, 0x000000003fffffff,
	0x4000000000000000, 0x3fffffffc0000000,
}

// FieldVal implements optimized fixed-precision arithmetic over the P-256
// finite field.  This means all arithmetic is performed modulo
// 0xffffffff00000001000000000000000000000000ffffffffffffffffffffffff.
//
// The zero value is the field element 0 and is ready to use.
//
// Arithmetic methods write their result to the receiver and return it so
// calls may be chained.  Operands passed as arguments are never modified.
type FieldVal struct {
	n [4]uint64
}

// String returns the field value as a big-endian hex string.
func (f FieldVal) String() string {
	b := f.Bytes()
	return hex.EncodeToString(b[:])
}

// Zero sets the field value to zero.  A newly created field value is already
// set to zero.  This function can be useful to clear an existing field value
// for reuse.
func (f *FieldVal) Zero() {
	f.n = [4]uint64{}
}

// Set sets the field value equal to the passed value.
//
// The field value is returned to support chaining.  This enables syntax like:
// f := new(FieldVal).Set(f2).Add(f3) so that f = f2 + f3 where f2 is not
// modified.
func (f *FieldVal) Set(val *FieldVal) *FieldVal {
	*f = *val
	return f
}

// SetInt sets the field value to the passed integer.
//
// The field value is returned to support chaining.
func (f *FieldVal) SetInt(ui uint64) *FieldVal {
	x := [4]uint64{ui}
	toMont(&f.n, &x, fieldModulus)
	return f
}

// SetBytes packs the passed 32-byte big-endian value into the internal field
// value representation in constant time.  Values which are greater than or
// equal to the field prime are reduced and the overflow is reported.
//
// It returns 1 when the value overflowed the field prime and 0 otherwise.
// Callers decoding untrusted data should use SetCanonicalBytes which rejects
// such values instead.
func (f *FieldVal) SetBytes(b *[32]byte) uint32 {
	var x [4]uint64
	bytesToLimbs(&x, b)
	overflow := 1 ^ limbsLess(&x, &fieldModulus.m)
	toMont(&f.n, &x, fieldModulus)
	return uint32(overflow)
}

// SetCanonicalBytes sets the field value to the passed big-endian encoding.
// It returns an error of kind ErrFieldInvalidLen when the slice is not
// exactly 32 bytes and ErrFieldOverflow when the encoded value is not less
// than the field prime.  The field value is unchanged on error.
func (f *FieldVal) SetCanonicalBytes(b []byte) error {
	if len(b) != 32 {
		return makeError(ErrFieldInvalidLen, "malformed field value: "+
			"expected 32 bytes")
	}
	var tmp FieldVal
	if tmp.SetBytes((*[32]byte)(b)) != 0 {
		return makeError(ErrFieldOverflow, "malformed field value: "+
			">= field prime")
	}
	*f = tmp
	return nil
}

// SetBytesWide sets the field value to the passed 64-byte big-endian value
// reduced modulo the field prime.  The reduction is exact, so uniformly
// random input produces a field value with negligible bias.
func (f *FieldVal) SetBytesWide(b *[64]byte) *FieldVal {
	reduceWide(&f.n, b, fieldModulus)
	return f
}

// PutBytes unpacks the field value to a 32-byte big-endian value using the
// passed byte array.
func (f *FieldVal) PutBytes(b *[32]byte) {
	var x [4]uint64
	fromMont(&x, &f.n, fieldModulus)
	limbsToBytes(b, &x)
}

// PutBytesUnchecked unpacks the field value to a 32-byte big-endian value
// directly into the passed byte slice, which must have at least 32 bytes
// available.
func (f *FieldVal) PutBytesUnchecked(b []byte) {
	f.PutBytes((*[32]byte)(b[:32]))
}

// Bytes unpacks the field value to a 32-byte big-endian value.
func (f *FieldVal) Bytes() *[32]byte {
	var b [32]byte
	f.PutBytes(&b)
	return &b
}

// IsZeroBit returns 1 when the field value is equal to zero or 0 otherwise in
// constant time.
func (f *FieldVal) IsZeroBit() uint32 {
	return uint32(limbsIsZero(&f.n))
}

// IsZero returns whether or not the field value is equal to zero in constant
// time.
func (f *FieldVal) IsZero() bool {
	return f.IsZeroBit() == 1
}

// IsOneBit returns 1 when the field value is equal to one or 0 otherwise in
// constant time.
func (f *FieldVal) IsOneBit() uint32 {
	return uint32(limbsEqual(&f.n, &fieldModulus.one))
}

// IsOddBit returns 1 when the canonical value of the field value is odd or 0
// otherwise in constant time.
func (f *FieldVal) IsOddBit() uint32 {
	var x [4]uint64
	fromMont(&x, &f.n, fieldModulus)
	return uint32(x[0] & 1)
}

// IsOdd returns whether or not the canonical value of the field value is odd
// in constant time.
func (f *FieldVal) IsOdd() bool {
	return f.IsOddBit() == 1
}

// EqualsBit returns 1 when the two field values are the same or 0 otherwise
// in constant time.
func (f *FieldVal) EqualsBit(val *FieldVal) uint32 {
	return uint32(limbsEqual(&f.n, &val.n))
}

// Equals returns whether or not the two field values are the same in constant
// time.
func (f *FieldVal) Equals(val *FieldVal) bool {
	return f.EqualsBit(val) == 1
}

// NegateVal negates the passed value and stores the result in f.
//
// The field value is returned to support chaining.  This enables syntax like:
// f.NegateVal(f2).Add(f3) so that f = -f2 + f3.
func (f *FieldVal) NegateVal(val *FieldVal) *FieldVal {
	var zero [4]uint64
	modSub(&f.n, &zero, &val.n, &fieldModulus.m)
	return f
}

// Negate negates the field value.  The existing field value is modified.
func (f *FieldVal) Negate() *FieldVal {
	return f.NegateVal(f)
}

// Add adds the passed value to the existing field value and stores the result
// in f.
func (f *FieldVal) Add(val *FieldVal) *FieldVal {
	return f.Add2(f, val)
}

// Add2 adds the passed two field values together and stores the result in f.
//
// The field value is returned to support chaining.  This enables syntax like:
// f3.Add2(f, f2).AddInt(1) so that f3 = f + f2 + 1.
func (f *FieldVal) Add2(val, val2 *FieldVal) *FieldVal {
	modAdd(&f.n, &val.n, &val2.n, &fieldModulus.m)
	return f
}

// AddInt adds the passed small integer to the existing field value.
func (f *FieldVal) AddInt(ui uint64) *FieldVal {
	var t FieldVal
	return f.Add(t.SetInt(ui))
}

// Sub subtracts the passed value from the existing field value and stores the
// result in f.
func (f *FieldVal) Sub(val *FieldVal) *FieldVal {
	return f.Sub2(f, val)
}

// Sub2 sets f = val - val2.
func (f *FieldVal) Sub2(val, val2 *FieldVal) *FieldVal {
	modSub(&f.n, &val.n, &val2.n, &fieldModulus.m)
	return f
}

// MulInt multiplies the field value by the passed small integer.
func (f *FieldVal) MulInt(val uint64) *FieldVal {
	var t FieldVal
	return f.Mul(t.SetInt(val))
}

// Mul multiplies the passed value to the existing field value and stores the
// result in f.
func (f *FieldVal) Mul(val *FieldVal) *FieldVal {
	return f.Mul2(f, val)
}

// Mul2 multiplies the passed two field values together and stores the result
// in f.
//
// The field value is returned to support chaining.  This enables syntax like:
// f3.Mul2(f, f2).AddInt(1) so that f3 = (f * f2) + 1.
func (f *FieldVal) Mul2(val, val2 *FieldVal) *FieldVal {
	montMul(&f.n, &val.n, &val2.n, fieldModulus)
	return f
}

// Square squares the field value.  The existing field value is modified.
func (f *FieldVal) Square() *FieldVal {
	return f.SquareVal(f)
}

// SquareVal squares the passed value and stores the result in f.
func (f *FieldVal) SquareVal(val *FieldVal) *FieldVal {
	montMul(&f.n, &val.n, &val.n, fieldModulus)
	return f
}

// squareN squares the field value n times.
func (f *FieldVal) squareN(n int) *FieldVal {
	for i := 0; i < n; i++ {
		f.Square()
	}
	return f
}

// Inverse finds the modular multiplicative inverse of the field value in
// constant time.  The existing field value is modified.  The inverse of zero
// is zero.
//
// Per Fermat's little theorem a^(p-2) = a^-1 (mod p) and the exponent
// p - 2 = 2^256 - 2^224 + 2^192 + 2^96 - 3 is evaluated with a fixed chain
// of 255 squarings and 12 multiplications.
func (f *FieldVal) Inverse() *FieldVal {
	// Each eN holds a^(2^N - 1).
	var e2, e4, e8, e16, e32, e64, t, t2 FieldVal
	a := *f

	e2.SquareVal(&a).Mul(&a)
	e4.Set(&e2).squareN(2).Mul(&e2)
	e8.Set(&e4).squareN(4).Mul(&e4)
	e16.Set(&e8).squareN(8).Mul(&e8)
	e32.Set(&e16).squareN(16).Mul(&e16)
	e64.Set(&e32).squareN(32)         // 2^64 - 2^32
	t.Set(&e64).Mul(&a).squareN(192)  // 2^256 - 2^224 + 2^192
	t2.Mul2(&e64, &e32).squareN(16)   // 2^80 - 2^16
	t2.Mul(&e16).squareN(8).Mul(&e8)  // 2^88 - 1
	t2.squareN(4).Mul(&e4).squareN(2) // 2^94 - 2^2
	t2.Mul(&e2).squareN(2).Mul(&a)    // 2^96 - 3
	return f.Mul2(&t2, &t)
}

// SquareRootVal either calculates the square root of the passed value when it
// exists or the square root of the negation of the value when it does not
// exist and stores the result in f in constant time.  The return flag is true
// when the calculated square root is for the passed value itself and false
// when it is for its negation.
//
// Since p = 3 (mod 4), a candidate root is a^((p+1)/4).  The candidate is
// only a root when its square equals the input, which is checked rather than
// assumed.
func (f *FieldVal) SquareRootVal(val *FieldVal) bool {
	// (p+1)/4 = 2^254 - 2^222 + 2^190 + 2^94.
	var x2, x4, x8, x16, x32, r FieldVal
	a := *val

	x2.SquareVal(&a).Mul(&a)
	x4.Set(&x2).squareN(2).Mul(&x2)
	x8.Set(&x4).squareN(4).Mul(&x4)
	x16.Set(&x8).squareN(8).Mul(&x8)
	x32.Set(&x16).squareN(16).Mul(&x16)
	r.Set(&x32).squareN(32).Mul(&a).squareN(96).Mul(&a).squareN(94)

	var check FieldVal
	check.SquareVal(&r)
	*f = r
	return check.Equals(&a)
}

// condAssign sets f = val when cond is 1 and leaves f unchanged when cond is
// 0 without branching on cond.
func (f *FieldVal) condAssign(cond uint32, val *FieldVal) *FieldVal {
	limbsSelect(&f.n, &val.n, &f.n, uint64(cond))
	return f
}

// sqrtRatio implements sqrt_ratio for p = 3 (mod 4) as used by the simplified
// SWU map.  It sets f to sqrt(u/v) and returns 1 when u/v is square and sets
// f to sqrt(Z*u/v) and returns 0 otherwise.
func (f *FieldVal) sqrtRatio(u, v *FieldVal) uint32 {
	var tv1, tv2, tv3, y1, y2 FieldVal
	tv1.SquareVal(v)
	tv2.Mul2(u, v)
	tv1.Mul(&tv2)
	montPow(&y1.n, &tv1.n, &fieldPMinus3Div4, fieldModulus)
	y1.Mul(&tv2)
	y2.Mul2(&y1, &sswuSqrtMinusZ)
	tv3.SquareVal(&y1).Mul(v)
	isQR := tv3.EqualsBit(u)
	f.Set(&y2).condAssign(isQR, &y1)
	return isQR
}

// hexToFieldVal converts the passed hex string into a FieldVal and panics on
// any error or overflow.  It is only used with hard-coded constants.
func hexToFieldVal(s string) FieldVal {
	b := hexToBytes32(s)
	var f FieldVal
	if f.SetBytes(&b) != 0 {
		panic("hex constant overflows the field prime: " + s)
	}
	return f
}
