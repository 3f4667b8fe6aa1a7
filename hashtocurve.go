// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
)

// References:
//   [RFC9380]: Hashing to Elliptic Curves
//     https://www.rfc-editor.org/rfc/rfc9380

const (
	// hashToFieldLen is the number of bytes expanded per field value or
	// scalar, L = ceil((ceil(log2(p)) + k) / 8) with k = 128.
	hashToFieldLen = 48

	// maxDSTLen is the longest domain separation tag used verbatim.  Longer
	// tags are hashed first.
	maxDSTLen = 255

	// SuiteRO is the domain separation suffix of the random oracle suite
	// implemented by HashToCurve.
	SuiteRO = "P256_XMD:SHA-256_SSWU_RO_"

	// SuiteNU is the domain separation suffix of the nonuniform suite
	// implemented by EncodeToCurve.
	SuiteNU = "P256_XMD:SHA-256_SSWU_NU_"
)

var (
	// oversizeDSTPrefix is prepended to tags longer than maxDSTLen before
	// they are hashed down.
	oversizeDSTPrefix = []byte("H2C-OVERSIZE-DST-")

	// sswuZ is the constant Z = -10 of the simplified SWU map for P-256.
	sswuZ = *new(FieldVal).SetInt(10).Negate()

	// sswuSqrtMinusZ is sqrt(-Z) = sqrt(10), used by sqrtRatio.
	sswuSqrtMinusZ = func() FieldVal {
		var ten, root FieldVal
		ten.SetInt(10)
		if !root.SquareRootVal(&ten) {
			panic("10 is not a square in the field")
		}
		return root
	}()

	// sswuMinusA is -A = 3 for the curve coefficient A = -3.
	sswuMinusA = *new(FieldVal).SetInt(3)
)

// ExpandMessageXMD implements expand_message_xmd from section 5.3.1 of
// [RFC9380] for the passed hash constructor and returns lenInBytes
// pseudorandom bytes derived from msg and the domain separation tag dst.
//
// Tags longer than 255 bytes are replaced by H("H2C-OVERSIZE-DST-" || dst)
// per section 5.3.3.  An empty tag is rejected with ErrDSTEmpty and requests
// for more than 255 hash blocks or 65535 bytes with ErrExpandLenTooBig.
func ExpandMessageXMD(h func() hash.Hash, msg, dst []byte, lenInBytes int) ([]byte, error) {
	if len(dst) == 0 {
		return nil, makeError(ErrDSTEmpty, "domain separation tag is empty")
	}

	hasher := h()
	bInBytes := hasher.Size()
	rInBytes := hasher.BlockSize()

	if len(dst) > maxDSTLen {
		hasher.Write(oversizeDSTPrefix)
		hasher.Write(dst)
		dst = hasher.Sum(nil)
	}

	ell := (lenInBytes + bInBytes - 1) / bInBytes
	if lenInBytes <= 0 || ell > 255 || lenInBytes > 0xffff {
		str := fmt.Sprintf("cannot expand message to %d bytes", lenInBytes)
		return nil, makeError(ErrExpandLenTooBig, str)
	}

	// DST_prime = DST || I2OSP(len(DST), 1)
	dstPrime := make([]byte, len(dst)+1)
	copy(dstPrime, dst)
	dstPrime[len(dst)] = byte(len(dst))

	// b_0 = H(Z_pad || msg || l_i_b_str || I2OSP(0, 1) || DST_prime)
	var libStr [2]byte
	binary.BigEndian.PutUint16(libStr[:], uint16(lenInBytes))
	hasher.Reset()
	hasher.Write(make([]byte, rInBytes))
	hasher.Write(msg)
	hasher.Write(libStr[:])
	hasher.Write([]byte{0})
	hasher.Write(dstPrime)
	b0 := hasher.Sum(nil)

	// b_1 = H(b_0 || I2OSP(1, 1) || DST_prime)
	hasher.Reset()
	hasher.Write(b0)
	hasher.Write([]byte{1})
	hasher.Write(dstPrime)
	bi := hasher.Sum(nil)

	out := make([]byte, 0, ell*bInBytes)
	out = append(out, bi...)

	// b_i = H(strxor(b_0, b_(i - 1)) || I2OSP(i, 1) || DST_prime)
	xored := make([]byte, bInBytes)
	for i := 2; i <= ell; i++ {
		for j := range xored {
			xored[j] = b0[j] ^ bi[j]
		}
		hasher.Reset()
		hasher.Write(xored)
		hasher.Write([]byte{byte(i)})
		hasher.Write(dstPrime)
		bi = hasher.Sum(bi[:0])
		out = append(out, bi...)
	}
	return out[:lenInBytes], nil
}

// wideFromExpanded left-pads a 48-byte expanded chunk to the 64 bytes taken
// by the wide reductions.
func wideFromExpanded(chunk []byte) [64]byte {
	var wide [64]byte
	copy(wide[64-len(chunk):], chunk)
	return wide
}

// HashToField implements hash_to_field from section 5.2 of [RFC9380] using
// expand_message_xmd with SHA-256 and returns count field values.  Each value
// is reduced from 48 bytes, so the output is statistically close to
// uniform.
func HashToField(msg, dst []byte, count int) ([]FieldVal, error) {
	uniform, err := ExpandMessageXMD(sha256.New, msg, dst, count*hashToFieldLen)
	if err != nil {
		return nil, err
	}
	out := make([]FieldVal, count)
	for i := range out {
		wide := wideFromExpanded(uniform[i*hashToFieldLen : (i+1)*hashToFieldLen])
		out[i].SetBytesWide(&wide)
	}
	return out, nil
}

// HashToScalar hashes msg to a scalar modulo the group order in the same way
// HashToField produces field values.  It is used by protocols that derive
// secret scalars from byte strings, such as OPRF key derivation.
func HashToScalar(msg, dst []byte) (*ModNScalar, error) {
	uniform, err := ExpandMessageXMD(sha256.New, msg, dst, hashToFieldLen)
	if err != nil {
		return nil, err
	}
	wide := wideFromExpanded(uniform)
	return new(ModNScalar).SetBytesWide(&wide), nil
}

// MapToCurveSSWU maps the field value u to a point on the curve using the
// simplified Shallue-van de Woestijne-Ulas method of section 6.6.2 of
// [RFC9380].  The computation is the straight-line version of appendix F.2,
// so it runs in constant time, and the result is never the point at
// infinity.
func MapToCurveSSWU(u *FieldVal, result *JacobianPoint) {
	var tv1, tv2, tv3, tv4, tv5, tv6, x, y, y1, t FieldVal

	// tv1 = Z * u^2
	// tv2 = tv1^2 + tv1
	// tv3 = B * (tv2 + 1)
	tv1.SquareVal(u).Mul(&sswuZ)
	tv2.SquareVal(&tv1).Add(&tv1)
	tv3.Add2(&tv2, &fieldOne).Mul(&curveB)

	// tv4 = A * CMOV(Z, -tv2, tv2 != 0)
	tv4.NegateVal(&tv2)
	tv4.condAssign(tv2.IsZeroBit(), &sswuZ)
	tv4.Mul(&sswuMinusA).Negate()

	// tv6 = tv4^3
	// tv2 = (tv3^2 + A * tv4^2) * tv3 + B * tv6
	tv2.SquareVal(&tv3)
	tv6.SquareVal(&tv4)
	tv5.Mul2(&tv6, &sswuMinusA).Negate()
	tv2.Add(&tv5).Mul(&tv3)
	tv6.Mul(&tv4)
	tv5.Mul2(&curveB, &tv6)
	tv2.Add(&tv5)

	// x = tv1 * tv3
	// (is_gx1_square, y1) = sqrt_ratio(tv2, tv6)
	// y = tv1 * u * y1
	x.Mul2(&tv1, &tv3)
	isGx1Square := y1.sqrtRatio(&tv2, &tv6)
	y.Mul2(&tv1, u).Mul(&y1)

	// x = CMOV(x, tv3, is_gx1_square)
	// y = CMOV(y, y1, is_gx1_square)
	x.condAssign(isGx1Square, &tv3)
	y.condAssign(isGx1Square, &y1)

	// y = CMOV(-y, y, sgn0(u) == sgn0(y))
	t.NegateVal(&y)
	y.condAssign(u.IsOddBit()^y.IsOddBit(), &t)

	// x = x / tv4
	tv4.Inverse()
	x.Mul(&tv4)

	result.X.Set(&x)
	result.Y.Set(&y)
	result.Z.Set(&fieldOne)
}

// ClearCofactor multiplies the point by the cofactor of the curve.  P-256
// has a cofactor of one, so the point is copied unchanged.
func ClearCofactor(p, result *JacobianPoint) {
	result.Set(p)
}

// HashToCurve hashes msg to a point on the curve using the
// P256_XMD:SHA-256_SSWU_RO_ suite of [RFC9380].  The dst is the application
// domain separation tag, which conventionally ends with SuiteRO.
//
// Two field values are mapped and added, so the output distribution is
// indistinguishable from a random oracle.  The computation runs in constant
// time with respect to msg.
func HashToCurve(msg, dst []byte, result *JacobianPoint) error {
	u, err := HashToField(msg, dst, 2)
	if err != nil {
		return err
	}
	var q0, q1, sum JacobianPoint
	MapToCurveSSWU(&u[0], &q0)
	MapToCurveSSWU(&u[1], &q1)
	addConst(&q0, &q1, &sum)
	ClearCofactor(&sum, result)
	return nil
}

// EncodeToCurve hashes msg to a point on the curve using the
// P256_XMD:SHA-256_SSWU_NU_ suite of [RFC9380].  It maps a single field
// value and is therefore cheaper than HashToCurve, but its output is not
// uniformly distributed.
func EncodeToCurve(msg, dst []byte, result *JacobianPoint) error {
	u, err := HashToField(msg, dst, 1)
	if err != nil {
		return err
	}
	var q JacobianPoint
	MapToCurveSSWU(&u[0], &q)
	ClearCofactor(&q, result)
	return nil
}
