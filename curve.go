// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

// References:
//   [SECG]: Recommended Elliptic Curve Domain Parameters
//     https://www.secg.org/sec2-v2.pdf
//
//   [EFD]: Explicit-Formulas Database, short Weierstrass a=-3, Jacobian
//     https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian-3.html

// The curve is y^2 = x^3 - 3x + b over the field defined in field.go.  Group
// operations are carried out in Jacobian coordinates where a point (X, Y, Z)
// represents the affine point (X/Z^2, Y/Z^3) and Z = 0 denotes the point at
// infinity.  Working in Jacobian coordinates avoids a field inversion for
// every addition and doubling; a single inversion is performed when a result
// is converted back to affine coordinates.

var (
	// curveB is the b coefficient of the curve equation.
	curveB = hexToFieldVal("5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b")

	// generatorX and generatorY are the affine coordinates of the base point.
	generatorX = hexToFieldVal("6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296")
	generatorY = hexToFieldVal("4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5")

	// fieldOne is the field value 1.
	fieldOne = *new(FieldVal).SetInt(1)
)

// AffinePoint is an element of the group in affine coordinates, or the point
// at infinity when Infinity is set.  A non-infinity AffinePoint built by this
// package always satisfies the curve equation.  Points decoded from untrusted
// input are checked before they are returned.
type AffinePoint struct {
	X, Y     FieldVal
	Infinity bool
}

// JacobianPoint is an element of the group in Jacobian projective
// coordinates.  The zero value is the point at infinity.
//
// Many Jacobian triples represent the same affine point, so two points must
// be compared with Equals rather than with ==.
type JacobianPoint struct {
	// The X coordinate in Jacobian projective coordinates.  The affine point is
	// x = x/z^2.
	X FieldVal

	// The Y coordinate in Jacobian projective coordinates.  The affine point is
	// y = y/z^3.
	Y FieldVal

	// The Z coordinate in Jacobian projective coordinates.
	Z FieldVal
}

// MakeJacobian returns a Jacobian point with the provided coordinates.
func MakeJacobian(x, y, z *FieldVal) JacobianPoint {
	var p JacobianPoint
	p.X.Set(x)
	p.Y.Set(y)
	p.Z.Set(z)
	return p
}

// Generator returns the base point of the group in affine coordinates.
func Generator() AffinePoint {
	return AffinePoint{X: generatorX, Y: generatorY}
}

// Set sets the Jacobian point to the provided point.
func (p *JacobianPoint) Set(other *JacobianPoint) {
	p.X.Set(&other.X)
	p.Y.Set(&other.Y)
	p.Z.Set(&other.Z)
}

// SetInfinity sets the Jacobian point to the point at infinity.
func (p *JacobianPoint) SetInfinity() {
	p.X.Zero()
	p.Y.Zero()
	p.Z.Zero()
}

// IsInfinityBit returns 1 when the point is the point at infinity and 0
// otherwise in constant time.
func (p *JacobianPoint) IsInfinityBit() uint32 {
	return p.Z.IsZeroBit()
}

// IsInfinity returns whether or not the point is the point at infinity.
func (p *JacobianPoint) IsInfinity() bool {
	return p.IsInfinityBit() == 1
}

// condAssign sets p = val when cond is 1 and leaves p unchanged otherwise
// without branching on cond.
func (p *JacobianPoint) condAssign(cond uint32, val *JacobianPoint) {
	p.X.condAssign(cond, &val.X)
	p.Y.condAssign(cond, &val.Y)
	p.Z.condAssign(cond, &val.Z)
}

// NegateVal sets p to the negation of val.
func (p *JacobianPoint) NegateVal(val *JacobianPoint) *JacobianPoint {
	p.X.Set(&val.X)
	p.Y.NegateVal(&val.Y)
	p.Z.Set(&val.Z)
	return p
}

// EqualsBit returns 1 when both points represent the same group element and
// 0 otherwise in constant time.  Coordinates are compared by cross
// multiplication, X1*Z2^2 = X2*Z1^2 and Y1*Z2^3 = Y2*Z1^3, since the
// representation is not unique.
func (p *JacobianPoint) EqualsBit(other *JacobianPoint) uint32 {
	var z1z1, z2z2, u1, u2, s1, s2 FieldVal
	z1z1.SquareVal(&p.Z)
	z2z2.SquareVal(&other.Z)
	u1.Mul2(&p.X, &z2z2)
	u2.Mul2(&other.X, &z1z1)
	s1.Mul2(&p.Y, &other.Z).Mul(&z2z2)
	s2.Mul2(&other.Y, &p.Z).Mul(&z1z1)

	inf1 := p.IsInfinityBit()
	inf2 := other.IsInfinityBit()
	same := u1.EqualsBit(&u2) & s1.EqualsBit(&s2)
	return (inf1 & inf2) | ((1 ^ inf1) & (1 ^ inf2) & same)
}

// Equals returns whether or not both points represent the same group
// element.
func (p *JacobianPoint) Equals(other *JacobianPoint) bool {
	return p.EqualsBit(other) == 1
}

// ToAffine converts the Jacobian point to affine coordinates and stores the
// result in result.  It performs exactly one field inversion.  The point at
// infinity converts to an AffinePoint with Infinity set and zero
// coordinates.
func (p *JacobianPoint) ToAffine(result *AffinePoint) {
	var zInv, zInv2, zInv3 FieldVal
	zInv.Set(&p.Z).Inverse()
	zInv2.SquareVal(&zInv)
	zInv3.Mul2(&zInv2, &zInv)
	result.X.Mul2(&p.X, &zInv2)
	result.Y.Mul2(&p.Y, &zInv3)
	result.Infinity = p.Z.IsZero()
}

// ToJacobian converts the affine point to Jacobian coordinates with Z = 1, or
// to the point at infinity, and stores the result in result.
func (p *AffinePoint) ToJacobian(result *JacobianPoint) {
	if p.Infinity {
		result.SetInfinity()
		return
	}
	result.X.Set(&p.X)
	result.Y.Set(&p.Y)
	result.Z.Set(&fieldOne)
}

// IsOnCurve returns whether or not the affine point satisfies the curve
// equation y^2 = x^3 - 3x + b.  The point at infinity is reported as not on
// the curve since it has no affine coordinates.
func (p *AffinePoint) IsOnCurve() bool {
	if p.Infinity {
		return false
	}
	var y2, rhs FieldVal
	y2.SquareVal(&p.Y)
	curveRHS(&p.X, &rhs)
	return y2.Equals(&rhs)
}

// IsOnCurve returns whether or not the Jacobian point satisfies the curve
// equation Y^2 = X^3 - 3*X*Z^4 + b*Z^6.  The point at infinity is considered
// part of the group and reported as on the curve.
func (p *JacobianPoint) IsOnCurve() bool {
	var y2, x3, z2, z4, z6, t FieldVal
	y2.SquareVal(&p.Y)
	x3.SquareVal(&p.X).Mul(&p.X)
	z2.SquareVal(&p.Z)
	z4.SquareVal(&z2)
	z6.Mul2(&z4, &z2)
	t.Mul2(&p.X, &z4)
	x3.Sub(&t).Sub(&t).Sub(&t)
	t.Mul2(&curveB, &z6)
	x3.Add(&t)
	return p.IsInfinity() || y2.Equals(&x3)
}

// curveRHS sets result = x^3 - 3x + b.
func curveRHS(x, result *FieldVal) {
	var x3, threeX FieldVal
	x3.SquareVal(x).Mul(x)
	threeX.Add2(x, x).Add(x)
	result.Sub2(&x3, &threeX).Add(&curveB)
}

// DecompressY attempts to calculate the Y coordinate for the given X
// coordinate such that the result pair is a point on the curve.  It adjusts
// Y based on the desired oddness and returns whether or not it was
// successful since not all X coordinates are valid.
//
// The final Y is stored in resultY and is only meaningful when true is
// returned.
func DecompressY(x *FieldVal, odd bool, resultY *FieldVal) bool {
	var rhs, y, negY FieldVal
	curveRHS(x, &rhs)
	if !y.SquareRootVal(&rhs) {
		return false
	}
	var wantOdd uint32
	if odd {
		wantOdd = 1
	}
	negY.NegateVal(&y)
	y.condAssign(y.IsOddBit()^wantOdd, &negY)
	resultY.Set(&y)
	return true
}

// doubleJacobian sets result = 2*p using the dbl-2001-b formulas for a = -3.
// The formulas hold for every input, including the point at infinity which
// maps to itself since Z3 = 2*Y1*Z1.  The sequence of field operations is
// fixed, so it is safe for secret inputs.  result may alias p.
//
//	delta = Z1^2, gamma = Y1^2, beta = X1*gamma
//	alpha = 3*(X1-delta)*(X1+delta)
//	X3 = alpha^2 - 8*beta
//	Z3 = (Y1+Z1)^2 - gamma - delta
//	Y3 = alpha*(4*beta - X3) - 8*gamma^2
func doubleJacobian(p, result *JacobianPoint) {
	var delta, gamma, beta, alpha, t1, t2, x3, y3, z3 FieldVal
	delta.SquareVal(&p.Z)
	gamma.SquareVal(&p.Y)
	beta.Mul2(&p.X, &gamma)
	t1.Sub2(&p.X, &delta)
	t2.Add2(&p.X, &delta)
	alpha.Mul2(&t1, &t2)
	t1.Add2(&alpha, &alpha)
	alpha.Add(&t1)

	t1.Add2(&beta, &beta) // 2*beta
	t1.Add(&t1)           // 4*beta
	t2.Add2(&t1, &t1)     // 8*beta
	x3.SquareVal(&alpha).Sub(&t2)

	z3.Add2(&p.Y, &p.Z).Square().Sub(&gamma).Sub(&delta)

	t1.Sub(&x3)
	t2.SquareVal(&gamma)
	t2.Add(&t2).Add(&t2).Add(&t2) // 8*gamma^2
	y3.Mul2(&alpha, &t1).Sub(&t2)

	result.X.Set(&x3)
	result.Y.Set(&y3)
	result.Z.Set(&z3)
}

// DoubleNonConst doubles the passed Jacobian point and stores the result in
// the provided result param in *non-constant* time.
func DoubleNonConst(p, result *JacobianPoint) {
	// Doubling the point at infinity is still infinity.  P-256 has no points
	// of order two, so Y is never zero for any other point.
	if p.Z.IsZero() || p.Y.IsZero() {
		result.SetInfinity()
		return
	}
	doubleJacobian(p, result)
}

// addGeneric sets result = p1 + p2 using the add-2007-bl formulas and reports
// whether H = U2 - U1 and R = S2 - S1 are zero.  The formulas are only valid
// when neither point is infinity and the points are distinct; callers handle
// the exceptional cases using the returned flags.  result may alias either
// input.
//
//	U1 = X1*Z2^2, U2 = X2*Z1^2, S1 = Y1*Z2^3, S2 = Y2*Z1^3
//	H = U2-U1, I = (2*H)^2, J = H*I, r = 2*(S2-S1), V = U1*I
//	X3 = r^2 - J - 2*V
//	Y3 = r*(V - X3) - 2*S1*J
//	Z3 = ((Z1+Z2)^2 - Z1^2 - Z2^2)*H
func addGeneric(p1, p2, result *JacobianPoint) (hZero, rZero uint32) {
	var z1z1, z2z2, u1, u2, s1, s2, h, i, j, r, v, t, x3, y3, z3 FieldVal
	z1z1.SquareVal(&p1.Z)
	z2z2.SquareVal(&p2.Z)
	u1.Mul2(&p1.X, &z2z2)
	u2.Mul2(&p2.X, &z1z1)
	s1.Mul2(&p1.Y, &p2.Z).Mul(&z2z2)
	s2.Mul2(&p2.Y, &p1.Z).Mul(&z1z1)
	h.Sub2(&u2, &u1)
	r.Sub2(&s2, &s1)
	hZero, rZero = h.IsZeroBit(), r.IsZeroBit()

	i.Add2(&h, &h).Square()
	j.Mul2(&h, &i)
	r.Add(&r)
	v.Mul2(&u1, &i)

	x3.SquareVal(&r).Sub(&j).Sub(&v).Sub(&v)
	t.Mul2(&s1, &j)
	t.Add(&t)
	y3.Sub2(&v, &x3).Mul(&r).Sub(&t)
	z3.Add2(&p1.Z, &p2.Z).Square().Sub(&z1z1).Sub(&z2z2).Mul(&h)

	result.X.Set(&x3)
	result.Y.Set(&y3)
	result.Z.Set(&z3)
	return hZero, rZero
}

// addMixed sets result = p1 + (x2, y2, 1) using the madd-2007-bl formulas and
// reports whether H and R are zero.  The same restrictions as addGeneric
// apply.  result may alias p1.
//
//	U2 = X2*Z1^2, S2 = Y2*Z1^3, H = U2-X1, HH = H^2, I = 4*HH, J = H*I
//	r = 2*(S2-Y1), V = X1*I
//	X3 = r^2 - J - 2*V
//	Y3 = r*(V-X3) - 2*Y1*J
//	Z3 = (Z1+H)^2 - Z1^2 - HH
func addMixed(p1 *JacobianPoint, x2, y2 *FieldVal, result *JacobianPoint) (hZero, rZero uint32) {
	var z1z1, u2, s2, h, hh, i, j, r, v, t, x3, y3, z3 FieldVal
	z1z1.SquareVal(&p1.Z)
	u2.Mul2(x2, &z1z1)
	s2.Mul2(y2, &p1.Z).Mul(&z1z1)
	h.Sub2(&u2, &p1.X)
	r.Sub2(&s2, &p1.Y)
	hZero, rZero = h.IsZeroBit(), r.IsZeroBit()

	hh.SquareVal(&h)
	i.Add2(&hh, &hh)
	i.Add(&i)
	j.Mul2(&h, &i)
	r.Add(&r)
	v.Mul2(&p1.X, &i)

	x3.SquareVal(&r).Sub(&j).Sub(&v).Sub(&v)
	t.Mul2(&p1.Y, &j)
	t.Add(&t)
	y3.Sub2(&v, &x3).Mul(&r).Sub(&t)
	z3.Add2(&p1.Z, &h).Square().Sub(&z1z1).Sub(&hh)

	result.X.Set(&x3)
	result.Y.Set(&y3)
	result.Z.Set(&z3)
	return hZero, rZero
}

// AddNonConst adds the passed Jacobian points together and stores the result
// in the provided result param in *non-constant* time.
//
// The exceptional cases are handled explicitly: adding the point at infinity
// returns the other point, adding a point to itself dispatches to doubling
// and adding a point to its negation results in the point at infinity.
func AddNonConst(p1, p2, result *JacobianPoint) {
	if p1.Z.IsZero() {
		result.Set(p2)
		return
	}
	if p2.Z.IsZero() {
		result.Set(p1)
		return
	}

	var sum JacobianPoint
	var hZero, rZero uint32
	if p2.Z.IsOneBit() == 1 {
		hZero, rZero = addMixed(p1, &p2.X, &p2.Y, &sum)
	} else {
		hZero, rZero = addGeneric(p1, p2, &sum)
	}
	if hZero == 1 {
		if rZero == 1 {
			DoubleNonConst(p1, result)
			return
		}
		// P + (-P) = infinity.
		result.SetInfinity()
		return
	}
	result.Set(&sum)
}

// addConst sets result = p1 + p2 in constant time for any pair of inputs.
// Both the general sum and the doubling of p1 are always computed and the
// correct one is selected with masks, so the operations performed do not
// depend on whether the inputs are equal, opposite or infinity.
func addConst(p1, p2, result *JacobianPoint) {
	var sum, dbl JacobianPoint
	hZero, rZero := addGeneric(p1, p2, &sum)
	doubleJacobian(p1, &dbl)

	inf1 := p1.IsInfinityBit()
	inf2 := p2.IsInfinityBit()
	sum.condAssign(hZero&rZero&(1^inf1)&(1^inf2), &dbl)
	sum.condAssign(inf1, p2)
	sum.condAssign(inf2, p1)
	result.Set(&sum)
}

// affineXY is an affine point that is known to not be the point at infinity.
// It is used for precomputed tables.
type affineXY struct {
	X, Y FieldVal
}

// condAssign sets p = val when cond is 1 without branching on cond.
func (p *affineXY) condAssign(cond uint32, val *affineXY) {
	p.X.condAssign(cond, &val.X)
	p.Y.condAssign(cond, &val.Y)
}

// addMixedConst sets result = p1 + p2 in constant time where p2 is an affine
// point that is ignored when inf2 is 1.
func addMixedConst(p1 *JacobianPoint, p2 *affineXY, inf2 uint32, result *JacobianPoint) {
	var sum, dbl, p2j JacobianPoint
	hZero, rZero := addMixed(p1, &p2.X, &p2.Y, &sum)
	doubleJacobian(p1, &dbl)
	p2j.X.Set(&p2.X)
	p2j.Y.Set(&p2.Y)
	p2j.Z.Set(&fieldOne)

	inf1 := p1.IsInfinityBit()
	sum.condAssign(hZero&rZero&(1^inf1), &dbl)
	sum.condAssign(inf1, &p2j)
	sum.condAssign(inf2, p1)
	result.Set(&sum)
}

// batchToAffine converts all of the provided Jacobian points, none of which
// may be the point at infinity, to affine coordinates using a single field
// inversion.  It is only used with public points.
func batchToAffine(points []JacobianPoint, result []affineXY) {
	if len(points) == 0 {
		return
	}
	acc := make([]FieldVal, len(points))
	acc[0].Set(&points[0].Z)
	for i := 1; i < len(points); i++ {
		acc[i].Mul2(&acc[i-1], &points[i].Z)
	}
	var inv, zInv, zInv2 FieldVal
	inv.Set(&acc[len(points)-1]).Inverse()
	for i := len(points) - 1; i >= 0; i-- {
		if i > 0 {
			zInv.Mul2(&inv, &acc[i-1])
			inv.Mul(&points[i].Z)
		} else {
			zInv.Set(&inv)
		}
		zInv2.SquareVal(&zInv)
		result[i].X.Mul2(&points[i].X, &zInv2)
		result[i].Y.Mul2(&points[i].Y, &zInv2).Mul(&zInv)
	}
}
