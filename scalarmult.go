// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"sync"
)

// There are two families of scalar multiplication routines.
//
// ScalarMult and ScalarBaseMult are for secret scalars such as private keys
// and nonces.  They use fixed 4-bit windows, always perform the same number
// of doublings and additions, and read every entry of a precomputed table on
// each lookup, selecting the wanted one with masks.  Neither the operations
// executed nor the memory addresses touched depend on the scalar.
//
// ScalarMultNonConst and DoubleScalarMultNonConst are for public scalars, as
// found in signature verification and public key recovery.  They use
// width-5 non-adjacent forms and skip work for zero digits, which makes them
// considerably faster but leaks the scalar through timing.

const (
	// windowBits is the window width of the constant-time routines.
	windowBits = 4

	// windowSize is the number of table entries per window, including the
	// point at infinity for the zero digit.
	windowSize = 1 << windowBits

	// numWindows is the number of windows covering a 256-bit scalar.
	numWindows = 256 / windowBits

	// nafTableSize is the number of odd multiples P, 3P, ..., 15P needed
	// for width-5 non-adjacent forms.
	nafTableSize = 1 << (nafWidth - 2)
)

var (
	// baseTable holds j*16^i*G in affine coordinates for window i and digit
	// j+1.  It is computed once on first use and only read afterwards.
	baseTable     *[numWindows][windowSize - 1]affineXY
	baseTableOnce sync.Once

	// baseNAFTable holds the odd multiples G, 3G, ..., 15G for the
	// variable-time routines.
	baseNAFTable     *[nafTableSize]affineXY
	baseNAFTableOnce sync.Once
)

// loadBaseTable returns the precomputed generator table for the
// constant-time base point multiplication, computing it on first use.
func loadBaseTable() *[numWindows][windowSize - 1]affineXY {
	baseTableOnce.Do(func() {
		var table [numWindows][windowSize - 1]affineXY
		var g, next JacobianPoint
		g = MakeJacobian(&generatorX, &generatorY, &fieldOne)

		var row [windowSize - 1]JacobianPoint
		for i := 0; i < numWindows; i++ {
			row[0].Set(&g)
			for j := 1; j < len(row); j++ {
				AddNonConst(&row[j-1], &g, &row[j])
			}
			batchToAffine(row[:], table[i][:])

			next.Set(&g)
			for j := 0; j < windowBits; j++ {
				DoubleNonConst(&next, &next)
			}
			g.Set(&next)
		}
		baseTable = &table
	})
	return baseTable
}

// loadBaseNAFTable returns the odd multiples of the generator used by the
// variable-time routines, computing them on first use.
func loadBaseNAFTable() *[nafTableSize]affineXY {
	baseNAFTableOnce.Do(func() {
		var table [nafTableSize]affineXY
		var points [nafTableSize]JacobianPoint
		g := MakeJacobian(&generatorX, &generatorY, &fieldOne)
		oddMultiples(&g, &points)
		batchToAffine(points[:], table[:])
		baseNAFTable = &table
	})
	return baseNAFTable
}

// oddMultiples fills table with P, 3P, 5P, ..., (2*len-1)P.
func oddMultiples(p *JacobianPoint, table *[nafTableSize]JacobianPoint) {
	var twoP JacobianPoint
	DoubleNonConst(p, &twoP)
	table[0].Set(p)
	for i := 1; i < len(table); i++ {
		AddNonConst(&table[i-1], &twoP, &table[i])
	}
}

// ctEq returns 1 when a == b and 0 otherwise without branching.
func ctEq(a, b uint32) uint32 {
	return uint32((uint64(a^b) - 1) >> 63)
}

// ScalarBaseMult multiplies k*G where G is the base point of the group and k
// is a big endian integer.  The result is stored in Jacobian coordinates
// (x1, y1, z1).
//
// The computation runs in constant time with respect to k: it performs one
// constant-time mixed addition per 4-bit window and scans every entry of the
// window's row of the precomputed table.
func ScalarBaseMult(k *ModNScalar, result *JacobianPoint) {
	table := loadBaseTable()
	digits := k.windows4()

	var acc JacobianPoint
	var sel affineXY
	for i := 0; i < numWindows; i++ {
		d := uint32(digits[i])
		sel = affineXY{}
		for j := 0; j < windowSize-1; j++ {
			sel.condAssign(ctEq(d, uint32(j+1)), &table[i][j])
		}
		addMixedConst(&acc, &sel, ctEq(d, 0), &acc)
	}
	result.Set(&acc)
}

// ScalarMult multiplies k*P where k is a scalar modulo the curve order and P
// is a point in Jacobian projective coordinates and stores the result in the
// provided Jacobian point.
//
// The computation runs in constant time with respect to k.  A table of 0P
// through 15P is built first, then every window performs four doublings and
// one complete addition of an entry selected by scanning the whole table.
func ScalarMult(k *ModNScalar, point, result *JacobianPoint) {
	var table [windowSize]JacobianPoint
	table[1].Set(point)
	doubleJacobian(point, &table[2])
	for j := 3; j < windowSize; j++ {
		addConst(&table[j-1], point, &table[j])
	}

	digits := k.windows4()
	var acc, sel JacobianPoint
	for i := numWindows - 1; i >= 0; i-- {
		for j := 0; j < windowBits; j++ {
			doubleJacobian(&acc, &acc)
		}
		d := uint32(digits[i])
		sel.SetInfinity()
		for j := 1; j < windowSize; j++ {
			sel.condAssign(ctEq(d, uint32(j)), &table[j])
		}
		addConst(&acc, &sel, &acc)
	}
	result.Set(&acc)

	for j := range table {
		table[j].SetInfinity()
	}
}

// ScalarMultNonConst multiplies k*P where k is a scalar modulo the curve
// order and P is a point in Jacobian projective coordinates and stores the
// result in the provided Jacobian point.
//
// NOTE: The point must be on the curve and the scalar must be public since
// this function runs in variable time.
func ScalarMultNonConst(k *ModNScalar, point, result *JacobianPoint) {
	var table [nafTableSize]JacobianPoint
	oddMultiples(point, &table)
	naf := k.nafVartime(nafWidth)

	var acc, neg JacobianPoint
	for i := len(naf) - 1; i >= 0; i-- {
		DoubleNonConst(&acc, &acc)
		switch d := naf[i]; {
		case d > 0:
			AddNonConst(&acc, &table[d/2], &acc)
		case d < 0:
			neg.NegateVal(&table[-d/2])
			AddNonConst(&acc, &neg, &acc)
		}
	}
	result.Set(&acc)
}

// DoubleScalarMultNonConst computes u1*G + u2*Q in a single pass, where G is
// the base point, using interleaved width-5 non-adjacent forms that share one
// chain of doublings.  The result is stored in the provided Jacobian point.
//
// NOTE: Both scalars must be public since this function runs in variable
// time.  It is intended for signature verification and key recovery.
func DoubleScalarMultNonConst(u1, u2 *ModNScalar, q, result *JacobianPoint) {
	gTable := loadBaseNAFTable()
	var qTable [nafTableSize]JacobianPoint
	oddMultiples(q, &qTable)
	naf1 := u1.nafVartime(nafWidth)
	naf2 := u2.nafVartime(nafWidth)

	var acc, neg, gPoint JacobianPoint
	for i := len(naf1) - 1; i >= 0; i-- {
		DoubleNonConst(&acc, &acc)

		if d := naf1[i]; d != 0 {
			idx := d / 2
			if d < 0 {
				idx = -d / 2
			}
			entry := &gTable[idx]
			gPoint.X.Set(&entry.X)
			gPoint.Y.Set(&entry.Y)
			gPoint.Z.Set(&fieldOne)
			if d < 0 {
				gPoint.Y.Negate()
			}
			AddNonConst(&acc, &gPoint, &acc)
		}

		switch d := naf2[i]; {
		case d > 0:
			AddNonConst(&acc, &qTable[d/2], &acc)
		case d < 0:
			neg.NegateVal(&qTable[-d/2])
			AddNonConst(&acc, &neg, &acc)
		}
	}
	result.Set(&acc)
}
