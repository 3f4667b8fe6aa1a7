// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

import (
	"fmt"
	"io"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// References:
//   [GECC]: Guide to Elliptic Curve Cryptography (Hankerson, Menezes, Vanstone)
//
//   [ISO/IEC 8825-1]: Information technology — ASN.1 encoding rules:
//     Specification of Basic Encoding Rules (BER), Canonical Encoding Rules
//     (CER) and Distinguished Encoding Rules (DER)
//
//   [SEC1]: Elliptic Curve Cryptography (May 31, 2009, Version 2.0)
//     https://www.secg.org/sec1-v2.pdf

var (
	// orderAsFieldVal is the order of the group converted to a field value.
	orderAsFieldVal = hexToFieldVal(orderHex)

	// primeMinusOrder is the field prime minus the group order in
	// little-endian words.  R.x values below it also have R.x + n < p.
	primeMinusOrder = [4]uint64{0x0c46353d039cdaae, 0x4319055358e8617b, 0, 0}
)

const (
	// asn1SequenceID is the ASN.1 identifier for a sequence and is used when
	// parsing and serializing signatures encoded with the Distinguished
	// Encoding Rules (DER) format per section 10 of [ISO/IEC 8825-1].
	asn1SequenceID = 0x30

	// asn1IntegerID is the ASN.1 identifier for an integer and is used when
	// parsing and serializing signatures encoded with the Distinguished
	// Encoding Rules (DER) format per section 10 of [ISO/IEC 8825-1].
	asn1IntegerID = 0x02

	// minSigLen is the minimum length of a DER encoded signature and is when
	// both R and S are 1 byte each.
	//
	// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x2 + 0x01 + <byte>
	minSigLen = 8

	// maxSigLen is the maximum length of a DER encoded signature and is
	// when both R and S are 33 bytes each.  It is 33 bytes because a
	// 256-bit integer requires 32 bytes and an additional leading null byte
	// might be required if the high bit is set in the value.
	//
	// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x2 + 0x21 + <33 bytes>
	maxSigLen = 72

	// sequenceOffset is the byte offset within the signature of the
	// expected ASN.1 sequence identifier.
	sequenceOffset = 0

	// dataLenOffset is the byte offset within the signature of the expected
	// total length of all remaining data in the signature.
	dataLenOffset = 1

	// rTypeOffset is the byte offset within the signature of the ASN.1
	// identifier for R and is expected to indicate an ASN.1 integer.
	rTypeOffset = 2

	// rLenOffset is the byte offset within the signature of the length of
	// R.
	rLenOffset = 3

	// rOffset is the byte offset within the signature of R.
	rOffset = 4

	// FixedSignatureLen is the length of a signature serialized as the
	// fixed-width concatenation r || s.
	FixedSignatureLen = 64

	// compactSigSize is the size of a compact signature.  It consists of a
	// compact signature recovery code byte followed by the R and S
	// components serialized as 32-byte big-endian values. 1+32*2 = 65.
	compactSigSize = 65

	// compactSigMagicOffset is a value used when creating the compact
	// signature recovery code inherited from Bitcoin and has no meaning, but
	// has been retained for compatibility.  For historical purposes, it was
	// originally picked to avoid a binary representation that would allow
	// compact signatures to be mistaken for other components.
	compactSigMagicOffset = 27

	// compactSigCompPubKey is a value used when creating the compact
	// signature recovery code to indicate the original public key was
	// compressed.
	compactSigCompPubKey = 4

	// pubKeyRecoveryCodeOddnessBit specifies the bit that indicates the
	// oddess of the Y coordinate of the random point calculated when
	// creating a signature.
	pubKeyRecoveryCodeOddnessBit = 1 << 0

	// pubKeyRecoveryCodeOverflowBit specifies the bit that indicates the X
	// coordinate of the random point calculated when creating a signature
	// was >= N, where N is the order of the group.
	pubKeyRecoveryCodeOverflowBit = 1 << 1
)

// Signature is a type representing an ECDSA signature.  Both components are
// always in [1, n-1] for signatures produced by this package.
type Signature struct {
	r ModNScalar
	s ModNScalar
}

// NewSignature instantiates a new signature given some r and s values.  An
// error of kind ErrSigRIsZero or ErrSigSIsZero is returned when either
// component is zero.
func NewSignature(r, s *ModNScalar) (*Signature, error) {
	if r.IsZero() {
		return nil, makeError(ErrSigRIsZero, "invalid signature: r is 0")
	}
	if s.IsZero() {
		return nil, makeError(ErrSigSIsZero, "invalid signature: s is 0")
	}
	return &Signature{*r, *s}, nil
}

// R returns the r value of the signature.
func (sig *Signature) R() ModNScalar {
	return sig.r
}

// S returns the s value of the signature.
func (sig *Signature) S() ModNScalar {
	return sig.s
}

// IsLowS returns whether s is at most half the group order, the canonical
// form required by some interoperability profiles.
func (sig *Signature) IsLowS() bool {
	return !sig.s.IsOverHalfOrder()
}

// NormalizeS returns a copy of the signature with s replaced by n - s when s
// is over half the group order.  Both forms verify against the same key and
// message.
func (sig *Signature) NormalizeS() *Signature {
	norm := *sig
	var negS ModNScalar
	negS.NegateVal(&sig.s)
	overHalf := uint32(0)
	if sig.s.IsOverHalfOrder() {
		overHalf = 1
	}
	norm.s.condAssign(overHalf, &negS)
	return &norm
}

// IsEqual compares this Signature instance to the one passed, returning true
// if both Signatures are equivalent.  A signature is equivalent to another,
// if they both have the same scalar value for R and S.
func (sig *Signature) IsEqual(otherSig *Signature) bool {
	return sig.r.Equals(&otherSig.r) && sig.s.Equals(&otherSig.s)
}

// addASN1IntBytes encodes the 32-byte big-endian value as a minimal DER
// INTEGER.
func addASN1IntBytes(b *cryptobyte.Builder, bytes []byte) {
	for len(bytes) > 1 && bytes[0] == 0 {
		bytes = bytes[1:]
	}
	b.AddASN1(asn1.INTEGER, func(c *cryptobyte.Builder) {
		if bytes[0]&0x80 != 0 {
			c.AddUint8(0)
		}
		c.AddBytes(bytes)
	})
}

// Serialize returns the ECDSA signature in the Distinguished Encoding Rules
// (DER) format per section 10 of [ISO/IEC 8825-1] and such that the S
// component of the signature is as provided.
//
// The format is:
//
//	0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
//
// R and S are the minimal big-endian two's complement encodings of positive
// integers, so a leading zero is present only when the high bit of the
// first value byte is set.
func (sig *Signature) Serialize() []byte {
	rBytes := sig.r.Bytes()
	sBytes := sig.s.Bytes()

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addASN1IntBytes(b, rBytes[:])
		addASN1IntBytes(b, sBytes[:])
	})

	// The builder only fails on misuse, which cannot happen with two
	// integers of at most 33 bytes.
	return b.BytesOrPanic()
}

// SerializeFixed returns the 64-byte fixed-width encoding r || s with both
// components as 32-byte big-endian values.
func (sig *Signature) SerializeFixed() []byte {
	var b [FixedSignatureLen]byte
	sig.r.PutBytesUnchecked(b[:32])
	sig.s.PutBytesUnchecked(b[32:])
	return b[:]
}

// parseComponent decodes a 32-byte big-endian signature component and
// ensures it is in [1, n-1].
func parseComponent(b []byte, zeroKind, bigKind ErrorKind, name string) (ModNScalar, error) {
	var v ModNScalar
	if overflow := v.SetBytes((*[32]byte)(b)); overflow == 1 {
		str := fmt.Sprintf("invalid signature: %s >= group order", name)
		return v, makeError(bigKind, str)
	}
	if v.IsZero() {
		str := fmt.Sprintf("invalid signature: %s is 0", name)
		return v, makeError(zeroKind, str)
	}
	return v, nil
}

// ParseFixedSignature parses a 64-byte r || s signature.  Each component must
// be in [1, n-1].
func ParseFixedSignature(sig []byte) (*Signature, error) {
	if len(sig) != FixedSignatureLen {
		str := fmt.Sprintf("malformed signature: wrong size: %d != %d",
			len(sig), FixedSignatureLen)
		return nil, makeError(ErrSigInvalidLen, str)
	}
	r, err := parseComponent(sig[:32], ErrSigRIsZero, ErrSigRTooBig, "R")
	if err != nil {
		return nil, err
	}
	s, err := parseComponent(sig[32:], ErrSigSIsZero, ErrSigSTooBig, "S")
	if err != nil {
		return nil, err
	}
	return &Signature{r, s}, nil
}

// derIntToScalar strips the DER sign padding from an integer known to be
// positive and minimally encoded, and converts it to a scalar in [1, n-1].
func derIntToScalar(b []byte, zeroKind, bigKind ErrorKind, name string) (ModNScalar, error) {
	for len(b) > 0 && b[0] == 0x00 {
		b = b[1:]
	}
	if len(b) > 32 {
		str := fmt.Sprintf("invalid signature: %s is larger than 256 bits",
			name)
		return ModNScalar{}, makeError(bigKind, str)
	}
	var buf [32]byte
	copy(buf[32-len(b):], b)
	return parseComponent(buf[:], zeroKind, bigKind, name)
}

// ParseDERSignature parses a signature in the Distinguished Encoding Rules
// (DER) format per section 10 of [ISO/IEC 8825-1] and enforces the following
// additional restrictions:
//
//   - The R and S values must be in the valid range for P-256 scalars
//   - Neither R nor S may be zero
//   - The integers must be minimally encoded and positive
//   - No trailing data is permitted
func ParseDERSignature(sig []byte) (*Signature, error) {
	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence.
	//   - Total length is 1 byte and specifies length of all remaining data.
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows.
	//   - Length of R is 1 byte and specifies how many bytes R occupies.
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible number
	//     of bytes.  This implies the first byte can only be null if the
	//     highest bit of the next byte is set in order to prevent it from
	//     being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier.
	//   - Length of S is 1 byte and specifies how many bytes S occupies.
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules are
	//     identical as those for R.

	// The signature must adhere to the minimum and maximum allowed length.
	totalSigLen := len(sig)
	if totalSigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d",
			totalSigLen, minSigLen)
		return nil, makeError(ErrSigTooShort, str)
	}
	if totalSigLen > maxSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d",
			totalSigLen, maxSigLen)
		return nil, makeError(ErrSigTooLong, str)
	}

	// The signature must start with the ASN.1 sequence identifier.
	if sig[sequenceOffset] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x",
			sig[sequenceOffset])
		return nil, makeError(ErrSigInvalidSeqID, str)
	}

	// The signature must indicate the correct amount of data for all elements
	// related to R and S.
	if int(sig[dataLenOffset]) != totalSigLen-2 {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[dataLenOffset], totalSigLen-2)
		return nil, makeError(ErrSigInvalidDataLen, str)
	}

	// Calculate the offsets of the elements related to S and ensure S is
	// inside the signature.
	//
	// rLen specifies the length of the big-endian encoded number which
	// represents the R value of the signature.
	//
	// sTypeOffset is the offset of the ASN.1 identifier for S and, like its R
	// counterpart, is expected to indicate an ASN.1 integer.
	//
	// sLenOffset and sOffset are the byte offsets within the signature of the
	// length of S and S itself, respectively.
	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= totalSigLen {
		str := "malformed signature: S type indicator missing"
		return nil, makeError(ErrSigMissingSTypeID, str)
	}
	if sLenOffset >= totalSigLen {
		str := "malformed signature: S length missing"
		return nil, makeError(ErrSigMissingSLen, str)
	}

	// The lengths of R and S must match the overall length of the signature.
	//
	// sLen specifies the length of the big-endian encoded number which
	// represents the S value of the signature.
	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != totalSigLen {
		str := "malformed signature: invalid S length"
		return nil, makeError(ErrSigInvalidSLen, str)
	}

	// R elements must be ASN.1 integers.
	if sig[rTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: %#x != %#x",
			sig[rTypeOffset], asn1IntegerID)
		return nil, makeError(ErrSigInvalidRIntID, str)
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		str := "malformed signature: R length is zero"
		return nil, makeError(ErrSigZeroRLen, str)
	}

	// R must not be negative.
	if sig[rOffset]&0x80 != 0 {
		str := "malformed signature: R is negative"
		return nil, makeError(ErrSigNegativeR, str)
	}

	// Null bytes at the start of R are not allowed, unless R would otherwise
	// be interpreted as a negative number.
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		str := "malformed signature: R value has too much padding"
		return nil, makeError(ErrSigTooMuchRPadding, str)
	}

	// S elements must be ASN.1 integers.
	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: %#x != %#x",
			sig[sTypeOffset], asn1IntegerID)
		return nil, makeError(ErrSigInvalidSIntID, str)
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		str := "malformed signature: S length is zero"
		return nil, makeError(ErrSigZeroSLen, str)
	}

	// S must not be negative.
	if sig[sOffset]&0x80 != 0 {
		str := "malformed signature: S is negative"
		return nil, makeError(ErrSigNegativeS, str)
	}

	// Null bytes at the start of S are not allowed, unless S would otherwise
	// be interpreted as a negative number.
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		str := "malformed signature: S value has too much padding"
		return nil, makeError(ErrSigTooMuchSPadding, str)
	}

	// The signature is validly encoded per DER at this point, however,
	// enforce additional restrictions to ensure R and S are in the range
	// [1, N-1] since valid ECDSA signatures are required to be in that range
	// by FIPS 186-4.
	r, err := derIntToScalar(sig[rOffset:rOffset+rLen], ErrSigRIsZero,
		ErrSigRTooBig, "R")
	if err != nil {
		return nil, err
	}
	s, err := derIntToScalar(sig[sOffset:sOffset+sLen], ErrSigSIsZero,
		ErrSigSTooBig, "S")
	if err != nil {
		return nil, err
	}

	return &Signature{r, s}, nil
}

// sign generates an ECDSA signature over the P-256 curve for the provided
// hash (which should be the result of hashing a larger message) using the
// given nonce and private key and returns it along with an additional public
// key recovery code and success indicator.  Upon success, the produced
// signature is deterministic (same message, nonce, and key yield the same
// signature) and s is left exactly as computed.
//
// WARNING: The nonce MUST be unique for every message signed with the same
// key and MUST be generated in a cryptographically secure manner.
//
// This is a low-level function that is not intended to be called by callers
// outside of this package.
func sign(privKey, nonce *ModNScalar, hash []byte) (*Signature, byte, bool) {
	// The algorithm for producing a ECDSA signature is given as algorithm 4.29
	// in [GECC].
	//
	// The following is a paraphrased version for reference:
	//
	// G = curve generator
	// N = curve order
	// d = private key
	// m = message
	// r, s = signature
	//
	// 1. Select random nonce k in [1, N-1]
	// 2. Compute kG
	// 3. r = kG.x mod N (kG.x is the x coordinate of the point kG)
	//    Repeat from step 1 if r = 0
	// 4. e = H(m)
	// 5. s = k^-1(e + dr) mod N
	//    Repeat from step 1 if s = 0
	// 6. Return (r,s)
	//
	// This is slightly modified here to conform to RFC6979 and FIPS 186-4:
	// the hash is converted with bits2int, keeping its leftmost 256 bits, and
	// then reduced modulo N.

	// Step 2.
	//
	// Compute kG
	//
	// Note that the point must be in affine coordinates.
	var kG JacobianPoint
	var R AffinePoint
	ScalarBaseMult(nonce, &kG)
	kG.ToAffine(&R)

	// Step 3.
	//
	// r = kG.x mod N
	// Repeat from step 1 if r = 0
	var r ModNScalar
	overflow := fieldValToScalar(&r, &R.X)
	if r.IsZero() {
		return nil, 0, false
	}

	// Since the curve has a cofactor of 1, when recovering a
	// public key from an ECDSA signature over it, there are four possible
	// candidates corresponding to the following cases for each signature:
	//
	// 1) The X coord of the random point is < N and its Y coord even
	// 2) The X coord of the random point is < N and its Y coord is odd
	// 3) The X coord of the random point is >= N and its Y coord is even
	// 4) The X coord of the random point is >= N and its Y coord is odd
	//
	// Rather than forcing the recovery procedure to check all possible
	// cases, this creates a recovery code that uniquely identifies which of
	// the cases apply by making use of 2 bits.  Bit 0 identifies the
	// oddness case and Bit 1 identifies the overflow case (aka when the X
	// coord >= N).
	pubKeyRecoveryCode := byte(overflow<<1) | byte(R.Y.IsOddBit())

	// Step 4.
	//
	// e = H(m)
	var e ModNScalar
	e.SetByteSlice(hash)

	// Step 5 with modification B.
	//
	// s = k^-1(e + dr) mod N
	// Repeat from step 1 if s = 0
	kinv := new(ModNScalar).InverseVal(nonce)
	s := new(ModNScalar).Mul2(privKey, &r).Add(&e).Mul(kinv)
	kinv.Zero()
	if s.IsZero() {
		return nil, 0, false
	}

	// Step 6.
	//
	// Return (r,s)
	return &Signature{r, *s}, pubKeyRecoveryCode, true
}

// lowS replaces s with n - s when s is over half the group order and flips
// the recovery code oddness accordingly, since negating s corresponds to
// negating the random point.
func lowS(sig *Signature, pubKeyRecoveryCode byte) byte {
	if sig.s.IsOverHalfOrder() {
		sig.s.Negate()
		pubKeyRecoveryCode ^= pubKeyRecoveryCodeOddnessBit
	}
	return pubKeyRecoveryCode
}

// signRFC6979 generates a deterministic ECDSA signature according to RFC
// 6979 and returns it along with an additional public key recovery code for
// efficiently recovering the public key from the signature.
func signRFC6979(privKey *PrivateKey, hash []byte) (*Signature, byte) {
	// The algorithm for producing a ECDSA signature is given as algorithm 4.29
	// in [GECC].  See the comments in sign for details.  The nonce is derived
	// with RFC6979 instead of being random.
	privKeyScalar := &privKey.Key
	var privKeyBytes [32]byte
	privKeyScalar.PutBytes(&privKeyBytes)
	defer zeroArray32(&privKeyBytes)
	for iteration := uint32(0); ; iteration++ {
		// Step 1 with modification A.
		//
		// Generate a deterministic nonce in [1, N-1] parameterized by the
		// private key, message being signed, and iteration count.
		k := NonceRFC6979(privKeyBytes[:], hash, nil, nil, iteration)

		// Steps 2-6.
		sig, pubKeyRecoveryCode, success := sign(privKeyScalar, k, hash)
		k.Zero()
		if !success {
			continue
		}

		return sig, pubKeyRecoveryCode
	}
}

// Sign generates an ECDSA signature over the P-256 curve for the provided
// hash (which should be the result of hashing a larger message) using the
// given private key.  The produced signature is deterministic (same message
// and same key yield the same signature) per RFC6979.
//
// The s component is left as computed, so the result matches published
// RFC6979 test vectors.  Use SignCanonical for low-s signatures.  A zero
// private key yields nil.
func Sign(key *PrivateKey, hash []byte) *Signature {
	if key.Key.IsZero() {
		return nil
	}
	signature, _ := signRFC6979(key, hash)
	return signature
}

// SignCanonical is like Sign but additionally normalizes s to be at most
// half the group order, removing signature malleability.  A zero private key
// yields nil.
func SignCanonical(key *PrivateKey, hash []byte) *Signature {
	if key.Key.IsZero() {
		return nil
	}
	signature, code := signRFC6979(key, hash)
	lowS(signature, code)
	return signature
}

// SignRandom generates an ECDSA signature using a nonce drawn uniformly from
// [1, N-1] with entropy read from rand.  Every attempt reads 64 bytes and
// reduces them modulo the group order.  When lowS is set the signature is
// normalized as by SignCanonical.
func SignRandom(rand io.Reader, key *PrivateKey, hash []byte, lowSig bool) (*Signature, error) {
	if key.Key.IsZero() {
		return nil, makeError(ErrPrivKeyOutOfRange, "invalid private key: "+
			"scalar is zero")
	}
	var buf [64]byte
	defer func() {
		copy(buf[:32], zero32[:])
		copy(buf[32:], zero32[:])
	}()
	for {
		if _, err := io.ReadFull(rand, buf[:]); err != nil {
			return nil, err
		}
		var k ModNScalar
		k.SetBytesWide(&buf)
		if k.IsZero() {
			continue
		}
		sig, code, success := sign(&key.Key, &k, hash)
		k.Zero()
		if !success {
			continue
		}
		if lowSig {
			lowS(sig, code)
		}
		return sig, nil
	}
}

// Verify returns whether or not the signature is valid for the provided hash
// and P-256 public key.
//
// Invalid signatures, including those with a component out of range, are
// reported as false rather than an error.
func (sig *Signature) Verify(hash []byte, pubKey *PublicKey) bool {
	// The algorithm for verifying an ECDSA signature is given as algorithm
	// 4.30 in [GECC].
	//
	// The following is a paraphrased version for reference:
	//
	// G = curve generator
	// N = curve order
	// Q = public key
	// m = message
	// R, S = signature
	//
	// 1. Fail if R and S are not in [1, N-1]
	// 2. e = H(m)
	// 3. w = S^-1 mod N
	// 4. u1 = e * w mod N
	//    u2 = R * w mod N
	// 5. X = u1G + u2Q
	// 6. Fail if X is the point at infinity
	// 7. x = X.x mod N (X.x is the x coordinate of X)
	// 8. Verified if x == R
	//
	// However, since all group operations are done internally in Jacobian
	// projective space, the algorithm is modified slightly here in order to
	// avoid an expensive inversion back into affine coordinates at step 7.
	// Credits to Greg Maxwell for originally suggesting this optimization.
	//
	// Ordinarily, step 7 involves converting the x coordinate to affine by
	// calculating x = x / z^2 (mod P) and then calculating the remainder as
	// x = x (mod N).  Then step 8 compares it to R.
	//
	// Note that since R is the x coordinate mod N from a random point that
	// was originally mod P, and the cofactor of the curve is 1, there are
	// only two possible x coordinates that the original random point could
	// have been to produce R: x, where x < N, and x+N, where x+N < P.
	//
	// This implies that the following equality holds for the original x
	// coordinate X.x in affine space:
	//   R = X.x (mod N) <=> R == X.x || R+N == X.x when R+N < P.
	//
	// Multiplying both sides by z^2 moves the comparison into Jacobian space
	// without an inversion.  Both candidate comparisons are always performed
	// and combined with masks so the outcome does not leak through timing.

	// Step 1.
	//
	// Fail if R and S are not in [1, N-1].  Scalars are always reduced, so
	// only zero needs checking.
	if sig.r.IsZero() || sig.s.IsZero() {
		return false
	}

	// Step 2.
	//
	// e = H(m)
	var e ModNScalar
	e.SetByteSlice(hash)

	// Step 3.
	//
	// w = S^-1 mod N
	w := new(ModNScalar).InverseVal(&sig.s)

	// Step 4.
	//
	// u1 = e * w mod N
	// u2 = R * w mod N
	u1 := new(ModNScalar).Mul2(&e, w)
	u2 := new(ModNScalar).Mul2(&sig.r, w)

	// Step 5.
	//
	// X = u1G + u2Q
	var X, Q JacobianPoint
	if !pubKey.IsOnCurve() {
		return false
	}
	pubKey.AsJacobian(&Q)
	DoubleScalarMultNonConst(u1, u2, &Q, &X)

	// Step 6.
	//
	// Fail if X is the point at infinity
	if X.IsInfinity() {
		return false
	}

	// Step 7 and 8.
	//
	// x == R*z^2 (mod P), or x == (R+N)*z^2 (mod P) when R+N < P.
	var z2, sigRModP, sigRPlusN, candidate FieldVal
	z2.SquareVal(&X.Z)
	scalarToFieldVal(&sigRModP, &sig.r)
	candidate.Mul2(&sigRModP, &z2)
	match := X.X.EqualsBit(&candidate)

	rCanonical := sig.r.canonical()
	plusNValid := uint32(limbsLess(&rCanonical, &primeMinusOrder))
	sigRPlusN.Add2(&sigRModP, &orderAsFieldVal)
	candidate.Mul2(&sigRPlusN, &z2)
	match |= plusNValid & X.X.EqualsBit(&candidate)

	return match == 1
}

// SignCompact produces a compact ECDSA signature over the P-256 curve for
// the provided hash (which should be the result of hashing a larger message)
// using the given private key.  The isCompressedKey parameter specifies if
// the produced signature should reference a compressed public key or not.
//
// Compact signature format:
// <1-byte compact sig recovery code><32-byte R><32-byte S>
//
// The compact sig recovery code is the value 27 + public key recovery code + 4
// if the compact signature was created with a compressed public key.
//
// The signature is deterministic per RFC6979 and always has a low s.  A zero
// private key yields nil.
func SignCompact(key *PrivateKey, hash []byte, isCompressedKey bool) []byte {
	if key.Key.IsZero() {
		return nil
	}

	// Create the signature and associated pubkey recovery code and calculate
	// the compact signature recovery code.
	sig, pubKeyRecoveryCode := signRFC6979(key, hash)
	pubKeyRecoveryCode = lowS(sig, pubKeyRecoveryCode)
	compactSigRecoveryCode := compactSigMagicOffset + pubKeyRecoveryCode
	if isCompressedKey {
		compactSigRecoveryCode += compactSigCompPubKey
	}

	// Output <compactSigRecoveryCode><32-byte R><32-byte S>.
	var b [compactSigSize]byte
	b[0] = compactSigRecoveryCode
	sig.r.PutBytesUnchecked(b[1:33])
	sig.s.PutBytesUnchecked(b[33:65])
	return b[:]
}

// RecoverCompact attempts to recover the P-256 public key from the provided
// compact signature and message hash.  The recovered public key is returned
// along with a boolean indicating whether or not the original key was
// compressed.  The signature verifies against the returned key by
// construction, so callers must compare it with the key they expect.
func RecoverCompact(signature, hash []byte) (*PublicKey, bool, error) {
	// The following is very loosely based on the information and algorithm
	// that describes recovering a public key from and ECDSA signature in
	// section 4.1.6 of [SEC1].
	//
	// Given the following parameters:
	//
	// G = curve generator
	// N = group order
	// P = field prime
	// Q = public key
	// m = message
	// e = hash of the message
	// r, s = signature
	// X = random point used when creating signature whose x coordinate is r
	//
	// The equation to recover a public key candidate from an ECDSA signature
	// is:
	// Q = r^-1(sX - eG).
	//
	// This can be verified by plugging it in for Q in the sig verification
	// equation:
	// X = s^-1(eG + rQ) (mod N)
	//  => s^-1(eG + r(r^-1(sX - eG))) (mod N)
	//  => s^-1(eG + sX - eG) (mod N)
	//  => s^-1(sX) (mod N)
	//  => X (mod N)
	//
	// However, note that since r is the x coordinate mod N from a random
	// point that was originally mod P, and the cofactor of the curve is 1,
	// there are four possible points that the original random point could
	// have been to produce r: (r,y), (r,-y), (r+N,y), and (r+N,-y).  The
	// recovery code stored in the compact signature selects among them.

	// A compact signature consists of a recovery byte followed by the R and
	// S components serialized as 32-byte big-endian values.
	if len(signature) != compactSigSize {
		str := fmt.Sprintf("malformed signature: wrong size: %d != %d",
			len(signature), compactSigSize)
		return nil, false, makeError(ErrSigInvalidLen, str)
	}

	// Parse and validate the compact signature recovery code.
	const (
		minValidCode = compactSigMagicOffset
		maxValidCode = compactSigMagicOffset + compactSigCompPubKey + 3
	)
	sigRecoveryCode := signature[0]
	if sigRecoveryCode < minValidCode || sigRecoveryCode > maxValidCode {
		str := fmt.Sprintf("invalid signature: public key recovery code %d "+
			"is not in the valid range [%d, %d]", sigRecoveryCode,
			minValidCode, maxValidCode)
		return nil, false, makeError(ErrSigInvalidRecoveryCode, str)
	}
	sigRecoveryCode -= compactSigMagicOffset
	wasCompressed := sigRecoveryCode&compactSigCompPubKey != 0
	pubKeyRecoveryCode := sigRecoveryCode & 3

	// Step 1.
	//
	// Parse and validate the R and S signature components.
	r, err := parseComponent(signature[1:33], ErrSigRIsZero, ErrSigRTooBig, "R")
	if err != nil {
		return nil, false, err
	}
	s, err := parseComponent(signature[33:], ErrSigSIsZero, ErrSigSTooBig, "S")
	if err != nil {
		return nil, false, err
	}

	// Step 2.
	//
	// Convert R to a field value and add the group order when the recovery
	// code indicates the original x coordinate overflowed it.  That is only
	// possible when R + N is still below the field prime.
	var fieldR FieldVal
	scalarToFieldVal(&fieldR, &r)
	if pubKeyRecoveryCode&pubKeyRecoveryCodeOverflowBit != 0 {
		rCanonical := r.canonical()
		if limbsLess(&rCanonical, &primeMinusOrder) == 0 {
			str := "invalid signature: signature R + N >= P"
			return nil, false, makeError(ErrSigOverflowsPrime, str)
		}
		fieldR.Add(&orderAsFieldVal)
	}

	// Step 3.
	//
	// Y = +sqrt(R.x^3 - 3*R.x + B) with the oddness from the recovery code.
	oddY := pubKeyRecoveryCode&pubKeyRecoveryCodeOddnessBit != 0
	var y FieldVal
	if !DecompressY(&fieldR, oddY, &y) {
		str := "invalid signature: not for a valid curve point"
		return nil, false, makeError(ErrPointNotOnCurve, str)
	}

	// Step 4.
	//
	// X = (r, y)
	X := MakeJacobian(&fieldR, &y, &fieldOne)

	// Step 5.
	//
	// e = H(m)
	var e ModNScalar
	e.SetByteSlice(hash)

	// Step 6.
	//
	// w = r^-1 mod N
	// u1 = -(e * w) mod N
	// u2 = s * w mod N
	w := new(ModNScalar).InverseVal(&r)
	u1 := new(ModNScalar).Mul2(&e, w).Negate()
	u2 := new(ModNScalar).Mul2(&s, w)

	// Step 7.
	//
	// Q = u1G + u2X
	var Q JacobianPoint
	DoubleScalarMultNonConst(u1, u2, &X, &Q)

	// Step 8.
	//
	// Fail if Q is the point at infinity.
	if Q.IsInfinity() {
		str := "invalid signature: recovered pubkey is the point at infinity"
		return nil, false, makeError(ErrPointNotOnCurve, str)
	}

	// Notice that the public key is in affine coordinates.
	var affine AffinePoint
	Q.ToAffine(&affine)
	return newPublicKeyUnchecked(&affine), wasCompressed, nil
}
