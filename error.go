// Copyright (c) 2020-2022 The Decred developers
// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p256

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error raised while decoding
// field values, scalars and keys.
const (
	// ErrFieldInvalidLen is returned when decoding a field value from a byte
	// slice that is not exactly 32 bytes.
	ErrFieldInvalidLen = ErrorKind("ErrFieldInvalidLen")

	// ErrFieldOverflow is returned when decoding a field value whose encoding
	// is greater than or equal to the field prime.
	ErrFieldOverflow = ErrorKind("ErrFieldOverflow")

	// ErrScalarInvalidLen is returned when decoding a scalar from a byte
	// slice that is not exactly 32 bytes.
	ErrScalarInvalidLen = ErrorKind("ErrScalarInvalidLen")

	// ErrScalarOverflow is returned when decoding a scalar whose encoding is
	// greater than or equal to the group order.
	ErrScalarOverflow = ErrorKind("ErrScalarOverflow")

	// ErrPrivKeyInvalidLen is returned when a private key is not 32 bytes.
	ErrPrivKeyInvalidLen = ErrorKind("ErrPrivKeyInvalidLen")

	// ErrPrivKeyOutOfRange is returned when a private key is zero or not less
	// than the group order.
	ErrPrivKeyOutOfRange = ErrorKind("ErrPrivKeyOutOfRange")

	// ErrPrivKeyWrongCurve indicates a private key converted from another
	// library is not defined over P-256.
	ErrPrivKeyWrongCurve = ErrorKind("ErrPrivKeyWrongCurve")

	// ErrPubKeyInvalidLen indicates that the length of a serialized public
	// key is not one of the allowed lengths.
	ErrPubKeyInvalidLen = ErrorKind("ErrPubKeyInvalidLen")

	// ErrPubKeyInvalidFormat indicates an attempt was made to parse a public
	// key that does not specify one of the supported formats.
	ErrPubKeyInvalidFormat = ErrorKind("ErrPubKeyInvalidFormat")

	// ErrPubKeyXTooBig indicates that the x coordinate for a public key is
	// greater than or equal to the prime of the field underlying the group.
	ErrPubKeyXTooBig = ErrorKind("ErrPubKeyXTooBig")

	// ErrPubKeyYTooBig indicates that the y coordinate for a public key is
	// greater than or equal to the prime of the field underlying the group.
	ErrPubKeyYTooBig = ErrorKind("ErrPubKeyYTooBig")

	// ErrPubKeyNotOnCurve indicates that a public key is not a point on the
	// curve, including compressed keys whose x coordinate has no matching y.
	ErrPubKeyNotOnCurve = ErrorKind("ErrPubKeyNotOnCurve")

	// ErrPubKeyIsIdentity indicates that a public key is the point at
	// infinity.
	ErrPubKeyIsIdentity = ErrorKind("ErrPubKeyIsIdentity")

	// ErrPubKeyWrongCurve indicates that a standard library key passed for
	// conversion is not defined over P-256.
	ErrPubKeyWrongCurve = ErrorKind("ErrPubKeyWrongCurve")
)

// These constants identify errors raised while parsing or recovering from
// signatures.
const (
	// ErrSigTooShort is returned when a signature that should be a DER
	// signature is too short.
	ErrSigTooShort = ErrorKind("ErrSigTooShort")

	// ErrSigTooLong is returned when a signature that should be a DER signature
	// is too long.
	ErrSigTooLong = ErrorKind("ErrSigTooLong")

	// ErrSigInvalidSeqID is returned when a signature that should be a DER
	// signature does not have the expected ASN.1 sequence ID.
	ErrSigInvalidSeqID = ErrorKind("ErrSigInvalidSeqID")

	// ErrSigInvalidDataLen is returned when a signature that should be a DER
	// signature does not specify the correct number of remaining bytes for the
	// R and S portions.
	ErrSigInvalidDataLen = ErrorKind("ErrSigInvalidDataLen")

	// ErrSigMissingSTypeID is returned when a signature that should be a DER
	// signature does not provide the ASN.1 type ID for S.
	ErrSigMissingSTypeID = ErrorKind("ErrSigMissingSTypeID")

	// ErrSigMissingSLen is returned when a signature that should be a DER
	// signature does not provide the length of S.
	ErrSigMissingSLen = ErrorKind("ErrSigMissingSLen")

	// ErrSigInvalidSLen is returned when a signature that should be a DER
	// signature does not specify the correct number of bytes for the S portion.
	ErrSigInvalidSLen = ErrorKind("ErrSigInvalidSLen")

	// ErrSigInvalidRIntID is returned when a signature that should be a DER
	// signature does not have the expected ASN.1 integer ID for R.
	ErrSigInvalidRIntID = ErrorKind("ErrSigInvalidRIntID")

	// ErrSigZeroRLen is returned when a signature that should be a DER
	// signature has an R length of zero.
	ErrSigZeroRLen = ErrorKind("ErrSigZeroRLen")

	// ErrSigNegativeR is returned when a signature that should be a DER
	// signature has a negative value for R.
	ErrSigNegativeR = ErrorKind("ErrSigNegativeR")

	// ErrSigTooMuchRPadding is returned when a signature that should be a DER
	// signature has too much padding for R.
	ErrSigTooMuchRPadding = ErrorKind("ErrSigTooMuchRPadding")

	// ErrSigRIsZero is returned when a signature has R set to the value zero.
	ErrSigRIsZero = ErrorKind("ErrSigRIsZero")

	// ErrSigRTooBig is returned when a signature has R with a value that is
	// greater than or equal to the group order.
	ErrSigRTooBig = ErrorKind("ErrSigRTooBig")

	// ErrSigInvalidSIntID is returned when a signature that should be a DER
	// signature does not have the expected ASN.1 integer ID for S.
	ErrSigInvalidSIntID = ErrorKind("ErrSigInvalidSIntID")

	// ErrSigZeroSLen is returned when a signature that should be a DER
	// signature has an S length of zero.
	ErrSigZeroSLen = ErrorKind("ErrSigZeroSLen")

	// ErrSigNegativeS is returned when a signature that should be a DER
	// signature has a negative value for S.
	ErrSigNegativeS = ErrorKind("ErrSigNegativeS")

	// ErrSigTooMuchSPadding is returned when a signature that should be a DER
	// signature has too much padding for S.
	ErrSigTooMuchSPadding = ErrorKind("ErrSigTooMuchSPadding")

	// ErrSigSIsZero is returned when a signature has S set to the value zero.
	ErrSigSIsZero = ErrorKind("ErrSigSIsZero")

	// ErrSigSTooBig is returned when a signature has S with a value that is
	// greater than or equal to the group order.
	ErrSigSTooBig = ErrorKind("ErrSigSTooBig")

	// ErrSigInvalidLen is returned when a fixed-width or compact signature
	// is not the required length.
	ErrSigInvalidLen = ErrorKind("ErrSigInvalidLen")

	// ErrSigInvalidRecoveryCode is returned when a signature that should be a
	// compact signature has an invalid value for the public key recovery code.
	ErrSigInvalidRecoveryCode = ErrorKind("ErrSigInvalidRecoveryCode")

	// ErrSigOverflowsPrime is returned when a signature that should be a
	// compact signature has the overflow bit set but adding the order to it
	// would overflow the underlying field prime.
	ErrSigOverflowsPrime = ErrorKind("ErrSigOverflowsPrime")

	// ErrPointNotOnCurve is returned when attempting to recover a public key
	// from a compact signature results in a point that is not on the elliptic
	// curve or is the point at infinity.
	ErrPointNotOnCurve = ErrorKind("ErrPointNotOnCurve")
)

// These constants identify errors raised by hashing to the curve and by key
// agreement.
const (
	// ErrDSTEmpty is returned when a hash to curve operation is given an
	// empty domain separation tag.
	ErrDSTEmpty = ErrorKind("ErrDSTEmpty")

	// ErrExpandLenTooBig is returned when more output is requested from
	// expand_message_xmd than it is able to produce.
	ErrExpandLenTooBig = ErrorKind("ErrExpandLenTooBig")

	// ErrSharedSecretIdentity is returned when key agreement produces the
	// point at infinity.
	ErrSharedSecretIdentity = ErrorKind("ErrSharedSecretIdentity")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to P-256 elliptic curve operations.  It
// has full support for errors.Is and errors.As, so the caller can ascertain
// the specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
