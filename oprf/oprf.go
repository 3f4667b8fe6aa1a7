// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package oprf implements the base mode of the oblivious pseudorandom function
// OPRF(P-256, SHA-256) from RFC 9497.
//
// A client blinds its private input and sends the blinded element to the
// server, which evaluates it with its secret key without learning the input.
// The client then unblinds the evaluated element and hashes it into the final
// output, which equals what the server would compute by evaluating the input
// directly.
//
//	client := oprf.NewClient()
//	blind, blinded, err := client.Blind(rand.Reader, input)
//	evaluated, err := server.BlindEvaluate(blinded)
//	output, err := client.Finalize(input, blind, evaluated)
package oprf

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ModChain/p256"
)

const (
	// ModeOPRF is the mode identifier of the base protocol.
	ModeOPRF = 0x00

	// ContextString binds every hash in the protocol to the mode and suite.
	ContextString = "OPRFV1-\x00-P256-SHA256"

	// SeedLen is the length of the seed accepted by DeriveKeyPair.
	SeedLen = 32

	// ElementLen is the length of a serialized group element.
	ElementLen = p256.PubKeyBytesLenCompressed

	// OutputLen is the length of the protocol output.
	OutputLen = sha256.Size

	// maxInputLen is the longest input or info string that fits the two byte
	// length prefixes of the protocol.
	maxInputLen = 1<<16 - 1
)

var (
	hashToGroupDST   = []byte("HashToGroup-" + ContextString)
	hashToScalarDST  = []byte("HashToScalar-" + ContextString)
	deriveKeyPairDST = []byte("DeriveKeyPair" + ContextString)
	finalizeLabel    = []byte("Finalize")
)

var (
	ErrInvalidInput   = errors.New("input maps to the identity element")
	ErrInputTooLong   = errors.New("input is longer than 65535 bytes")
	ErrInvalidSeed    = errors.New("seed must be 32 bytes")
	ErrDeriveKeyPair  = errors.New("unable to derive a key pair from seed")
	ErrInvalidElement = errors.New("invalid serialized element")
	ErrInvalidBlind   = errors.New("blind must not be zero")
)

// Client holds the client side of the protocol.  It has no state of its own;
// the blind returned by Blind must be kept until Finalize is called.
type Client struct{}

// NewClient returns a client for the OPRF(P-256, SHA-256) base mode.
func NewClient() *Client {
	return &Client{}
}

// Blind picks a random non-zero blind from rand and returns it along with the
// serialized blinded element to send to the server.
func (c *Client) Blind(rand io.Reader, input []byte) (*p256.ModNScalar, []byte, error) {
	key, err := p256.GeneratePrivateKeyFromRand(rand)
	if err != nil {
		return nil, nil, fmt.Errorf("oprf: generating blind: %w", err)
	}
	blind := new(p256.ModNScalar).Set(&key.Key)
	key.Zero()

	blinded, err := c.BlindWith(input, blind)
	if err != nil {
		blind.Zero()
		return nil, nil, err
	}
	return blind, blinded, nil
}

// BlindWith blinds input with the caller supplied blind.  It exists for
// reproducible test vectors; regular callers use Blind.
func (c *Client) BlindWith(input []byte, blind *p256.ModNScalar) ([]byte, error) {
	if blind.IsZero() {
		return nil, ErrInvalidBlind
	}
	var inputElement, blinded p256.JacobianPoint
	if err := hashToGroup(input, &inputElement); err != nil {
		return nil, err
	}
	p256.ScalarMult(blind, &inputElement, &blinded)
	return SerializeElement(&blinded)
}

// Finalize unblinds the evaluated element returned by the server and hashes
// it together with the input into the protocol output.
func (c *Client) Finalize(input []byte, blind *p256.ModNScalar, evaluatedElement []byte) ([]byte, error) {
	if len(input) > maxInputLen {
		return nil, ErrInputTooLong
	}
	if blind.IsZero() {
		return nil, ErrInvalidBlind
	}
	var evaluated, unblinded p256.JacobianPoint
	if err := DeserializeElement(evaluatedElement, &evaluated); err != nil {
		return nil, err
	}

	var inverse p256.ModNScalar
	inverse.InverseVal(blind)
	p256.ScalarMult(&inverse, &evaluated, &unblinded)
	inverse.Zero()

	elem, err := SerializeElement(&unblinded)
	if err != nil {
		return nil, err
	}
	return finalizeHash(input, elem), nil
}

// Server holds the server side of the protocol along with its secret key.
type Server struct {
	key *p256.PrivateKey
}

// NewServer returns a server evaluating with the passed private key.
func NewServer(key *p256.PrivateKey) *Server {
	return &Server{key: key}
}

// PublicKey returns the public key of the server.
func (s *Server) PublicKey() *p256.PublicKey {
	return s.key.PubKey()
}

// BlindEvaluate multiplies the blinded element sent by a client with the
// secret key and returns the serialized evaluated element.
func (s *Server) BlindEvaluate(blindedElement []byte) ([]byte, error) {
	var blinded, evaluated p256.JacobianPoint
	if err := DeserializeElement(blindedElement, &blinded); err != nil {
		return nil, err
	}
	p256.ScalarMult(&s.key.Key, &blinded, &evaluated)
	return SerializeElement(&evaluated)
}

// Evaluate computes the protocol output for input directly, without the
// blinding round trip.
func (s *Server) Evaluate(input []byte) ([]byte, error) {
	if len(input) > maxInputLen {
		return nil, ErrInputTooLong
	}
	var inputElement, evaluated p256.JacobianPoint
	if err := hashToGroup(input, &inputElement); err != nil {
		return nil, err
	}
	p256.ScalarMult(&s.key.Key, &inputElement, &evaluated)
	elem, err := SerializeElement(&evaluated)
	if err != nil {
		return nil, err
	}
	return finalizeHash(input, elem), nil
}

// DeriveKeyPair deterministically derives a server key pair from a 32-byte
// seed and an info string.  The derivation is retried with an incrementing
// counter while the candidate scalar is zero.
func DeriveKeyPair(seed, info []byte) (*p256.PrivateKey, *p256.PublicKey, error) {
	if len(seed) != SeedLen {
		return nil, nil, ErrInvalidSeed
	}
	if len(info) > maxInputLen {
		return nil, nil, ErrInputTooLong
	}

	// deriveInput = seed || I2OSP(len(info), 2) || info || counter
	deriveInput := make([]byte, 0, len(seed)+2+len(info)+1)
	deriveInput = append(deriveInput, seed...)
	deriveInput = binary.BigEndian.AppendUint16(deriveInput, uint16(len(info)))
	deriveInput = append(deriveInput, info...)
	deriveInput = append(deriveInput, 0)

	for counter := 0; counter <= 255; counter++ {
		deriveInput[len(deriveInput)-1] = byte(counter)
		sk, err := p256.HashToScalar(deriveInput, deriveKeyPairDST)
		if err != nil {
			return nil, nil, err
		}
		priv, err := p256.NewPrivateKey(sk)
		sk.Zero()
		if err != nil {
			continue
		}
		return priv, priv.PubKey(), nil
	}
	return nil, nil, ErrDeriveKeyPair
}

// HashToScalar hashes msg to a scalar with the protocol's HashToScalar tag.
func HashToScalar(msg []byte) (*p256.ModNScalar, error) {
	return p256.HashToScalar(msg, hashToScalarDST)
}

// SerializeElement encodes a non-identity point as a compressed SEC1 point.
func SerializeElement(p *p256.JacobianPoint) ([]byte, error) {
	if p.IsInfinity() {
		return nil, ErrInvalidElement
	}
	var a p256.AffinePoint
	p.ToAffine(&a)
	pub, err := p256.NewPublicKey(&a.X, &a.Y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidElement, err)
	}
	return pub.SerializeCompressed(), nil
}

// DeserializeElement decodes a compressed SEC1 point into result.  The
// identity and points not on the curve are rejected.
func DeserializeElement(b []byte, result *p256.JacobianPoint) error {
	if len(b) != ElementLen {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidElement,
			ElementLen, len(b))
	}
	pub, err := p256.ParsePubKey(b)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidElement, err)
	}
	pub.AsJacobian(result)
	return nil
}

func hashToGroup(input []byte, result *p256.JacobianPoint) error {
	if len(input) > maxInputLen {
		return ErrInputTooLong
	}
	if err := p256.HashToCurve(input, hashToGroupDST, result); err != nil {
		return err
	}
	if result.IsInfinity() {
		return ErrInvalidInput
	}
	return nil
}

// finalizeHash computes
// Hash(I2OSP(len(input), 2) || input || I2OSP(len(elem), 2) || elem || "Finalize").
func finalizeHash(input, elem []byte) []byte {
	h := sha256.New()
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(input)))
	h.Write(l[:])
	h.Write(input)
	binary.BigEndian.PutUint16(l[:], uint16(len(elem)))
	h.Write(l[:])
	h.Write(elem)
	h.Write(finalizeLabel)
	return h.Sum(nil)
}
