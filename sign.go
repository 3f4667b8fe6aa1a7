package p256

import (
	"crypto"
	"io"
)

// SignOptions carries the options understood by PrivateKey.Sign.
type SignOptions struct {
	Hash crypto.Hash

	// LowS requests that s be normalized to at most half the group order.
	LowS bool
}

func (s *SignOptions) HashFunc() crypto.Hash {
	return s.Hash
}

// Sign will sign the provided digest, returning the resulting DER encoded
// signature. [SignOptions] can be used to pass options.
//
// A nil rand selects deterministic RFC6979 nonces, otherwise nonces are drawn
// from rand.  This makes PrivateKey usable as a crypto.Signer.
func (privkey *PrivateKey) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	if privkey.Key.IsZero() {
		return nil, makeError(ErrPrivKeyOutOfRange, "invalid private key: "+
			"scalar is zero")
	}

	var lowS bool
	if o, ok := opts.(*SignOptions); ok {
		lowS = o.LowS
	}

	if rand == nil {
		if lowS {
			return SignCanonical(privkey, digest).Serialize(), nil
		}
		return Sign(privkey, digest).Serialize(), nil // DER
	}

	sig, err := SignRandom(rand, privkey, digest, lowS)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// Public returns the public key corresponding to the private key as a
// *ecdsa.PublicKey, as required by crypto.Signer.
func (privkey *PrivateKey) Public() crypto.PublicKey {
	pub := privkey.PubKey()
	if pub == nil {
		return nil
	}
	return pub.ToECDSA()
}
