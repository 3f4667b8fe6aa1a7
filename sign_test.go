package p256

import (
	"crypto"
	"crypto/ecdsa"
	cryptorand "crypto/rand"
	"crypto/sha256"
	"testing"
)

func TestSigner(t *testing.T) {
	privKey, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %s", err)
	}

	var signer crypto.Signer = privKey
	pub, ok := signer.Public().(*ecdsa.PublicKey)
	if !ok {
		t.Fatalf("unexpected public key type %T", signer.Public())
	}

	hash := sha256.Sum256([]byte("crypto.Signer"))
	for _, opts := range []crypto.SignerOpts{
		crypto.SHA256,
		&SignOptions{Hash: crypto.SHA256},
		&SignOptions{Hash: crypto.SHA256, LowS: true},
	} {
		for _, rand := range []interface{}{nil, cryptorand.Reader} {
			var der []byte
			if rand == nil {
				der, err = signer.Sign(nil, hash[:], opts)
			} else {
				der, err = signer.Sign(cryptorand.Reader, hash[:], opts)
			}
			if err != nil {
				t.Fatalf("failed to sign: %s", err)
			}
			if !ecdsa.VerifyASN1(pub, hash[:], der) {
				t.Fatalf("crypto/ecdsa rejected signature %x", der)
			}
			sig, err := ParseDERSignature(der)
			if err != nil {
				t.Fatalf("failed to parse signature: %s", err)
			}
			if o, ok := opts.(*SignOptions); ok && o.LowS && !sig.IsLowS() {
				t.Fatalf("requested low s but got %x", der)
			}
		}
	}

	// Without a reader the signature is deterministic.
	sig1, _ := privKey.Sign(nil, hash[:], crypto.SHA256)
	sig2, _ := privKey.Sign(nil, hash[:], crypto.SHA256)
	if string(sig1) != string(sig2) {
		t.Fatal("deterministic signatures differ")
	}
}
