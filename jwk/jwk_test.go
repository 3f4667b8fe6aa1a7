// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package jwk

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ModChain/p256"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testD = "ya-p2EW6dRZrXCFXZ7HWk05Qw9s26JsSe4piKxIPZyE"
	testX = "YP7UuiVanTHJYet0xjVtaMBJuJI7Yfps5mliLmDyn7Y"
	testY = "eQP-EAi4vJmkGunpVii8ZPLxsgwtfp9Rd6PClNRGIpk"
)

func testPrivKey(t *testing.T) *p256.PrivateKey {
	t.Helper()
	d, err := hex.DecodeString("c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721")
	require.NoError(t, err)
	priv, err := p256.ParsePrivKey(d)
	require.NoError(t, err)
	return priv
}

func TestFromPrivateKey(t *testing.T) {
	priv := testPrivKey(t)
	k := FromPrivateKey(priv)
	assert.Equal(t, KeyTypeEC, k.Kty)
	assert.Equal(t, CurveP256, k.Crv)
	assert.Equal(t, testX, k.X)
	assert.Equal(t, testY, k.Y)
	assert.Equal(t, testD, k.D)
	assert.True(t, k.IsPrivate())

	back, err := k.PrivateKey()
	require.NoError(t, err)
	assert.Equal(t, priv.Serialize(), back.Serialize())

	pub := k.Public()
	assert.False(t, pub.IsPrivate())
	assert.True(t, pub.Equal(k))
	assert.True(t, k.IsPrivate(), "Public must not modify the receiver")
	_, err = pub.PrivateKey()
	assert.ErrorIs(t, err, ErrNoPrivateKey)

	pubKey, err := pub.PublicKey()
	require.NoError(t, err)
	assert.True(t, pubKey.IsEqual(priv.PubKey()))
	assert.Equal(t, pub, FromPublicKey(priv.PubKey()))
}

func TestMarshalParse(t *testing.T) {
	k := FromPrivateKey(testPrivKey(t))
	k.Kid = "test"
	data, err := Marshal(k)
	require.NoError(t, err)

	var generic map[string]string
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Equal(t, map[string]string{
		"kty": "EC",
		"crv": "P-256",
		"x":   testX,
		"y":   testY,
		"d":   testD,
		"kid": "test",
	}, generic)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, k, parsed)

	// The public form omits d.
	data, err = Marshal(k.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"d"`)
}

// TestThumbprint checks the RFC 7638 thumbprint of a known key.
func TestThumbprint(t *testing.T) {
	k := FromPrivateKey(testPrivKey(t))
	tp, err := k.Thumbprint()
	require.NoError(t, err)
	assert.Equal(t, "DOvxvJiAdIqVWIkFt5hDtCunXLF0BV4-JGv4f-ALSm0",
		base64.RawURLEncoding.EncodeToString(tp))

	pubTP, err := k.Public().Thumbprint()
	require.NoError(t, err)
	assert.Equal(t, tp, pubTP)
}

func TestParseErrors(t *testing.T) {
	short := base64.RawURLEncoding.EncodeToString(make([]byte, 31))
	prime := base64.RawURLEncoding.EncodeToString([]byte{
		0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	})
	order := base64.RawURLEncoding.EncodeToString([]byte{
		0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xbc, 0xe6, 0xfa, 0xad, 0xa7, 0x17, 0x9e, 0x84,
		0xf3, 0xb9, 0xca, 0xc2, 0xfc, 0x63, 0x25, 0x51,
	})

	tests := []struct {
		name string
		json string
		err  error
	}{{
		name: "not json",
		json: `{"kty":`,
	}, {
		name: "RSA key",
		json: `{"kty":"RSA","crv":"P-256","x":"` + testX + `","y":"` + testY + `"}`,
		err:  ErrInvalidKeyType,
	}, {
		name: "other curve",
		json: `{"kty":"EC","crv":"P-384","x":"` + testX + `","y":"` + testY + `"}`,
		err:  ErrInvalidCurve,
	}, {
		name: "short x",
		json: `{"kty":"EC","crv":"P-256","x":"` + short + `","y":"` + testY + `"}`,
		err:  p256.ErrFieldInvalidLen,
	}, {
		name: "x equal to the prime",
		json: `{"kty":"EC","crv":"P-256","x":"` + prime + `","y":"` + testY + `"}`,
		err:  p256.ErrFieldOverflow,
	}, {
		name: "padded base64",
		json: `{"kty":"EC","crv":"P-256","x":"` + testX + `=","y":"` + testY + `"}`,
		err:  ErrInvalidCoordinate,
	}, {
		name: "not on curve",
		json: `{"kty":"EC","crv":"P-256","x":"` + testY + `","y":"` + testX + `"}`,
		err:  p256.ErrPubKeyNotOnCurve,
	}}

	for _, test := range tests {
		_, err := Parse([]byte(test.json))
		if test.err == nil {
			assert.Error(t, err, test.name)
			continue
		}
		assert.ErrorIs(t, err, test.err, test.name)
	}

	// Private part errors surface from PrivateKey.
	k := FromPrivateKey(testPrivKey(t))
	bad := *k
	bad.D = order
	_, err := bad.PrivateKey()
	assert.ErrorIs(t, err, ErrInvalidPrivate)
	assert.ErrorIs(t, err, p256.ErrPrivKeyOutOfRange)

	bad.D = strings.Repeat("A", 42) + "E"
	_, err = bad.PrivateKey()
	assert.ErrorIs(t, err, ErrKeyMismatch)

	bad.D = "!"
	_, err = bad.PrivateKey()
	assert.ErrorIs(t, err, ErrInvalidPrivate)
}
