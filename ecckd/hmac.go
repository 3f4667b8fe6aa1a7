// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecckd

import (
	"crypto/hmac"
	"crypto/sha512"
	"errors"

	"github.com/ModChain/p256"
)

var (
	ErrShaKeyInvalid = errors.New("generated key zero or overflow, try next one")
)

// hmacCKD returns I = HMAC-SHA512(key, data) along with IL parsed as a
// scalar.  ErrShaKeyInvalid is returned together with I when parse256(IL) is
// not below the group order, in which case the caller retries as described
// by SLIP-0010.
//
// See: https://github.com/satoshilabs/slips/blob/master/slip-0010.md
func hmacCKD(data, key []byte) (I []byte, il *p256.ModNScalar, err error) {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	I = mac.Sum(nil)

	il = new(p256.ModNScalar)
	if il.SetBytes((*[32]byte)(I[:32])) != 0 {
		err = ErrShaKeyInvalid
	}
	return
}

// retryData builds the input of the next attempt after an invalid key,
// 0x01 || IR || ser32(i).
func retryData(I []byte, i uint32) []byte {
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x01)
	data = append(data, I[32:]...)
	return appendUint32(data, i)
}
