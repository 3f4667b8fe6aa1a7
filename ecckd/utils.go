// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecckd

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"strings"

	"golang.org/x/crypto/ripemd160"
)

func doubleSha256(in []byte) []byte {
	a := sha256.Sum256(in)
	a = sha256.Sum256(a[:])
	return a[:]
}

// ripemd160 + sha256
func rmd160sha256(in []byte) []byte {
	a := sha256.Sum256(in)
	rmd := ripemd160.New()
	rmd.Write(a[:])
	return rmd.Sum(nil)
}

func appendUint32(dst []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, v)
}

// paddedAppend appends src to dst left padded with zeros to size bytes.
func paddedAppend(size int, dst, src []byte) []byte {
	for i := len(src); i < size; i++ {
		dst = append(dst, 0)
	}
	return append(dst, src...)
}

// ParsePath parses a derivation path such as "m/0'/1/2h" into child
// indexes.  Hardened components are marked with a trailing ' or h.  The
// leading "m" is optional and an empty path or "m" alone yields no indexes.
func ParsePath(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "m")
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil, nil
	}

	parts := strings.Split(path, "/")
	res := make([]uint32, 0, len(parts))
	for _, part := range parts {
		var hardened bool
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") ||
			strings.HasSuffix(part, "H") {
			hardened = true
			part = part[:len(part)-1]
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil || v >= HardenedBit {
			return nil, ErrInvalidPath
		}
		if hardened {
			v |= HardenedBit
		}
		res = append(res, uint32(v))
	}
	return res, nil
}
