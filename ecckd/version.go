// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecckd

// KeyVersion is the four byte prefix of a serialized extended key.  P-256 keys
// use the same prefixes as BIP32 so they encode as xprv/xpub and tprv/tpub.
type KeyVersion [4]byte

var (
	MainnetPublic  = KeyVersion{0x04, 0x88, 0xb2, 0x1e}
	MainnetPrivate = KeyVersion{0x04, 0x88, 0xad, 0xe4}
	TestnetPublic  = KeyVersion{0x04, 0x35, 0x87, 0xcf}
	TestnetPrivate = KeyVersion{0x04, 0x35, 0x83, 0x94}
)

// IsPrivate returns true if the version is for a private key
func (kv KeyVersion) IsPrivate() bool {
	switch kv {
	case MainnetPrivate, TestnetPrivate:
		return true
	}
	return false
}

// IsKnown reports whether the version is one of the recognised prefixes.
func (kv KeyVersion) IsKnown() bool {
	switch kv {
	case MainnetPublic, MainnetPrivate, TestnetPublic, TestnetPrivate:
		return true
	}
	return false
}

func (kv KeyVersion) ToPublic() KeyVersion {
	switch kv {
	case MainnetPrivate:
		return MainnetPublic
	case TestnetPrivate:
		return TestnetPublic
	}
	return kv
}
