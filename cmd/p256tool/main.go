// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command p256tool exposes the P-256 primitives of this module on the command
// line: key generation, ECDSA, ECDH, hash-to-curve, hierarchical key
// derivation and OPRF evaluation.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ModChain/p256/cmd/p256tool/commands"
)

func main() {
	if err := commands.GetRootCmd().Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
