// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/ModChain/p256"
	"github.com/ModChain/p256/oprf"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	infoFlag    = "info"
	blindedFlag = "blinded"
)

func getOPRFEvalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oprf-eval",
		Short: "Evaluate the RFC9497 OPRF(P-256, SHA-256) as the server",
		Long: "Evaluate the OPRF as the server.  With --blinded the blinded " +
			"element of a client is evaluated, otherwise the message is " +
			"evaluated directly and the final output is printed.  The key is " +
			"either given with --key or derived from --seed and --info.",
		Args: cobra.NoArgs,
		RunE: runOPRFEval,
	}
	cmd.Flags().String(keyFlag, "", "the server private key as hex or JWK")
	cmd.Flags().String(seedFlag, "", "a 32-byte seed as hex to derive the server key from")
	cmd.Flags().String(infoFlag, "", "the info string of the key derivation")
	cmd.Flags().String(blindedFlag, "", "a blinded element as hex")
	addMessageFlags(cmd)
	return cmd
}

func runOPRFEval(cmd *cobra.Command, args []string) error {
	v := loadConfig(cmd)

	var priv *p256.PrivateKey
	var err error
	if v.GetString(seedFlag) != "" {
		var seed []byte
		if seed, err = hexArg(v, seedFlag); err != nil {
			return err
		}
		priv, _, err = oprf.DeriveKeyPair(seed, []byte(v.GetString(infoFlag)))
	} else {
		priv, err = privKeyArg(v.GetString(keyFlag))
	}
	if err != nil {
		return err
	}
	defer priv.Zero()

	server := oprf.NewServer(priv)
	log.WithFields(log.Fields{
		"pubkey": fmt.Sprintf("%x", server.PublicKey().SerializeCompressed()),
	}).Debug("oprf server key")

	var out []byte
	if v.GetString(blindedFlag) != "" {
		blinded, err := hexArg(v, blindedFlag)
		if err != nil {
			return err
		}
		out, err = server.BlindEvaluate(blinded)
		if err != nil {
			return err
		}
	} else {
		msg, err := messageArg(v)
		if err != nil {
			return err
		}
		if out, err = server.Evaluate(msg); err != nil {
			return err
		}
	}
	printHex(cmd.OutOrStdout(), out)
	return nil
}
