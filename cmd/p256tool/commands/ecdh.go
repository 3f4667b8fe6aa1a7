// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commands

import (
	"github.com/ModChain/p256"
	"github.com/spf13/cobra"
)

const peerFlag = "peer"

func getECDHCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecdh",
		Short: "Compute the Diffie-Hellman shared secret with a peer",
		Args:  cobra.NoArgs,
		RunE:  runECDH,
	}
	cmd.Flags().String(keyFlag, "", "the private key as hex or JWK")
	cmd.Flags().String(peerFlag, "", "the peer public key as SEC1 hex or JWK")
	return cmd
}

func runECDH(cmd *cobra.Command, args []string) error {
	v := loadConfig(cmd)
	priv, err := privKeyArg(v.GetString(keyFlag))
	if err != nil {
		return err
	}
	defer priv.Zero()
	peer, err := pubKeyArg(peerFlag, v.GetString(peerFlag))
	if err != nil {
		return err
	}
	secret, err := p256.GenerateSharedSecret(priv, peer)
	if err != nil {
		return err
	}
	printHex(cmd.OutOrStdout(), secret)
	return nil
}
