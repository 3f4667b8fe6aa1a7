// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/ModChain/p256"
	"github.com/ModChain/p256/jwk"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	keyFlag          = "key"
	formatFlag       = "format"
	uncompressedFlag = "uncompressed"
)

func getKeygenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a private key",
		Args:  cobra.NoArgs,
		RunE:  runKeygen,
	}
	cmd.Flags().String(formatFlag, "hex", "output format: hex or jwk")
	return cmd
}

func runKeygen(cmd *cobra.Command, args []string) error {
	v := loadConfig(cmd)
	priv, err := p256.GeneratePrivateKey()
	if err != nil {
		return err
	}
	defer priv.Zero()

	log.WithFields(log.Fields{
		"pubkey": fmt.Sprintf("%x", priv.PubKey().SerializeCompressed()),
	}).Debug("generated key")

	switch format := v.GetString(formatFlag); format {
	case "hex":
		printHex(cmd.OutOrStdout(), priv.Serialize())
	case "jwk":
		data, err := jwk.Marshal(jwk.FromPrivateKey(priv))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func getPubkeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Print the public key of a private key",
		Args:  cobra.NoArgs,
		RunE:  runPubkey,
	}
	cmd.Flags().String(keyFlag, "", "the private key as hex")
	cmd.Flags().Bool(uncompressedFlag, false, "print the uncompressed encoding")
	cmd.Flags().String(formatFlag, "hex", "output format: hex or jwk")
	return cmd
}

func runPubkey(cmd *cobra.Command, args []string) error {
	v := loadConfig(cmd)
	priv, err := privKeyArg(v.GetString(keyFlag))
	if err != nil {
		return err
	}
	defer priv.Zero()
	pub := priv.PubKey()

	switch format := v.GetString(formatFlag); format {
	case "hex":
		if v.GetBool(uncompressedFlag) {
			printHex(cmd.OutOrStdout(), pub.SerializeUncompressed())
		} else {
			printHex(cmd.OutOrStdout(), pub.SerializeCompressed())
		}
	case "jwk":
		data, err := jwk.Marshal(jwk.FromPublicKey(pub))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// privKeyArg parses a private key given as hex or as a JWK object.
func privKeyArg(s string) (*p256.PrivateKey, error) {
	if s == "" {
		return nil, fmt.Errorf("--%s is required", keyFlag)
	}
	if s[0] == '{' {
		k, err := jwk.Parse([]byte(s))
		if err != nil {
			return nil, err
		}
		return k.PrivateKey()
	}
	b, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", keyFlag, err)
	}
	return p256.ParsePrivKey(b)
}

// pubKeyArg parses a public key given as SEC1 hex or as a JWK object.
func pubKeyArg(name, s string) (*p256.PublicKey, error) {
	if s == "" {
		return nil, fmt.Errorf("--%s is required", name)
	}
	if s[0] == '{' {
		k, err := jwk.Parse([]byte(s))
		if err != nil {
			return nil, err
		}
		return k.PublicKey()
	}
	b, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return p256.ParsePubKey(b)
}
