// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commands

import (
	"crypto/sha256"
	"fmt"

	"github.com/ModChain/p256"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	lowSFlag    = "low-s"
	pubkeyFlag  = "pubkey"
	sigFlag     = "sig"
	sigFmtDER   = "der"
	sigFmtFixed = "fixed"
	sigFmtComp  = "compact"
)

func getSignCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign the SHA-256 digest of a message with RFC6979 nonces",
		Args:  cobra.NoArgs,
		RunE:  runSign,
	}
	cmd.Flags().String(keyFlag, "", "the private key as hex or JWK")
	cmd.Flags().Bool(lowSFlag, false, "normalize s to the lower half of the order")
	cmd.Flags().String(formatFlag, sigFmtDER, "signature format: der, fixed or compact")
	addMessageFlags(cmd)
	return cmd
}

func runSign(cmd *cobra.Command, args []string) error {
	v := loadConfig(cmd)
	priv, err := privKeyArg(v.GetString(keyFlag))
	if err != nil {
		return err
	}
	defer priv.Zero()
	msg, err := messageArg(v)
	if err != nil {
		return err
	}
	hash := sha256.Sum256(msg)

	format := v.GetString(formatFlag)
	log.WithFields(log.Fields{
		"hash":   fmt.Sprintf("%x", hash),
		"format": format,
		"lowS":   v.GetBool(lowSFlag),
	}).Debug("signing")

	var sig *p256.Signature
	if v.GetBool(lowSFlag) {
		sig = p256.SignCanonical(priv, hash[:])
	} else {
		sig = p256.Sign(priv, hash[:])
	}
	switch format {
	case sigFmtDER:
		printHex(cmd.OutOrStdout(), sig.Serialize())
	case sigFmtFixed:
		printHex(cmd.OutOrStdout(), sig.SerializeFixed())
	case sigFmtComp:
		printHex(cmd.OutOrStdout(), p256.SignCompact(priv, hash[:], true))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func getVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature over the SHA-256 digest of a message",
		Long: "Verify a signature over the SHA-256 digest of a message.  The " +
			"public key is not needed for compact signatures, which recover it.",
		Args: cobra.NoArgs,
		RunE: runVerify,
	}
	cmd.Flags().String(pubkeyFlag, "", "the public key as SEC1 hex or JWK")
	cmd.Flags().String(sigFlag, "", "the signature as hex")
	cmd.Flags().String(formatFlag, sigFmtDER, "signature format: der, fixed or compact")
	addMessageFlags(cmd)
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	v := loadConfig(cmd)
	msg, err := messageArg(v)
	if err != nil {
		return err
	}
	hash := sha256.Sum256(msg)
	sigBytes, err := hexArg(v, sigFlag)
	if err != nil {
		return err
	}

	var sig *p256.Signature
	var pub *p256.PublicKey
	switch format := v.GetString(formatFlag); format {
	case sigFmtDER:
		sig, err = p256.ParseDERSignature(sigBytes)
	case sigFmtFixed:
		sig, err = p256.ParseFixedSignature(sigBytes)
	case sigFmtComp:
		pub, _, err = p256.RecoverCompact(sigBytes, hash[:])
		if err == nil {
			sig, err = p256.ParseFixedSignature(sigBytes[1:])
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}

	if s := v.GetString(pubkeyFlag); s != "" || pub == nil {
		expected, err := pubKeyArg(pubkeyFlag, s)
		if err != nil {
			return err
		}
		if pub != nil && !pub.IsEqual(expected) {
			log.WithFields(log.Fields{
				"recovered": fmt.Sprintf("%x", pub.SerializeCompressed()),
			}).Debug("recovered key differs")
			return errInvalidSignature
		}
		pub = expected
	}

	if !sig.Verify(hash[:], pub) {
		return errInvalidSignature
	}
	if v.GetString(pubkeyFlag) == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "valid %x\n", pub.SerializeCompressed())
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
	}
	return nil
}
