// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commands

import (
	"errors"
	"fmt"

	"github.com/ModChain/p256/ecckd"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	seedFlag   = "seed"
	xkeyFlag   = "xkey"
	pathFlag   = "path"
	publicFlag = "public"
)

func getDeriveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive an extended key (SLIP-0010 nist256p1)",
		Args:  cobra.NoArgs,
		RunE:  runDerive,
	}
	cmd.Flags().String(seedFlag, "", "the master seed as hex")
	cmd.Flags().String(xkeyFlag, "", "a serialized extended key to derive from instead of a seed")
	cmd.Flags().String(pathFlag, "m", "the derivation path, such as m/0'/1")
	cmd.Flags().Bool(publicFlag, false, "print the extended public key")
	return cmd
}

func runDerive(cmd *cobra.Command, args []string) error {
	v := loadConfig(cmd)

	var root *ecckd.ExtendedKey
	var err error
	switch {
	case v.GetString(xkeyFlag) != "":
		root, err = ecckd.FromString(v.GetString(xkeyFlag))
	case v.GetString(seedFlag) != "":
		var seed []byte
		if seed, err = hexArg(v, seedFlag); err == nil {
			root, err = ecckd.FromSeed(seed)
		}
	default:
		err = errors.New("one of --seed or --xkey is required")
	}
	if err != nil {
		return err
	}

	path, err := ecckd.ParsePath(v.GetString(pathFlag))
	if err != nil {
		return fmt.Errorf("--%s: %w", pathFlag, err)
	}
	key, err := root.Derive(path)
	if err != nil {
		return err
	}
	if v.GetBool(publicFlag) {
		if key, err = key.Public(); err != nil {
			return err
		}
	}
	log.WithFields(log.Fields{
		"depth":       key.Depth,
		"childNumber": key.ChildNumber,
		"fingerprint": fmt.Sprintf("%x", key.Fingerprint),
	}).Debug("derived key")

	fmt.Fprintln(cmd.OutOrStdout(), key.String())
	return nil
}
