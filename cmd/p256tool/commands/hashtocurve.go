// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/ModChain/p256"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	dstFlag    = "dst"
	encodeFlag = "encode"
)

func getHashToCurveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-to-curve",
		Short: "Hash a message to a curve point (RFC9380 P256_XMD:SHA-256_SSWU)",
		Args:  cobra.NoArgs,
		RunE:  runHashToCurve,
	}
	cmd.Flags().String(dstFlag, "", "the domain separation tag")
	cmd.Flags().Bool(encodeFlag, false, "use the nonuniform encode_to_curve suite")
	cmd.Flags().Bool(uncompressedFlag, false, "print the uncompressed encoding")
	addMessageFlags(cmd)
	return cmd
}

func runHashToCurve(cmd *cobra.Command, args []string) error {
	v := loadConfig(cmd)
	msg, err := messageArg(v)
	if err != nil {
		return err
	}
	dst := []byte(v.GetString(dstFlag))

	var p p256.JacobianPoint
	if v.GetBool(encodeFlag) {
		err = p256.EncodeToCurve(msg, dst, &p)
	} else {
		err = p256.HashToCurve(msg, dst, &p)
	}
	if err != nil {
		return err
	}

	var a p256.AffinePoint
	p.ToAffine(&a)
	pub, err := p256.NewPublicKey(&a.X, &a.Y)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"x": fmt.Sprintf("%v", a.X),
		"y": fmt.Sprintf("%v", a.Y),
	}).Debug("mapped point")

	if v.GetBool(uncompressedFlag) {
		printHex(cmd.OutOrStdout(), pub.SerializeUncompressed())
	} else {
		printHex(cmd.OutOrStdout(), pub.SerializeCompressed())
	}
	return nil
}
