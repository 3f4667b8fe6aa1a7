// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix    = "P256TOOL"
	logLevelFlag = "log-level"
)

var errInvalidSignature = errors.New("signature is invalid")

// GetRootCmd returns the p256tool command tree.
func GetRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "p256tool",
		Short:         "NIST P-256 keys, signatures, key agreement and hashing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(loadConfig(cmd).GetString(logLevelFlag))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			log.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	rootCmd.PersistentFlags().String(logLevelFlag, "warn",
		"log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(getKeygenCommand())
	rootCmd.AddCommand(getPubkeyCommand())
	rootCmd.AddCommand(getSignCommand())
	rootCmd.AddCommand(getVerifyCommand())
	rootCmd.AddCommand(getECDHCommand())
	rootCmd.AddCommand(getHashToCurveCommand())
	rootCmd.AddCommand(getDeriveCommand())
	rootCmd.AddCommand(getOPRFEvalCommand())
	return rootCmd
}

// loadConfig binds the flags of cmd to a viper instance so that every flag
// can also be set through a P256TOOL_ prefixed environment variable, with
// dashes replaced by underscores.  Flags given on the command line win.
func loadConfig(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(cmd.Flags())
	_ = v.BindPFlags(cmd.InheritedFlags())
	return v
}

// hexArg decodes a required hex encoded option.
func hexArg(v *viper.Viper, name string) ([]byte, error) {
	s := v.GetString(name)
	if s == "" {
		return nil, fmt.Errorf("--%s is required", name)
	}
	b, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return b, nil
}

// messageArg returns the message given either as text with --msg or as hex
// with --msg-hex.
func messageArg(v *viper.Viper) ([]byte, error) {
	if v.GetString("msg-hex") != "" {
		return hexArg(v, "msg-hex")
	}
	return []byte(v.GetString("msg")), nil
}

func addMessageFlags(cmd *cobra.Command) {
	cmd.Flags().String("msg", "", "the message as text")
	cmd.Flags().String("msg-hex", "", "the message as hex, overrides --msg")
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
}

func printHex(w io.Writer, b []byte) {
	fmt.Fprintln(w, hex.EncodeToString(b))
}
