// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

// Package commands wires the ksm command tree.
package commands

import (
	"github.com/spf13/cobra"

	secretsmanager "github.com/Keeper-Security/secrets-manager-sub004"
)

// rootFlags are the global flags shared by every subcommand.
type rootFlags struct {
	token      string
	hostname   string
	configFile string
	cache      bool
	debug      bool
}

// Execute builds and runs the command tree.
func Execute(version string) error {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "ksm",
		Short:         "Read application secrets from the Keeper vault",
		Long:          "ksm reads records shared to a Secrets Manager application:\nlist and fetch records, resolve keeper:// notation, and generate TOTP codes.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.token, "token", "", "One-time binding token (first run only)")
	rootCmd.PersistentFlags().StringVar(&flags.hostname, "hostname", "", "Vault hostname override")
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "Credential store path (default client-config.json)")
	rootCmd.PersistentFlags().BoolVar(&flags.cache, "cache", false, "Serve the last response when the network is unreachable")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newSecretCommand(flags),
		newNotationCommand(flags),
		newTotpCommand(flags),
	)

	return rootCmd.Execute()
}

// newClient builds an SDK client from the global flags layered under the
// KSM_* environment.
func newClient(flags *rootFlags) (*secretsmanager.Client, error) {
	opts := secretsmanager.Options{
		Token:      flags.token,
		Hostname:   flags.hostname,
		ConfigFile: flags.configFile,
		AllowCache: flags.cache,
	}
	if flags.debug {
		opts.LogLevel = "debug"
	}
	opts, err := secretsmanager.OptionsFromEnv(opts)
	if err != nil {
		return nil, err
	}
	return secretsmanager.New(opts)
}
