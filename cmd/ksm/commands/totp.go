// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Keeper-Security/secrets-manager-sub004/totp"
)

func newTotpCommand(flags *rootFlags) *cobra.Command {
	var copyOut bool

	cmd := &cobra.Command{
		Use:   "totp <uid|otpauth://...>",
		Short: "Generate the current TOTP code for a record's oneTimeCode field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawURL := args[0]

			// A bare argument is a record UID; fetch its oneTimeCode field.
			if !strings.HasPrefix(rawURL, "otpauth://") {
				sm, err := newClient(flags)
				if err != nil {
					return err
				}
				records, err := sm.GetSecrets(cmd.Context(), rawURL)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					return fmt.Errorf("record %s not found", rawURL)
				}
				field := records[0].FieldByType("oneTimeCode")
				if field == nil || field.FirstString() == "" {
					return fmt.Errorf("record %s has no oneTimeCode field", rawURL)
				}
				rawURL = field.FirstString()
			}

			code, err := totp.Generate(rawURL)
			if err != nil {
				return err
			}
			if copyOut {
				return emit(code.Token, true)
			}
			fmt.Printf("%s (valid for %ds)\n", code.Token, code.TimeLeft)
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy to the clipboard instead of printing")
	return cmd
}
