// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

func newNotationCommand(flags *rootFlags) *cobra.Command {
	var copyOut bool

	cmd := &cobra.Command{
		Use:   "notation <keeper://...>",
		Short: "Resolve a keeper:// notation URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := newClient(flags)
			if err != nil {
				return err
			}
			values, err := sm.GetNotation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emit(strings.Join(values, "\n"), copyOut)
		},
	}

	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy to the clipboard instead of printing")
	return cmd
}
