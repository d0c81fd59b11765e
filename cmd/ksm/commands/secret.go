// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Keeper-Security/secrets-manager-sub004/models"
)

func newSecretCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "List and read records",
	}
	cmd.AddCommand(newSecretListCommand(flags), newSecretGetCommand(flags))
	return cmd
}

func newSecretListCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List records shared to the application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := newClient(flags)
			if err != nil {
				return err
			}
			records, err := sm.GetSecrets(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UID\tTYPE\tTITLE")
			for _, record := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\n", record.UID, record.Type, record.Title)
			}
			return w.Flush()
		},
	}
}

func newSecretGetCommand(flags *rootFlags) *cobra.Command {
	var (
		byTitle   bool
		fieldName string
		copyOut   bool
	)

	cmd := &cobra.Command{
		Use:   "get <uid|title>",
		Short: "Print one record, or a single field of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := newClient(flags)
			if err != nil {
				return err
			}

			var record *models.Record
			if byTitle {
				record, err = sm.GetSecretByTitle(cmd.Context(), args[0])
			} else {
				var records []*models.Record
				records, err = sm.GetSecrets(cmd.Context(), args[0])
				if err == nil {
					if len(records) == 0 {
						err = fmt.Errorf("record %s not found: %w", args[0], models.ErrUIDNotFound)
					} else {
						record = records[0]
					}
				}
			}
			if err != nil {
				return err
			}

			if fieldName != "" {
				field := record.FieldByType(fieldName)
				if field == nil {
					return fmt.Errorf("record %s has no %q field", record.UID, fieldName)
				}
				value := field.FirstString()
				return emit(value, copyOut)
			}

			out, err := record.MarshalRecordData()
			if err != nil {
				return err
			}
			return emit(string(out), copyOut)
		},
	}

	cmd.Flags().BoolVar(&byTitle, "title", false, "Look the record up by title instead of UID")
	cmd.Flags().StringVar(&fieldName, "field", "", "Print only this field's first value")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy to the clipboard instead of printing")
	return cmd
}

// emit prints value or places it on the clipboard.
func emit(value string, copyOut bool) error {
	if copyOut {
		if err := clipboard.WriteAll(value); err != nil {
			return fmt.Errorf("clipboard: %w", err)
		}
		fmt.Println("Copied to clipboard.")
		return nil
	}
	fmt.Println(value)
	return nil
}
