// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keeper Security, Inc.

// ksm is a small command-line front end over the secrets-manager SDK:
// list and read records, resolve keeper:// notation, and generate TOTP
// codes, with optional clipboard delivery.
package main

import (
	"fmt"
	"os"

	"github.com/Keeper-Security/secrets-manager-sub004/cmd/ksm/commands"
)

var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
