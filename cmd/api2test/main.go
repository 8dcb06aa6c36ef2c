// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package main is the entry point for the api2test CLI.
package main

import (
	"fmt"
	"os"

	"github.com/api2test/api2test/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
