// Package main is the entry point for the lincon CLI.
//
// Usage:
//
//	lincon [flags] <command> [subcommand] [args]
//
// Commands:
//
//	run        - Apply an operation script to a container
//	snapshot   - Manage saved containers (list, show, delete, export, import)
//	schema     - Print the JSON schema of operation scripts
//	ctx        - Configuration contexts and service configs
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/lincon/cmd/lincon/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
