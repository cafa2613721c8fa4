// Package main is the entry point for the ec3 CLI.
//
// ec3 is a command-line tool for provisioning and driving named groups
// of EC2 instances. It launches a cluster from a small YAML file,
// retries around capacity shortfalls, rolls back cleanly on failure,
// and fans commands out to every node over SSH.
//
// Commands: init, create, delete, describe, run, ssh-setup.
//
// For detailed usage information, run:
//
//	ec3 --help
package main

import (
	"fmt"
	"os"

	"github.com/ec3io/ec3/cmd/ec3/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
