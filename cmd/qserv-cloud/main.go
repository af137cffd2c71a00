// Package main is the entry point for the qserv-cloud CLI.
//
// qserv-cloud provisions a Qserv cluster on OpenStack (or Hetzner Cloud):
// one gateway holding a floating IP and N workers reachable through it,
// plus an ssh_config that tunnels to every instance via the gateway.
//
// Commands: up, destroy, render, version.
//
// For detailed usage information, run:
//
//	qserv-cloud --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/qserv/qserv-cloud/cmd/qserv-cloud/commands"
	"github.com/qserv/qserv-cloud/internal/provisioning"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(provisioning.ExitCode(err))
	}
}
