// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the qserv-cloud CLI.
//
// Errors are returned to main, which prints them and maps them to the
// process exit code.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "qserv-cloud",
		Short:         "Provision Qserv clusters on OpenStack or Hetzner Cloud",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(Up())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Render())
	cmd.AddCommand(Version())

	return cmd
}
