package commands

import (
	"github.com/spf13/cobra"

	"github.com/qserv/qserv-cloud/cmd/qserv-cloud/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command removes the instances of the current user's cluster.
func Destroy() *cobra.Command {
	var (
		cluster clusterFlags
		logs    logFlags
		keyPair bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the gateway and worker instances",
		Long: `Destroy deletes the instances {user}-qserv-0 through {user}-qserv-N.

Instances are looked up by name, so pass the same --workers (or config
file) used for up. Missing instances are skipped. The floating IP is kept
so the next run can reuse it. The keypair is kept unless --keypair is set.

Example:
  qserv-cloud destroy --workers 3

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), handlers.DestroyOptions{
				ConfigPath:    cluster.configPath,
				Overrides:     cluster.overrides(cmd.Flags()),
				Log:           logs.options(),
				DeleteKeyPair: keyPair,
			})
		},
	}

	fs := cmd.Flags()
	cluster.register(fs)
	logs.register(fs)
	fs.BoolVar(&keyPair, "keypair", false, "Also delete the {user}-qserv keypair")

	return cmd
}
