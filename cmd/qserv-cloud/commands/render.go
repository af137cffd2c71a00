package commands

import (
	"github.com/spf13/cobra"

	"github.com/qserv/qserv-cloud/cmd/qserv-cloud/handlers"
)

// Render returns the render command.
func Render() *cobra.Command {
	var (
		configPath string
		publicKey  string
		user       string
		index      int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the cloud-config of one instance",
		Long: `Render prints the cloud-config user data an instance is created with,
without contacting the cloud.

Example:
  qserv-cloud render --index 1 --user alice`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.OutOrStdout(), handlers.RenderOptions{
				ConfigPath: configPath,
				Overrides: handlers.Overrides{
					PublicKey: stringOverride(cmd, "public-key", &publicKey),
				},
				Index:    index,
				Username: user,
			})
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	fs.StringVar(&publicKey, "public-key", "", "Public key authorized for the qserv user")
	fs.StringVar(&user, "user", "", "Cloud username (default: $OS_USERNAME)")
	fs.IntVar(&index, "index", 0, "Instance index (0 is the gateway)")

	return cmd
}
