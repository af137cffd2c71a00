package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/qserv/qserv-cloud/cmd/qserv-cloud/handlers"
	"github.com/qserv/qserv-cloud/internal/config"
)

// Up returns the up command.
func Up() *cobra.Command {
	var (
		cluster       clusterFlags
		logs          logFlags
		image         string
		flavor        string
		network       string
		pool          string
		publicKey     string
		identityFile  string
		output        string
		onErrorStatus string
		metricsFile   string
		generateKey   bool
		verifySSH     bool
		pollInterval  time.Duration
		buildTimeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create the gateway and worker instances and write ssh_config",
		Long: `Up provisions a Qserv cluster for the current cloud user.

The run:
  - Registers the local public key as the {user}-qserv keypair
  - Reuses a free floating IP or allocates one
  - Creates the gateway {user}-qserv-0 and attaches the floating IP to it
  - Creates the workers {user}-qserv-1..N one at a time
  - Writes an ssh_config that reaches every instance through the gateway

Credentials are read from the environment (OS_USERNAME, OS_PASSWORD,
OS_AUTH_URL, OS_TENANT_NAME for OpenStack; HCLOUD_TOKEN for Hetzner Cloud).
Flags override the configuration file, which overrides the defaults.

Exit codes:
  0  success
  1  floating IP allocation forbidden
  2  no floating IP obtained
  3  any other error

Example:
  qserv-cloud up --workers 3 -o ssh_config
  ssh -F ssh_config alice-qserv-0`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o := cluster.overrides(cmd.Flags())
			o.Image = stringOverride(cmd, "image", &image)
			o.Flavor = stringOverride(cmd, "flavor", &flavor)
			o.Network = stringOverride(cmd, "network", &network)
			o.Pool = stringOverride(cmd, "pool", &pool)
			o.PublicKey = stringOverride(cmd, "public-key", &publicKey)
			o.IdentityFile = stringOverride(cmd, "identity-file", &identityFile)
			o.Output = stringOverride(cmd, "output", &output)
			o.OnErrorStatus = stringOverride(cmd, "on-error-status", &onErrorStatus)
			o.MetricsFile = stringOverride(cmd, "metrics-file", &metricsFile)
			o.GenerateKey = boolOverride(cmd, "generate-key", &generateKey)
			o.VerifySSH = boolOverride(cmd, "verify-ssh", &verifySSH)
			o.PollInterval = durationOverride(cmd, "poll-interval", &pollInterval)
			o.BuildTimeout = durationOverride(cmd, "build-timeout", &buildTimeout)

			return handlers.Up(cmd.Context(), handlers.UpOptions{
				ConfigPath: cluster.configPath,
				Overrides:  o,
				Log:        logs.options(),
			})
		},
	}

	fs := cmd.Flags()
	cluster.register(fs)
	logs.register(fs)
	fs.StringVar(&image, "image", config.DefaultImage, "Image name")
	fs.StringVar(&flavor, "flavor", config.DefaultFlavor, "Flavor (server type) name")
	fs.StringVar(&network, "network", config.DefaultNetwork, "Project network used for private addresses")
	fs.StringVar(&pool, "pool", "", "Floating IP pool (default: first pool listed)")
	fs.StringVar(&publicKey, "public-key", config.DefaultPublicKeyPath, "Public key registered as the cluster keypair")
	fs.StringVar(&identityFile, "identity-file", config.DefaultIdentityFile, "Private key written to ssh_config")
	fs.StringVarP(&output, "output", "o", config.DefaultOutputPath, "Path of the generated ssh_config")
	fs.DurationVar(&pollInterval, "poll-interval", 5*time.Second, "Interval between instance status polls")
	fs.DurationVar(&buildTimeout, "build-timeout", 15*time.Minute, "Maximum time for one instance to finish building")
	fs.StringVar(&onErrorStatus, "on-error-status", string(config.ErrorStatusFail), "What to do when an instance ends in a non-active state (fail, continue)")
	fs.BoolVar(&generateKey, "generate-key", false, "Generate an RSA keypair if the public key does not exist")
	fs.BoolVar(&verifySSH, "verify-ssh", false, "Check every instance over SSH after provisioning")
	fs.StringVar(&metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")

	return cmd
}
