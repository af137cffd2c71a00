package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/qserv/qserv-cloud/cmd/qserv-cloud/handlers"
	"github.com/qserv/qserv-cloud/internal/config"
	"github.com/qserv/qserv-cloud/internal/logging"
)

// clusterFlags are the flags shared by every command that touches a cluster.
// Only flags set on the command line override the configuration file.
type clusterFlags struct {
	configPath string
	provider   string
	workers    int
}

func (f *clusterFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configPath, "config", "c", "", "Path to configuration file")
	fs.StringVar(&f.provider, "provider", string(config.ProviderOpenStack), "Cloud provider (openstack, hcloud)")
	fs.IntVar(&f.workers, "workers", config.DefaultWorkers, "Number of worker instances")
}

func (f *clusterFlags) overrides(fs *pflag.FlagSet) handlers.Overrides {
	var o handlers.Overrides
	if fs.Changed("provider") {
		o.Provider = &f.provider
	}
	if fs.Changed("workers") {
		o.Workers = &f.workers
	}
	return o
}

// logFlags select the logger encoding and level.
type logFlags struct {
	format string
	level  string
}

func (f *logFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.format, "log-format", string(logging.FormatAuto), "Log format (auto, console, json)")
	fs.StringVar(&f.level, "log-level", "debug", "Log level (debug, info, warn, error)")
}

func (f *logFlags) options() handlers.LogOptions {
	return handlers.LogOptions{Format: f.format, Level: f.level}
}

// stringOverride returns &v when the flag was set.
func stringOverride(cmd *cobra.Command, name string, v *string) *string {
	if cmd.Flags().Changed(name) {
		return v
	}
	return nil
}

func boolOverride(cmd *cobra.Command, name string, v *bool) *bool {
	if cmd.Flags().Changed(name) {
		return v
	}
	return nil
}

func durationOverride(cmd *cobra.Command, name string, v *time.Duration) *time.Duration {
	if cmd.Flags().Changed(name) {
		return v
	}
	return nil
}
