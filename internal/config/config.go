package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider selects the cloud control plane implementation.
type Provider string

const (
	// ProviderOpenStack provisions through Keystone, Nova, Glance, and Neutron.
	ProviderOpenStack Provider = "openstack"
	// ProviderHCloud provisions on Hetzner Cloud.
	ProviderHCloud Provider = "hcloud"
)

// ErrorStatusPolicy decides what happens when an instance finishes building
// in a non-active state.
type ErrorStatusPolicy string

const (
	// ErrorStatusFail aborts the run with ErrInstanceFailed.
	ErrorStatusFail ErrorStatusPolicy = "fail"
	// ErrorStatusContinue logs the status and keeps the instance.
	ErrorStatusContinue ErrorStatusPolicy = "continue"
)

// Defaults for a cluster run.
const (
	DefaultWorkers       = 1
	DefaultImage         = "CentOS 7"
	DefaultFlavor        = "c1.medium"
	DefaultNetwork       = "petasky-net"
	DefaultPublicKeyPath = "~/.ssh/id_rsa.pub"
	DefaultIdentityFile  = "~/.ssh/id_rsa"
	DefaultOutputPath    = "ssh_config"
	DefaultTimezone      = "Europe/Paris"
	DefaultLocation      = "nbg1"
	// DefaultSSHUser is the administrative user created by cloud-config on every instance.
	DefaultSSHUser = "qserv"
)

// Config is the desired shape of a cluster and the local files a run touches.
type Config struct {
	Provider Provider `yaml:"provider"`

	// Workers is the number of worker instances created after the gateway.
	Workers int    `yaml:"workers"`
	Image   string `yaml:"image"`
	Flavor  string `yaml:"flavor"`

	// Network is the project network whose address is used as HostName
	// in the SSH client configuration.
	Network string `yaml:"network"`

	// FloatingIPPool overrides the pool a new floating IP is allocated from.
	// Empty means the first pool the provider lists.
	FloatingIPPool string `yaml:"floating_ip_pool"`

	// Location is the Hetzner location servers are placed in (hcloud only).
	Location string `yaml:"location"`

	PublicKeyPath string `yaml:"public_key"`
	IdentityFile  string `yaml:"identity_file"`
	OutputPath    string `yaml:"output"`
	Timezone      string `yaml:"timezone"`
	SSHUser       string `yaml:"ssh_user"`

	OnErrorStatus ErrorStatusPolicy `yaml:"on_error_status"`

	GenerateKey bool   `yaml:"generate_key"`
	VerifySSH   bool   `yaml:"verify_ssh"`
	MetricsFile string `yaml:"metrics_file"`

	// Username prefixes every resource name. It is filled from credentials.
	Username string `yaml:"-"`
}

// Default returns the configuration used when neither file nor flags say otherwise.
func Default() *Config {
	return &Config{
		Provider:      ProviderOpenStack,
		Workers:       DefaultWorkers,
		Image:         DefaultImage,
		Flavor:        DefaultFlavor,
		Network:       DefaultNetwork,
		Location:      DefaultLocation,
		PublicKeyPath: DefaultPublicKeyPath,
		IdentityFile:  DefaultIdentityFile,
		OutputPath:    DefaultOutputPath,
		Timezone:      DefaultTimezone,
		SSHUser:       DefaultSSHUser,
		OnErrorStatus: ErrorStatusFail,
	}
}

// Validate checks the configuration for values the provisioning run cannot work with.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenStack, ProviderHCloud:
	default:
		return fmt.Errorf("unsupported provider %q: must be %q or %q", c.Provider, ProviderOpenStack, ProviderHCloud)
	}

	switch c.OnErrorStatus {
	case ErrorStatusFail, ErrorStatusContinue:
	default:
		return fmt.Errorf("unsupported on_error_status %q: must be %q or %q", c.OnErrorStatus, ErrorStatusFail, ErrorStatusContinue)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}

	required := []struct {
		field string
		value string
	}{
		{"image", c.Image},
		{"flavor", c.Flavor},
		{"network", c.Network},
		{"public_key", c.PublicKeyPath},
		{"output", c.OutputPath},
		{"ssh_user", c.SSHUser},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required", r.field)
		}
	}

	if c.Provider == ProviderHCloud && c.Location == "" {
		return fmt.Errorf("location is required for provider %q", ProviderHCloud)
	}

	return nil
}

// ExpandPaths resolves a leading "~" in every path field against the user's home directory.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.PublicKeyPath, &c.IdentityFile, &c.OutputPath, &c.MetricsFile} {
		expanded, err := ExpandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// ExpandHome replaces a leading "~" or "~/" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
