package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, ProviderOpenStack, cfg.Provider)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "CentOS 7", cfg.Image)
	assert.Equal(t, "c1.medium", cfg.Flavor)
	assert.Equal(t, "petasky-net", cfg.Network)
	assert.Equal(t, "ssh_config", cfg.OutputPath)
	assert.Equal(t, "Europe/Paris", cfg.Timezone)
	assert.Equal(t, "qserv", cfg.SSHUser)
	assert.Equal(t, ErrorStatusFail, cfg.OnErrorStatus)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero workers is valid", func(c *Config) { c.Workers = 0 }, ""},
		{"hcloud with location", func(c *Config) { c.Provider = ProviderHCloud }, ""},
		{"continue policy", func(c *Config) { c.OnErrorStatus = ErrorStatusContinue }, ""},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers must be non-negative"},
		{"unknown provider", func(c *Config) { c.Provider = "aws" }, "unsupported provider"},
		{"unknown policy", func(c *Config) { c.OnErrorStatus = "retry" }, "unsupported on_error_status"},
		{"empty image", func(c *Config) { c.Image = " " }, "image is required"},
		{"empty flavor", func(c *Config) { c.Flavor = "" }, "flavor is required"},
		{"empty network", func(c *Config) { c.Network = "" }, "network is required"},
		{"empty output", func(c *Config) { c.OutputPath = "" }, "output is required"},
		{"hcloud without location", func(c *Config) {
			c.Provider = ProviderHCloud
			c.Location = ""
		}, "location is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.ssh/id_rsa.pub")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ssh/id_rsa.pub"), got)

	got, err = ExpandHome("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = ExpandHome("relative/ssh_config")
	require.NoError(t, err)
	assert.Equal(t, "relative/ssh_config", got)

	got, err = ExpandHome("~other/file")
	require.NoError(t, err)
	assert.Equal(t, "~other/file", got)
}

func TestExpandPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Default()
	cfg.MetricsFile = ""
	require.NoError(t, cfg.ExpandPaths())

	assert.Equal(t, filepath.Join(home, ".ssh/id_rsa.pub"), cfg.PublicKeyPath)
	assert.Equal(t, filepath.Join(home, ".ssh/id_rsa"), cfg.IdentityFile)
	assert.Equal(t, "ssh_config", cfg.OutputPath)
	assert.Empty(t, cfg.MetricsFile)
}
