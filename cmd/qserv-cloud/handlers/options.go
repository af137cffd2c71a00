// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"time"

	"github.com/qserv/qserv-cloud/internal/config"
)

// Overrides holds values set on the command line. A nil field leaves the
// value from the configuration file or the default in place.
type Overrides struct {
	Provider      *string
	Workers       *int
	Image         *string
	Flavor        *string
	Network       *string
	Pool          *string
	PublicKey     *string
	IdentityFile  *string
	Output        *string
	OnErrorStatus *string
	GenerateKey   *bool
	VerifySSH     *bool
	MetricsFile   *string

	PollInterval *time.Duration
	BuildTimeout *time.Duration
}

// Apply copies every set override onto cfg.
func (o Overrides) Apply(cfg *config.Config) {
	if o.Provider != nil {
		cfg.Provider = config.Provider(*o.Provider)
	}
	if o.Workers != nil {
		cfg.Workers = *o.Workers
	}
	setString(&cfg.Image, o.Image)
	setString(&cfg.Flavor, o.Flavor)
	setString(&cfg.Network, o.Network)
	setString(&cfg.FloatingIPPool, o.Pool)
	setString(&cfg.PublicKeyPath, o.PublicKey)
	setString(&cfg.IdentityFile, o.IdentityFile)
	setString(&cfg.OutputPath, o.Output)
	setString(&cfg.MetricsFile, o.MetricsFile)
	if o.OnErrorStatus != nil {
		cfg.OnErrorStatus = config.ErrorStatusPolicy(*o.OnErrorStatus)
	}
	if o.GenerateKey != nil {
		cfg.GenerateKey = *o.GenerateKey
	}
	if o.VerifySSH != nil {
		cfg.VerifySSH = *o.VerifySSH
	}
}

// ApplyTimeouts copies the polling overrides onto t.
func (o Overrides) ApplyTimeouts(t *config.Timeouts) {
	if o.PollInterval != nil {
		t.PollInterval = *o.PollInterval
	}
	if o.BuildTimeout != nil {
		t.Build = *o.BuildTimeout
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// LogOptions selects the logger encoding and level.
type LogOptions struct {
	Format string
	Level  string
}

// UpOptions configures a provisioning run.
type UpOptions struct {
	ConfigPath string
	Overrides  Overrides
	Log        LogOptions
}

// DestroyOptions configures a teardown run.
type DestroyOptions struct {
	ConfigPath    string
	Overrides     Overrides
	Log           LogOptions
	DeleteKeyPair bool
}

// RenderOptions configures cloud-config rendering.
type RenderOptions struct {
	ConfigPath string
	Overrides  Overrides
	// Index is the instance index; 0 is the gateway.
	Index int
	// Username prefixes the hostname. Empty falls back to the environment.
	Username string
}
