package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/qserv/qserv-cloud/internal/config"
	"github.com/qserv/qserv-cloud/internal/logging"
	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/platform/hcloud"
	"github.com/qserv/qserv-cloud/internal/platform/openstack"
	"github.com/qserv/qserv-cloud/internal/provisioning"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newInfraClient opens a session with the configured provider.
	newInfraClient = func(ctx context.Context, cfg *config.Config, creds *config.Credentials) (cloud.InfrastructureManager, error) {
		switch cfg.Provider {
		case config.ProviderHCloud:
			return hcloud.NewRealClient(creds.Token,
				hcloud.WithLocation(cfg.Location),
				hcloud.WithTimeouts(config.LoadTimeouts()),
			), nil
		default:
			client, err := openstack.Connect(ctx, creds)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// loadCredentials reads provider credentials from the environment.
	loadCredentials = config.LoadCredentials

	// newLogger builds the zap logger.
	newLogger = logging.NewLogger

	// newProvisioningContext creates the provisioning context.
	newProvisioningContext = provisioning.NewContext

	// now is the clock used for run timestamps.
	now = time.Now
)

// session is everything a command needs to talk to the cloud.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	pctx   *provisioning.Context
}

// resolveConfig loads the configuration file, if any, applies the overrides,
// and validates the result.
func resolveConfig(path string, o Overrides) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := loadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	o.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession resolves configuration, credentials, and the provider client.
func openSession(ctx context.Context, path string, o Overrides, logOpts LogOptions) (*session, error) {
	cfg, err := resolveConfig(path, o)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(logging.Config{
		Level:  logOpts.Level,
		Format: logging.Format(logOpts.Format),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	creds, err := loadCredentials(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	cfg.Username = creds.Username

	logger.Debug("opening cloud session",
		zap.String("provider", string(cfg.Provider)),
		zap.String("user", cfg.Username),
		zap.String("auth_url", creds.AuthURL),
	)
	infra, err := newInfraClient(ctx, cfg, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Provider, err)
	}

	pctx := newProvisioningContext(ctx, cfg, infra, provisioning.NewZapObserver(logger))
	o.ApplyTimeouts(pctx.Timeouts)

	return &session{cfg: cfg, logger: logger, pctx: pctx}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}
