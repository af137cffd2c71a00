package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/qserv/qserv-cloud/internal/config"
	"github.com/qserv/qserv-cloud/internal/metrics"
	"github.com/qserv/qserv-cloud/internal/provisioning"
	"github.com/qserv/qserv-cloud/internal/provisioning/access"
	"github.com/qserv/qserv-cloud/internal/provisioning/compute"
	"github.com/qserv/qserv-cloud/internal/provisioning/keys"
	"github.com/qserv/qserv-cloud/internal/provisioning/network"
)

// newUpPhases returns the phases of a provisioning run (for testing injection).
var newUpPhases = upPhases

// Up provisions the gateway and workers and writes the SSH client configuration.
//
// The run proceeds in phases:
//  1. Validates configuration and local files
//  2. Registers the public key as the {user}-qserv keypair
//  3. Reuses or allocates a floating IP
//  4. Resolves image and flavor
//  5. Creates the gateway and attaches the floating IP to it
//  6. Creates workers one at a time
//  7. Writes ssh_config, and optionally checks every instance over SSH
//
// The returned error maps to the process exit code through provisioning.ExitCode.
func Up(ctx context.Context, opts UpOptions) error {
	s, err := openSession(ctx, opts.ConfigPath, opts.Overrides, opts.Log)
	if err != nil {
		return err
	}
	defer s.close()

	recorder := metrics.NewRecorder()
	s.pctx.Metrics = recorder

	s.logger.Info("provisioning cluster",
		zap.String("user", s.cfg.Username),
		zap.Int("workers", s.cfg.Workers),
		zap.String("image", s.cfg.Image),
		zap.String("flavor", s.cfg.Flavor),
		zap.String("network", s.cfg.Network),
	)

	runErr := provisioning.RunPhases(s.pctx, newUpPhases(s.cfg))
	code := provisioning.ExitCode(runErr)
	recorder.RunFinished(code, now())

	if s.cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(s.cfg.MetricsFile); err != nil {
			s.logger.Warn("failed to write metrics", zap.String("path", s.cfg.MetricsFile), zap.Error(err))
		}
	}

	if runErr != nil {
		s.logger.Error("provisioning failed", zap.Int("exit_code", code), zap.Error(runErr))
		return runErr
	}

	fields := []zap.Field{
		zap.String("ssh_config", s.cfg.OutputPath),
		zap.Int("instances", len(s.pctx.State.Instances)),
	}
	if fip := s.pctx.State.FloatingIP; fip != nil {
		fields = append(fields, zap.String("floating_ip", fip.Address))
	}
	s.logger.Info("cluster ready", fields...)
	return nil
}

func upPhases(cfg *config.Config) []provisioning.Phase {
	phases := []provisioning.Phase{
		provisioning.NewValidationPhase(),
		keys.NewPhase(),
		network.NewAddressPhase(),
		compute.NewCatalogPhase(),
		compute.NewGatewayPhase(),
		network.NewBindPhase(),
		compute.NewWorkersPhase(),
		access.NewSSHConfigPhase(),
	}
	if cfg.VerifySSH {
		phases = append(phases, access.NewVerifyPhase())
	}
	return phases
}
