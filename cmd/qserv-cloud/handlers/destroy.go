package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/qserv/qserv-cloud/internal/provisioning"
	"github.com/qserv/qserv-cloud/internal/provisioning/destroy"
)

// Provisioner interface for testing - matches provisioning.Phase.
type Provisioner interface {
	Name() string
	Provision(ctx *provisioning.Context) error
}

// newDestroyProvisioner creates a destroy provisioner (for testing injection).
var newDestroyProvisioner = func(deleteKeyPair bool) Provisioner {
	p := destroy.NewProvisioner()
	p.DeleteKeyPair = deleteKeyPair
	return p
}

// Destroy deletes the {user}-qserv-0..N instances by name.
//
// Deletion is best effort: missing instances are skipped and every failure
// is reported. The floating IP stays allocated to the project so the next
// run can reuse it.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	s, err := openSession(ctx, opts.ConfigPath, opts.Overrides, opts.Log)
	if err != nil {
		return err
	}
	defer s.close()

	s.logger.Info("destroying cluster",
		zap.String("user", s.cfg.Username),
		zap.Int("workers", s.cfg.Workers),
		zap.Bool("keypair", opts.DeleteKeyPair),
	)

	if err := newDestroyProvisioner(opts.DeleteKeyPair).Provision(s.pctx); err != nil {
		s.logger.Error("destroy incomplete", zap.Error(err))
		return err
	}

	s.logger.Info("cluster destroyed")
	return nil
}
