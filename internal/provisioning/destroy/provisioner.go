package destroy

import (
	"errors"
	"fmt"

	"github.com/qserv/qserv-cloud/internal/provisioning"
	"github.com/qserv/qserv-cloud/internal/util/naming"
)

const phase = "destroy"

// Provisioner handles cluster destruction.
type Provisioner struct {
	// DeleteKeyPair also removes the cluster keypair.
	DeleteKeyPair bool
}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision deletes <user>-qserv-0..N and, if requested, the keypair.
// Instances that do not exist are skipped.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	user := ctx.Username()
	names := naming.Instances(user, ctx.Config.Workers)
	ctx.Observer.Printf("[Destroy] Deleting up to %d instances for %s", len(names), user)

	var errs []error
	var deleted int
	for _, name := range names {
		server, err := ctx.Infra.FindServer(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to look up %s: %w", name, err))
			continue
		}
		if server == nil {
			ctx.Observer.Printf("[Destroy] %s not found, skipping", name)
			continue
		}

		provisioning.LogResourceDeleting(ctx.Observer, phase, "instance", name)
		if err := ctx.Infra.DeleteServer(ctx, server.ID); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", name, err))
			continue
		}
		provisioning.LogResourceDeleted(ctx.Observer, phase, "instance", name)
		deleted++
	}

	if p.DeleteKeyPair {
		name := naming.KeyPair(user)
		provisioning.LogResourceDeleting(ctx.Observer, phase, "keypair", name)
		if err := ctx.Infra.DeleteKeyPair(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete keypair %s: %w", name, err))
		} else {
			provisioning.LogResourceDeleted(ctx.Observer, phase, "keypair", name)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	ctx.Observer.Printf("[Destroy] Deleted %d instances", deleted)
	return nil
}
