package compute

import (
	"github.com/qserv/qserv-cloud/internal/provisioning"
	"github.com/qserv/qserv-cloud/internal/util/naming"
)

// GatewayPhase creates the gateway instance.
type GatewayPhase struct{}

// NewGatewayPhase creates the gateway phase.
func NewGatewayPhase() *GatewayPhase {
	return &GatewayPhase{}
}

// Name implements provisioning.Phase.
func (p *GatewayPhase) Name() string {
	return "gateway"
}

// Provision implements provisioning.Phase.
func (p *GatewayPhase) Provision(ctx *provisioning.Context) error {
	prov, err := NewProvisionerFromContext(ctx)
	if err != nil {
		return err
	}

	ctx.Logger.Printf("[%s] Creating %s...", p.Name(), naming.Gateway(ctx.Username()))
	server, err := prov.CreateInstance(ctx, naming.Role(naming.GatewayIndex), naming.GatewayIndex)
	if err != nil {
		return err
	}

	ctx.State.Gateway = server
	ctx.State.AddInstance(server)
	ctx.Logger.Printf("[%s] %s is %s", p.Name(), server.Name, server.Status)
	return nil
}

// WorkersPhase creates worker instances 1..N sequentially.
type WorkersPhase struct{}

// NewWorkersPhase creates the workers phase.
func NewWorkersPhase() *WorkersPhase {
	return &WorkersPhase{}
}

// Name implements provisioning.Phase.
func (p *WorkersPhase) Name() string {
	return "workers"
}

// Provision implements provisioning.Phase.
func (p *WorkersPhase) Provision(ctx *provisioning.Context) error {
	workers := ctx.Config.Workers
	if workers == 0 {
		ctx.Logger.Printf("[%s] No workers requested", p.Name())
		return nil
	}

	prov, err := NewProvisionerFromContext(ctx)
	if err != nil {
		return err
	}

	for i := 1; i <= workers; i++ {
		ctx.Logger.Printf("[%s] Creating %s (%d/%d)...", p.Name(), naming.Instance(ctx.Username(), i), i, workers)
		server, err := prov.CreateInstance(ctx, naming.Role(i), i)
		if err != nil {
			return err
		}
		ctx.State.AddInstance(server)
	}
	return nil
}
