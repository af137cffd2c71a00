package network

import (
	"fmt"

	"github.com/qserv/qserv-cloud/internal/provisioning"
)

const (
	addressPhase = "address"
	bindPhase    = "bind"
)

// AddressPhase acquires the floating IP before any instance is created, so a
// refusal costs nothing.
type AddressPhase struct{}

// NewAddressPhase creates the address phase.
func NewAddressPhase() *AddressPhase {
	return &AddressPhase{}
}

// Name implements provisioning.Phase.
func (p *AddressPhase) Name() string {
	return addressPhase
}

// Provision implements provisioning.Phase.
func (p *AddressPhase) Provision(ctx *provisioning.Context) error {
	ctx.Logger.Printf("[%s] Acquiring floating IP...", addressPhase)

	fip, err := NewAllocator(ctx.Infra, ctx.Config.FloatingIPPool, ctx.Observer, ctx.Metrics).Acquire(ctx)
	if err != nil {
		return err
	}

	ctx.State.FloatingIP = fip
	ctx.Logger.Printf("[%s] Using floating IP %s", addressPhase, fip.Address)
	return nil
}

// BindPhase attaches the floating IP to the gateway.
type BindPhase struct{}

// NewBindPhase creates the bind phase.
func NewBindPhase() *BindPhase {
	return &BindPhase{}
}

// Name implements provisioning.Phase.
func (p *BindPhase) Name() string {
	return bindPhase
}

// Provision implements provisioning.Phase.
func (p *BindPhase) Provision(ctx *provisioning.Context) error {
	fip := ctx.State.FloatingIP
	gateway := ctx.State.Gateway
	if fip == nil {
		return fmt.Errorf("floating IP not acquired in provisioning state")
	}
	if gateway == nil {
		return fmt.Errorf("gateway not created in provisioning state")
	}

	ctx.Logger.Printf("[%s] Attaching floating IP %s to %s...", bindPhase, fip.Address, gateway.Name)
	if err := NewBinder(ctx.Infra).Attach(ctx, fip, gateway); err != nil {
		return err
	}
	ctx.Logger.Printf("[%s] Floating IP %s attached to %s", bindPhase, fip.Address, gateway.Name)
	return nil
}
