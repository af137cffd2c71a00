package network

import (
	"context"
	"fmt"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// Binder attaches a floating IP to an instance.
type Binder struct {
	client cloud.FloatingIPManager
}

// NewBinder creates a binder.
func NewBinder(client cloud.FloatingIPManager) *Binder {
	return &Binder{client: client}
}

// Attach binds fip to server with a single provider call. Reachability is not
// verified.
func (b *Binder) Attach(ctx context.Context, fip *cloud.FloatingIP, server *cloud.Server) error {
	if fip == nil {
		return fmt.Errorf("no floating IP to attach")
	}
	if server == nil || server.ID == "" {
		return fmt.Errorf("no instance to attach floating IP %s to", fip.Address)
	}

	if err := b.client.AttachFloatingIP(ctx, fip, server.ID); err != nil {
		return fmt.Errorf("failed to attach floating IP %s to %s: %w", fip.Address, server.Name, err)
	}
	if fip.AttachedTo == "" {
		fip.AttachedTo = server.ID
	}
	return nil
}
