package network

import (
	"context"
	"fmt"

	"github.com/qserv/qserv-cloud/internal/metrics"
	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/provisioning"
)

const resourceType = "floating IP"

// Allocator finds or allocates a floating IP.
type Allocator struct {
	client   cloud.FloatingIPManager
	pool     string
	observer provisioning.Observer
	metrics  *metrics.Recorder
}

// NewAllocator creates an allocator. An empty pool selects the first pool the
// provider lists.
func NewAllocator(client cloud.FloatingIPManager, pool string, observer provisioning.Observer, recorder *metrics.Recorder) *Allocator {
	if observer == nil {
		observer = provisioning.NewNopObserver()
	}
	return &Allocator{client: client, pool: pool, observer: observer, metrics: recorder}
}

// Acquire returns the first unattached floating IP in provider order, or
// allocates a new one when none is free. No retry and no alternate pool is
// tried after a refusal.
func (a *Allocator) Acquire(ctx context.Context) (*cloud.FloatingIP, error) {
	existing, err := a.client.ListFloatingIPs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list floating IPs: %w", err)
	}

	for i := range existing {
		fip := existing[i]
		if fip.Attached() || fip.Address == "" {
			continue
		}
		provisioning.LogResourceExists(a.observer, addressPhase, resourceType, fip.Address, fip.ID)
		a.metrics.FloatingIPAcquired(metrics.SourceReused)
		return &fip, nil
	}

	pool, err := a.selectPool(ctx)
	if err != nil {
		return nil, err
	}

	provisioning.LogResourceCreating(a.observer, addressPhase, resourceType, pool)
	fip, err := a.client.CreateFloatingIP(ctx, pool)
	if err != nil {
		if cloud.IsForbidden(err) {
			return nil, fmt.Errorf("%w: pool %s: %w", provisioning.ErrAllocationForbidden, pool, err)
		}
		return nil, fmt.Errorf("failed to allocate floating IP from pool %s: %w", pool, err)
	}
	if fip == nil || fip.Address == "" {
		return nil, fmt.Errorf("%w: pool %s returned no address", provisioning.ErrNoFloatingIP, pool)
	}

	provisioning.LogResourceCreated(a.observer, addressPhase, resourceType, fip.Address, fip.ID)
	a.metrics.FloatingIPAcquired(metrics.SourceAllocated)
	return fip, nil
}

func (a *Allocator) selectPool(ctx context.Context) (string, error) {
	if a.pool != "" {
		return a.pool, nil
	}

	pools, err := a.client.ListFloatingIPPools(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list floating IP pools: %w", err)
	}
	if len(pools) == 0 {
		return "", fmt.Errorf("%w: no floating IP pools available", provisioning.ErrNoFloatingIP)
	}

	if pools[0].Name != "" {
		return pools[0].Name, nil
	}
	return pools[0].ID, nil
}
