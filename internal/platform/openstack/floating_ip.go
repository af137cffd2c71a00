package openstack

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/external"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/layer3/floatingips"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/networks"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/ports"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// ListFloatingIPs returns the project's floating IPs in the order Neutron reports them.
// Admin tokens see every tenant's addresses, so the listing is filtered to the
// token's project.
func (c *RealClient) ListFloatingIPs(ctx context.Context) ([]cloud.FloatingIP, error) {
	opts := floatingips.ListOpts{ProjectID: c.projectID}
	pages, err := floatingips.List(c.network, opts).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list floating IPs: %w", classify(err))
	}
	all, err := floatingips.ExtractFloatingIPs(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract floating IPs: %w", err)
	}

	result := make([]cloud.FloatingIP, 0, len(all))
	for i := range all {
		result = append(result, toFloatingIP(&all[i]))
	}
	return result, nil
}

// ListFloatingIPPools returns the external networks floating IPs can be allocated from.
func (c *RealClient) ListFloatingIPPools(ctx context.Context) ([]cloud.FloatingIPPool, error) {
	isExternal := true
	opts := external.ListOptsExt{
		ListOptsBuilder: networks.ListOpts{},
		External:        &isExternal,
	}

	pages, err := networks.List(c.network, opts).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list external networks: %w", classify(err))
	}
	all, err := networks.ExtractNetworks(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract external networks: %w", err)
	}

	pools := make([]cloud.FloatingIPPool, 0, len(all))
	for _, n := range all {
		pools = append(pools, cloud.FloatingIPPool{ID: n.ID, Name: n.Name})
	}
	return pools, nil
}

// CreateFloatingIP allocates a floating IP on the external network whose name or ID is pool.
func (c *RealClient) CreateFloatingIP(ctx context.Context, pool string) (*cloud.FloatingIP, error) {
	poolID, err := c.resolvePool(ctx, pool)
	if err != nil {
		return nil, err
	}

	fip, err := floatingips.Create(ctx, c.network, floatingips.CreateOpts{
		FloatingNetworkID: poolID,
	}).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to create floating IP in pool %s: %w", pool, classifyAllocation(err))
	}

	result := toFloatingIP(fip)
	result.Pool = pool
	return &result, nil
}

// AttachFloatingIP associates fip with the first port of the server and
// records the server ID in fip.AttachedTo.
func (c *RealClient) AttachFloatingIP(ctx context.Context, fip *cloud.FloatingIP, serverID string) error {
	pages, err := ports.List(c.network, ports.ListOpts{DeviceID: serverID}).AllPages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ports of server %s: %w", serverID, classify(err))
	}
	all, err := ports.ExtractPorts(pages)
	if err != nil {
		return fmt.Errorf("failed to extract ports: %w", err)
	}
	if len(all) == 0 {
		return fmt.Errorf("server %s has no port: %w", serverID, cloud.ErrNotFound)
	}

	portID := all[0].ID
	if _, err := floatingips.Update(ctx, c.network, fip.ID, floatingips.UpdateOpts{
		PortID: &portID,
	}).Extract(); err != nil {
		return fmt.Errorf("failed to attach floating IP %s to server %s: %w", fip.Address, serverID, classify(err))
	}

	fip.AttachedTo = serverID
	return nil
}

// resolvePool maps a pool name or ID to the external network ID.
func (c *RealClient) resolvePool(ctx context.Context, pool string) (string, error) {
	pools, err := c.ListFloatingIPPools(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range pools {
		if p.ID == pool || p.Name == pool {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("floating IP pool %q: %w", pool, cloud.ErrNotFound)
}

func toFloatingIP(fip *floatingips.FloatingIP) cloud.FloatingIP {
	return cloud.FloatingIP{
		ID:         fip.ID,
		Address:    fip.FloatingIP,
		Pool:       fip.FloatingNetworkID,
		AttachedTo: fip.PortID,
	}
}
