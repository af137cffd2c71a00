package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/util/labels"
)

// ListFloatingIPs returns the project's floating IPs.
func (c *RealClient) ListFloatingIPs(ctx context.Context) ([]cloud.FloatingIP, error) {
	fips, err := c.client.FloatingIP.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list floating IPs: %w", classify(err))
	}

	result := make([]cloud.FloatingIP, 0, len(fips))
	for _, fip := range fips {
		result = append(result, toFloatingIP(fip))
	}
	return result, nil
}

// ListFloatingIPPools returns the locations floating IPs can be homed in.
// The configured location comes first.
func (c *RealClient) ListFloatingIPPools(ctx context.Context) ([]cloud.FloatingIPPool, error) {
	locations, err := c.client.Location.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", classify(err))
	}

	pools := make([]cloud.FloatingIPPool, 0, len(locations))
	for _, loc := range locations {
		pool := cloud.FloatingIPPool{ID: strconv.FormatInt(loc.ID, 10), Name: loc.Name}
		if loc.Name == c.location {
			pools = append([]cloud.FloatingIPPool{pool}, pools...)
			continue
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

// CreateFloatingIP creates an IPv4 floating IP homed in the location named pool.
func (c *RealClient) CreateFloatingIP(ctx context.Context, pool string) (*cloud.FloatingIP, error) {
	res, _, err := c.client.FloatingIP.Create(ctx, hcloud.FloatingIPCreateOpts{
		Type:         hcloud.FloatingIPTypeIPv4,
		HomeLocation: &hcloud.Location{Name: pool},
		Labels:       labels.NewLabelBuilder().Build(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create floating IP in %s: %w", pool, classifyAllocation(err))
	}
	if res.Action != nil {
		if err := c.client.Action.WaitFor(ctx, res.Action); err != nil {
			return nil, fmt.Errorf("failed to wait for floating IP creation: %w", err)
		}
	}
	if res.FloatingIP == nil {
		return nil, nil
	}

	fip := toFloatingIP(res.FloatingIP)
	return &fip, nil
}

// AttachFloatingIP assigns fip to the server with the given ID.
func (c *RealClient) AttachFloatingIP(ctx context.Context, fip *cloud.FloatingIP, serverID string) error {
	fipID, err := parseID(fip.ID)
	if err != nil {
		return fmt.Errorf("invalid floating IP ID: %w", err)
	}
	srvID, err := parseID(serverID)
	if err != nil {
		return fmt.Errorf("invalid server ID: %w", err)
	}

	action, _, err := c.client.FloatingIP.Assign(ctx, &hcloud.FloatingIP{ID: fipID}, &hcloud.Server{ID: srvID})
	if err != nil {
		return fmt.Errorf("failed to assign floating IP %s to server %s: %w", fip.Address, serverID, classify(err))
	}
	if err := c.client.Action.WaitFor(ctx, action); err != nil {
		return fmt.Errorf("failed to wait for floating IP assignment: %w", err)
	}

	fip.AttachedTo = serverID
	return nil
}

func toFloatingIP(fip *hcloud.FloatingIP) cloud.FloatingIP {
	result := cloud.FloatingIP{
		ID: strconv.FormatInt(fip.ID, 10),
	}
	if fip.IP != nil {
		result.Address = fip.IP.String()
	}
	if fip.HomeLocation != nil {
		result.Pool = fip.HomeLocation.Name
	}
	if fip.Server != nil {
		result.AttachedTo = strconv.FormatInt(fip.Server.ID, 10)
	}
	return result
}

func parseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
