package openstack

import (
	"context"
	"fmt"
	"regexp"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/networks"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// serverCreateOpts adds the keypair name to the Nova create request.
type serverCreateOpts struct {
	servers.CreateOpts
	KeyName string
}

// ToServerCreateMap implements servers.CreateOptsBuilder.
func (o serverCreateOpts) ToServerCreateMap() (map[string]any, error) {
	body, err := o.CreateOpts.ToServerCreateMap()
	if err != nil {
		return nil, err
	}
	if o.KeyName == "" {
		return body, nil
	}
	server, ok := body["server"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected server create body")
	}
	server["key_name"] = o.KeyName
	return body, nil
}

// CreateServer submits a server create request. It does not wait for the
// server to leave the BUILD state.
func (c *RealClient) CreateServer(ctx context.Context, opts cloud.ServerCreateOpts) (*cloud.Server, error) {
	createOpts := servers.CreateOpts{
		Name:      opts.Name,
		ImageRef:  opts.ImageID,
		FlavorRef: opts.FlavorID,
		UserData:  []byte(opts.UserData),
		Metadata:  opts.Labels,
	}

	if opts.Network != "" {
		networkID, err := c.findNetwork(ctx, opts.Network)
		if err != nil {
			return nil, err
		}
		createOpts.Networks = []servers.Network{{UUID: networkID}}
	}

	srv, err := servers.Create(ctx, c.compute, serverCreateOpts{
		CreateOpts: createOpts,
		KeyName:    opts.KeyName,
	}, nil).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to create server %s: %w", opts.Name, classify(err))
	}

	result := toServer(srv)
	// The create response carries only the ID and admin password.
	if result.Name == "" {
		result.Name = opts.Name
	}
	if result.Status == "" {
		result.Status = cloud.StatusBuild
	}
	return result, nil
}

// GetServer returns the current state of the server with the given ID.
func (c *RealClient) GetServer(ctx context.Context, id string) (*cloud.Server, error) {
	srv, err := servers.Get(ctx, c.compute, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", id, classify(err))
	}
	return toServer(srv), nil
}

// FindServer returns the server whose name is exactly name, or nil.
func (c *RealClient) FindServer(ctx context.Context, name string) (*cloud.Server, error) {
	// Nova filters names by regular expression.
	pattern := "^" + regexp.QuoteMeta(name) + "$"
	pages, err := servers.List(c.compute, servers.ListOpts{Name: pattern}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", classify(err))
	}
	all, err := servers.ExtractServers(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract servers: %w", err)
	}
	for i := range all {
		if all[i].Name == name {
			return toServer(&all[i]), nil
		}
	}
	return nil, nil
}

// DeleteServer deletes the server with the given ID.
func (c *RealClient) DeleteServer(ctx context.Context, id string) error {
	if err := servers.Delete(ctx, c.compute, id).ExtractErr(); err != nil {
		return fmt.Errorf("failed to delete server %s: %w", id, classify(err))
	}
	return nil
}

// findNetwork resolves a Neutron network name to its ID.
func (c *RealClient) findNetwork(ctx context.Context, name string) (string, error) {
	pages, err := networks.List(c.network, networks.ListOpts{Name: name}).AllPages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list networks: %w", classify(err))
	}
	all, err := networks.ExtractNetworks(pages)
	if err != nil {
		return "", fmt.Errorf("failed to extract networks: %w", err)
	}
	for _, n := range all {
		if n.Name == name {
			return n.ID, nil
		}
	}
	return "", fmt.Errorf("network %q: %w", name, cloud.ErrNotFound)
}

// toServer converts a Nova server. Nova reports addresses as
// {"<network>": [{"addr": "...", "version": 4}, ...]}.
func toServer(srv *servers.Server) *cloud.Server {
	result := &cloud.Server{
		ID:        srv.ID,
		Name:      srv.Name,
		Status:    cloud.ServerStatus(srv.Status),
		Addresses: make(map[string][]string, len(srv.Addresses)),
	}

	for network, raw := range srv.Addresses {
		entries, ok := raw.([]any)
		if !ok {
			continue
		}
		for _, entry := range entries {
			fields, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if addr, ok := fields["addr"].(string); ok && addr != "" {
				result.Addresses[network] = append(result.Addresses[network], addr)
			}
		}
	}
	return result
}
