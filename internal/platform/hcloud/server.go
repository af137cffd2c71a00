package hcloud

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// publicNetwork is the address key for a server's public IPv4.
const publicNetwork = "public"

// CreateServer creates a server in the configured location. It does not wait
// for the server to finish booting.
func (c *RealClient) CreateServer(ctx context.Context, opts cloud.ServerCreateOpts) (*cloud.Server, error) {
	createOpts, err := c.buildServerCreateOpts(ctx, opts)
	if err != nil {
		return nil, err
	}

	res, _, err := c.client.Server.Create(ctx, createOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create server %s: %w", opts.Name, classify(err))
	}
	if res.Server == nil {
		return nil, fmt.Errorf("failed to create server %s: empty response", opts.Name)
	}

	return c.toServer(ctx, res.Server)
}

// buildServerCreateOpts resolves the keypair and network and builds server creation options.
func (c *RealClient) buildServerCreateOpts(ctx context.Context, opts cloud.ServerCreateOpts) (hcloud.ServerCreateOpts, error) {
	imageID, err := parseID(opts.ImageID)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("invalid image ID %q: %w", opts.ImageID, err)
	}
	serverTypeID, err := parseID(opts.FlavorID)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("invalid server type ID %q: %w", opts.FlavorID, err)
	}

	createOpts := hcloud.ServerCreateOpts{
		Name:       opts.Name,
		ServerType: &hcloud.ServerType{ID: serverTypeID},
		Image:      &hcloud.Image{ID: imageID},
		UserData:   opts.UserData,
		Labels:     opts.Labels,
		Location:   &hcloud.Location{Name: c.location},
	}

	if opts.KeyName != "" {
		key, _, err := c.client.SSHKey.Get(ctx, opts.KeyName)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get ssh key %s: %w", opts.KeyName, classify(err))
		}
		if key == nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("ssh key %q: %w", opts.KeyName, cloud.ErrNotFound)
		}
		createOpts.SSHKeys = []*hcloud.SSHKey{key}
	}

	if opts.Network != "" {
		network, _, err := c.client.Network.Get(ctx, opts.Network)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get network %s: %w", opts.Network, classify(err))
		}
		if network == nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("network %q: %w", opts.Network, cloud.ErrNotFound)
		}
		createOpts.Networks = []*hcloud.Network{network}
		c.rememberNetwork(network)
	}

	return createOpts, nil
}

// GetServer returns the current state of the server with the given ID.
func (c *RealClient) GetServer(ctx context.Context, id string) (*cloud.Server, error) {
	serverID, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("invalid server ID %q: %w", id, err)
	}

	server, _, err := c.client.Server.GetByID(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", id, classify(err))
	}
	if server == nil {
		return nil, fmt.Errorf("server %s: %w", id, cloud.ErrNotFound)
	}
	return c.toServer(ctx, server)
}

// FindServer returns the server with the given name, or nil.
func (c *RealClient) FindServer(ctx context.Context, name string) (*cloud.Server, error) {
	server, _, err := c.client.Server.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", name, classify(err))
	}
	if server == nil {
		return nil, nil
	}
	return c.toServer(ctx, server)
}

// DeleteServer deletes the server with the given ID.
func (c *RealClient) DeleteServer(ctx context.Context, id string) error {
	return (&DeleteOperation[*hcloud.Server]{
		Key:          id,
		ResourceType: "server",
		Get:          c.client.Server.Get,
		Delete: func(ctx context.Context, server *hcloud.Server) (*hcloud.Response, error) {
			_, resp, err := c.client.Server.DeleteWithResult(ctx, server)
			return resp, err
		},
	}).Execute(ctx, c)
}

// toServer converts a Hetzner server, resolving private network names.
func (c *RealClient) toServer(ctx context.Context, server *hcloud.Server) (*cloud.Server, error) {
	result := &cloud.Server{
		ID:        strconv.FormatInt(server.ID, 10),
		Name:      server.Name,
		Status:    mapStatus(server.Status),
		Addresses: make(map[string][]string),
	}

	for _, private := range server.PrivateNet {
		if private.Network == nil || private.IP == nil {
			continue
		}
		name, err := c.networkName(ctx, private.Network)
		if err != nil {
			return nil, err
		}
		result.Addresses[name] = append(result.Addresses[name], private.IP.String())
	}

	if ip := server.PublicNet.IPv4.IP; ip != nil && !ip.IsUnspecified() {
		result.Addresses[publicNetwork] = append(result.Addresses[publicNetwork], ip.String())
	}

	return result, nil
}

// networkName returns the name of a network, looking it up by ID once.
func (c *RealClient) networkName(ctx context.Context, network *hcloud.Network) (string, error) {
	if network.Name != "" {
		return network.Name, nil
	}

	c.mu.Lock()
	name, ok := c.networkNames[network.ID]
	c.mu.Unlock()
	if ok {
		return name, nil
	}

	full, _, err := c.client.Network.GetByID(ctx, network.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get network %d: %w", network.ID, classify(err))
	}
	if full == nil {
		return "", fmt.Errorf("network %d: %w", network.ID, cloud.ErrNotFound)
	}
	c.rememberNetwork(full)
	return full.Name, nil
}

func (c *RealClient) rememberNetwork(network *hcloud.Network) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.networkNames[network.ID] = network.Name
}

// mapStatus maps a Hetzner server status onto the provisioning lifecycle.
func mapStatus(status hcloud.ServerStatus) cloud.ServerStatus {
	switch status {
	case hcloud.ServerStatusRunning:
		return cloud.StatusActive
	case hcloud.ServerStatusInitializing, hcloud.ServerStatusStarting,
		hcloud.ServerStatusMigrating, hcloud.ServerStatusRebuilding:
		return cloud.StatusBuild
	case hcloud.ServerStatusUnknown, "":
		return cloud.StatusError
	default:
		return cloud.ServerStatus(strings.ToUpper(string(status)))
	}
}
