package hcloud

import (
	"sync"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/qserv/qserv-cloud/internal/config"
	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// RealClient implements cloud.InfrastructureManager using the Hetzner Cloud API.
type RealClient struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
	location string

	mu           sync.Mutex
	networkNames map[int64]string
}

// Ensure interface compliance
var _ cloud.InfrastructureManager = (*RealClient)(nil)

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithLocation sets the location servers are created in. It is also listed
// first among floating IP pools.
func WithLocation(location string) ClientOption {
	return func(c *RealClient) {
		c.location = location
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client:       hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("qserv-cloud", "")),
		timeouts:     config.LoadTimeouts(),
		location:     config.DefaultLocation,
		networkNames: make(map[int64]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
