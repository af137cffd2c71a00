package openstack

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/tokens"

	"github.com/qserv/qserv-cloud/internal/config"
	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// RealClient implements cloud.InfrastructureManager using the OpenStack APIs.
type RealClient struct {
	compute *gophercloud.ServiceClient
	network *gophercloud.ServiceClient
	image   *gophercloud.ServiceClient

	// projectID scopes floating IP listings; empty lists whatever Neutron returns.
	projectID string
}

// Ensure interface compliance
var _ cloud.InfrastructureManager = (*RealClient)(nil)

// NewRealClient creates a RealClient from already authenticated service clients.
func NewRealClient(compute, network, image *gophercloud.ServiceClient) *RealClient {
	return &RealClient{
		compute: compute,
		network: network,
		image:   image,
	}
}

// Connect authenticates against the identity endpoint in creds and opens the
// compute, network, and image service clients.
func Connect(ctx context.Context, creds *config.Credentials) (*RealClient, error) {
	provider, err := openstack.NewClient(creds.AuthURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider client: %w", err)
	}

	if creds.Insecure {
		provider.HTTPClient = http.Client{
			Transport: &http.Transport{
				// #nosec G402 -- matches OS_INSECURE semantics of the OpenStack CLI
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	authOpts := gophercloud.AuthOptions{
		IdentityEndpoint: creds.AuthURL,
		Username:         creds.Username,
		Password:         creds.Password,
		TenantName:       creds.ProjectName,
		DomainName:       creds.DomainName,
		AllowReauth:      true,
	}
	if err := openstack.Authenticate(ctx, provider, authOpts); err != nil {
		return nil, fmt.Errorf("failed to authenticate against %s: %w", creds.AuthURL, classify(err))
	}

	endpoint := gophercloud.EndpointOpts{Region: creds.Region}

	compute, err := openstack.NewComputeV2(provider, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}
	compute.Microversion = creds.APIVersion

	network, err := openstack.NewNetworkV2(provider, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create network client: %w", err)
	}

	image, err := openstack.NewImageV2(provider, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create image client: %w", err)
	}

	client := NewRealClient(compute, network, image)
	client.projectID = scopedProjectID(provider)
	return client, nil
}

// scopedProjectID returns the project the token is scoped to, or "" for
// identity v2 and unscoped tokens.
func scopedProjectID(provider *gophercloud.ProviderClient) string {
	result, ok := provider.GetAuthResult().(interface {
		ExtractProject() (*tokens.Project, error)
	})
	if !ok {
		return ""
	}
	project, err := result.ExtractProject()
	if err != nil || project == nil {
		return ""
	}
	return project.ID
}
