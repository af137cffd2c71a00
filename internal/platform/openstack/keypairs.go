package openstack

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/keypairs"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// ListKeyPairs returns all keypairs of the authenticated user.
func (c *RealClient) ListKeyPairs(ctx context.Context) ([]cloud.KeyPair, error) {
	pages, err := keypairs.List(c.compute, keypairs.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keypairs: %w", classify(err))
	}
	all, err := keypairs.ExtractKeyPairs(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract keypairs: %w", err)
	}

	result := make([]cloud.KeyPair, 0, len(all))
	for _, kp := range all {
		result = append(result, cloud.KeyPair{
			Name:        kp.Name,
			PublicKey:   kp.PublicKey,
			Fingerprint: kp.Fingerprint,
		})
	}
	return result, nil
}

// CreateKeyPair registers publicKey under name.
func (c *RealClient) CreateKeyPair(ctx context.Context, name, publicKey string) (*cloud.KeyPair, error) {
	kp, err := keypairs.Create(ctx, c.compute, keypairs.CreateOpts{
		Name:      name,
		PublicKey: publicKey,
	}).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to create keypair %s: %w", name, classify(err))
	}
	return &cloud.KeyPair{Name: kp.Name, PublicKey: kp.PublicKey, Fingerprint: kp.Fingerprint}, nil
}

// DeleteKeyPair deletes the keypair with the given name.
func (c *RealClient) DeleteKeyPair(ctx context.Context, name string) error {
	if err := keypairs.Delete(ctx, c.compute, name, nil).ExtractErr(); err != nil {
		return fmt.Errorf("failed to delete keypair %s: %w", name, classify(err))
	}
	return nil
}
