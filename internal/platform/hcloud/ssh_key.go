package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/util/labels"
)

// ListKeyPairs returns all SSH keys of the project.
func (c *RealClient) ListKeyPairs(ctx context.Context) ([]cloud.KeyPair, error) {
	keys, err := c.client.SSHKey.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ssh keys: %w", classify(err))
	}

	result := make([]cloud.KeyPair, 0, len(keys))
	for _, k := range keys {
		result = append(result, cloud.KeyPair{
			Name:        k.Name,
			PublicKey:   k.PublicKey,
			Fingerprint: k.Fingerprint,
		})
	}
	return result, nil
}

// CreateKeyPair creates a new SSH key.
func (c *RealClient) CreateKeyPair(ctx context.Context, name, publicKey string) (*cloud.KeyPair, error) {
	key, _, err := c.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      name,
		PublicKey: publicKey,
		Labels:    labels.NewLabelBuilder().Build(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ssh key %s: %w", name, classify(err))
	}
	return &cloud.KeyPair{Name: key.Name, PublicKey: key.PublicKey, Fingerprint: key.Fingerprint}, nil
}

// DeleteKeyPair deletes the SSH key with the given name.
func (c *RealClient) DeleteKeyPair(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.SSHKey]{
		Key:          name,
		ResourceType: "ssh key",
		Get:          c.client.SSHKey.Get,
		Delete:       c.client.SSHKey.Delete,
	}).Execute(ctx, c)
}
