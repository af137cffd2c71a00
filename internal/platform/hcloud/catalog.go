package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// imageArchitectures is the lookup order for images. Hetzner images are per
// architecture; x86 is tried first.
var imageArchitectures = []hcloud.Architecture{hcloud.ArchitectureX86, hcloud.ArchitectureARM}

// FindImage resolves an image name to its ID.
func (c *RealClient) FindImage(ctx context.Context, name string) (string, error) {
	for _, arch := range imageArchitectures {
		image, _, err := c.client.Image.GetForArchitecture(ctx, name, arch)
		if err != nil {
			return "", fmt.Errorf("failed to get image %s: %w", name, classify(err))
		}
		if image != nil {
			return strconv.FormatInt(image.ID, 10), nil
		}
	}
	return "", fmt.Errorf("image %q: %w", name, cloud.ErrNotFound)
}

// FindFlavor resolves a server type name to its ID.
func (c *RealClient) FindFlavor(ctx context.Context, name string) (string, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to get server type %s: %w", name, classify(err))
	}
	if serverType == nil {
		return "", fmt.Errorf("server type %q: %w", name, cloud.ErrNotFound)
	}
	return strconv.FormatInt(serverType.ID, 10), nil
}
