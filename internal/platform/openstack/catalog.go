package openstack

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/flavors"
	"github.com/gophercloud/gophercloud/v2/openstack/image/v2/images"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
)

// FindImage resolves a Glance image name to its ID. The name must match
// exactly one image.
func (c *RealClient) FindImage(ctx context.Context, name string) (string, error) {
	pages, err := images.List(c.image, images.ListOpts{Name: name}).AllPages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list images: %w", classify(err))
	}
	all, err := images.ExtractImages(pages)
	if err != nil {
		return "", fmt.Errorf("failed to extract images: %w", err)
	}

	var ids []string
	for _, img := range all {
		if img.Name == name {
			ids = append(ids, img.ID)
		}
	}
	return uniqueMatch("image", name, ids)
}

// FindFlavor resolves a Nova flavor name to its ID. The name must match
// exactly one flavor.
func (c *RealClient) FindFlavor(ctx context.Context, name string) (string, error) {
	pages, err := flavors.ListDetail(c.compute, flavors.ListOpts{}).AllPages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list flavors: %w", classify(err))
	}
	all, err := flavors.ExtractFlavors(pages)
	if err != nil {
		return "", fmt.Errorf("failed to extract flavors: %w", err)
	}

	var ids []string
	for _, f := range all {
		if f.Name == name {
			ids = append(ids, f.ID)
		}
	}
	return uniqueMatch("flavor", name, ids)
}

func uniqueMatch(kind, name string, ids []string) (string, error) {
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, name, cloud.ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%s name %q is ambiguous: %d matches", kind, name, len(ids))
	}
}
