package compute

import (
	"fmt"

	"github.com/qserv/qserv-cloud/internal/provisioning"
)

// CatalogPhase resolves the configured image and flavor names to provider IDs.
type CatalogPhase struct{}

// NewCatalogPhase creates the catalog phase.
func NewCatalogPhase() *CatalogPhase {
	return &CatalogPhase{}
}

// Name implements provisioning.Phase.
func (p *CatalogPhase) Name() string {
	return "catalog"
}

// Provision implements provisioning.Phase.
func (p *CatalogPhase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config

	imageID, err := ctx.Infra.FindImage(ctx, cfg.Image)
	if err != nil {
		return fmt.Errorf("failed to resolve image %q: %w", cfg.Image, err)
	}
	flavorID, err := ctx.Infra.FindFlavor(ctx, cfg.Flavor)
	if err != nil {
		return fmt.Errorf("failed to resolve flavor %q: %w", cfg.Flavor, err)
	}

	ctx.State.ImageID = imageID
	ctx.State.FlavorID = flavorID
	ctx.Logger.Printf("[%s] Image %q is %s, flavor %q is %s", p.Name(), cfg.Image, imageID, cfg.Flavor, flavorID)
	return nil
}
