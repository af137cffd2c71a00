package keys

import (
	"errors"
	"fmt"
	"os"

	"github.com/qserv/qserv-cloud/internal/provisioning"
	"github.com/qserv/qserv-cloud/internal/util/keygen"
	"github.com/qserv/qserv-cloud/internal/util/naming"
)

// DefaultKeyBits is the RSA size used when a key is generated.
const DefaultKeyBits = 4096

// Phase registers the public key as the cluster keypair.
type Phase struct {
	// KeyBits is the RSA size of generated keys. Zero means DefaultKeyBits.
	KeyBits int
}

// NewPhase creates the keys phase.
func NewPhase() *Phase {
	return &Phase{}
}

// Name implements provisioning.Phase.
func (p *Phase) Name() string {
	return phase
}

// Provision implements provisioning.Phase.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config

	if cfg.GenerateKey {
		if err := p.generateIfMissing(ctx); err != nil {
			return err
		}
	}

	name := naming.KeyPair(ctx.Username())
	ctx.Logger.Printf("[%s] Registering public key %s as keypair %s...", phase, cfg.PublicKeyPath, name)

	kp, key, err := NewManager(ctx.Infra, ctx.Observer).EnsurePublicKey(ctx, name, cfg.PublicKeyPath)
	if err != nil {
		return err
	}

	ctx.State.KeyPair = kp
	ctx.State.PublicKey = key
	ctx.Logger.Printf("[%s] Keypair %s registered (%s)", phase, kp.Name, key.Fingerprint)
	return nil
}

func (p *Phase) generateIfMissing(ctx *provisioning.Context) error {
	cfg := ctx.Config
	if _, err := os.Stat(cfg.PublicKeyPath); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat public key: %w", err)
	}

	bits := p.KeyBits
	if bits == 0 {
		bits = DefaultKeyBits
	}

	ctx.Logger.Printf("[%s] Generating %d-bit RSA key at %s...", phase, bits, cfg.IdentityFile)
	kp, err := keygen.GenerateRSAKeyPair(bits)
	if err != nil {
		return err
	}
	if err := kp.Write(cfg.IdentityFile, cfg.PublicKeyPath); err != nil {
		return err
	}
	return nil
}
