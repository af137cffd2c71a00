package keys

import (
	"context"
	"fmt"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/provisioning"
	"github.com/qserv/qserv-cloud/internal/util/keygen"
)

const phase = "keys"

// Manager replaces named keypairs.
type Manager struct {
	client   cloud.KeyPairManager
	observer provisioning.Observer
}

// NewManager creates a keypair manager.
func NewManager(client cloud.KeyPairManager, observer provisioning.Observer) *Manager {
	if observer == nil {
		observer = provisioning.NewNopObserver()
	}
	return &Manager{client: client, observer: observer}
}

// EnsurePublicKey reads the public key at publicKeyPath and registers it
// under name, deleting every existing keypair with exactly that name first.
func (m *Manager) EnsurePublicKey(ctx context.Context, name, publicKeyPath string) (*cloud.KeyPair, *keygen.PublicKey, error) {
	if err := m.deleteExisting(ctx, name); err != nil {
		return nil, nil, err
	}

	key, err := keygen.LoadPublicKey(publicKeyPath)
	if err != nil {
		return nil, nil, err
	}

	kp, err := m.create(ctx, name, key)
	if err != nil {
		return nil, nil, err
	}
	return kp, key, nil
}

// Replace registers an already loaded key under name, deleting every existing
// keypair with exactly that name first.
func (m *Manager) Replace(ctx context.Context, name string, key *keygen.PublicKey) (*cloud.KeyPair, error) {
	if err := m.deleteExisting(ctx, name); err != nil {
		return nil, err
	}
	return m.create(ctx, name, key)
}

func (m *Manager) deleteExisting(ctx context.Context, name string) error {
	existing, err := m.client.ListKeyPairs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keypairs: %w", err)
	}

	for _, kp := range existing {
		if kp.Name != name {
			continue
		}
		provisioning.LogResourceDeleting(m.observer, phase, "keypair", kp.Name)
		if err := m.client.DeleteKeyPair(ctx, kp.Name); err != nil {
			return fmt.Errorf("failed to delete keypair %s: %w", kp.Name, err)
		}
		provisioning.LogResourceDeleted(m.observer, phase, "keypair", kp.Name)
	}
	return nil
}

func (m *Manager) create(ctx context.Context, name string, key *keygen.PublicKey) (*cloud.KeyPair, error) {
	provisioning.LogResourceCreating(m.observer, phase, "keypair", name)
	kp, err := m.client.CreateKeyPair(ctx, name, key.AuthorizedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create keypair %s: %w", name, err)
	}
	if kp == nil {
		kp = &cloud.KeyPair{Name: name, PublicKey: key.AuthorizedKey}
	}
	if kp.Fingerprint == "" {
		kp.Fingerprint = key.Fingerprint
	}
	provisioning.LogResourceCreated(m.observer, phase, "keypair", name, kp.Fingerprint)
	return kp, nil
}
