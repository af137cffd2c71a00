package cloud

import (
	"context"
)

// MockClient is a mock implementation of InfrastructureManager.
// Each method delegates to the matching Func field when set and otherwise
// returns a benign default.
type MockClient struct {
	// KeyPair
	ListKeyPairsFunc  func(ctx context.Context) ([]KeyPair, error)
	CreateKeyPairFunc func(ctx context.Context, name, publicKey string) (*KeyPair, error)
	DeleteKeyPairFunc func(ctx context.Context, name string) error

	// FloatingIP
	ListFloatingIPsFunc     func(ctx context.Context) ([]FloatingIP, error)
	ListFloatingIPPoolsFunc func(ctx context.Context) ([]FloatingIPPool, error)
	CreateFloatingIPFunc    func(ctx context.Context, pool string) (*FloatingIP, error)
	AttachFloatingIPFunc    func(ctx context.Context, fip *FloatingIP, serverID string) error

	// Catalog
	FindImageFunc  func(ctx context.Context, name string) (string, error)
	FindFlavorFunc func(ctx context.Context, name string) (string, error)

	// Server
	CreateServerFunc func(ctx context.Context, opts ServerCreateOpts) (*Server, error)
	GetServerFunc    func(ctx context.Context, id string) (*Server, error)
	FindServerFunc   func(ctx context.Context, name string) (*Server, error)
	DeleteServerFunc func(ctx context.Context, id string) error
}

// Ensure interface compliance
var _ InfrastructureManager = (*MockClient)(nil)

// ListKeyPairs mocks keypair listing.
func (m *MockClient) ListKeyPairs(ctx context.Context) ([]KeyPair, error) {
	if m.ListKeyPairsFunc != nil {
		return m.ListKeyPairsFunc(ctx)
	}
	return nil, nil
}

// CreateKeyPair mocks keypair registration.
func (m *MockClient) CreateKeyPair(ctx context.Context, name, publicKey string) (*KeyPair, error) {
	if m.CreateKeyPairFunc != nil {
		return m.CreateKeyPairFunc(ctx, name, publicKey)
	}
	return &KeyPair{Name: name, PublicKey: publicKey}, nil
}

// DeleteKeyPair mocks keypair deletion.
func (m *MockClient) DeleteKeyPair(ctx context.Context, name string) error {
	if m.DeleteKeyPairFunc != nil {
		return m.DeleteKeyPairFunc(ctx, name)
	}
	return nil
}

// ListFloatingIPs mocks floating IP listing.
func (m *MockClient) ListFloatingIPs(ctx context.Context) ([]FloatingIP, error) {
	if m.ListFloatingIPsFunc != nil {
		return m.ListFloatingIPsFunc(ctx)
	}
	return nil, nil
}

// ListFloatingIPPools mocks pool listing.
func (m *MockClient) ListFloatingIPPools(ctx context.Context) ([]FloatingIPPool, error) {
	if m.ListFloatingIPPoolsFunc != nil {
		return m.ListFloatingIPPoolsFunc(ctx)
	}
	return []FloatingIPPool{{ID: "mock-pool", Name: "mock-pool"}}, nil
}

// CreateFloatingIP mocks floating IP allocation.
func (m *MockClient) CreateFloatingIP(ctx context.Context, pool string) (*FloatingIP, error) {
	if m.CreateFloatingIPFunc != nil {
		return m.CreateFloatingIPFunc(ctx, pool)
	}
	return &FloatingIP{ID: "mock-fip", Address: "127.0.0.1", Pool: pool}, nil
}

// AttachFloatingIP mocks floating IP association.
func (m *MockClient) AttachFloatingIP(ctx context.Context, fip *FloatingIP, serverID string) error {
	if m.AttachFloatingIPFunc != nil {
		return m.AttachFloatingIPFunc(ctx, fip, serverID)
	}
	return nil
}

// FindImage mocks image lookup.
func (m *MockClient) FindImage(ctx context.Context, name string) (string, error) {
	if m.FindImageFunc != nil {
		return m.FindImageFunc(ctx, name)
	}
	return "mock-image", nil
}

// FindFlavor mocks flavor lookup.
func (m *MockClient) FindFlavor(ctx context.Context, name string) (string, error) {
	if m.FindFlavorFunc != nil {
		return m.FindFlavorFunc(ctx, name)
	}
	return "mock-flavor", nil
}

// CreateServer mocks server creation.
func (m *MockClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*Server, error) {
	if m.CreateServerFunc != nil {
		return m.CreateServerFunc(ctx, opts)
	}
	return &Server{ID: "mock-id", Name: opts.Name, Status: StatusBuild}, nil
}

// GetServer mocks server lookup by ID.
func (m *MockClient) GetServer(ctx context.Context, id string) (*Server, error) {
	if m.GetServerFunc != nil {
		return m.GetServerFunc(ctx, id)
	}
	return &Server{ID: id, Status: StatusActive}, nil
}

// FindServer mocks server lookup by name.
func (m *MockClient) FindServer(ctx context.Context, name string) (*Server, error) {
	if m.FindServerFunc != nil {
		return m.FindServerFunc(ctx, name)
	}
	return nil, nil
}

// DeleteServer mocks server deletion.
func (m *MockClient) DeleteServer(ctx context.Context, id string) error {
	if m.DeleteServerFunc != nil {
		return m.DeleteServerFunc(ctx, id)
	}
	return nil
}
