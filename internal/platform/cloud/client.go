package cloud

import "context"

// KeyPairManager defines the interface for managing SSH keypairs.
type KeyPairManager interface {
	ListKeyPairs(ctx context.Context) ([]KeyPair, error)
	CreateKeyPair(ctx context.Context, name, publicKey string) (*KeyPair, error)
	DeleteKeyPair(ctx context.Context, name string) error
}

// FloatingIPManager defines the interface for managing floating IPs.
type FloatingIPManager interface {
	// ListFloatingIPs returns the project's floating IPs in provider order.
	ListFloatingIPs(ctx context.Context) ([]FloatingIP, error)
	ListFloatingIPPools(ctx context.Context) ([]FloatingIPPool, error)
	// CreateFloatingIP allocates a new address from pool. A refusal for
	// authorization or quota reasons is reported as ErrForbidden.
	CreateFloatingIP(ctx context.Context, pool string) (*FloatingIP, error)
	AttachFloatingIP(ctx context.Context, fip *FloatingIP, serverID string) error
}

// CatalogResolver resolves human-readable image and flavor names to IDs.
type CatalogResolver interface {
	FindImage(ctx context.Context, name string) (string, error)
	FindFlavor(ctx context.Context, name string) (string, error)
}

// ServerProvisioner defines the interface for instance lifecycle.
type ServerProvisioner interface {
	// CreateServer submits a create request and returns without waiting
	// for the instance to finish building.
	CreateServer(ctx context.Context, opts ServerCreateOpts) (*Server, error)
	GetServer(ctx context.Context, id string) (*Server, error)
	// FindServer returns the instance with the exact name, or nil if there is none.
	FindServer(ctx context.Context, name string) (*Server, error)
	DeleteServer(ctx context.Context, id string) error
}

// InfrastructureManager combines all infrastructure interfaces.
type InfrastructureManager interface {
	KeyPairManager
	FloatingIPManager
	CatalogResolver
	ServerProvisioner
}
