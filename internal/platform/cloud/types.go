package cloud

// ServerStatus is the lifecycle state of an instance as seen by provisioning.
type ServerStatus string

// Instance states. Providers map their native states onto these.
const (
	StatusBuild  ServerStatus = "BUILD"
	StatusActive ServerStatus = "ACTIVE"
	StatusError  ServerStatus = "ERROR"
)

// Server is a provisioned virtual machine.
type Server struct {
	ID     string
	Name   string
	Status ServerStatus
	// Addresses maps a network name to the addresses the instance holds on it,
	// in the order the provider reports them.
	Addresses map[string][]string
}

// IsBuilding reports whether the instance is still in the transitional state.
func (s *Server) IsBuilding() bool {
	return s.Status == StatusBuild
}

// PrivateAddress returns the first address on the named network, or "" if the
// instance has none there.
func (s *Server) PrivateAddress(network string) string {
	addrs := s.Addresses[network]
	if len(addrs) == 0 {
		return ""
	}
	return addrs[0]
}

// FloatingIP is a public address that can be attached to one instance at a time.
type FloatingIP struct {
	ID      string
	Address string
	Pool    string
	// AttachedTo is the ID of the instance holding the address, empty when free.
	// OpenStack listings only know the port, so there it holds the port ID
	// until the address is attached through this client.
	AttachedTo string
}

// Attached reports whether the address is bound to an instance.
func (f *FloatingIP) Attached() bool {
	return f.AttachedTo != ""
}

// FloatingIPPool is a source floating IPs are allocated from. On OpenStack
// this is an external network, on Hetzner Cloud a home location.
type FloatingIPPool struct {
	ID   string
	Name string
}

// KeyPair is an SSH public key registered with the provider.
type KeyPair struct {
	Name        string
	PublicKey   string
	Fingerprint string
}

// ServerCreateOpts holds all parameters for creating an instance.
type ServerCreateOpts struct {
	Name     string
	ImageID  string
	FlavorID string
	UserData string
	KeyName  string
	// Network is the name of the project network to attach. Empty lets the
	// provider choose.
	Network string
	Labels  map[string]string
}
