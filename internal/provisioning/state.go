package provisioning

import (
	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/util/keygen"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Key results (populated by the keys phase)
	PublicKey *keygen.PublicKey
	KeyPair   *cloud.KeyPair

	// Network results (populated by the address and bind phases)
	FloatingIP *cloud.FloatingIP

	// Catalog results
	ImageID  string
	FlavorID string

	// Compute results, in creation order with the gateway first
	Gateway   *cloud.Server
	Instances []*cloud.Server
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// AddInstance records a created instance.
func (s *State) AddInstance(server *cloud.Server) {
	s.Instances = append(s.Instances, server)
}

// Workers returns the instances created after the gateway.
func (s *State) Workers() []*cloud.Server {
	var workers []*cloud.Server
	for _, server := range s.Instances {
		if s.Gateway != nil && server.ID == s.Gateway.ID {
			continue
		}
		workers = append(workers, server)
	}
	return workers
}
