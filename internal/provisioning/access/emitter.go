package access

import (
	"fmt"

	"github.com/qserv/qserv-cloud/internal/platform/cloud"
	"github.com/qserv/qserv-cloud/internal/sshconfig"
)

// Emitter renders ssh_config stanzas for provisioned instances.
type Emitter struct {
	network      string
	user         string
	identityFile string
}

// NewEmitter creates an emitter. HostName is taken from the instance's first
// address on network.
func NewEmitter(network, user, identityFile string) *Emitter {
	return &Emitter{network: network, user: user, identityFile: identityFile}
}

// Build returns one stanza per instance, in the given order, each tunneling
// through the floating IP.
func (e *Emitter) Build(instances []*cloud.Server, fip *cloud.FloatingIP) (*sshconfig.Config, error) {
	if fip == nil || fip.Address == "" {
		return nil, fmt.Errorf("no floating IP to use as jump host")
	}

	proxy := sshconfig.JumpHost(e.user, fip.Address)
	cfg := &sshconfig.Config{}
	for _, server := range instances {
		addr := server.PrivateAddress(e.network)
		if addr == "" {
			return nil, fmt.Errorf("instance %s has no address on network %s", server.Name, e.network)
		}
		cfg.Add(sshconfig.Host{
			Alias:        server.Name,
			HostName:     addr,
			User:         e.user,
			Port:         sshconfig.DefaultPort,
			ProxyCommand: proxy,
			IdentityFile: e.identityFile,
			LogLevel:     sshconfig.DefaultLogLevel,
		})
	}
	return cfg, nil
}

// Write renders the stanzas and replaces the file at path.
func (e *Emitter) Write(instances []*cloud.Server, fip *cloud.FloatingIP, path string) error {
	cfg, err := e.Build(instances, fip)
	if err != nil {
		return err
	}
	return cfg.WriteFile(path)
}
