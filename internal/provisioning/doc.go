// Package provisioning provides shared types, interfaces, and orchestration for
// cluster provisioning.
//
// # Subpackages
//
//   - keys/: SSH keypair registration
//   - network/: Floating IP acquisition and binding
//   - compute/: Image and flavor lookup, gateway and worker instances
//   - access/: SSH client configuration and access verification
//   - destroy/: Best-effort instance cleanup
//
// # Core Types
//
// Context carries configuration, state, infrastructure client, observer, and metrics.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates results from each phase (keypair, floating IP, instances).
// ExitCode maps a run error to the process exit status.
package provisioning
