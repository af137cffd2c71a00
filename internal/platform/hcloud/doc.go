// Package hcloud implements cloud.InfrastructureManager on Hetzner Cloud.
//
// # Resource Mapping
//
//   - keypairs are Hetzner SSH keys
//   - floating IP pools are Hetzner locations; a new floating IP gets the
//     pool as its home location
//   - flavors are server types
//   - server states map as running to ACTIVE, initializing, starting,
//     migrating, and rebuilding to BUILD, and everything else to a
//     terminal non-active state
//
// Private addresses are keyed by network name. Network names are resolved
// once per network ID and cached on the client.
//
// # Retry and Timeout Configuration
//
// Deletions of locked resources are retried with exponential backoff using
// the attempts and initial delay from config.Timeouts (QSERV_RETRY_MAX_ATTEMPTS,
// QSERV_RETRY_INITIAL_DELAY).
package hcloud
