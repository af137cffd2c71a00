// Package access gives the operator a way into the cluster: it writes the
// jump-host ssh_config and optionally verifies that the gateway and workers
// answer over SSH.
package access
