// Package compute creates the cluster instances.
//
// The gateway (index 0) is created first, then workers 1..N one at a time.
// Each instance boots with a generated cloud-config and is polled until it
// leaves BUILD. Instances that end in any other non-active state are handled
// by the configured error-status policy.
package compute
