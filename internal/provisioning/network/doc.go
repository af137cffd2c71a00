// Package network acquires the cluster's single floating IP and binds it to
// the gateway instance.
//
// An unattached floating IP already owned by the project is reused; otherwise
// one is allocated from the first pool the provider lists, or from the
// configured pool. Allocation refusals map to provisioning.ErrAllocationForbidden
// and a missing address to provisioning.ErrNoFloatingIP.
package network
