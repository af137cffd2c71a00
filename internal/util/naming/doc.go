// Package naming derives deterministic names for provisioned cloud resources.
//
// Every resource is prefixed with the cloud username and the fixed "qserv"
// tag, so a single user's cluster is recognizable in a shared project:
// the keypair is {user}-qserv and instances are {user}-qserv-{index}, with
// index 0 reserved for the gateway.
package naming
