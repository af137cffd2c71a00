// Package keys registers the operator's SSH public key as the cluster keypair.
//
// A run always replaces the keypair: every existing keypair with the same
// name is deleted before the key is uploaded again.
package keys
