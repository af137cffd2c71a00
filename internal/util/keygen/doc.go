// Package keygen loads and generates the SSH keys handed to provisioned instances.
//
// Public keys are read from OpenSSH authorized_keys files and validated before
// they are registered with a cloud provider or templated into cloud-config.
// When no key exists yet, an RSA key pair can be generated with the private
// key in PEM format and the public key in authorized_keys format.
package keygen
