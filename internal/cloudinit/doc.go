// Package cloudinit builds the first-boot cloud-config document passed as
// user data to every instance.
//
// The document is assembled from typed structs and serialized with yaml.v3,
// so values such as public keys and hostnames are always emitted as quoted or
// escaped YAML scalars.
package cloudinit
