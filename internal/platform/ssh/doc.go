// Package ssh runs commands on provisioned instances over SSH.
//
// The gateway is reached directly through its floating IP. Workers have only
// private addresses and are reached by tunneling through the gateway, the same
// way the generated ssh_config does with "ssh -W".
//
// Host key verification is disabled by default because instances are
// recreated on every run.
package ssh
