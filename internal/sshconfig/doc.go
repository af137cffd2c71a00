// Package sshconfig renders OpenSSH client configuration stanzas.
//
// Hosts are built from typed fields and validated before rendering, so a value
// cannot inject extra directives into the file.
package sshconfig
