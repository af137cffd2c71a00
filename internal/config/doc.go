// Package config holds the run configuration, provider credentials, and
// timeouts for a provisioning run.
//
// Values are layered: [Default] supplies the built-in cluster shape, a YAML
// file loaded with [LoadFile] overrides it, and CLI flags override the file.
// Credentials come only from the environment ([LoadCredentials]) and are never
// read from the config file.
package config
