// Package destroy removes the instances of a cluster by their deterministic
// names. Cleanup is best effort: every instance is attempted and failures are
// reported together.
package destroy
