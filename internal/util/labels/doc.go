// Package labels provides consistent labeling for cloud resources.
//
// Instances carry the cluster ({user}-qserv) and their role; every resource
// created by qserv-cloud also carries a managed-by label. On OpenStack the
// labels become server metadata.
package labels
