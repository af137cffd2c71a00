// Package cloud defines the provider-neutral view of the IaaS control plane
// used by the provisioning phases.
//
// Provider packages (openstack, hcloud) translate their native resources into
// the small set of types declared here and classify their native errors into
// [ErrForbidden] and [ErrNotFound]. Provisioning code depends only on the
// interfaces in this package, which keeps it testable with [MockClient].
package cloud
