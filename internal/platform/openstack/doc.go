// Package openstack implements cloud.InfrastructureManager on top of an
// OpenStack deployment using gophercloud.
//
// # Services
//
// A RealClient holds one authenticated service client per OpenStack service:
//
//   - compute (Nova): keypairs, servers, flavors
//   - network (Neutron): floating IPs, ports, external networks as floating IP pools
//   - image (Glance): image lookup by name
//
// Floating IPs are managed through Neutron. A floating IP is attached to a
// server by associating it with the server's first port.
//
// # Error Classification
//
// HTTP 403 responses are reported as cloud.ErrForbidden and HTTP 404 as
// cloud.ErrNotFound. When allocating a floating IP, quota refusals (409, 413)
// are also reported as cloud.ErrForbidden.
package openstack
