package labels

import "maps"

// Standard label keys. Keys are unprefixed so they are valid both as
// Hetzner Cloud labels and as Nova metadata.
const (
	// KeyCluster identifies which cluster a resource belongs to
	KeyCluster = "cluster"

	// KeyRole identifies the role of an instance (gateway, worker)
	KeyRole = "role"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "managed-by"
)

// ManagedBy is the value of KeyManagedBy on every created resource.
const ManagedBy = "qserv-cloud"

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a builder with only the managed-by label set.
func NewLabelBuilder() *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{KeyManagedBy: ManagedBy},
	}
}

// ForCluster creates a builder with the cluster label pre-set.
func ForCluster(cluster string) *LabelBuilder {
	return NewLabelBuilder().WithCluster(cluster)
}

// WithCluster sets the cluster label.
func (lb *LabelBuilder) WithCluster(cluster string) *LabelBuilder {
	lb.labels[KeyCluster] = cluster
	return lb
}

// WithRole adds a role label (e.g., "gateway", "worker").
func (lb *LabelBuilder) WithRole(role string) *LabelBuilder {
	lb.labels[KeyRole] = role
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	maps.Copy(lb.labels, extra)
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	return maps.Clone(lb.labels)
}

// SelectorForCluster returns a label selector string for all resources in a cluster.
func SelectorForCluster(cluster string) string {
	return KeyCluster + "=" + cluster
}
