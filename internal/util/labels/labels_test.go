package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLabelBuilder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]string{KeyManagedBy: ManagedBy}, NewLabelBuilder().Build())
}

func TestForCluster_WithRole(t *testing.T) {
	t.Parallel()

	got := ForCluster("alice-qserv").WithRole("gateway").Build()
	assert.Equal(t, map[string]string{
		"cluster":    "alice-qserv",
		"role":       "gateway",
		"managed-by": "qserv-cloud",
	}, got)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	got := ForCluster("c").Merge(map[string]string{"team": "db", KeyCluster: "override"}).Build()
	assert.Equal(t, "db", got["team"])
	assert.Equal(t, "override", got[KeyCluster])
}

func TestBuilderIsolation(t *testing.T) {
	t.Parallel()

	lb := ForCluster("c")
	first := lb.Build()
	first["mutated"] = "yes"
	lb.WithRole("worker")

	second := lb.Build()
	assert.NotContains(t, second, "mutated")
	assert.NotContains(t, first, KeyRole)
	assert.Equal(t, "worker", second[KeyRole])
}

func TestSelectorForCluster(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cluster=alice-qserv", SelectorForCluster("alice-qserv"))
}
