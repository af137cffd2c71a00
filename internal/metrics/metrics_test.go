package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_InstanceCreated(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.InstanceCreated("gateway")
	r.InstanceCreated("worker")
	r.InstanceCreated("worker")

	assert.Equal(t, float64(1), testutil.ToFloat64(r.instancesCreated.WithLabelValues("gateway")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.instancesCreated.WithLabelValues("worker")))
}

func TestRecorder_FloatingIPAcquired(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.FloatingIPAcquired(SourceReused)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.floatingIPs.WithLabelValues(SourceReused)))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.floatingIPs.WithLabelValues(SourceAllocated)))
}

func TestRecorder_ObservePhase(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.ObservePhase("keys", 200*time.Millisecond, nil)
	r.ObservePhase("gateway", time.Second, errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(r.phaseDuration))
}

func TestRecorder_RunFinished(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	at := time.Unix(1700000000, 0)

	r.RunFinished(2, at)
	assert.Equal(t, float64(0), testutil.ToFloat64(r.runSuccess))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.runExitCode))
	assert.Equal(t, float64(1700000000), testutil.ToFloat64(r.runTimestamp))

	r.RunFinished(0, at)
	assert.Equal(t, float64(1), testutil.ToFloat64(r.runSuccess))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.InstanceCreated("gateway")
	r.RunFinished(0, time.Now())

	path := filepath.Join(t.TempDir(), "qserv.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `qserv_cloud_instances_created_total{role="gateway"} 1`)
	assert.Contains(t, string(data), "qserv_cloud_run_success 1")
}

func TestRecorder_Nil(t *testing.T) {
	t.Parallel()
	var r *Recorder

	assert.NotPanics(t, func() {
		r.InstanceCreated("worker")
		r.FloatingIPAcquired(SourceAllocated)
		r.ObservePhase("keys", time.Second, nil)
		r.RunFinished(3, time.Now())
	})
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "unused.prom")))
}
