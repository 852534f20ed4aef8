package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordToggle(t *testing.T) {
	before := testutil.ToFloat64(toggles.WithLabelValues("throttle", "error"))
	RecordToggle("throttle", errors.New("denied"))
	RecordToggle("throttle", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(toggles.WithLabelValues("throttle", "error")))
}

func TestRecordTransitionSetsGauge(t *testing.T) {
	RecordTransition(4242)
	assert.Equal(t, float64(4242), testutil.ToFloat64(currentForeground))
}

func TestRecordSweep(t *testing.T) {
	before := testutil.ToFloat64(sweeps.WithLabelValues("boost", "tree", "ok"))
	RecordSweep("boost", "tree", time.Now(), nil)
	assert.Equal(t, before+1, testutil.ToFloat64(sweeps.WithLabelValues("boost", "tree", "ok")))
}

func TestRegistryGathers(t *testing.T) {
	RecordAdmission("throttled")
	families, err := Registry().Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
