package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

func change(runID string, from, to domain.Stage, at time.Time) domain.StateChange {
	return domain.StateChange{
		RunID:   runID,
		Variant: domain.VariantVerify,
		From:    domain.PipelineState{Stage: from},
		To:      domain.PipelineState{Stage: to},
		At:      at,
	}
}

func TestRecorder_CountsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	start := time.Now()

	r.Handle(change("a", domain.StageIdle, domain.StageValidating, start))
	assert.InDelta(t, 1, testutil.ToFloat64(r.busy), 0)

	r.Handle(change("a", domain.StageValidating, domain.StageUploading, start.Add(time.Second)))
	r.Handle(change("a", domain.StageUploading, domain.StageAnalyzing, start.Add(2*time.Second)))
	r.Handle(change("a", domain.StageAnalyzing, domain.StageSucceeded, start.Add(3*time.Second)))

	assert.InDelta(t, 0, testutil.ToFloat64(r.busy), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.runs.WithLabelValues("verify", "succeeded")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.transitions.WithLabelValues("uploading")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
	assert.Empty(t, r.started)
}

func TestRecorder_FailureAndReset(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	now := time.Now()

	r.Handle(change("b", domain.StageIdle, domain.StageValidating, now))
	r.Handle(change("b", domain.StageValidating, domain.StageFailed, now))
	r.Handle(change("b", domain.StageFailed, domain.StageIdle, now))

	assert.InDelta(t, 1, testutil.ToFloat64(r.runs.WithLabelValues("verify", "failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.transitions.WithLabelValues("idle")), 0)
}

func TestRecorder_CacheLookups(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.ObserveCacheLookup(true)
	r.ObserveCacheLookup(false)
	r.ObserveCacheLookup(false)

	assert.InDelta(t, 1, testutil.ToFloat64(r.cache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.cache.WithLabelValues("miss")), 0)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.Handle(change("c", domain.StageIdle, domain.StageValidating, time.Now()))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `descheck_stage_transitions_total{stage="validating"} 1`)
	assert.Contains(t, string(body), "descheck_pipeline_busy 1")
}
