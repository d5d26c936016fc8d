package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	goSession "github.com/MrEthical07/goSession"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	snapshot goSession.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goSession.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                       { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters:   map[goSession.MetricID]uint64{},
			Histograms: map[goSession.MetricID][]uint64{},
		},
	})
	assert.Empty(t, exp.Render())
}

func TestRenderNilExporter(t *testing.T) {
	var exp *Exporter
	assert.Empty(t, exp.Render())
	assert.Empty(t, NewExporter(nil).Render())
}

func TestRenderCountersAndHistogram(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters: map[goSession.MetricID]uint64{
				goSession.MetricSessionLoaded:  7,
				goSession.MetricCommitConflict: 3,
			},
			Histograms: map[goSession.MetricID][]uint64{
				goSession.MetricCommitLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	assert.Contains(t, out, "# TYPE gosession_session_loaded_total counter\n")
	assert.Contains(t, out, "gosession_session_loaded_total 7\n")
	assert.Contains(t, out, "gosession_commit_conflict_total 3\n")
	assert.Contains(t, out, "gosession_session_miss_total 0\n")
	assert.Contains(t, out, `gosession_commit_latency_seconds_bucket{le="0.005"} 1`)
	assert.Contains(t, out, `gosession_commit_latency_seconds_bucket{le="+Inf"} 36`)
	assert.Contains(t, out, "gosession_commit_latency_seconds_count 36\n")
	assert.Contains(t, out, "gosession_audit_dropped_total 2\n")
}

func TestRenderSkipsAbsentHistogram(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters: map[goSession.MetricID]uint64{goSession.MetricWriteDirect: 1},
		},
	})
	assert.NotContains(t, exp.Render(), "gosession_commit_latency_seconds")
}

func TestEscapeHelp(t *testing.T) {
	assert.Equal(t, `a\\b\nc`, escapeHelp("a\\b\nc"))
}

func TestHandlerServesStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := goSession.DefaultConfig()
	cfg.Scheme = goSession.SchemeSimple
	store, err := goSession.New().WithConfig(cfg).WithRedis(rdb).Build()
	require.NoError(t, err)
	defer store.Close()

	_, _, err = store.FindSession(context.Background(), goSession.Options{}, goSession.SimpleID("missing"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	NewExporter(store).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "gosession_session_miss_total 1\n")
}

func BenchmarkRender(b *testing.B) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters: map[goSession.MetricID]uint64{
				goSession.MetricSessionLoaded:      1000,
				goSession.MetricSessionMiss:        40,
				goSession.MetricWriteTransactional: 800,
				goSession.MetricCommitConflict:     10,
				goSession.MetricSessionDeleted:     20,
			},
			Histograms: map[goSession.MetricID][]uint64{
				goSession.MetricCommitLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
