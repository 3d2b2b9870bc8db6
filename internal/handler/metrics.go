package handler

import (
	"fmt"
	"net/http"

	"github.com/fitlog/fitlog/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "fitlog_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "fitlog_exercises_appended_total %d\n", snap.ExercisesAppended)
	writeMetric(w, "fitlog_log_queries_total %d\n", snap.LogQueries)
	writeMetric(w, "fitlog_log_query_duration_seconds_count %d\n", snap.LogQueryDurationCount)
	writeMetric(w, "fitlog_log_query_duration_seconds_sum %.6f\n", float64(snap.LogQueryDurationTotalNs)/1e9)
	writeMetric(w, "fitlog_user_cache_hits_total %d\n", snap.UserCacheHits)
	writeMetric(w, "fitlog_user_cache_misses_total %d\n", snap.UserCacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
