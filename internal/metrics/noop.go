package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncExerciseAppended is a no-op.
func (n *NoopRecorder) IncExerciseAppended() {}

// IncLogQuery is a no-op.
func (n *NoopRecorder) IncLogQuery() {}

// ObserveLogQueryDuration is a no-op.
func (n *NoopRecorder) ObserveLogQueryDuration(duration time.Duration) {}

// IncUserCacheHit is a no-op.
func (n *NoopRecorder) IncUserCacheHit() {}

// IncUserCacheMiss is a no-op.
func (n *NoopRecorder) IncUserCacheMiss() {}
