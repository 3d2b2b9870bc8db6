// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User directory metrics
	IncUserRegistered()

	// Exercise log metrics
	IncExerciseAppended()
	IncLogQuery()
	ObserveLogQueryDuration(duration time.Duration)

	// User cache metrics
	IncUserCacheHit()
	IncUserCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
