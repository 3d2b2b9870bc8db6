package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered         uint64
	ExercisesAppended       uint64
	LogQueries              uint64
	LogQueryDurationCount   uint64
	LogQueryDurationTotalNs int64
	UserCacheHits           uint64
	UserCacheMisses         uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersRegistered         uint64
	exercisesAppended       uint64
	logQueries              uint64
	logQueryDurationCount   uint64
	logQueryDurationTotalNs int64
	userCacheHits           uint64
	userCacheMisses         uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:         atomic.LoadUint64(&m.usersRegistered),
		ExercisesAppended:       atomic.LoadUint64(&m.exercisesAppended),
		LogQueries:              atomic.LoadUint64(&m.logQueries),
		LogQueryDurationCount:   atomic.LoadUint64(&m.logQueryDurationCount),
		LogQueryDurationTotalNs: atomic.LoadInt64(&m.logQueryDurationTotalNs),
		UserCacheHits:           atomic.LoadUint64(&m.userCacheHits),
		UserCacheMisses:         atomic.LoadUint64(&m.userCacheMisses),
	}
}

// IncUserRegistered increments the registered users counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncExerciseAppended increments the appended entries counter.
func (m *InMemoryRecorder) IncExerciseAppended() {
	atomic.AddUint64(&m.exercisesAppended, 1)
}

// IncLogQuery increments the log query counter.
func (m *InMemoryRecorder) IncLogQuery() {
	atomic.AddUint64(&m.logQueries, 1)
}

// ObserveLogQueryDuration records a log query duration.
func (m *InMemoryRecorder) ObserveLogQueryDuration(duration time.Duration) {
	atomic.AddUint64(&m.logQueryDurationCount, 1)
	atomic.AddInt64(&m.logQueryDurationTotalNs, duration.Nanoseconds())
}

// IncUserCacheHit increments the user cache hit counter.
func (m *InMemoryRecorder) IncUserCacheHit() {
	atomic.AddUint64(&m.userCacheHits, 1)
}

// IncUserCacheMiss increments the user cache miss counter.
func (m *InMemoryRecorder) IncUserCacheMiss() {
	atomic.AddUint64(&m.userCacheMisses, 1)
}
