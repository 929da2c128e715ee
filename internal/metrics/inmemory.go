package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	HTTPRequests        uint64
	HTTPDurationTotalNs int64
	RateLimited         uint64
	UsersCreated        uint64
	UsersUpdated        uint64
	UsersDeleted        uint64
	UsersTotal          int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	httpRequests        uint64
	httpDurationTotalNs int64
	rateLimited         uint64
	usersCreated        uint64
	usersUpdated        uint64
	usersDeleted        uint64
	usersTotal          int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		HTTPRequests:        atomic.LoadUint64(&m.httpRequests),
		HTTPDurationTotalNs: atomic.LoadInt64(&m.httpDurationTotalNs),
		RateLimited:         atomic.LoadUint64(&m.rateLimited),
		UsersCreated:        atomic.LoadUint64(&m.usersCreated),
		UsersUpdated:        atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:        atomic.LoadUint64(&m.usersDeleted),
		UsersTotal:          atomic.LoadInt64(&m.usersTotal),
	}
}

// ObserveHTTPRequest counts a request and accumulates its duration.
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
	atomic.AddInt64(&m.httpDurationTotalNs, duration.Nanoseconds())
}

// IncRateLimited increments the rejected request counter.
func (m *InMemoryRecorder) IncRateLimited() {
	atomic.AddUint64(&m.rateLimited, 1)
}

// IncUserCreated increments user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserUpdated increments user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncUserDeleted increments user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// SetUsersTotal records the current number of users.
func (m *InMemoryRecorder) SetUsersTotal(n int) {
	atomic.StoreInt64(&m.usersTotal, int64(n))
}
