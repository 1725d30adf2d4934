package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	BackendCalls map[string]uint64 // "service/outcome" -> count
	Transactions map[string]uint64 // "kind/result" -> count
	Logins       map[string]uint64 // result -> count
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu           sync.Mutex
	backendCalls map[string]uint64
	transactions map[string]uint64
	logins       map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		backendCalls: make(map[string]uint64),
		transactions: make(map[string]uint64),
		logins:       make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		BackendCalls: copyCounts(m.backendCalls),
		Transactions: copyCounts(m.transactions),
		Logins:       copyCounts(m.logins),
	}
}

// ObserveBackendCall counts a backend call by service and outcome.
func (m *InMemoryRecorder) ObserveBackendCall(service, outcome string, duration time.Duration) {
	m.mu.Lock()
	m.backendCalls[service+"/"+outcome]++
	m.mu.Unlock()
}

// IncTransaction counts a payment or deposit result.
func (m *InMemoryRecorder) IncTransaction(kind, result string) {
	m.mu.Lock()
	m.transactions[kind+"/"+result]++
	m.mu.Unlock()
}

// IncLogin counts a login result.
func (m *InMemoryRecorder) IncLogin(result string) {
	m.mu.Lock()
	m.logins[result]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
