// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Backend call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// Backend client metrics
	ObserveBackendCall(service, outcome string, duration time.Duration)

	// User action metrics
	IncTransaction(kind, result string) // kind: "payment" or "deposit"
	IncLogin(result string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
