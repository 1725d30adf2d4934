package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// ObserveBackendCall is a no-op.
func (n *NoopRecorder) ObserveBackendCall(service, outcome string, duration time.Duration) {}

// IncTransaction is a no-op.
func (n *NoopRecorder) IncTransaction(kind, result string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(result string) {}
