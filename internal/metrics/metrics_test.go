package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordsAndExposes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveBackendCall("balances", OutcomeSuccess, 20*time.Millisecond)
	c.ObserveBackendCall("balances", OutcomeError, time.Second)
	c.ObserveBackendCall("history", OutcomeSuccess, time.Millisecond)
	c.IncTransaction("payment", "submitted")
	c.IncTransaction("payment", "insufficient_funds")
	c.IncLogin("success")

	if got := testutil.ToFloat64(c.backendCalls.WithLabelValues("balances", OutcomeSuccess)); got != 1 {
		t.Errorf("expected 1 successful balance call, got %v", got)
	}
	if got := testutil.ToFloat64(c.transactions.WithLabelValues("payment", "insufficient_funds")); got != 1 {
		t.Errorf("expected 1 insufficient funds payment, got %v", got)
	}

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`frontend_backend_requests_total{outcome="error",service="balances"} 1`,
		`frontend_backend_request_duration_seconds_count{service="balances"} 2`,
		`frontend_transactions_total{kind="payment",result="submitted"} 1`,
		`frontend_logins_total{result="success"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected exposition to contain %q", want)
		}
	}
}

func TestInMemoryRecorder_Snapshot(t *testing.T) {
	m := NewInMemory()
	m.ObserveBackendCall("contacts", OutcomeError, time.Millisecond)
	m.ObserveBackendCall("contacts", OutcomeError, time.Millisecond)
	m.IncTransaction("deposit", "submitted")
	m.IncLogin("failed")

	snap := m.Snapshot()
	if snap.BackendCalls["contacts/error"] != 2 {
		t.Errorf("expected 2 contact errors, got %d", snap.BackendCalls["contacts/error"])
	}
	if snap.Transactions["deposit/submitted"] != 1 {
		t.Errorf("expected 1 submitted deposit, got %d", snap.Transactions["deposit/submitted"])
	}
	if snap.Logins["failed"] != 1 {
		t.Errorf("expected 1 failed login, got %d", snap.Logins["failed"])
	}

	// Snapshot must be a copy.
	snap.Logins["failed"] = 99
	if m.Snapshot().Logins["failed"] != 1 {
		t.Error("snapshot shares state with recorder")
	}
}

func TestNoop_DoesNotPanic(t *testing.T) {
	r := NewNoop()
	r.ObserveBackendCall("balances", OutcomeSuccess, time.Millisecond)
	r.IncTransaction("payment", "submitted")
	r.IncLogin("success")
}
