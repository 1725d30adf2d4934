package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/bankdemo/frontend/internal/auth"
	"github.com/bankdemo/frontend/internal/backend"
	"github.com/bankdemo/frontend/internal/metrics"
	"github.com/bankdemo/frontend/internal/model"
	"github.com/bankdemo/frontend/internal/service"
	"github.com/bankdemo/frontend/internal/testutil"
)

const testRoutingNum = "883745000"

// fakeServices stands in for every backend service on a single listener.
type fakeServices struct {
	mu        sync.Mutex
	balance   int64
	token     string
	submitted []model.TransactionRequest
	auth      []string
}

func (s *fakeServices) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /get_token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("password") != "password" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": s.token})
	})
	mux.HandleFunc("GET /get_balance", func(w http.ResponseWriter, r *http.Request) {
		s.seen(r)
		s.mu.Lock()
		balance := s.balance
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
	})
	mux.HandleFunc("GET /get_history", func(w http.ResponseWriter, r *http.Request) {
		s.seen(r)
		writeJSON(w, http.StatusOK, map[string]any{"history": []map[string]any{{
			"timestamp":        1551794400,
			"from_account_num": "9099791699",
			"from_routing_num": "808889588",
			"to_account_num":   "1011226111",
			"to_routing_num":   testRoutingNum,
			"amount":           7500,
		}}})
	})
	mux.HandleFunc("GET /contacts", func(w http.ResponseWriter, r *http.Request) {
		s.seen(r)
		writeJSON(w, http.StatusOK, map[string]any{"account_list": []model.Contact{
			{Label: "Alice", AccountNum: "1033623433", RoutingNum: testRoutingNum},
		}})
	})
	mux.HandleFunc("GET /external", func(w http.ResponseWriter, r *http.Request) {
		s.seen(r)
		writeJSON(w, http.StatusOK, map[string]any{"account_list": []model.Contact{
			{Label: "External Checking", AccountNum: "9099791699", RoutingNum: "808889588"},
		}})
	})
	mux.HandleFunc("POST /new_transaction", func(w http.ResponseWriter, r *http.Request) {
		s.seen(r)
		var tx model.TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.submitted = append(s.submitted, tx)
		s.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	return mux
}

func (s *fakeServices) seen(r *http.Request) {
	s.mu.Lock()
	s.auth = append(s.auth, r.Header.Get("Authorization"))
	s.mu.Unlock()
}

func newIntegrationRouter(t *testing.T, services *fakeServices) (http.Handler, *metrics.InMemoryRecorder) {
	t.Helper()

	srv := httptest.NewServer(services.handler())
	t.Cleanup(srv.Close)
	addr := strings.TrimPrefix(srv.URL, "http://")

	kp := testutil.SharedKeyPair(t)
	logger := discardLogger()
	recorder := metrics.NewInMemory()
	verifier := auth.NewVerifier(kp.Public, logger)

	client := backend.NewClient(backend.ClientConfig{
		Endpoints: backend.EndpointsFromAddrs(addr, addr, addr, addr, addr),
		Metrics:   recorder,
		Logger:    logger,
	})
	bank := service.NewBank(service.BankConfig{
		Backend:         client,
		Verifier:        verifier,
		LocalRoutingNum: testRoutingNum,
		Metrics:         recorder,
		Logger:          logger,
	})
	renderer := newTestRenderer(t)

	router := NewRouter(RouterConfig{
		Handler:            New(renderer, logger),
		Health:             NewHealthHandler(client, backend.Services, true),
		Metrics:            NewMetricsHandler(nil),
		Bank:               NewBankHandler(bank, renderer, false, logger),
		Verifier:           verifier,
		Logger:             logger,
		MaxRequestBodySize: 1 << 20,
	})
	return router, recorder
}

func TestIntegration_LoginDashboardPayment(t *testing.T) {
	kp := testutil.SharedKeyPair(t)
	services := &fakeServices{balance: 10000, token: kp.Sign(t, testutil.ValidClaims())}
	router, recorder := newIntegrationRouter(t, services)

	// Sign in.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/login", url.Values{"username": {"testuser"}, "password": {"password"}}))
	if rec.Code != http.StatusFound {
		t.Fatalf("login: expected status 302, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("login: expected session cookie, got %d cookies", len(cookies))
	}
	session := cookies[0]
	if session.MaxAge != 3600 {
		t.Errorf("login: expected max-age 3600, got %d", session.MaxAge)
	}

	// Dashboard.
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("home: expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Jacob Smith", "$100.00", "$75.00", "Mar 05, 2019", "Alice", "External Checking"} {
		if !strings.Contains(body, want) {
			t.Errorf("home: expected %q on the page", want)
		}
	}

	// Payment above the balance is never submitted.
	req = formRequest("/payment", url.Values{"recipient": {"1033623433"}, "amount": {"100.00"}})
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("payment: expected status 302, got %d", rec.Code)
	}
	if len(services.submitted) != 0 {
		t.Fatalf("payment equal to balance must not be submitted, got %+v", services.submitted)
	}

	// Payment below the balance is.
	req = formRequest("/payment", url.Values{"recipient": {"1033623433"}, "amount": {"99.50"}})
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("payment: expected status 302, got %d", rec.Code)
	}
	if len(services.submitted) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(services.submitted))
	}
	want := model.TransactionRequest{
		FromRoutingNum: testRoutingNum,
		FromAccountNum: "1011226111",
		ToRoutingNum:   testRoutingNum,
		ToAccountNum:   "1033623433",
		Amount:         9950,
	}
	if services.submitted[0] != want {
		t.Errorf("expected %+v, got %+v", want, services.submitted[0])
	}

	for _, h := range services.auth {
		if h != "Bearer "+session.Value {
			t.Errorf("expected bearer session token on backend call, got %q", h)
		}
	}

	snap := recorder.Snapshot()
	if snap.Logins[metrics.OutcomeSuccess] != 1 {
		t.Errorf("expected 1 successful login, got %d", snap.Logins[metrics.OutcomeSuccess])
	}
	if snap.Transactions["payment/insufficient_funds"] != 1 || snap.Transactions["payment/submitted"] != 1 {
		t.Errorf("unexpected transaction counts: %v", snap.Transactions)
	}
}

func TestIntegration_LoginRejected(t *testing.T) {
	services := &fakeServices{}
	router, recorder := newIntegrationRouter(t, services)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, formRequest("/login", url.Values{"username": {"testuser"}, "password": {"wrong"}}))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("expected no session cookie")
	}
	if recorder.Snapshot().Logins[metrics.OutcomeError] != 1 {
		t.Error("expected failed login to be counted")
	}
}

func TestIntegration_Deposit(t *testing.T) {
	kp := testutil.SharedKeyPair(t)
	services := &fakeServices{}
	router, _ := newIntegrationRouter(t, services)
	token := kp.Sign(t, testutil.ValidClaims())

	req := formRequest("/deposit", url.Values{
		"account": {`{"account_num":"9099791699","routing_num":"808889588"}`},
		"amount":  {"50"},
	})
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if len(services.submitted) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(services.submitted))
	}
	want := model.TransactionRequest{
		FromRoutingNum: "808889588",
		FromAccountNum: "9099791699",
		ToRoutingNum:   testRoutingNum,
		ToAccountNum:   "1011226111",
		Amount:         5000,
	}
	if services.submitted[0] != want {
		t.Errorf("expected %+v, got %+v", want, services.submitted[0])
	}
}

func TestIntegration_Readyz(t *testing.T) {
	router, _ := newIntegrationRouter(t, &fakeServices{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	// The fake services expose no /ready endpoint.
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
