// Package backend is the HTTP client for the bank's backend services.
// Every call carries the caller's bearer token; response bodies are JSON
// objects from which a single known key is extracted.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/bankdemo/frontend/internal/metrics"
	"github.com/bankdemo/frontend/internal/middleware"
	"github.com/bankdemo/frontend/internal/model"
)

// ClientConfig holds the dependencies of a Client.
type ClientConfig struct {
	Endpoints   Endpoints
	HTTPClient  *http.Client
	ReadTimeout time.Duration
	Metrics     metrics.Recorder
	Logger      *slog.Logger
}

// Client calls the backend services. It is safe for concurrent use.
type Client struct {
	endpoints   Endpoints
	httpClient  *http.Client
	readTimeout time.Duration
	metrics     metrics.Recorder
	logger      *slog.Logger
}

// NewClient creates a Client, filling unset dependencies with defaults.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		endpoints:   cfg.Endpoints,
		httpClient:  cfg.HTTPClient,
		readTimeout: cfg.ReadTimeout,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = NewHTTPClient()
	}
	if c.readTimeout <= 0 {
		c.readTimeout = DefaultReadTimeout
	}
	if c.metrics == nil {
		c.metrics = metrics.NewNoop()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Close releases idle connections held by the underlying transport.
func (c *Client) Close(ctx context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Balance returns the account balance in minor units.
func (c *Client) Balance(ctx context.Context, token string) (int64, error) {
	body, err := c.get(ctx, ServiceBalances, PathGetBalance, token, nil)
	if err != nil {
		return 0, err
	}

	v := gjson.GetBytes(body, "balance")
	if !v.Exists() || v.Type != gjson.Number {
		return 0, c.fail(ctx, ServiceBalances, PathGetBalance, fmt.Errorf("%w: balance", ErrMissingField))
	}
	return v.Int(), nil
}

// History returns the account's transaction history, newest first as
// reported by the history service.
func (c *Client) History(ctx context.Context, token string) ([]model.HistoryEntry, error) {
	body, err := c.get(ctx, ServiceHistory, PathGetHistory, token, nil)
	if err != nil {
		return nil, err
	}

	list := gjson.GetBytes(body, "history")
	if !list.IsArray() {
		return nil, c.fail(ctx, ServiceHistory, PathGetHistory, fmt.Errorf("%w: history", ErrMissingField))
	}

	entries := make([]model.HistoryEntry, 0, len(list.Array()))
	list.ForEach(func(_, e gjson.Result) bool {
		entries = append(entries, model.HistoryEntry{
			Timestamp:      e.Get("timestamp").Int(),
			FromRoutingNum: e.Get("from_routing_num").String(),
			FromAccountNum: e.Get("from_account_num").String(),
			ToRoutingNum:   e.Get("to_routing_num").String(),
			ToAccountNum:   e.Get("to_account_num").String(),
			Amount:         e.Get("amount").Int(),
		})
		return true
	})
	return entries, nil
}

// Contacts returns the user's saved payees at this bank.
func (c *Client) Contacts(ctx context.Context, token string) ([]model.Contact, error) {
	return c.accountList(ctx, PathContacts, token)
}

// ExternalAccounts returns the user's accounts at other banks.
func (c *Client) ExternalAccounts(ctx context.Context, token string) ([]model.Contact, error) {
	return c.accountList(ctx, PathExternal, token)
}

func (c *Client) accountList(ctx context.Context, path, token string) ([]model.Contact, error) {
	body, err := c.get(ctx, ServiceContacts, path, token, nil)
	if err != nil {
		return nil, err
	}

	list := gjson.GetBytes(body, "account_list")
	if !list.IsArray() {
		return nil, c.fail(ctx, ServiceContacts, path, fmt.Errorf("%w: account_list", ErrMissingField))
	}

	contacts := make([]model.Contact, 0, len(list.Array()))
	list.ForEach(func(_, e gjson.Result) bool {
		contacts = append(contacts, model.Contact{
			Label:      e.Get("label").String(),
			AccountNum: e.Get("account_num").String(),
			RoutingNum: e.Get("routing_num").String(),
		})
		return true
	})
	return contacts, nil
}

// Token exchanges credentials for a signed session token.
// A non-200 answer from the token service yields ErrTokenRejected.
func (c *Client) Token(ctx context.Context, username, password string) (string, error) {
	query := url.Values{}
	query.Set("username", username)
	query.Set("password", password)

	body, err := c.get(ctx, ServiceTokens, PathGetToken, "", query)
	if err != nil {
		return "", err
	}

	v := gjson.GetBytes(body, "token")
	if v.Type != gjson.String || v.String() == "" {
		return "", c.fail(ctx, ServiceTokens, PathGetToken, fmt.Errorf("%w: token", ErrMissingField))
	}
	return v.String(), nil
}

// SubmitTransaction posts tx to the transaction service.
// The call is bounded by TransactionTimeout and is never retried.
func (c *Client) SubmitTransaction(ctx context.Context, token string, tx model.TransactionRequest) error {
	payload, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, TransactionTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, ServiceTransactions, PathNewTransaction, token, nil, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req, ServiceTransactions, PathNewTransaction, func(status int) bool {
		return status >= 200 && status < 300
	})
	return err
}

// Ready probes the readiness endpoint of service.
func (c *Client) Ready(ctx context.Context, service Service) error {
	ctx, cancel := context.WithTimeout(ctx, c.readTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, service, PathReady, "", nil, nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, service, PathReady, func(status int) bool {
		return status == http.StatusOK
	})
	return err
}

// get performs a read call and returns a validated JSON body.
func (c *Client) get(ctx context.Context, service Service, path, token string, query url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.readTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, service, path, token, query, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, service, path, func(status int) bool {
		return status == http.StatusOK
	})
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, c.fail(ctx, service, path, ErrMalformedResponse)
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method string, service Service, path, token string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.endpoints.Base(service) + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", service, err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		req.Header.Set(middleware.RequestIDHeader, requestID)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do executes req, records metrics, and returns the (size-limited) body.
func (c *Client) do(req *http.Request, service Service, path string, ok func(status int) bool) ([]byte, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveBackendCall(string(service), metrics.OutcomeError, time.Since(start))
		// url.Error embeds the full URL, which carries credentials for token calls.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, c.fail(req.Context(), service, path, fmt.Errorf("%s request failed: %w", service, err))
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	duration := time.Since(start)

	if !ok(resp.StatusCode) {
		c.metrics.ObserveBackendCall(string(service), metrics.OutcomeError, duration)
		var err error = &StatusError{Service: service, StatusCode: resp.StatusCode}
		if service == ServiceTokens {
			err = fmt.Errorf("%w: %w", ErrTokenRejected, err)
		}
		return nil, c.fail(req.Context(), service, path, err)
	}
	if readErr != nil {
		c.metrics.ObserveBackendCall(string(service), metrics.OutcomeError, duration)
		return nil, c.fail(req.Context(), service, path, fmt.Errorf("read %s response: %w", service, readErr))
	}

	c.metrics.ObserveBackendCall(string(service), metrics.OutcomeSuccess, duration)
	return body, nil
}

// fail logs err with call context and returns it unchanged.
func (c *Client) fail(ctx context.Context, service Service, path string, err error) error {
	c.logger.LogAttrs(ctx, slog.LevelError, "backend call failed",
		slog.String("service", string(service)),
		slog.String("path", path),
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(ctx)),
	)
	return err
}
