package backend

import (
	"net"
	"net/http"
	"time"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 5 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 10 * time.Second
	// TransactionTimeout bounds a transaction submission end to end.
	TransactionTimeout = 3 * time.Second
	// DefaultReadTimeout bounds a single read from a backend service.
	DefaultReadTimeout = 10 * time.Second

	maxResponseBytes = 1 << 20
)

// NewHTTPClient creates an HTTP client configured for backend calls.
// Per-call deadlines come from the request context; redirects are not followed.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
