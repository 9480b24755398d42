package apiscope

import (
	"net"
	"net/http"
	"time"
)

// HTTP config.
const (
	// DefaultTimeout is the default amount of time allowed for the entire request/response
	// cycle for a single call.
	DefaultTimeout = 30 * time.Second

	// DefaultConnectionTimeout is the default amount of time allowed for the HTTP connection/TLS handshake
	// for a single call.
	DefaultConnectionTimeout = 10 * time.Second

	maxIdleConns          = 100
	idleConnTimeout       = 90 * time.Second
	expectContinueTimeout = 1 * time.Second
)

// NewHTTPClient returns a new HTTP client with the given connection and overall timeouts.
func NewHTTPClient(connectionTimeout, timeout time.Duration) http.Client {
	return http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   connectionTimeout,
				KeepAlive: timeout,
			}).DialContext,
			MaxIdleConns:          maxIdleConns,
			IdleConnTimeout:       idleConnTimeout,
			TLSHandshakeTimeout:   connectionTimeout,
			ExpectContinueTimeout: expectContinueTimeout,
			ForceAttemptHTTP2:     true,
			MaxIdleConnsPerHost:   http.DefaultMaxIdleConnsPerHost,
		},
		Timeout: timeout,
	}
}
