package rest

import (
	"net"
	"net/http"
	"time"
)

const (
	// DefaultMaxConnections caps concurrent connections per host.
	DefaultMaxConnections = 100
	// DefaultTimeout bounds a single network attempt.
	DefaultTimeout = 30 * time.Second
)

// newTransport returns a pooled transport. Exchanges beyond maxConns wait
// inside the transport for a free connection.
func newTransport(maxConns int) *http.Transport {
	if maxConns <= 0 {
		maxConns = DefaultMaxConnections
	}
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          maxConns,
		MaxIdleConnsPerHost:   maxConns,
		MaxConnsPerHost:       maxConns,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// newHTTPClient builds the pooled client used by a dispatcher.
func newHTTPClient(maxConns int, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Transport: newTransport(maxConns),
		Timeout:   timeout,
	}
}
