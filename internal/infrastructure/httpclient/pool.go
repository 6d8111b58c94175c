package httpclient

import (
	"net/http"
	"time"
)

// sharedTransport is reused by every client built here so that the calls of
// one page load share keep-alive connections to the service.
var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// New returns an http.Client on the shared transport. A zero timeout leaves
// the transport defaults in charge.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: sharedTransport,
	}
}
