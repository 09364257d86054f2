// Package network provides pre-configured HTTP clients and connectivity primitives for playback endpoint communication.
package network

import (
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/vidra-player/vidra/key"
)

// Client is the singleton HTTP client shared across the application for efficient resource utilization.
// It is configured with increased concurrency limits and reasonable timeouts tailored for manifest validation workflows.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// ValidationClient returns the client used for manifest validation fetches.
// When impersonation is enabled the client carries a Chrome TLS fingerprint,
// for CDN edges that reject default Go clients.
func ValidationClient() *http.Client {
	if viper.GetBool(key.NetworkImpersonate) {
		return Impersonating()
	}
	return Client
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}
