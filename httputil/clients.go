package httputil

import (
	"net/http"
	"time"
)

// NewAPIClient builds the shared client for backend calls. The transport
// timeout is the only deadline in the app; individual calls carry a
// context but no per-call timeout.
func NewAPIClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
