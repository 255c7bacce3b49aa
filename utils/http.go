// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is the shared client for calls to sibling services (profile
// service roster sync). Keep the timeout short; these are small JSON payloads.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}
