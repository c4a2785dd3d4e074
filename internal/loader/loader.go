// Package loader handles provider bootstrap: API key validation, building
// the provider's script URL, and checking that the service is reachable.
package loader

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("no API key configured for the map provider")

// Loader builds the provider bootstrap URL and verifies reachability.
type Loader struct {
	serviceURL string
	apiKey     string
	httpClient *http.Client
}

// New creates a loader for the given provider service URL and API key.
func New(serviceURL, apiKey string) *Loader {
	return &Loader{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ScriptURL builds the provider script URL with the API key and an optional
// bootstrap callback name.
func (l *Loader) ScriptURL(callback string) (string, error) {
	if l.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	u, err := url.Parse(l.serviceURL)
	if err != nil {
		return "", fmt.Errorf("invalid service URL: %w", err)
	}
	q := u.Query()
	q.Set("key", l.apiKey)
	if callback != "" {
		q.Set("callback", callback)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Healthcheck checks if the provider service is reachable.
func (l *Loader) Healthcheck() error {
	resp, err := l.httpClient.Get(l.serviceURL)
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}
