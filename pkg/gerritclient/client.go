// Package gerritclient provides the main entry point for creating Gerrit REST API clients
package gerritclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/gerrit-client/internal/client"
	internalhttp "github.com/fivetwenty-io/gerrit-client/internal/http"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

// New creates a new Gerrit REST API client.
func New(config *gerrit.Config) (gerrit.Client, error) {
	if config == nil {
		return nil, gerrit.ErrConfigRequired
	}

	serverURL, err := NormalizeURL(config.URL)
	if err != nil {
		return nil, err
	}

	normalized := *config
	normalized.URL = serverURL

	// Use the internal client implementation
	client, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// NormalizeURL adds "https://" when raw has no scheme and makes the result
// end with exactly one "/".
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", gerrit.ErrURLRequired
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing gerrit URL: %w", err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %s", gerrit.ErrNoHostInURL, raw)
	}

	return internalhttp.NormalizeBaseURL(raw), nil
}

// NewWithEndpoint creates a new client with just a server URL (no auth).
func NewWithEndpoint(endpoint string) (gerrit.Client, error) {
	return New(&gerrit.Config{
		URL: endpoint,
	})
}

// NewWithPassword creates a new client using HTTP Basic authentication.
func NewWithPassword(endpoint, username, password string) (gerrit.Client, error) {
	return New(&gerrit.Config{
		URL:      endpoint,
		Username: username,
		Password: password,
	})
}
