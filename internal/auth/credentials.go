// Package auth attaches Gerrit credentials to outbound requests.
package auth

import (
	"errors"
	"net/http"
)

// Static errors for err113 compliance.
var (
	ErrUsernameRequired = errors.New("username is required for basic authentication")
)

// CredentialsProvider decorates a request with credentials.
type CredentialsProvider interface {
	Apply(req *http.Request) error
}

// BasicAuth sends HTTP Basic credentials. Gerrit expects the account's HTTP
// password, which differs from its web login password.
type BasicAuth struct {
	username string
	password string
}

// NewBasicAuth creates a basic credentials provider. It returns nil when
// username is empty.
func NewBasicAuth(username, password string) *BasicAuth {
	if username == "" {
		return nil
	}

	return &BasicAuth{
		username: username,
		password: password,
	}
}

// Username returns the configured user name.
func (b *BasicAuth) Username() string {
	return b.username
}

// Apply implements CredentialsProvider.
func (b *BasicAuth) Apply(req *http.Request) error {
	if b == nil || b.username == "" {
		return ErrUsernameRequired
	}

	req.SetBasicAuth(b.username, b.password)

	return nil
}
