package http

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeBaseURL makes s end with exactly one "/".
func NormalizeBaseURL(s string) string {
	return strings.TrimRight(s, "/") + "/"
}

// ResolveURL joins endpoint onto base. The endpoint path, stripped of its
// leading slashes, is appended to the base path. Every other component the
// endpoint carries (scheme, user info, host, query, fragment) replaces the
// base component; absent components fall back to the base.
func ResolveURL(base *url.URL, endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint %q: %w", endpoint, err)
	}

	resolved := *base

	if ref.Path != "" {
		escaped := base.EscapedPath() + strings.TrimLeft(ref.EscapedPath(), "/")

		path, err := url.PathUnescape(escaped)
		if err != nil {
			return nil, fmt.Errorf("unescaping path %q: %w", escaped, err)
		}

		resolved.Path = path
		resolved.RawPath = escaped
	}

	if ref.Scheme != "" {
		resolved.Scheme = ref.Scheme
	}

	if ref.User != nil {
		resolved.User = ref.User
	}

	if ref.Host != "" {
		resolved.Host = ref.Host
	}

	if ref.RawQuery != "" {
		resolved.RawQuery = ref.RawQuery
	}

	if ref.Fragment != "" {
		resolved.Fragment = ref.Fragment
		resolved.RawFragment = ref.RawFragment
	}

	return &resolved, nil
}
