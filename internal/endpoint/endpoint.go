// Package endpoint resolves dashboard base URLs into WebSocket endpoint URLs.
//
// The scheme follows the transport security of the dashboard itself: an
// https base yields wss, an http base yields ws. The host is the dashboard's
// own host; only the path is endpoint-specific (/ws, /ws/rooms, /ws/trading).
package endpoint

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveWS converts a dashboard base URL and an endpoint path into a
// WebSocket URL.
func ResolveWS(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q has no host", base)
	}

	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported scheme %q in base url", u.Scheme)
	}

	u.Path = joinPath(u.Path, path)
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}

// ResolveAPI converts a dashboard base URL and an API path into an HTTP URL.
func ResolveAPI(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q has no host", base)
	}

	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "https"
	case "http", "ws":
		u.Scheme = "http"
	default:
		return "", fmt.Errorf("unsupported scheme %q in base url", u.Scheme)
	}

	u.Path = joinPath(u.Path, path)
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}

func joinPath(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
