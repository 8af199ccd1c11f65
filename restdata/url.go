// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"net/url"
)

// WithKey returns a copy of u with the API key added to its query.
func WithKey(u *url.URL, key string) *url.URL {
	result := *u
	q := result.Query()
	q.Set(KeyParam, key)
	result.RawQuery = q.Encode()
	return &result
}

// RedactKey renders u for logs and error messages, with the API key
// value hidden.
func RedactKey(u *url.URL) string {
	q := u.Query()
	if _, present := q[KeyParam]; !present {
		return u.String()
	}
	result := *u
	q.Set(KeyParam, "REDACTED")
	result.RawQuery = q.Encode()
	return result.String()
}
