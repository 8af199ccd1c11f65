// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithKey(t *testing.T) {
	u, _ := url.Parse("https://api.crowdflower.com/v1/jobs.json?page=2")
	keyed := WithKey(u, "s3cr3t")
	assert.Equal(t, "s3cr3t", keyed.Query().Get("key"))
	assert.Equal(t, "2", keyed.Query().Get("page"))
	// input untouched
	assert.Equal(t, "page=2", u.RawQuery)
}

func TestRedactKey(t *testing.T) {
	u, _ := url.Parse("https://api.crowdflower.com/v1/jobs/1.json?key=s3cr3t")
	assert.Equal(t, "https://api.crowdflower.com/v1/jobs/1.json?key=REDACTED", RedactKey(u))

	u, _ = url.Parse("https://api.crowdflower.com/v1/jobs/1.json")
	assert.Equal(t, "https://api.crowdflower.com/v1/jobs/1.json", RedactKey(u))
}
