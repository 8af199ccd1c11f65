// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"bytes"
	"testing"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRoundTrip(t *testing.T) {
	records := []map[string]interface{}{
		{"_unit_id": int64(1), "sentiment": map[string]interface{}{"agg": "positive"}},
		{"_unit_id": int64(2), "sentiment": map[string]interface{}{"agg": "negative"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, "job_7.json", records))

	got, err := ReadReport(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadReportNotZip(t *testing.T) {
	_, err := ReadReport([]byte("{}"))
	assert.Error(t, err)
}

func TestUploadContentType(t *testing.T) {
	typ, err := UploadContentType("units.csv", "")
	assert.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", typ)

	typ, err = UploadContentType("units.json", "")
	assert.NoError(t, err)
	assert.Equal(t, "application/json", typ)

	typ, err = UploadContentType("units.unknownext", "text/plain")
	assert.NoError(t, err)
	assert.Equal(t, "text/plain", typ)

	_, err = UploadContentType("units.unknownext", "")
	assert.Equal(t, crowdflower.ErrTypeUnknown{Filename: "units.unknownext"}, err)

	_, err = UploadContentType("", "")
	assert.Equal(t, crowdflower.ErrTypeUnknown{}, err)
}
