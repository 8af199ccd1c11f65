// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTypes(t *testing.T) {
	var out interface{}
	err := Decode("application/json; charset=utf-8",
		strings.NewReader(`{"id": 42, "neg": -1, "f": 0.5, "nested": {"ok": true}, "list": [1, "a"]}`),
		&out)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"id":     int64(42),
		"neg":    int64(-1),
		"f":      0.5,
		"nested": map[string]interface{}{"ok": true},
		"list":   []interface{}{int64(1), "a"},
	}, out)
}

func TestDecodeUnsupported(t *testing.T) {
	var out interface{}
	err := Decode("text/html", strings.NewReader("<html>"), &out)
	assert.Equal(t, ErrUnsupportedMediaType{Type: "text/html"}, err)

	err = Decode("", strings.NewReader(`[]`), &out)
	assert.NoError(t, err)
}

func TestLines(t *testing.T) {
	content, err := EncodeLines([]interface{}{
		map[string]interface{}{"text": "one"},
		map[string]interface{}{"text": "two"},
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"text\":\"one\"}\n{\"text\":\"two\"}\n", string(content))

	records, err := DecodeLines(bytes.NewReader(append(content, []byte("\n  \n")...)))
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{
		{"text": "one"},
		{"text": "two"},
	}, records)

	_, err = DecodeLines(strings.NewReader("{\"a\":1}\nnot json\n"))
	assert.Error(t, err)
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		body string
		text string
		ok   bool
	}{
		{`{"error": {"message": "Job not found"}}`, "Job not found", true},
		{`{"error": "Unauthorized"}`, "Unauthorized", true},
		{`{"errors": ["a", "b"]}`, "a; b", true},
		{`{"errors": {"title": ["is blank"], "cml": ["is bad"]}}`, "cml: is bad; title: is blank", true},
		{`{"id": 1}`, "", false},
		{`[1]`, "", false},
		{`garbage`, "", false},
	}
	for _, test := range tests {
		text, ok := ParseError(JSONMediaType, []byte(test.body))
		assert.Equal(t, test.ok, ok, test.body)
		assert.Equal(t, test.text, text, test.body)
	}
}

func TestErrorResponseFromError(t *testing.T) {
	var resp ErrorResponse
	resp.FromError(ErrNotFound{Err: assert.AnError})
	if assert.NotNil(t, resp.Error) {
		assert.Equal(t, assert.AnError.Error(), resp.Error.Message)
	}

	resp = ErrorResponse{}
	resp.FromError(ErrUnprocessable{Problems: []string{"title is blank"}})
	assert.Nil(t, resp.Error)
	assert.Equal(t, []string{"title is blank"}, resp.Errors)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, resp))
	text, ok := ParseError("", buf.Bytes())
	assert.True(t, ok)
	assert.Equal(t, "title is blank", text)
}
