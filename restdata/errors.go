// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorStatus describes errors that correspond to specific HTTP status
// codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrBadRequest is returned as an error when there is an error decoding
// HTTP headers or the request body.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// ErrUnprocessable is returned when a request is well formed but
// names invalid field values, in the way the service reports
// validation failures.
type ErrUnprocessable struct {
	Problems []string
}

func (e ErrUnprocessable) Error() string {
	return strings.Join(e.Problems, "; ")
}

// HTTPStatus returns a fixed 422 Unprocessable Entity code.
func (e ErrUnprocessable) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

// FromError populates an ErrorResponse from an error value.
func (e *ErrorResponse) FromError(err error) {
	if u, ok := err.(ErrUnprocessable); ok {
		e.Errors = u.Problems
		return
	}
	e.Error = &ErrorMessage{Message: err.Error()}
}

// ErrorText extracts the error text from a decoded response, if it
// has any.  The service is inconsistent: "error" may be a string or
// an object with a "message", and "errors" may be a list or an
// object mapping field names to lists.
func ErrorText(body interface{}) (string, bool) {
	m, ok := body.(map[string]interface{})
	if !ok {
		return "", false
	}
	if e, present := m["error"]; present {
		switch v := e.(type) {
		case string:
			return v, true
		case map[string]interface{}:
			if msg, ok := v["message"].(string); ok {
				return msg, true
			}
		}
		return fmt.Sprint(e), true
	}
	if e, present := m["errors"]; present {
		return joinErrors(e), true
	}
	return "", false
}

func joinErrors(e interface{}) string {
	var parts []string
	switch v := e.(type) {
	case []interface{}:
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, k+": "+joinErrors(v[k]))
		}
	default:
		parts = append(parts, fmt.Sprint(e))
	}
	return strings.Join(parts, "; ")
}

// ParseError tries to extract error text from a raw response body.
func ParseError(contentType string, body []byte) (string, bool) {
	var decoded interface{}
	if err := Decode(contentType, bytes.NewReader(body), &decoded); err != nil {
		return "", false
	}
	return ErrorText(decoded)
}
