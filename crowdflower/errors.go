// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package crowdflower

import (
	"fmt"
	"strings"
)

// ErrUnknownField is returned from Record.Get() and Record.Set() when
// the field is not declared on the record's resource type.
type ErrUnknownField struct {
	Type  string
	Field string
}

func (err ErrUnknownField) Error() string {
	return fmt.Sprintf("%v has no field %q", err.Type, err.Field)
}

// ErrImmutableField is returned from Record.Set() when the field is
// read-only.
type ErrImmutableField struct {
	Type  string
	Field string
}

func (err ErrImmutableField) Error() string {
	return fmt.Sprintf("cannot change read only field %q of %v", err.Field, err.Type)
}

// ErrWriteOnlyField is returned from Record.Get() when the field is
// write-only.  The value that was set can still be sent upstream.
type ErrWriteOnlyField struct {
	Type  string
	Field string
}

func (err ErrWriteOnlyField) Error() string {
	return fmt.Sprintf("cannot read write only field %q of %v", err.Field, err.Type)
}

// ErrValidation is returned when a resource fails its local checks
// before anything is sent to the service.  Missing lists every
// required field that was empty.
type ErrValidation struct {
	Type    string
	Missing []string
}

func (err ErrValidation) Error() string {
	return fmt.Sprintf("%v requires non-empty %v", err.Type, strings.Join(err.Missing, ", "))
}

// ErrRemote is returned for any failed interaction with the service:
// the request could not be made, the service answered with a non-2xx
// status, or the response carried an error payload.
type ErrRemote struct {
	// Op is the HTTP method of the failing request.
	Op string

	// URL is the request URL with the API key removed.
	URL string

	// StatusCode is the HTTP status, or 0 if no response arrived.
	StatusCode int

	// Message is the error text reported by the service, if any.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (err ErrRemote) Error() string {
	var b strings.Builder
	b.WriteString(err.Op)
	b.WriteString(" ")
	b.WriteString(err.URL)
	if err.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", err.StatusCode)
	}
	if err.Message != "" {
		b.WriteString(": ")
		b.WriteString(err.Message)
	}
	if err.Err != nil {
		b.WriteString(": ")
		b.WriteString(err.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (err ErrRemote) Unwrap() error {
	return err.Err
}

// ErrTypeUnknown is returned from uploads when no content type was
// given and none could be guessed from the file name.
type ErrTypeUnknown struct {
	Filename string
}

func (err ErrTypeUnknown) Error() string {
	if err.Filename == "" {
		return "content type not set"
	}
	return fmt.Sprintf("content type not set and could not guess type of %q", err.Filename)
}
