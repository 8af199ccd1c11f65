// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

// This file provides generic REST client code.

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
	"github.com/jtacoma/uritemplates"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// resource is anything that talks to the service through a client.
type resource struct {
	client *Client
}

// payload is a request body with its media type.
type payload struct {
	contentType string
	data        []byte
}

func formPayload(params restdata.Params) *payload {
	return &payload{
		contentType: restdata.FormMediaType,
		data:        []byte(params.Encode()),
	}
}

// rawResponse can be passed as the output of do() to receive the
// response body undecoded.
type rawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// expand fills in a URI template, producing a path relative to the
// API root.
func expand(template string, vars map[string]interface{}) (string, error) {
	// Build the template object
	tmpl, err := uritemplates.Parse(template)
	if err != nil {
		return "", err
	}

	// Expand the template to produce a string
	return tmpl.Expand(vars)
}

func (r *resource) template(template string, vars map[string]interface{}) (*url.URL, error) {
	expanded, err := expand(template, vars)
	if err != nil {
		return nil, err
	}

	// Return the parsed URL of the result, relative to the API root
	return r.client.URL.Parse(expanded)
}

// do performs some HTTP action.  If in is non-nil, it is sent as the
// body of the request.  If out is non-nil, the response data (if any)
// is stored in it; out must be a *rawResponse, *interface{},
// *map[string]interface{}, or *[]interface{}.  Every failure is
// returned as crowdflower.ErrRemote.
func (r *resource) do(ctx context.Context, method string, u *url.URL, in *payload, out interface{}) (err error) {
	c := r.client
	start := c.Clock.Now()
	requestID := uuid.NewV4().String()
	redacted := restdata.RedactKey(u)
	status := 0
	log := c.Logger.WithFields(logrus.Fields{
		"method":     method,
		"url":        redacted,
		"request_id": requestID,
	})
	defer func() {
		elapsed := c.Clock.Now().Sub(start)
		observe(method, status, elapsed)
		log = log.WithFields(logrus.Fields{
			"status":   status,
			"duration": elapsed,
		})
		if err != nil {
			log.WithError(err).Warn("request failed")
		} else {
			log.Debug("request")
		}
	}()

	fail := func(message string, cause error) error {
		return crowdflower.ErrRemote{
			Op:         method,
			URL:        redacted,
			StatusCode: status,
			Message:    message,
			Err:        cause,
		}
	}

	// Set up the body, if there is one
	var body io.Reader
	if in != nil {
		body = bytes.NewReader(in.data)
	}

	// Create the request and set headers
	req, err := http.NewRequestWithContext(ctx, method, restdata.WithKey(u, c.Key).String(), body)
	if err != nil {
		return fail("", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", in.contentType)
	}
	req.Header.Set("Accept", restdata.JSONMediaType)
	req.Header.Set("X-Request-Id", requestID)

	// Actually do the request
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fail("", scrubURLError(err))
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail("", err)
	}
	contentType := resp.Header.Get("Content-Type")

	// Check the response code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message, ok := restdata.ParseError(contentType, data)
		if !ok {
			message = http.StatusText(resp.StatusCode)
		}
		return fail(message, nil)
	}

	if raw, isRaw := out.(*rawResponse); isRaw {
		raw.StatusCode = resp.StatusCode
		raw.ContentType = contentType
		raw.Body = data
		return nil
	}

	// Decode whatever came back, even if the caller does not want
	// it, since a successful status can still carry an error
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var decoded interface{}
	if err = restdata.Decode(contentType, bytes.NewReader(data), &decoded); err != nil {
		return fail("undecodable response", err)
	}
	if message, isError := restdata.ErrorText(decoded); isError {
		return fail(message, nil)
	}
	if err = assign(out, decoded); err != nil {
		return fail("unexpected response", err)
	}
	return nil
}

var errResponseShape = errors.New("response has the wrong shape")

func assign(out, decoded interface{}) error {
	switch o := out.(type) {
	case nil:
	case *interface{}:
		*o = decoded
	case *map[string]interface{}:
		m, ok := decoded.(map[string]interface{})
		if !ok {
			return errResponseShape
		}
		*o = m
	case *[]interface{}:
		l, ok := decoded.([]interface{})
		if !ok {
			return errResponseShape
		}
		*o = l
	default:
		return errors.New("unsupported output type")
	}
	return nil
}

// scrubURLError removes the request URL, which holds the API key,
// from transport errors.
func scrubURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// getFrom retrieves a resource from a template path.
func (r *resource) getFrom(ctx context.Context, template string, vars map[string]interface{}, out interface{}) error {
	u, err := r.template(template, vars)
	if err == nil {
		err = r.do(ctx, http.MethodGet, u, nil, out)
	}
	return err
}

// putTo updates a resource at a template path with form parameters.
func (r *resource) putTo(ctx context.Context, template string, vars map[string]interface{}, params restdata.Params, out interface{}) error {
	u, err := r.template(template, vars)
	if err == nil {
		err = r.do(ctx, http.MethodPut, u, formPayload(params), out)
	}
	return err
}

// postTo submits form parameters to a template path.
func (r *resource) postTo(ctx context.Context, template string, vars map[string]interface{}, params restdata.Params, out interface{}) error {
	u, err := r.template(template, vars)
	if err == nil {
		err = r.do(ctx, http.MethodPost, u, formPayload(params), out)
	}
	return err
}

// uploadTo posts raw data to a template path.
func (r *resource) uploadTo(ctx context.Context, template string, vars map[string]interface{}, data []byte, contentType string, out interface{}) error {
	u, err := r.template(template, vars)
	if err == nil {
		err = r.do(ctx, http.MethodPost, u, &payload{contentType: contentType, data: data}, out)
	}
	return err
}

// deleteAt deletes the resource at a template path.
func (r *resource) deleteAt(ctx context.Context, template string, vars map[string]interface{}) error {
	u, err := r.template(template, vars)
	if err == nil {
		err = r.do(ctx, http.MethodDelete, u, nil, nil)
	}
	return err
}

// IsNotFound returns true if err is a service response of 404 Not
// Found.
func IsNotFound(err error) bool {
	var remote crowdflower.ErrRemote
	return errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound
}

// toInt64 converts an id as decoded from JSON or a form into an
// integer.
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), n == float64(int64(n))
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
