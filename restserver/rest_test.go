// Regression tests for the REST server.
//
// Main tests are really by running the end-to-end path from
// restclient.  This only contains special-case tests.
//
// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/diffeo/go-crowdflower/memory"
	"github.com/diffeo/go-crowdflower/restdata"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failResponseWriter struct {
	Headers    http.Header
	StatusCode int
}

func (rw *failResponseWriter) Header() http.Header {
	if rw.Headers == nil {
		rw.Headers = make(http.Header)
	}
	return rw.Headers
}

func (rw *failResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("foo")
}

func (rw *failResponseWriter) WriteHeader(code int) {
	rw.StatusCode = code
}

func newJob(t *testing.T, service *memory.Service) int64 {
	job, err := service.CreateJob(map[string]interface{}{
		"title":        "Test",
		"instructions": "Do it",
		"cml":          `<cml:text label="Answer" name="answer"/>`,
	})
	require.NoError(t, err)
	return job["id"].(int64)
}

// TestDoubleFault checks that, if there is an error serializing a JSON
// response, it doesn't actually panic the process.
func TestDoubleFault(t *testing.T) {
	service := memory.New()
	newJob(t, service)

	router := NewRouter(service, Config{Key: "k"})
	req := &http.Request{
		Method: http.MethodGet,
		URL: &url.URL{
			Path:     "/v1/jobs/1.json",
			RawQuery: "key=k",
		},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Close:      true,
		Host:       "localhost",
	}
	resp := &failResponseWriter{}
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func serve(handler http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorText(t *testing.T, rec *httptest.ResponseRecorder) string {
	text, ok := restdata.ParseError(rec.Header().Get("Content-Type"), rec.Body.Bytes())
	require.True(t, ok, "no error in %q", rec.Body.String())
	return text
}

func TestKeyChecked(t *testing.T) {
	service := memory.New()
	router := NewRouter(service, Config{Key: "k"})

	rec := serve(router, http.MethodGet, "/v1/jobs.json", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errNoKey.Error(), errorText(t, rec))

	rec = serve(router, http.MethodGet, "/v1/jobs.json?key=wrong", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodGet, "/v1/jobs.json?key=k", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnyKey(t *testing.T) {
	router := NewRouter(memory.New(), Config{})

	rec := serve(router, http.MethodGet, "/v1/jobs.json", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodGet, "/v1/jobs.json?key=anything", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotFound(t *testing.T) {
	router := NewRouter(memory.New(), Config{Key: "k"})

	rec := serve(router, http.MethodGet, "/v1/jobs/17.json?key=k", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, errorText(t, rec))
}

func TestMethodNotAllowed(t *testing.T) {
	service := memory.New()
	id := newJob(t, service)
	router := NewRouter(service, Config{Key: "k"})

	target := "/v1/jobs/" + restdata.FormatValue(id) + "/ping.json?key=k"
	rec := serve(router, http.MethodDelete, target, "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCreateJobForm(t *testing.T) {
	service := memory.New()
	router := NewRouter(service, Config{Key: "k"})

	form := url.Values{}
	form.Set("job[title]", "Form job")
	form.Set("job[instructions]", "Look")
	form.Set("job[cml]", `<cml:text name="answer"/>`)
	rec := serve(router, http.MethodPost, "/v1/jobs.json?key=k",
		restdata.FormMediaType, form.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var job map[string]interface{}
	require.NoError(t, restdata.DecodeBytes(rec.Body.Bytes(), &job))
	assert.Equal(t, "Form job", job["title"])
	assert.Equal(t, "unordered", job["state"])
}

func TestUnprocessable(t *testing.T) {
	router := NewRouter(memory.New(), Config{Key: "k"})

	form := url.Values{}
	form.Set("job[color]", "blue")
	rec := serve(router, http.MethodPost, "/v1/jobs.json?key=k",
		restdata.FormMediaType, form.Encode())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorText(t, rec), "color")
}

func TestUploadFormats(t *testing.T) {
	service := memory.New()
	router := NewRouter(service, Config{Key: "k"})

	rec := serve(router, http.MethodPost, "/v1/jobs/upload.json?key=k",
		"text/csv", "url,size\nhttp://a,1\nhttp://b,2\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var job map[string]interface{}
	require.NoError(t, restdata.DecodeBytes(rec.Body.Bytes(), &job))
	id := job["id"].(int64)
	assert.Equal(t, int64(2), job["units_count"])

	target := "/v1/jobs/" + restdata.FormatValue(id) + "/upload.json?key=k"
	rec = serve(router, http.MethodPost, target, restdata.JSONMediaType,
		"{\"url\":\"http://c\"}\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, restdata.DecodeBytes(rec.Body.Bytes(), &job))
	assert.Equal(t, int64(3), job["units_count"])

	rec = serve(router, http.MethodPost, target, "image/png", "")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestReportNotReady(t *testing.T) {
	service := memory.New()
	service.ReportDelay = 1 << 40
	id := newJob(t, service)
	require.NoError(t, service.Regenerate(id, restdata.ReportType))
	router := NewRouter(service, Config{Key: "k"})

	target := "/v1/jobs/" + restdata.FormatValue(id) + ".csv?type=json&key=k"
	rec := serve(router, http.MethodGet, target, "", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRequestLogged(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	router := NewRouter(memory.New(), Config{Key: "k", Logger: logger})

	rec := serve(router, http.MethodGet, "/v1/jobs.json?key=k", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.NotContains(t, entry.Data["url"], "key=k")
}

func TestTableRows(t *testing.T) {
	rows, err := tableRows([]byte("a\tb\n1\t2\n"), '\t')
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{{"a": "1", "b": "2"}}, rows)

	rows, err = tableRows(nil, ',')
	assert.NoError(t, err)
	assert.Empty(t, rows)

	_, err = tableRows([]byte("a,b\n1\n"), ',')
	assert.Error(t, err)
}
