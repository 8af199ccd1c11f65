// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restclient"
	"github.com/diffeo/go-crowdflower/restdata"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRemote records updates and answers them with a fixed result
// merged with the sent parameters.
type stubRemote struct {
	calls  int
	path   string
	params restdata.Params
	result map[string]interface{}
	err    error
}

func (r *stubRemote) Update(ctx context.Context, path string, params restdata.Params) (map[string]interface{}, error) {
	r.calls++
	r.path = path
	r.params = params
	if r.err != nil {
		return nil, r.err
	}
	result := make(map[string]interface{})
	for k, v := range r.result {
		result[k] = v
	}
	return result, nil
}

func offlineClient(t *testing.T) *restclient.Client {
	c, err := restclient.New(restclient.Config{Key: "k", URL: "http://crowdflower.invalid/v1"})
	require.NoError(t, err)
	return c
}

func completeJob(c *restclient.Client) *restclient.Job {
	return c.NewJob(map[string]interface{}{
		"id":           int64(42),
		"title":        "Old",
		"instructions": "Look",
		"cml":          "<cml:text name=\"x\"/>",
	})
}

func TestSynchronizeValidates(t *testing.T) {
	c := offlineClient(t)
	remote := &stubRemote{}
	sync := &restclient.Synchronizer{Remote: remote}

	job := c.NewJob(map[string]interface{}{"id": int64(42)})
	require.NoError(t, job.Set("title", "New"))
	require.NoError(t, job.Set("cml", ""))
	err := sync.Synchronize(context.Background(), job)
	assert.Equal(t, crowdflower.ErrValidation{
		Type:    "job",
		Missing: []string{"instructions", "cml"},
	}, err)
	assert.Equal(t, 0, remote.calls)
	assert.True(t, job.HasChanges())

	job = c.NewJob(map[string]interface{}{})
	err = sync.Synchronize(context.Background(), job)
	assert.Equal(t, crowdflower.ErrValidation{
		Type:    "job",
		Missing: []string{"title", "instructions", "cml"},
	}, err)
	assert.Equal(t, 0, remote.calls)

	// empty strings count as missing
	job = c.NewJob(map[string]interface{}{"id": int64(42), "title": "", "instructions": "", "cml": ""})
	require.NoError(t, job.Set("options", map[string]interface{}{"a": 1}))
	err = sync.Synchronize(context.Background(), job)
	assert.Equal(t, crowdflower.ErrValidation{
		Type:    "job",
		Missing: []string{"title", "instructions", "cml"},
	}, err)
	assert.Equal(t, 0, remote.calls)
	assert.True(t, job.HasChanges())
}

func TestSynchronizeSends(t *testing.T) {
	c := offlineClient(t)
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	remote := &stubRemote{result: map[string]interface{}{
		"id":           int64(42),
		"title":        "New",
		"instructions": "Look",
		"cml":          "<cml:text name=\"x\"/>",
		"state":        "unordered",
	}}
	sync := &restclient.Synchronizer{Remote: remote, Logger: logger}

	job := completeJob(c)
	require.NoError(t, job.Set("title", "New"))
	require.NoError(t, job.Set("options", map[string]interface{}{"b": 2, "a": 1}))
	require.NoError(t, sync.Synchronize(context.Background(), job))

	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, "jobs/42.json", remote.path)
	assert.Equal(t, restdata.Params{
		{Name: "job[title]", Value: "New"},
		{Name: "job[options][a]", Value: 1},
		{Name: "job[options][b]", Value: 2},
	}, remote.params)

	assert.False(t, job.HasChanges())
	title, err := job.Get("title")
	assert.NoError(t, err)
	assert.Equal(t, "New", title)
	// the answer replaces the baseline entirely
	options, err := job.Get("options")
	assert.NoError(t, err)
	assert.Nil(t, options)
	assert.Equal(t, int64(42), job.ID())

	if entry := hook.LastEntry(); assert.NotNil(t, entry) {
		assert.Equal(t, logrus.DebugLevel, entry.Level)
		assert.Equal(t, "jobs/42.json", entry.Data["path"])
	}

	// nothing pending, nothing sent
	require.NoError(t, sync.Synchronize(context.Background(), job))
	assert.Equal(t, 1, remote.calls)
}

func TestSynchronizeRemoteFailure(t *testing.T) {
	c := offlineClient(t)
	boom := errors.New("boom")
	remote := &stubRemote{err: boom}
	sync := &restclient.Synchronizer{Remote: remote}

	job := completeJob(c)
	require.NoError(t, job.Set("title", "New"))
	err := sync.Synchronize(context.Background(), job)
	var remoteErr crowdflower.ErrRemote
	if assert.True(t, errors.As(err, &remoteErr)) {
		assert.Equal(t, http.MethodPut, remoteErr.Op)
		assert.Equal(t, "jobs/42.json", remoteErr.URL)
	}
	assert.True(t, errors.Is(err, boom))

	assert.Equal(t, crowdflower.Ordered{{Key: "title", Value: "New"}}, job.Changes())
	title, _ := job.Get("title")
	assert.Equal(t, "New", title)
	old, _ := job.Baseline("title")
	assert.Equal(t, "Old", old)

	// a remote error already in the right form is passed through
	remote.err = crowdflower.ErrRemote{Op: http.MethodPut, URL: "x", StatusCode: 500}
	err = sync.Synchronize(context.Background(), job)
	assert.Equal(t, remote.err, err)
}

func TestSynchronizeClearsMapping(t *testing.T) {
	c := offlineClient(t)
	remote := &stubRemote{result: map[string]interface{}{"id": int64(42), "options": ""}}
	sync := &restclient.Synchronizer{Remote: remote}

	job := completeJob(c)
	require.NoError(t, job.Set("options", map[string]interface{}{}))
	require.NoError(t, sync.Synchronize(context.Background(), job))
	assert.Equal(t, restdata.Params{{Name: "job[options]", Value: ""}}, remote.params)
}

func TestSynchronizeWriteOnly(t *testing.T) {
	c := offlineClient(t)
	remote := &stubRemote{result: map[string]interface{}{"id": int64(42)}}
	sync := &restclient.Synchronizer{Remote: remote}

	job := completeJob(c)
	require.NoError(t, job.Set("secret", "s3kr1t"))
	_, err := job.Get("secret")
	assert.Equal(t, crowdflower.ErrWriteOnlyField{Type: "job", Field: "secret"}, err)

	require.NoError(t, sync.Synchronize(context.Background(), job))
	assert.Equal(t, restdata.Params{{Name: "job[secret]", Value: "s3kr1t"}}, remote.params)
}

func TestSynchronizeCreates(t *testing.T) {
	c := offlineClient(t)
	remote := &stubRemote{result: map[string]interface{}{
		"title":        "T",
		"instructions": "I",
		"cml":          "C",
		"id":           42,
	}}
	sync := &restclient.Synchronizer{Remote: remote}

	job := c.NewJob(map[string]interface{}{"title": "", "instructions": "", "cml": ""})
	err := sync.Synchronize(context.Background(), job)
	assert.Equal(t, crowdflower.ErrValidation{
		Type:    "job",
		Missing: []string{"title", "instructions", "cml"},
	}, err)
	assert.Equal(t, 0, remote.calls)

	require.NoError(t, job.Set("title", "T"))
	require.NoError(t, job.Set("instructions", "I"))
	require.NoError(t, job.Set("cml", "C"))
	require.NoError(t, sync.Synchronize(context.Background(), job))
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, "jobs.json", remote.path)
	assert.Equal(t, restdata.Params{
		{Name: "job[title]", Value: "T"},
		{Name: "job[instructions]", Value: "I"},
		{Name: "job[cml]", Value: "C"},
	}, remote.params)

	id, err := job.Get("id")
	assert.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Empty(t, job.Changes())
	assert.False(t, job.IsNew())
}

// creatingRemote separates creation from updates.
type creatingRemote struct {
	stubRemote
	created int
}

func (r *creatingRemote) Create(ctx context.Context, path string, params restdata.Params) (map[string]interface{}, error) {
	r.created++
	return r.stubRemote.Update(ctx, path, params)
}

func TestSynchronizeCreator(t *testing.T) {
	c := offlineClient(t)
	remote := &creatingRemote{stubRemote: stubRemote{result: map[string]interface{}{"id": int64(7)}}}
	sync := &restclient.Synchronizer{Remote: remote}

	job := c.NewJob(map[string]interface{}{"instructions": "I", "cml": "C"})
	require.NoError(t, job.Set("title", "T"))
	require.NoError(t, sync.Synchronize(context.Background(), job))
	assert.Equal(t, 1, remote.created)
	assert.Equal(t, int64(7), job.ID())

	// once it has an id the job is updated in place
	require.NoError(t, job.Set("title", "U"))
	require.NoError(t, job.Set("instructions", "I"))
	require.NoError(t, job.Set("cml", "C"))
	require.NoError(t, sync.Synchronize(context.Background(), job))
	assert.Equal(t, 1, remote.created)
	assert.Equal(t, 2, remote.calls)
	assert.Equal(t, "jobs/7.json", remote.path)

	// a failed creation is reported as a POST
	remote.err = errors.New("boom")
	job = c.NewJob(map[string]interface{}{"instructions": "I", "cml": "C"})
	require.NoError(t, job.Set("title", "T"))
	err := sync.Synchronize(context.Background(), job)
	var remoteErr crowdflower.ErrRemote
	if assert.True(t, errors.As(err, &remoteErr)) {
		assert.Equal(t, http.MethodPost, remoteErr.Op)
		assert.Equal(t, "jobs.json", remoteErr.URL)
	}
	assert.True(t, job.IsNew())
	assert.True(t, job.HasChanges())
}

func TestSynchronizeImmutable(t *testing.T) {
	c := offlineClient(t)
	job := completeJob(c)
	err := job.Set("units_count", 5)
	assert.Equal(t, crowdflower.ErrImmutableField{Type: "job", Field: "units_count"}, err)
	assert.False(t, job.HasChanges())
}
