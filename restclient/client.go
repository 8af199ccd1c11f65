// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides an HTTP client for the CrowdFlower REST
// API.
//
// Create a Client with an API key, then fetch or create jobs and work
// with their units, judgments, orders and workers:
//
//     c, err := restclient.New(restclient.Config{Key: "..."})
//     job, err := c.Job(ctx, 746777)
//     err = job.Set("title", "Sentiment of tweets")
//     err = job.Update(ctx)
//
// Field reads and writes go through the job's crowdflower.Record and
// never touch the network; Update sends the pending writes and
// replaces the local state with the service's answer.  Commands such
// as Pause or Worker.Bonus are sent immediately and do not involve
// pending writes.
//
// Related lists (Job.Units, Job.JudgmentAggregates,
// JudgmentAggregate.Judgments) are fetched on first use and then kept
// until invalidated.  Nothing in this package is safe for concurrent
// use of the same object; two goroutines racing to fill the same
// list will both fetch it and the last one wins.
package restclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
	"github.com/sirupsen/logrus"
)

// Client talks to the CrowdFlower service.
type Client struct {
	resource

	// Key is the API key sent with every request.
	Key string

	// URL is the API root.  Paths are resolved relative to it, so
	// it ends in a slash.
	URL *url.URL

	// HTTPClient performs the requests.
	HTTPClient *http.Client

	// Logger receives one entry per request.
	Logger logrus.FieldLogger

	// Clock times requests.  Only test code should need to change
	// it.
	Clock clock.Clock
}

// New creates a new Client from its configuration.  An empty URL
// means the public API.  The key can also come from the
// CROWDFLOWER_API_KEY environment variable.
func New(config Config) (*Client, error) {
	if config.Key == "" {
		config.Key = os.Getenv(KeyEnvironment)
	}
	if config.Key == "" {
		return nil, errors.New("no API key configured")
	}
	if config.URL == "" {
		config.URL = restdata.DefaultURL
	}
	u, err := url.Parse(config.URL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("API URL must be absolute: " + config.URL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		Key:        config.Key,
		URL:        u,
		HTTPClient: &http.Client{Timeout: config.Timeout},
		Logger:     logrus.StandardLogger(),
		Clock:      clock.New(),
	}
	c.resource.client = c
	return c, nil
}

// Update sends flattened fields to a resource path with HTTP PUT
// and returns the updated representation.  It is the Remote used by
// the client's Synchronizer.
func (c *Client) Update(ctx context.Context, path string, params restdata.Params) (map[string]interface{}, error) {
	u, err := c.URL.Parse(path)
	if err != nil {
		return nil, crowdflower.ErrRemote{Op: http.MethodPut, URL: path, Err: err}
	}
	var result map[string]interface{}
	err = c.do(ctx, http.MethodPut, u, formPayload(params), &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Create posts fields for a new resource to the collection at path,
// relative to the API root, and returns the created resource.
func (c *Client) Create(ctx context.Context, path string, params restdata.Params) (map[string]interface{}, error) {
	u, err := c.URL.Parse(path)
	if err != nil {
		return nil, crowdflower.ErrRemote{Op: http.MethodPost, URL: path, Err: err}
	}
	var result map[string]interface{}
	err = c.do(ctx, http.MethodPost, u, formPayload(params), &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Synchronizer returns the synchronizer used by the resources of this
// client.
func (c *Client) Synchronizer() *Synchronizer {
	return &Synchronizer{Remote: c, Logger: c.Logger}
}

// NewJob wraps job data, normally a representation previously
// returned by the service, in a Job without contacting the service.
func (c *Client) NewJob(data map[string]interface{}) *Job {
	return newJob(c, data)
}

// Job retrieves a job by id.
func (c *Client) Job(ctx context.Context, id int64) (*Job, error) {
	var data map[string]interface{}
	err := c.getFrom(ctx, restdata.JobPath, map[string]interface{}{"job": idString(id)}, &data)
	if err != nil {
		return nil, err
	}
	return newJob(c, data), nil
}

// JobRef returns a reference to a job that is only fetched when it is
// first needed.
func (c *Client) JobRef(id int64) *JobRef {
	return &JobRef{client: c, id: id}
}

// Jobs iterates over all of the account's jobs, most recent first,
// one page at a time.
func (c *Client) Jobs() *JobIterator {
	return &JobIterator{
		client: c,
		pager:  newPager(&c.resource, restdata.JobsPath, map[string]interface{}{}),
	}
}

// CreateJob creates a new job with initial field values.
func (c *Client) CreateJob(ctx context.Context, fields map[string]interface{}) (*Job, error) {
	var data map[string]interface{}
	params := restdata.FlattenMap(crowdflower.JobSchema.Type(), fields)
	err := c.postTo(ctx, restdata.JobsPath, map[string]interface{}{}, params, &data)
	if err != nil {
		return nil, err
	}
	return newJob(c, data), nil
}

// UploadJob creates a new job whose units are the given rows, sent as
// JSON lines.
func (c *Client) UploadJob(ctx context.Context, rows []interface{}) (*Job, error) {
	content, err := restdata.EncodeLines(rows)
	if err != nil {
		return nil, err
	}
	return c.UploadJobBytes(ctx, content, restdata.JSONMediaType)
}

// UploadJobFile creates a new job from a file of unit data.  If
// contentType is empty it is guessed from the file name.
func (c *Client) UploadJobFile(ctx context.Context, filename, contentType string) (*Job, error) {
	contentType, err := restdata.UploadContentType(filename, contentType)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return c.UploadJobBytes(ctx, content, contentType)
}

// UploadJobBytes creates a new job from unit data of an explicit
// content type.
func (c *Client) UploadJobBytes(ctx context.Context, content []byte, contentType string) (*Job, error) {
	contentType, err := restdata.UploadContentType("", contentType)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	err = c.uploadTo(ctx, restdata.UploadPath, map[string]interface{}{}, content, contentType, &data)
	if err != nil {
		return nil, err
	}
	return newJob(c, data), nil
}
