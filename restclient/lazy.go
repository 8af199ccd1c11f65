// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"context"
)

// JobRef is a job known only by id.  The job is fetched the first
// time it is needed; a failed fetch is not remembered, so the next
// call tries again.
type JobRef struct {
	client *Client
	id     int64
	job    *Job
}

// ID returns the referenced job's id without fetching it.
func (r *JobRef) ID() int64 {
	return r.id
}

// Loaded returns true if the job has been fetched.
func (r *JobRef) Loaded() bool {
	return r.job != nil
}

// Job returns the referenced job, fetching it if needed.
func (r *JobRef) Job(ctx context.Context) (*Job, error) {
	if r.job != nil {
		return r.job, nil
	}
	job, err := r.client.Job(ctx, r.id)
	if err != nil {
		return nil, err
	}
	r.job = job
	return job, nil
}

// unitRef is a unit known only by id, within a known job.
type unitRef struct {
	job  *Job
	id   int64
	unit *Unit
}

func (r *unitRef) get(ctx context.Context) (*Unit, error) {
	if r.unit != nil {
		return r.unit, nil
	}
	unit, err := r.job.Unit(ctx, r.id)
	if err != nil {
		return nil, err
	}
	r.unit = unit
	return unit, nil
}
