// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"github.com/diffeo/go-crowdflower/crowdflower"
)

// Order is a purchase of judgments for a job, created by Job.Launch.
type Order struct {
	*crowdflower.Record

	job *Job
}

func newOrder(job *Job, data map[string]interface{}) *Order {
	return &Order{
		Record: crowdflower.NewRecord(crowdflower.OrderSchema, data),
		job:    job,
	}
}

// Job returns the job the order was placed for.
func (o *Order) Job() *Job {
	return o.job
}

// ID returns the order's id, or 0 if it has none.
func (o *Order) ID() int64 {
	id, _ := toInt64(o.Value("id"))
	return id
}
