// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"context"
	"net/http"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
)

// Worker is a contributor as seen from one job.  All of its
// operations are immediate commands.
type Worker struct {
	*crowdflower.Record
	resource

	job *Job
}

func newWorker(job *Job, id int64) *Worker {
	return &Worker{
		Record:   crowdflower.NewRecord(crowdflower.WorkerSchema, map[string]interface{}{"id": id}),
		resource: job.resource,
		job:      job,
	}
}

// Job returns the job the worker is seen from.
func (w *Worker) Job() *Job {
	return w.job
}

// ID returns the worker's id.
func (w *Worker) ID() int64 {
	id, _ := toInt64(w.Value("id"))
	return id
}

func (w *Worker) send(ctx context.Context, method, template string, params restdata.Params) error {
	vars, err := w.job.with(map[string]interface{}{"worker": idString(w.ID())})
	if err != nil {
		return err
	}
	u, err := w.template(template, vars)
	if err != nil {
		return err
	}
	return w.do(ctx, method, u, formPayload(params), nil)
}

// Bonus pays the worker an extra amount in cents.  reason may be
// empty.
func (w *Worker) Bonus(ctx context.Context, cents int, reason string) error {
	params := restdata.Params{{Name: "amount", Value: cents}}
	if reason != "" {
		params = append(params, restdata.Param{Name: "reason", Value: reason})
	}
	return w.send(ctx, http.MethodPost, restdata.WorkerBonusPath, params)
}

// Notify shows a message on the worker's dashboard.
func (w *Worker) Notify(ctx context.Context, message string) error {
	params := restdata.Params{{Name: "message", Value: message}}
	return w.send(ctx, http.MethodPost, restdata.WorkerNotifyPath, params)
}

// Flag stops the worker from working on the job.
func (w *Worker) Flag(ctx context.Context, reason string) error {
	params := restdata.Params{{Name: "flag", Value: reason}}
	return w.send(ctx, http.MethodPut, restdata.WorkerPath, params)
}

// Deflag lets a flagged worker work on the job again.
func (w *Worker) Deflag(ctx context.Context, reason string) error {
	params := restdata.Params{{Name: "deflag", Value: reason}}
	return w.send(ctx, http.MethodPut, restdata.WorkerPath, params)
}

// Reject discards all of the worker's judgments on the job.
func (w *Worker) Reject(ctx context.Context) error {
	return w.send(ctx, http.MethodPut, restdata.WorkerRejectPath, nil)
}
