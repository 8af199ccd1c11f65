// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"context"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
)

// Unit is one row of data in a job.
type Unit struct {
	*crowdflower.Record
	resource

	job *Job
}

func newUnit(job *Job, data map[string]interface{}) *Unit {
	return &Unit{
		Record:   crowdflower.NewRecord(crowdflower.UnitSchema, data),
		resource: job.resource,
		job:      job,
	}
}

// Job returns the job this unit belongs to.
func (u *Unit) Job() *Job {
	return u.job
}

// ID returns the unit's id, or 0 if it has none.
func (u *Unit) ID() int64 {
	id, _ := toInt64(u.Value("id"))
	return id
}

func (u *Unit) vars() (map[string]interface{}, error) {
	id, ok := toInt64(u.Value("id"))
	if !ok {
		return nil, crowdflower.ErrValidation{Type: u.Schema().Type(), Missing: []string{"id"}}
	}
	return u.job.with(map[string]interface{}{"unit": idString(id)})
}

// Path returns the unit's location relative to the API root.
func (u *Unit) Path() (string, error) {
	vars, err := u.vars()
	if err != nil {
		return "", err
	}
	return expand(restdata.UnitPath, vars)
}

// Update sends the pending field writes.
func (u *Unit) Update(ctx context.Context) error {
	return u.client.Synchronizer().Synchronize(ctx, u)
}

// Refresh fetches the unit again, replacing its state and dropping
// any pending writes.
func (u *Unit) Refresh(ctx context.Context) error {
	vars, err := u.vars()
	if err != nil {
		return err
	}
	var data map[string]interface{}
	err = u.getFrom(ctx, restdata.UnitPath, vars, &data)
	if err == nil {
		u.Commit(data)
	}
	return err
}

// Delete removes the unit from its job.
func (u *Unit) Delete(ctx context.Context) error {
	vars, err := u.vars()
	if err == nil {
		err = u.deleteAt(ctx, restdata.UnitPath, vars)
	}
	if err == nil {
		u.job.InvalidateUnits()
	}
	return err
}

// Cancel stops the unit from collecting further judgments.
func (u *Unit) Cancel(ctx context.Context) error {
	vars, err := u.vars()
	if err == nil {
		err = u.postTo(ctx, restdata.UnitCancelPath, vars, nil, nil)
	}
	return err
}

// Results returns the unit's aggregated results keyed by job field,
// or nil if it has none yet.
func (u *Unit) Results() map[string]interface{} {
	results, _ := u.Value("results").(map[string]interface{})
	return results
}

// Aggregate returns the aggregated answer for one job field, if
// there is one.
func (u *Unit) Aggregate(key string) (interface{}, bool) {
	result, ok := u.Results()[key].(map[string]interface{})
	if !ok {
		return nil, false
	}
	agg, ok := result["agg"]
	return agg, ok
}
