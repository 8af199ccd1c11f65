// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"context"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
)

// Judgment is one contributor's answer for one unit.
type Judgment struct {
	*crowdflower.Record
	resource

	job  *Job
	unit *unitRef
}

func newJudgment(job *Job, data map[string]interface{}) *Judgment {
	j := &Judgment{
		Record:   crowdflower.NewRecord(crowdflower.JudgmentSchema, data),
		resource: job.resource,
		job:      job,
	}
	if id, ok := toInt64(j.Value("unit_id")); ok {
		j.unit = &unitRef{job: job, id: id}
	}
	return j
}

// Job returns the job this judgment belongs to.
func (j *Judgment) Job() *Job {
	return j.job
}

// ID returns the judgment's id, or 0 if it has none.
func (j *Judgment) ID() int64 {
	id, _ := toInt64(j.Value("id"))
	return id
}

// Path returns the judgment's location relative to the API root.
func (j *Judgment) Path() (string, error) {
	id, ok := toInt64(j.Value("id"))
	if !ok {
		return "", crowdflower.ErrValidation{Type: j.Schema().Type(), Missing: []string{"id"}}
	}
	vars, err := j.job.with(map[string]interface{}{"judgment": idString(id)})
	if err != nil {
		return "", err
	}
	return expand(restdata.JudgmentPath, vars)
}

// Update sends the pending field writes.
func (j *Judgment) Update(ctx context.Context) error {
	return j.client.Synchronizer().Synchronize(ctx, j)
}

// Unit returns the unit this judgment answers, fetching it on first
// use.
func (j *Judgment) Unit(ctx context.Context) (*Unit, error) {
	if j.unit == nil {
		return nil, crowdflower.ErrValidation{Type: j.Schema().Type(), Missing: []string{"unit_id"}}
	}
	return j.unit.get(ctx)
}

// JudgmentAggregate is the combined result of all judgments of one
// unit, as listed by Job.JudgmentAggregates or read from a report.
// Besides the declared fields it holds one entry per job field, with
// the chosen answer under "agg" and all answers under "res".
type JudgmentAggregate struct {
	*crowdflower.Record

	job       *Job
	judgments []*Judgment
}

func newJudgmentAggregate(job *Job, data map[string]interface{}) *JudgmentAggregate {
	return &JudgmentAggregate{
		Record: crowdflower.NewRecord(crowdflower.JudgmentAggregateSchema, data),
		job:    job,
	}
}

// Job returns the job this aggregate belongs to.
func (a *JudgmentAggregate) Job() *Job {
	return a.job
}

// UnitID returns the id of the aggregated unit, or 0 if unknown.
func (a *JudgmentAggregate) UnitID() int64 {
	v, _ := a.Get("unit_id")
	id, _ := toInt64(v)
	return id
}

func (a *JudgmentAggregate) result(field, key string) (interface{}, bool) {
	v, _ := a.Baseline(field)
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	result, ok := m[key]
	return result, ok
}

// Aggregate returns the answer chosen for a job field.
func (a *JudgmentAggregate) Aggregate(field string) (interface{}, bool) {
	return a.result(field, "agg")
}

// Results returns every answer given for a job field.
func (a *JudgmentAggregate) Results(field string) (interface{}, bool) {
	return a.result(field, "res")
}

// Fields returns the aggregated value of every field the job
// declares.  This reads the job's fields without fetching it.
func (a *JudgmentAggregate) Fields() map[string]interface{} {
	result := make(map[string]interface{})
	declared, _ := a.job.Value("fields").(map[string]interface{})
	for field := range declared {
		if v, ok := a.Baseline(field); ok {
			result[field] = v
		}
	}
	return result
}

// Judgments returns the individual judgments behind this aggregate.
// They are fetched on first use and then kept.
func (a *JudgmentAggregate) Judgments(ctx context.Context) ([]*Judgment, error) {
	if a.judgments != nil {
		return a.judgments, nil
	}
	v, _ := a.Get("ids")
	ids, _ := v.([]interface{})
	judgments := make([]*Judgment, 0, len(ids))
	for _, raw := range ids {
		id, ok := toInt64(raw)
		if !ok {
			continue
		}
		judgment, err := a.job.Judgment(ctx, id)
		if err != nil {
			return nil, err
		}
		judgments = append(judgments, judgment)
	}
	a.judgments = judgments
	return judgments, nil
}
