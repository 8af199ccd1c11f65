// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"strconv"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
)

// Unit states.
const (
	UnitNew       = "new"
	UnitJudgable  = "judgable"
	UnitFinalized = "finalized"
	UnitCanceled  = "canceled"
)

type unit struct {
	job            *job
	id             int64
	data           map[string]interface{}
	fields         map[string]interface{}
	state          string
	created        string
	updated        string
	judgments      []*judgment
	availableIndex int
}

// newUnit adds a unit to the job.  It expects to run within the
// global lock.
func (j *job) newUnit(data map[string]interface{}) *unit {
	s := j.service
	s.lastUnit++
	now := s.now()
	u := &unit{
		job:     j,
		id:      s.lastUnit,
		data:    copyMap(data),
		fields:  make(map[string]interface{}),
		state:   UnitNew,
		created: now,
		updated: now,
	}
	j.units[u.id] = u
	j.updated = now
	return u
}

func copyMap(data map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(data))
	for k, v := range data {
		result[k] = v
	}
	return result
}

// golden returns true if the unit is a test question.
func (u *unit) golden() bool {
	golden, _ := strconv.ParseBool(restdata.FormatValue(u.data["_golden"]))
	return golden
}

// validJudgments returns the judgments that count toward the unit's
// results.
func (u *unit) validJudgments() []*judgment {
	var result []*judgment
	for _, jm := range u.judgments {
		if jm.valid() {
			result = append(result, jm)
		}
	}
	return result
}

// setState moves the unit to a new state, keeping the job's queue of
// units waiting for judgments in sync.
func (u *unit) setState(state string) {
	if u.state == UnitJudgable && state != UnitJudgable {
		u.job.available.Remove(u)
	}
	if u.state != UnitJudgable && state == UnitJudgable {
		u.job.available.Add(u)
	}
	u.state = state
	u.updated = u.job.service.now()
}

func (u *unit) toMap() map[string]interface{} {
	m := make(map[string]interface{}, len(u.fields)+8)
	for key, value := range u.fields {
		m[key] = value
	}
	m["id"] = u.id
	m["job_id"] = u.job.id
	m["data"] = u.data
	m["state"] = u.state
	m["created_at"] = u.created
	m["updated_at"] = u.updated
	m["judgments_count"] = int64(len(u.judgments))
	if len(u.judgments) > 0 {
		results := u.results()
		results["judgments"] = judgmentsToList(u.judgments)
		m["results"] = results
	}
	return m
}

// unit finds a unit of the job.
func (j *job) unit(id int64) (*unit, error) {
	u, present := j.units[id]
	if !present {
		return nil, ErrNoSuchUnit{JobID: j.id, ID: id}
	}
	return u, nil
}

// withUnit runs f on a unit under the global lock.
func (s *Service) withUnit(jobID, unitID int64, f func(*unit) error) error {
	return s.withJob(jobID, func(j *job) error {
		u, err := j.unit(unitID)
		if err != nil {
			return err
		}
		return f(u)
	})
}

// Units returns one page of a job's units, keyed by unit id.
func (s *Service) Units(jobID int64, page int) (result map[string]interface{}, err error) {
	err = s.withJob(jobID, func(j *job) error {
		units := j.sortedUnits()
		lo, hi := s.pageBounds(len(units), page)
		result = make(map[string]interface{}, hi-lo)
		for _, u := range units[lo:hi] {
			result[strconv.FormatInt(u.id, 10)] = u.toMap()
		}
		return nil
	})
	return
}

// Unit returns the representation of one unit.
func (s *Service) Unit(jobID, unitID int64) (result map[string]interface{}, err error) {
	err = s.withUnit(jobID, unitID, func(u *unit) error {
		result = u.toMap()
		return nil
	})
	return
}

// CreateUnit adds a unit to a job.  fields is checked against the
// unit fields; "data" holds the row itself.
func (s *Service) CreateUnit(jobID int64, fields map[string]interface{}) (result map[string]interface{}, err error) {
	err = s.withJob(jobID, func(j *job) error {
		if err := checkFields(crowdflower.UnitSchema, fields); err != nil {
			return err
		}
		data, _ := fields["data"].(map[string]interface{})
		u := j.newUnit(data)
		u.update(fields)
		result = u.toMap()
		return nil
	})
	return
}

// UpdateUnit changes fields of a unit.
func (s *Service) UpdateUnit(jobID, unitID int64, fields map[string]interface{}) (result map[string]interface{}, err error) {
	err = s.withUnit(jobID, unitID, func(u *unit) error {
		if err := checkFields(crowdflower.UnitSchema, fields); err != nil {
			return err
		}
		u.update(fields)
		result = u.toMap()
		return nil
	})
	return
}

func (u *unit) update(fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "data":
			if data, ok := value.(map[string]interface{}); ok {
				u.data = copyMap(data)
			}
		case "state":
			u.setState(restdata.FormatValue(value))
		case "job_id":
			// units cannot move between jobs
		default:
			u.fields[key] = value
		}
	}
	u.updated = u.job.service.now()
}

// DeleteUnit removes a unit and its judgments.
func (s *Service) DeleteUnit(jobID, unitID int64) error {
	return s.withUnit(jobID, unitID, func(u *unit) error {
		j := u.job
		u.setState(UnitCanceled)
		for _, jm := range u.judgments {
			delete(j.judgments, jm.id)
		}
		delete(j.units, u.id)
		return nil
	})
}

// CancelUnit stops a unit from collecting further judgments.
func (s *Service) CancelUnit(jobID, unitID int64) error {
	return s.withUnit(jobID, unitID, func(u *unit) error {
		if u.state == UnitFinalized || u.state == UnitCanceled {
			return restdata.ErrUnprocessable{Problems: []string{"unit is already " + u.state}}
		}
		u.setState(UnitCanceled)
		return nil
	})
}
