// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"sort"
	"strconv"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
)

type judgment struct {
	unit     *unit
	id       int64
	workerID int64
	data     map[string]interface{}
	fields   map[string]interface{}
	rejected bool
	started  string
	created  string
}

// valid returns true if the judgment counts toward results.
func (jm *judgment) valid() bool {
	if jm.rejected {
		return false
	}
	tainted, _ := strconv.ParseBool(restdata.FormatValue(jm.fields["tainted"]))
	return !tainted
}

func (jm *judgment) toMap() map[string]interface{} {
	m := make(map[string]interface{}, len(jm.fields)+16)
	for key, value := range jm.fields {
		m[key] = value
	}
	m["id"] = jm.id
	m["job_id"] = jm.unit.job.id
	m["unit_id"] = jm.unit.id
	m["worker_id"] = jm.workerID
	m["contributor_id"] = jm.workerID
	m["data"] = jm.data
	m["unit_data"] = jm.unit.data
	m["unit_state"] = jm.unit.state
	m["rejected"] = jm.rejected
	m["started_at"] = jm.started
	m["created_at"] = jm.created
	m["external_type"] = "cf_internal"
	m["trust"] = 1.0
	m["worker_trust"] = 1.0
	return m
}

func judgmentsToList(judgments []*judgment) []interface{} {
	ids := make([]interface{}, len(judgments))
	for i, jm := range judgments {
		ids[i] = jm.id
	}
	return ids
}

// results aggregates the valid judgments of a unit per form field.
// Each field maps to the most common answer under "agg" (ties go to
// the answer that sorts first), the fraction of judgments that gave
// it under "confidence", and every answer under "res".
func (u *unit) results() map[string]interface{} {
	answers := make(map[string][]interface{})
	for _, jm := range u.validJudgments() {
		for field, answer := range jm.data {
			answers[field] = append(answers[field], answer)
		}
	}
	results := make(map[string]interface{}, len(answers))
	for field, res := range answers {
		counts := make(map[string]int)
		values := make(map[string]interface{})
		for _, answer := range res {
			key := restdata.FormatValue(answer)
			counts[key]++
			values[key] = answer
		}
		keys := make([]string, 0, len(counts))
		for key := range counts {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(a, b int) bool {
			if counts[keys[a]] != counts[keys[b]] {
				return counts[keys[a]] > counts[keys[b]]
			}
			return keys[a] < keys[b]
		})
		results[field] = map[string]interface{}{
			"agg":        values[keys[0]],
			"confidence": float64(counts[keys[0]]) / float64(len(res)),
			"res":        res,
		}
	}
	return results
}

// aggregate is the judgment aggregate representation of a unit.
func (u *unit) aggregate() map[string]interface{} {
	results := u.results()
	m := make(map[string]interface{}, len(results)+7)
	var agreement float64
	for field, r := range results {
		m[field] = r
		agreement += r.(map[string]interface{})["confidence"].(float64)
	}
	if len(results) > 0 {
		agreement /= float64(len(results))
	}
	valid := u.validJudgments()
	m["_agreement"] = agreement
	m["_ids"] = judgmentsToList(valid)
	m["_state"] = u.state
	m["_updated_at"] = u.updated
	m["_unit_id"] = u.id
	m["_judgments"] = int64(len(valid))
	m["_golden"] = u.golden()
	return m
}

// finalizedUnits returns the units of a job that have results, in
// id order.
func (j *job) finalizedUnits() []*unit {
	var units []*unit
	for _, u := range j.sortedUnits() {
		if u.state == UnitFinalized {
			units = append(units, u)
		}
	}
	return units
}

// JudgmentAggregates returns one page of judgment aggregates of a
// job's finalized units, keyed by unit id.
func (s *Service) JudgmentAggregates(jobID int64, page int) (result map[string]interface{}, err error) {
	err = s.withJob(jobID, func(j *job) error {
		units := j.finalizedUnits()
		lo, hi := s.pageBounds(len(units), page)
		result = make(map[string]interface{}, hi-lo)
		for _, u := range units[lo:hi] {
			result[strconv.FormatInt(u.id, 10)] = u.aggregate()
		}
		return nil
	})
	return
}

// withJudgment runs f on a judgment under the global lock.
func (s *Service) withJudgment(jobID, judgmentID int64, f func(*judgment) error) error {
	return s.withJob(jobID, func(j *job) error {
		jm, present := j.judgments[judgmentID]
		if !present {
			return ErrNoSuchJudgment{JobID: jobID, ID: judgmentID}
		}
		return f(jm)
	})
}

// Judgment returns the representation of one judgment.
func (s *Service) Judgment(jobID, judgmentID int64) (result map[string]interface{}, err error) {
	err = s.withJudgment(jobID, judgmentID, func(jm *judgment) error {
		result = jm.toMap()
		return nil
	})
	return
}

// UpdateJudgment changes fields of a judgment.
func (s *Service) UpdateJudgment(jobID, judgmentID int64, fields map[string]interface{}) (result map[string]interface{}, err error) {
	err = s.withJudgment(jobID, judgmentID, func(jm *judgment) error {
		if err := checkFields(crowdflower.JudgmentSchema, fields); err != nil {
			return err
		}
		for key, value := range fields {
			jm.fields[key] = value
		}
		jm.unit.refresh()
		result = jm.toMap()
		return nil
	})
	return
}

// refresh moves a unit between judgable and finalized after its set
// of valid judgments changed.
func (u *unit) refresh() {
	j := u.job
	enough := len(u.validJudgments()) >= j.judgmentsPerUnit()
	switch {
	case u.state == UnitJudgable && enough:
		u.setState(UnitFinalized)
	case u.state == UnitFinalized && !enough:
		u.setState(UnitJudgable)
	case u.state == UnitJudgable:
		j.available.Reprioritize(u)
	}
	if j.state == StateRunning && j.available.Len() == 0 && len(j.finalizedUnits()) > 0 {
		j.state = StateFinished
		j.completedAt = j.service.now()
	} else if j.state == StateFinished && j.available.Len() > 0 {
		j.state = StateRunning
		j.completedAt = ""
	}
}

// Judge simulates a contributor answering the next unit of a running
// job.  answers maps form fields to the contributor's answers.  The
// unit with the fewest judgments is answered first; a worker never
// judges the same unit twice.  Returns the new judgment.
func (s *Service) Judge(jobID, workerID int64, answers map[string]interface{}) (result map[string]interface{}, err error) {
	err = s.withJob(jobID, func(j *job) error {
		if j.state != StateRunning {
			return restdata.ErrUnprocessable{Problems: []string{"job is " + j.state + ", not running"}}
		}
		if w := j.workers[workerID]; w != nil && w.flagged {
			return ErrWorkerFlagged
		}
		var skipped []*unit
		defer func() {
			for _, u := range skipped {
				j.available.Add(u)
			}
		}()
		for j.available.Len() > 0 {
			u := j.available.Next()
			if u.judgedBy(workerID) {
				skipped = append(skipped, u)
				continue
			}
			for _, other := range skipped {
				j.available.Add(other)
			}
			skipped = nil
			now := s.now()
			s.lastJudgment++
			jm := &judgment{
				unit:     u,
				id:       s.lastJudgment,
				workerID: workerID,
				data:     copyMap(answers),
				fields:   make(map[string]interface{}),
				started:  now,
				created:  now,
			}
			u.judgments = append(u.judgments, jm)
			j.judgments[jm.id] = jm
			j.worker(workerID)
			// u is out of the queue, so put it back before
			// refresh decides whether it stays
			j.available.Add(u)
			u.refresh()
			result = jm.toMap()
			return nil
		}
		return ErrNoWork
	})
	return
}

func (u *unit) judgedBy(workerID int64) bool {
	for _, jm := range u.judgments {
		if jm.workerID == workerID {
			return true
		}
	}
	return false
}
