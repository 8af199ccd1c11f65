// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"github.com/diffeo/go-crowdflower/restdata"
)

type order struct {
	job        *job
	id         int64
	unitsCount int
	channels   []string
	created    string
}

func (o *order) toMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         o.id,
		"job_id":     o.job.id,
		"type":       "debit",
		"user_id":    int64(1),
		"created_at": o.created,
		"updated_at": o.created,
		"meta": map[string]interface{}{
			"units_count": int64(o.unitsCount),
			"channels":    stringsToList(o.channels),
		},
	}
}

func (j *job) orderedUnits() int {
	n := 0
	for _, o := range j.orders {
		n += o.unitsCount
	}
	return n
}

// CreateOrder launches a job: up to unitsCount of its new units start
// collecting judgments on the given channels, or on the job's enabled
// channels if none are given.
func (s *Service) CreateOrder(jobID int64, unitsCount int, channels []string) (result map[string]interface{}, err error) {
	err = s.withJob(jobID, func(j *job) error {
		if unitsCount < 1 {
			return restdata.ErrUnprocessable{Problems: []string{"units_count must be positive"}}
		}
		if j.state == StateCanceled {
			return restdata.ErrUnprocessable{Problems: []string{"job is canceled"}}
		}
		if len(channels) == 0 {
			channels = j.channels
		}
		if err := checkChannels(channels); err != nil {
			return err
		}
		var ordered []*unit
		for _, u := range j.sortedUnits() {
			if len(ordered) == unitsCount {
				break
			}
			if u.state == UnitNew {
				ordered = append(ordered, u)
			}
		}
		if len(ordered) == 0 {
			return restdata.ErrUnprocessable{Problems: []string{"job has no new units to order"}}
		}
		for _, u := range ordered {
			u.setState(UnitJudgable)
		}
		if j.state != StatePaused {
			j.state = StateRunning
			j.completedAt = ""
		}
		s.lastOrder++
		o := &order{
			job:        j,
			id:         s.lastOrder,
			unitsCount: len(ordered),
			channels:   append([]string(nil), channels...),
			created:    s.now(),
		}
		j.orders = append(j.orders, o)
		j.updated = o.created
		result = o.toMap()
		return nil
	})
	return
}
