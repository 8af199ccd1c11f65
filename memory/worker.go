// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"github.com/diffeo/go-crowdflower/restdata"
)

type worker struct {
	id            int64
	bonuses       []Bonus
	notifications []string
	flagged       bool
	flagReason    string
	rejected      bool
}

// Bonus is one bonus payment to a worker.
type Bonus struct {
	Cents  int
	Reason string
}

// WorkerStatus is what the service knows about one worker in one
// job.
type WorkerStatus struct {
	ID            int64
	Judgments     int
	Bonuses       []Bonus
	Notifications []string
	Flagged       bool
	FlagReason    string
	Rejected      bool
}

// worker finds or creates the record of a worker.  It expects to run
// within the global lock.
func (j *job) worker(id int64) *worker {
	w := j.workers[id]
	if w == nil {
		w = &worker{id: id}
		j.workers[id] = w
	}
	return w
}

// withWorker runs f on a worker under the global lock.
func (s *Service) withWorker(jobID, workerID int64, f func(*job, *worker) error) error {
	return s.withJob(jobID, func(j *job) error {
		return f(j, j.worker(workerID))
	})
}

// Worker reports the state of a worker in a job.
func (s *Service) Worker(jobID, workerID int64) (status WorkerStatus, err error) {
	err = s.withWorker(jobID, workerID, func(j *job, w *worker) error {
		status = WorkerStatus{
			ID:            w.id,
			Bonuses:       append([]Bonus(nil), w.bonuses...),
			Notifications: append([]string(nil), w.notifications...),
			Flagged:       w.flagged,
			FlagReason:    w.flagReason,
			Rejected:      w.rejected,
		}
		for _, jm := range j.judgments {
			if jm.workerID == workerID {
				status.Judgments++
			}
		}
		return nil
	})
	return
}

// BonusWorker pays a worker an extra amount.
func (s *Service) BonusWorker(jobID, workerID int64, cents int, reason string) error {
	return s.withWorker(jobID, workerID, func(j *job, w *worker) error {
		if cents < 1 {
			return restdata.ErrUnprocessable{Problems: []string{"amount must be positive"}}
		}
		w.bonuses = append(w.bonuses, Bonus{Cents: cents, Reason: reason})
		return nil
	})
}

// NotifyWorker sends a message to a worker.
func (s *Service) NotifyWorker(jobID, workerID int64, message string) error {
	return s.withWorker(jobID, workerID, func(j *job, w *worker) error {
		if message == "" {
			return restdata.ErrUnprocessable{Problems: []string{"message is required"}}
		}
		w.notifications = append(w.notifications, message)
		return nil
	})
}

// FlagWorker stops a worker from judging the job.
func (s *Service) FlagWorker(jobID, workerID int64, reason string) error {
	return s.withWorker(jobID, workerID, func(j *job, w *worker) error {
		w.flagged = true
		w.flagReason = reason
		return nil
	})
}

// DeflagWorker lets a flagged worker judge the job again.
func (s *Service) DeflagWorker(jobID, workerID int64, reason string) error {
	return s.withWorker(jobID, workerID, func(j *job, w *worker) error {
		if !w.flagged {
			return restdata.ErrUnprocessable{Problems: []string{"worker is not flagged"}}
		}
		w.flagged = false
		w.flagReason = reason
		return nil
	})
}

// RejectWorker discards every judgment the worker made in the job.
// Units that no longer have enough judgments go back to collecting
// them.
func (s *Service) RejectWorker(jobID, workerID int64) error {
	return s.withWorker(jobID, workerID, func(j *job, w *worker) error {
		w.rejected = true
		affected := make(map[*unit]bool)
		for _, jm := range j.judgments {
			if jm.workerID == workerID && !jm.rejected {
				jm.rejected = true
				affected[jm.unit] = true
			}
		}
		for u := range affected {
			u.refresh()
		}
		return nil
	})
}
