// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoSuchJob is returned when a job id does not name a job.
type ErrNoSuchJob struct {
	ID int64
}

func (err ErrNoSuchJob) Error() string {
	return fmt.Sprintf("no such job %v", err.ID)
}

// HTTPStatus returns a fixed 404 Not Found code.
func (err ErrNoSuchJob) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrNoSuchUnit is returned when a unit id does not name a unit of
// the job.
type ErrNoSuchUnit struct {
	JobID int64
	ID    int64
}

func (err ErrNoSuchUnit) Error() string {
	return fmt.Sprintf("no such unit %v in job %v", err.ID, err.JobID)
}

// HTTPStatus returns a fixed 404 Not Found code.
func (err ErrNoSuchUnit) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrNoSuchJudgment is returned when a judgment id does not name a
// judgment of the job.
type ErrNoSuchJudgment struct {
	JobID int64
	ID    int64
}

func (err ErrNoSuchJudgment) Error() string {
	return fmt.Sprintf("no such judgment %v in job %v", err.ID, err.JobID)
}

// HTTPStatus returns a fixed 404 Not Found code.
func (err ErrNoSuchJudgment) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrNoReport is returned when a job's report was never generated.
type ErrNoReport struct {
	JobID int64
}

func (err ErrNoReport) Error() string {
	return fmt.Sprintf("no report generated for job %v", err.JobID)
}

// HTTPStatus returns a fixed 404 Not Found code.
func (err ErrNoReport) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrNoWork is returned from Judge when no unit of the job is waiting
// for judgments.
var ErrNoWork = errors.New("no units available for judging")

// ErrWorkerFlagged is returned from Judge when the worker has been
// flagged on the job.
var ErrWorkerFlagged = errors.New("worker is flagged")
