// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory model of the
// CrowdFlower service.  There is no persistence and no automatic
// sharing.  The entire system is behind a single global semaphore to
// protect against concurrent updates.
//
// This is mostly intended as a simple reference for testing, in
// particular as the backend of the restserver package that the
// restclient tests talk to.  It is tuned for correctness and
// predictability, not performance or fidelity to every quirk of the
// real service.  Contributors and their answers are simulated with
// Judge.
//
// Every method takes and returns plain maps shaped like the service's
// JSON representations.  Ids are int64 and timestamps are RFC 3339
// strings.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultPageSize is the number of entries in one page of a list.
const DefaultPageSize = 10

// Service is one in-memory CrowdFlower account.
type Service struct {
	// PageSize is the number of entries in one page of a list.
	PageSize int

	// ReportDelay is how long a regenerated report takes to
	// become available, as measured by the service's clock.
	ReportDelay time.Duration

	clock        clock.Clock
	sem          sync.Mutex
	jobs         map[int64]*job
	lastJob      int64
	lastUnit     int64
	lastJudgment int64
	lastOrder    int64
}

// New creates a new empty service using the system clock.
func New() *Service {
	return NewWithClock(clock.New())
}

// NewWithClock creates a new empty service using a specified time
// source.  Tests typically pass clock.NewMock() here.
func NewWithClock(clk clock.Clock) *Service {
	return &Service{
		PageSize: DefaultPageSize,
		clock:    clk,
		jobs:     make(map[int64]*job),
	}
}

// do runs f under the global lock.
func (s *Service) do(f func() error) error {
	s.sem.Lock()
	defer s.sem.Unlock()
	return f()
}

// now returns the current time as it appears in representations.
func (s *Service) now() string {
	return s.clock.Now().UTC().Format(time.RFC3339)
}

// job finds a job by id.  It expects to run within the global lock.
func (s *Service) job(id int64) (*job, error) {
	j, present := s.jobs[id]
	if !present {
		return nil, ErrNoSuchJob{ID: id}
	}
	return j, nil
}

// withJob runs f on a job under the global lock.
func (s *Service) withJob(id int64, f func(*job) error) error {
	return s.do(func() error {
		j, err := s.job(id)
		if err != nil {
			return err
		}
		return f(j)
	})
}

// pageBounds returns the range of a list of n entries that falls on
// a 1-based page.  Pages past the end are empty.
func (s *Service) pageBounds(n, page int) (lo, hi int) {
	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	lo = (page - 1) * size
	if lo > n {
		lo = n
	}
	hi = lo + size
	if hi > n {
		hi = n
	}
	return
}

// Jobs returns one page of jobs, most recent first.
func (s *Service) Jobs(page int) (result []map[string]interface{}, err error) {
	err = s.do(func() error {
		ids := make([]int64, 0, len(s.jobs))
		for id := range s.jobs {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
		lo, hi := s.pageBounds(len(ids), page)
		result = make([]map[string]interface{}, 0, hi-lo)
		for _, id := range ids[lo:hi] {
			result = append(result, s.jobs[id].toMap())
		}
		return nil
	})
	return
}
