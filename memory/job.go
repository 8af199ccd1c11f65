// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
	"github.com/satori/go.uuid"
)

// Job states.
const (
	StateUnordered = "unordered"
	StateRunning   = "running"
	StatePaused    = "paused"
	StateCanceled  = "canceled"
	StateFinished  = "finished"
)

// AvailableChannels lists the channels a job can be enabled on.
var AvailableChannels = []string{"cf_internal", "on_demand"}

// DefaultJudgmentsPerUnit is used when a job does not set
// judgments_per_unit.
const DefaultJudgmentsPerUnit = 3

// cmlField finds the names of the form fields in a job's CML.
var cmlField = regexp.MustCompile(`name="([^"]+)"`)

type job struct {
	service     *Service
	id          int64
	fields      map[string]interface{}
	state       string
	created     string
	updated     string
	completedAt string
	copiedFrom  int64
	units       map[int64]*unit
	available   availableUnits
	judgments   map[int64]*judgment
	orders      []*order
	tags        []string
	channels    []string
	workers     map[int64]*worker
	report      []map[string]interface{}
	reportAt    time.Time
	hasReport   bool
}

// newJob creates an empty job and adds it to the service.  It expects
// to run within the global lock.
func (s *Service) newJob() *job {
	s.lastJob++
	now := s.now()
	j := &job{
		service:   s,
		id:        s.lastJob,
		fields:    map[string]interface{}{"secret": uuid.NewV4().String()},
		state:     StateUnordered,
		created:   now,
		updated:   now,
		units:     make(map[int64]*unit),
		judgments: make(map[int64]*judgment),
		channels:  []string{"on_demand"},
		workers:   make(map[int64]*worker),
	}
	s.jobs[j.id] = j
	return j
}

// checkFields verifies that every key names a writable field of
// schema.
func checkFields(schema *crowdflower.Schema, values map[string]interface{}) error {
	var problems []string
	for key := range values {
		f, ok := schema.Field(key)
		switch {
		case !ok:
			problems = append(problems, key+" is not a "+schema.Type()+" field")
		case f.Mode == crowdflower.ReadOnly:
			problems = append(problems, key+" is read only")
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return restdata.ErrUnprocessable{Problems: problems}
	}
	return nil
}

func (j *job) set(values map[string]interface{}) {
	for key, value := range values {
		if key == "state" {
			j.state = restdata.FormatValue(value)
			continue
		}
		j.fields[key] = value
	}
	j.updated = j.service.now()
}

func (j *job) field(name string) string {
	return restdata.FormatValue(j.fields[name])
}

func (j *job) judgmentsPerUnit() int {
	n, err := strconv.Atoi(j.field("judgments_per_unit"))
	if err != nil || n < 1 {
		return DefaultJudgmentsPerUnit
	}
	return n
}

// formFields returns the names of the form fields declared in the
// job's CML, mapped to their types.
func (j *job) formFields() map[string]interface{} {
	result := make(map[string]interface{})
	for _, match := range cmlField.FindAllStringSubmatch(j.field("cml"), -1) {
		result[match[1]] = "text"
	}
	return result
}

func (j *job) sortedUnits() []*unit {
	units := make([]*unit, 0, len(j.units))
	for _, u := range j.units {
		units = append(units, u)
	}
	sort.Slice(units, func(a, b int) bool { return units[a].id < units[b].id })
	return units
}

func (j *job) toMap() map[string]interface{} {
	m := make(map[string]interface{}, len(j.fields)+16)
	for key, value := range j.fields {
		if f, ok := crowdflower.JobSchema.Field(key); ok && f.Mode == crowdflower.WriteOnly {
			continue
		}
		m[key] = value
	}
	var judgments, golds int64
	gold := make(map[string]interface{})
	for _, u := range j.units {
		judgments += int64(len(u.judgments))
		if u.golden() {
			golds++
			gold[strconv.FormatInt(u.id, 10)] = u.data
		}
	}
	m["id"] = j.id
	m["state"] = j.state
	m["created_at"] = j.created
	m["updated_at"] = j.updated
	m["completed"] = j.state == StateFinished
	if j.completedAt != "" {
		m["completed_at"] = j.completedAt
	} else {
		m["completed_at"] = nil
	}
	if j.copiedFrom != 0 {
		m["copied_from"] = j.copiedFrom
	}
	m["units_count"] = int64(len(j.units))
	m["judgments_count"] = judgments
	m["golds_count"] = golds
	m["gold"] = gold
	m["fields"] = j.formFields()
	m["order_approved"] = len(j.orders) > 0
	return m
}

// Job returns the representation of one job.
func (s *Service) Job(id int64) (result map[string]interface{}, err error) {
	err = s.withJob(id, func(j *job) error {
		result = j.toMap()
		return nil
	})
	return
}

// CreateJob creates a new job with initial field values.
func (s *Service) CreateJob(fields map[string]interface{}) (result map[string]interface{}, err error) {
	err = s.do(func() error {
		if err := checkFields(crowdflower.JobSchema, fields); err != nil {
			return err
		}
		j := s.newJob()
		j.set(fields)
		result = j.toMap()
		return nil
	})
	return
}

// UpdateJob changes fields of a job.  Like the real service, if the
// job would be left without instructions or CML the update is
// accepted but has no effect.
func (s *Service) UpdateJob(id int64, fields map[string]interface{}) (result map[string]interface{}, err error) {
	err = s.withJob(id, func(j *job) error {
		if err := checkFields(crowdflower.JobSchema, fields); err != nil {
			return err
		}
		effective := func(name string) string {
			if v, present := fields[name]; present {
				return restdata.FormatValue(v)
			}
			return j.field(name)
		}
		if effective("instructions") != "" && effective("cml") != "" {
			j.set(fields)
		}
		result = j.toMap()
		return nil
	})
	return
}

// DeleteJob removes a job.
func (s *Service) DeleteJob(id int64) error {
	return s.withJob(id, func(j *job) error {
		delete(s.jobs, id)
		return nil
	})
}

// Upload adds one new unit per row to a job.  If id is 0 a new job is
// created for them.
func (s *Service) Upload(id int64, rows []map[string]interface{}) (result map[string]interface{}, err error) {
	err = s.do(func() error {
		var j *job
		if id == 0 {
			j = s.newJob()
		} else {
			found, err := s.job(id)
			if err != nil {
				return err
			}
			j = found
		}
		for _, row := range rows {
			j.newUnit(row)
		}
		result = j.toMap()
		return nil
	})
	return
}

// CopyJob creates a new job with the settings of an existing one.
// allUnits copies every unit; gold copies only the gold units.
func (s *Service) CopyJob(id int64, allUnits, gold bool) (result map[string]interface{}, err error) {
	err = s.withJob(id, func(j *job) error {
		c := s.newJob()
		for key, value := range j.fields {
			if key != "secret" {
				c.fields[key] = value
			}
		}
		c.copiedFrom = j.id
		c.tags = append([]string(nil), j.tags...)
		c.channels = append([]string(nil), j.channels...)
		for _, u := range j.sortedUnits() {
			if allUnits || (gold && u.golden()) {
				c.newUnit(u.data)
			}
		}
		result = c.toMap()
		return nil
	})
	return
}

// PauseJob stops a running job.
func (s *Service) PauseJob(id int64) error {
	return s.withJob(id, func(j *job) error {
		if j.state != StateRunning {
			return restdata.ErrUnprocessable{Problems: []string{"job is " + j.state + ", not running"}}
		}
		j.state = StatePaused
		j.updated = s.now()
		return nil
	})
}

// ResumeJob restarts a paused job.
func (s *Service) ResumeJob(id int64) error {
	return s.withJob(id, func(j *job) error {
		if j.state != StatePaused {
			return restdata.ErrUnprocessable{Problems: []string{"job is " + j.state + ", not paused"}}
		}
		j.state = StateRunning
		j.updated = s.now()
		return nil
	})
}

// CancelJob stops a job for good.  Units waiting for judgments are
// canceled.
func (s *Service) CancelJob(id int64) error {
	return s.withJob(id, func(j *job) error {
		if j.state == StateCanceled {
			return restdata.ErrUnprocessable{Problems: []string{"job is already canceled"}}
		}
		for j.available.Len() > 0 {
			j.available.Next().state = UnitCanceled
		}
		j.state = StateCanceled
		j.updated = s.now()
		return nil
	})
}

// Ping summarizes a job's progress.
func (s *Service) Ping(id int64) (result map[string]interface{}, err error) {
	err = s.withJob(id, func(j *job) error {
		var all, needed, tainted, golden, finalized int64
		perUnit := int64(j.judgmentsPerUnit())
		for _, u := range j.units {
			valid := int64(len(u.validJudgments()))
			all += int64(len(u.judgments))
			tainted += int64(len(u.judgments)) - valid
			if u.golden() {
				golden++
			}
			switch u.state {
			case UnitFinalized:
				finalized++
			case UnitJudgable:
				needed += perUnit - valid
			}
		}
		result = map[string]interface{}{
			"all_judgments":     all,
			"needed_judgments":  needed,
			"tainted_judgments": tainted,
			"all_units":         int64(len(j.units)),
			"golden_units":      golden,
			"completed_units":   finalized,
			"ordered_units":     int64(j.orderedUnits()),
		}
		return nil
	})
	return
}

// Legend describes the form fields of a job.
func (s *Service) Legend(id int64) (result map[string]interface{}, err error) {
	err = s.withJob(id, func(j *job) error {
		result = make(map[string]interface{})
		for name := range j.formFields() {
			result[name] = name
		}
		return nil
	})
	return
}

// Tags returns a job's tags.
func (s *Service) Tags(id int64) (result []string, err error) {
	err = s.withJob(id, func(j *job) error {
		result = append([]string{}, j.tags...)
		return nil
	})
	return
}

// SetTags replaces a job's tags.
func (s *Service) SetTags(id int64, tags []string) error {
	return s.withJob(id, func(j *job) error {
		j.tags = nil
		j.addTags(tags)
		return nil
	})
}

// AddTags adds tags to a job, ignoring ones it already has.
func (s *Service) AddTags(id int64, tags []string) error {
	return s.withJob(id, func(j *job) error {
		j.addTags(tags)
		return nil
	})
}

func (j *job) addTags(tags []string) {
	for _, tag := range tags {
		present := false
		for _, t := range j.tags {
			if t == tag {
				present = true
				break
			}
		}
		if !present && tag != "" {
			j.tags = append(j.tags, tag)
		}
	}
}

// Channels returns the enabled and available channels of a job.
func (s *Service) Channels(id int64) (result map[string]interface{}, err error) {
	err = s.withJob(id, func(j *job) error {
		result = map[string]interface{}{
			"enabled_channels":   stringsToList(j.channels),
			"available_channels": stringsToList(AvailableChannels),
		}
		return nil
	})
	return
}

// SetChannels replaces the channels a job is enabled on.
func (s *Service) SetChannels(id int64, channels []string) error {
	return s.withJob(id, func(j *job) error {
		if err := checkChannels(channels); err != nil {
			return err
		}
		j.channels = append([]string(nil), channels...)
		return nil
	})
}

func checkChannels(channels []string) error {
	var problems []string
	for _, c := range channels {
		known := false
		for _, a := range AvailableChannels {
			if c == a {
				known = true
			}
		}
		if !known {
			problems = append(problems, "unknown channel "+c)
		}
	}
	if len(problems) > 0 {
		return restdata.ErrUnprocessable{Problems: problems}
	}
	return nil
}

func stringsToList(items []string) []interface{} {
	result := make([]interface{}, len(items))
	for i, item := range items {
		result[i] = item
	}
	return result
}
