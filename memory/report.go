// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"github.com/diffeo/go-crowdflower/restdata"
)

// Regenerate starts building a full report of a job: one judgment
// aggregate per finalized unit, as of now.  The report can be
// downloaded once ReportDelay has passed.
func (s *Service) Regenerate(jobID int64, reportType string) error {
	return s.withJob(jobID, func(j *job) error {
		if reportType != restdata.ReportType {
			return restdata.ErrUnprocessable{Problems: []string{"unsupported report type " + reportType}}
		}
		units := j.finalizedUnits()
		j.report = make([]map[string]interface{}, len(units))
		for i, u := range units {
			j.report[i] = u.aggregate()
		}
		j.reportAt = s.clock.Now().Add(s.ReportDelay)
		j.hasReport = true
		return nil
	})
}

// Report returns the job's last generated report.  ready is false if
// it is still being generated.
func (s *Service) Report(jobID int64) (records []map[string]interface{}, ready bool, err error) {
	err = s.withJob(jobID, func(j *job) error {
		if !j.hasReport {
			return ErrNoReport{JobID: jobID}
		}
		if s.clock.Now().Before(j.reportAt) {
			return nil
		}
		ready = true
		records = j.report
		return nil
	})
	return
}
