// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
)

// Job is one CrowdFlower job.  Its fields are read and written
// through the embedded Record; Update sends the writes.
type Job struct {
	*crowdflower.Record
	resource

	units      []*Unit
	aggregates []*JudgmentAggregate
}

func newJob(c *Client, data map[string]interface{}) *Job {
	return &Job{
		Record:   crowdflower.NewRecord(crowdflower.JobSchema, data),
		resource: resource{client: c},
	}
}

// ID returns the job's id, or 0 if the job has none yet.
func (j *Job) ID() int64 {
	id, _ := toInt64(j.Value("id"))
	return id
}

// vars returns the template variables locating the job.
func (j *Job) vars() (map[string]interface{}, error) {
	id, ok := toInt64(j.Value("id"))
	if !ok {
		return nil, crowdflower.ErrValidation{Type: j.Schema().Type(), Missing: []string{"id"}}
	}
	return map[string]interface{}{"job": idString(id)}, nil
}

// with returns the job's template variables plus some extras.
func (j *Job) with(extra map[string]interface{}) (map[string]interface{}, error) {
	vars, err := j.vars()
	if err != nil {
		return nil, err
	}
	for k, v := range extra {
		vars[k] = v
	}
	return vars, nil
}

// IsNew reports whether the job has no id yet, so that synchronizing
// it creates it.
func (j *Job) IsNew() bool {
	_, ok := toInt64(j.Value("id"))
	return !ok
}

// Path returns the job's location relative to the API root.  A job
// with no id is located at the job collection.
func (j *Job) Path() (string, error) {
	if j.IsNew() {
		return expand(restdata.JobsPath, map[string]interface{}{})
	}
	vars, err := j.vars()
	if err != nil {
		return "", err
	}
	return expand(restdata.JobPath, vars)
}

// Validate checks that every field in crowdflower.JobRequiredFields
// is non-empty, counting pending writes.  The service accepts updates
// to jobs without them but does not keep the changes.
func (j *Job) Validate() error {
	var missing []string
	for _, name := range crowdflower.JobRequiredFields {
		f, _ := j.Schema().Field(name)
		if isEmpty(j.Value(f.Key)) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return crowdflower.ErrValidation{Type: j.Schema().Type(), Missing: missing}
	}
	return nil
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return false
}

// Update sends the pending field writes.  A job with no id is
// created, and takes the id the service assigns.
func (j *Job) Update(ctx context.Context) error {
	return j.client.Synchronizer().Synchronize(ctx, j)
}

// Refresh fetches the job again, replacing its state and dropping
// any pending writes.
func (j *Job) Refresh(ctx context.Context) error {
	vars, err := j.vars()
	if err != nil {
		return err
	}
	var data map[string]interface{}
	err = j.getFrom(ctx, restdata.JobPath, vars, &data)
	if err == nil {
		j.Commit(data)
	}
	return err
}

// Delete removes the job from the service.  The Job must not be used
// afterwards.
func (j *Job) Delete(ctx context.Context) error {
	vars, err := j.vars()
	if err == nil {
		err = j.deleteAt(ctx, restdata.JobPath, vars)
	}
	return err
}

// Upload adds units to the job, one per row, sent as JSON lines.
func (j *Job) Upload(ctx context.Context, rows []interface{}) error {
	content, err := restdata.EncodeLines(rows)
	if err != nil {
		return err
	}
	return j.UploadBytes(ctx, content, restdata.JSONMediaType)
}

// UploadFile adds units from a file.  If contentType is empty it is
// guessed from the file name.
func (j *Job) UploadFile(ctx context.Context, filename, contentType string) error {
	contentType, err := restdata.UploadContentType(filename, contentType)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return j.UploadBytes(ctx, content, contentType)
}

// UploadBytes adds units from data of an explicit content type.
func (j *Job) UploadBytes(ctx context.Context, content []byte, contentType string) error {
	contentType, err := restdata.UploadContentType("", contentType)
	if err != nil {
		return err
	}
	vars, err := j.vars()
	if err != nil {
		return err
	}
	err = j.uploadTo(ctx, restdata.JobUploadPath, vars, content, contentType, nil)
	if err == nil {
		j.InvalidateUnits()
	}
	return err
}

// command sends a parameterless GET command to the job.
func (j *Job) command(ctx context.Context, template string) error {
	vars, err := j.vars()
	if err == nil {
		err = j.getFrom(ctx, template, vars, nil)
	}
	return err
}

// Pause stops the job from collecting judgments.
func (j *Job) Pause(ctx context.Context) error {
	return j.command(ctx, restdata.PausePath)
}

// Resume restarts a paused job.
func (j *Job) Resume(ctx context.Context) error {
	return j.command(ctx, restdata.ResumePath)
}

// Cancel permanently stops the job and refunds unused funds.
func (j *Job) Cancel(ctx context.Context) error {
	return j.command(ctx, restdata.CancelPath)
}

// Ping returns the job's progress summary.
func (j *Job) Ping(ctx context.Context) (map[string]interface{}, error) {
	vars, err := j.vars()
	if err != nil {
		return nil, err
	}
	var status map[string]interface{}
	err = j.getFrom(ctx, restdata.PingPath, vars, &status)
	return status, err
}

// Legend returns the job's field names and their descriptions.
func (j *Job) Legend(ctx context.Context) (map[string]interface{}, error) {
	vars, err := j.vars()
	if err != nil {
		return nil, err
	}
	var legend map[string]interface{}
	err = j.getFrom(ctx, restdata.LegendPath, vars, &legend)
	return legend, err
}

// Copy creates a new job with the same settings.  allUnits copies
// every unit, and gold copies only the test questions.
func (j *Job) Copy(ctx context.Context, allUnits, gold bool) (*Job, error) {
	extra := make(map[string]interface{})
	if allUnits {
		extra["all_units"] = "true"
	}
	if gold {
		extra["gold"] = "true"
	}
	vars, err := j.with(extra)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	err = j.getFrom(ctx, restdata.CopyPath, vars, &data)
	if err != nil {
		return nil, err
	}
	return newJob(j.client, data), nil
}

// Launch orders judgments for units of the job on the given
// channels.
func (j *Job) Launch(ctx context.Context, units int, channels ...string) (*Order, error) {
	vars, err := j.vars()
	if err != nil {
		return nil, err
	}
	params := restdata.Flatten("", crowdflower.Ordered{
		{Key: "debit", Value: crowdflower.Ordered{{Key: "units_count", Value: units}}},
		{Key: "channels", Value: channels},
	})
	var data map[string]interface{}
	err = j.postTo(ctx, restdata.OrdersPath, vars, params, &data)
	if err != nil {
		return nil, err
	}
	return newOrder(j, data), nil
}

// Tags returns the job's tags.
func (j *Job) Tags(ctx context.Context) ([]string, error) {
	vars, err := j.vars()
	if err != nil {
		return nil, err
	}
	var tags []interface{}
	err = j.getFrom(ctx, restdata.TagsPath, vars, &tags)
	if err != nil {
		return nil, err
	}
	return stringList(tags), nil
}

func (j *Job) sendTags(ctx context.Context, method string, tags []string) error {
	u, err := j.jobURL(restdata.TagsPath, nil)
	if err != nil {
		return err
	}
	params := restdata.Flatten("", crowdflower.Ordered{{Key: "tags", Value: tags}})
	return j.do(ctx, method, u, formPayload(params), nil)
}

// SetTags replaces the job's tags.
func (j *Job) SetTags(ctx context.Context, tags ...string) error {
	return j.sendTags(ctx, http.MethodPut, tags)
}

// AddTags adds to the job's tags.
func (j *Job) AddTags(ctx context.Context, tags ...string) error {
	return j.sendTags(ctx, http.MethodPost, tags)
}

// Channels returns the channels the job is enabled on.
func (j *Job) Channels(ctx context.Context) ([]string, error) {
	vars, err := j.vars()
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	err = j.getFrom(ctx, restdata.ChannelsPath, vars, &data)
	if err != nil {
		return nil, err
	}
	enabled, _ := data["enabled_channels"].([]interface{})
	return stringList(enabled), nil
}

// SetChannels replaces the channels the job is enabled on.
func (j *Job) SetChannels(ctx context.Context, channels ...string) error {
	vars, err := j.vars()
	if err != nil {
		return err
	}
	params := restdata.Flatten("", crowdflower.Ordered{{Key: "channels", Value: channels}})
	return j.putTo(ctx, restdata.ChannelsPath, vars, params, nil)
}

func (j *Job) jobURL(template string, extra map[string]interface{}) (u *url.URL, err error) {
	vars, err := j.with(extra)
	if err == nil {
		u, err = j.template(template, vars)
	}
	return
}

func stringList(items []interface{}) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		result = append(result, restdata.FormatValue(item))
	}
	return result
}

// Units returns all of the job's units.  The list is fetched on first
// use and kept until InvalidateUnits is called.
func (j *Job) Units(ctx context.Context) ([]*Unit, error) {
	if j.units != nil {
		return j.units, nil
	}
	units := []*Unit{}
	it := j.UnitPages()
	for it.Next(ctx) {
		units = append(units, it.Unit())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	j.units = units
	return units, nil
}

// InvalidateUnits forgets the list kept by Units.
func (j *Job) InvalidateUnits() {
	j.units = nil
}

// UnitPages iterates over the job's units, fetching one page at a
// time as needed.
func (j *Job) UnitPages() *UnitIterator {
	return &UnitIterator{job: j, pager: j.pager(restdata.UnitsPath)}
}

func (j *Job) pager(template string) *pager {
	vars, err := j.vars()
	p := newPager(&j.resource, template, vars)
	p.err = err
	return p
}

// Unit retrieves one unit of the job.
func (j *Job) Unit(ctx context.Context, id int64) (*Unit, error) {
	vars, err := j.with(map[string]interface{}{"unit": idString(id)})
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	err = j.getFrom(ctx, restdata.UnitPath, vars, &data)
	if err != nil {
		return nil, err
	}
	return newUnit(j, data), nil
}

// CreateUnit adds one unit with the given data to the job.
func (j *Job) CreateUnit(ctx context.Context, data map[string]interface{}) (*Unit, error) {
	vars, err := j.vars()
	if err != nil {
		return nil, err
	}
	params := restdata.FlattenMap(crowdflower.UnitSchema.Type(), map[string]interface{}{"data": data})
	var result map[string]interface{}
	err = j.postTo(ctx, restdata.UnitsPath, vars, params, &result)
	if err != nil {
		return nil, err
	}
	j.InvalidateUnits()
	return newUnit(j, result), nil
}

// JudgmentAggregates returns the aggregated judgments of every
// finalized unit.  The list is fetched on first use and kept until
// InvalidateJudgmentAggregates is called.
func (j *Job) JudgmentAggregates(ctx context.Context) ([]*JudgmentAggregate, error) {
	if j.aggregates != nil {
		return j.aggregates, nil
	}
	aggregates := []*JudgmentAggregate{}
	it := j.JudgmentAggregatePages()
	for it.Next(ctx) {
		aggregates = append(aggregates, it.JudgmentAggregate())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	j.aggregates = aggregates
	return aggregates, nil
}

// InvalidateJudgmentAggregates forgets the list kept by
// JudgmentAggregates.
func (j *Job) InvalidateJudgmentAggregates() {
	j.aggregates = nil
}

// JudgmentAggregatePages iterates over the job's judgment aggregates,
// fetching one page at a time as needed.
func (j *Job) JudgmentAggregatePages() *JudgmentAggregateIterator {
	return &JudgmentAggregateIterator{job: j, pager: j.pager(restdata.JudgmentsPath)}
}

// Judgment retrieves a single judgment of the job.
func (j *Job) Judgment(ctx context.Context, id int64) (*Judgment, error) {
	vars, err := j.with(map[string]interface{}{"judgment": idString(id)})
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	err = j.getFrom(ctx, restdata.JudgmentPath, vars, &data)
	if err != nil {
		return nil, err
	}
	return newJudgment(j, data), nil
}

// Worker returns a handle for one of the job's contributors.  Nothing
// is fetched.
func (j *Job) Worker(id int64) *Worker {
	return newWorker(j, id)
}

// Regenerate asks the service to build a fresh full report of the
// job.  The report becomes available to Results some time later.
func (j *Job) Regenerate(ctx context.Context) error {
	vars, err := j.with(map[string]interface{}{"type": restdata.ReportType})
	if err == nil {
		err = j.postTo(ctx, restdata.RegeneratePath, vars, nil, nil)
	}
	return err
}

// Results downloads the job's full report and returns one judgment
// aggregate per unit.  If the report is still being generated this
// returns crowdflower.ErrRemote with status 202.
func (j *Job) Results(ctx context.Context) ([]*JudgmentAggregate, error) {
	u, err := j.jobURL(restdata.ReportPath, map[string]interface{}{"type": restdata.ReportType})
	if err != nil {
		return nil, err
	}
	var raw rawResponse
	err = j.do(ctx, http.MethodGet, u, nil, &raw)
	if err != nil {
		return nil, err
	}
	if raw.StatusCode == http.StatusAccepted {
		return nil, crowdflower.ErrRemote{
			Op:         http.MethodGet,
			URL:        restdata.RedactKey(u),
			StatusCode: raw.StatusCode,
			Message:    "report is not ready",
		}
	}
	records, err := restdata.ReadReport(raw.Body)
	if err != nil {
		return nil, crowdflower.ErrRemote{
			Op:         http.MethodGet,
			URL:        restdata.RedactKey(u),
			StatusCode: raw.StatusCode,
			Message:    "unreadable report",
			Err:        err,
		}
	}
	aggregates := make([]*JudgmentAggregate, len(records))
	for i, record := range records {
		aggregates[i] = newJudgmentAggregate(j, record)
	}
	return aggregates, nil
}

// String returns a short description of the job for logging.
func (j *Job) String() string {
	return "job " + strconv.FormatInt(j.ID(), 10)
}
