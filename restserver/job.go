// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/diffeo/go-crowdflower/restdata"
	"github.com/gorilla/mux"
)

// jobPath is the path of a job resource with a given suffix.
func jobPath(suffix string) string {
	return "/jobs/{job:[0-9]+}" + suffix
}

func (api *restAPI) PopulateJob(r *mux.Router) {
	r.Path("/jobs.json").Name("jobs").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobList,
		Post:    api.JobCreate,
	})
	r.Path("/jobs/upload.json").Name("upload").Handler(&resourceHandler{
		Context: api.Context,
		Post:    api.JobUpload,
	})
	r.Path(jobPath(".json")).Name("job").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobGet,
		Put:     api.JobPut,
		Delete:  api.JobDelete,
	})
	r.Path(jobPath(".csv")).Name("report").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobReport,
	})
	r.Path(jobPath("/upload.json")).Name("jobUpload").Handler(&resourceHandler{
		Context: api.Context,
		Post:    api.JobUpload,
	})
	r.Path(jobPath("/copy.json")).Name("copy").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobCopy,
	})
	r.Path(jobPath("/pause.json")).Name("pause").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobCommand(api.Service.PauseJob, "paused"),
	})
	r.Path(jobPath("/resume.json")).Name("resume").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobCommand(api.Service.ResumeJob, "resumed"),
	})
	r.Path(jobPath("/cancel.json")).Name("cancel").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobCommand(api.Service.CancelJob, "canceled"),
	})
	r.Path(jobPath("/ping.json")).Name("ping").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobPing,
	})
	r.Path(jobPath("/legend.json")).Name("legend").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobLegend,
	})
	r.Path(jobPath("/tags.json")).Name("tags").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobTags,
		Put:     api.JobSetTags,
		Post:    api.JobAddTags,
	})
	r.Path(jobPath("/channels.json")).Name("channels").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JobChannels,
		Put:     api.JobSetChannels,
	})
	r.Path(jobPath("/orders.json")).Name("orders").Handler(&resourceHandler{
		Context: api.Context,
		Post:    api.JobOrder,
	})
	r.Path(jobPath("/regenerate.json")).Name("regenerate").Handler(&resourceHandler{
		Context: api.Context,
		Post:    api.JobRegenerate,
	})
}

func success(message string) restdata.SuccessResponse {
	return restdata.SuccessResponse{Success: restdata.SuccessMessage{Message: message}}
}

func (api *restAPI) JobList(ctx *context) (interface{}, error) {
	return api.Service.Jobs(ctx.Page())
}

func (api *restAPI) JobCreate(ctx *context) (interface{}, error) {
	return api.Service.CreateJob(ctx.Fields("job"))
}

func (api *restAPI) JobGet(ctx *context) (interface{}, error) {
	return api.Service.Job(ctx.JobID)
}

func (api *restAPI) JobPut(ctx *context) (interface{}, error) {
	return api.Service.UpdateJob(ctx.JobID, ctx.Fields("job"))
}

func (api *restAPI) JobDelete(ctx *context) (interface{}, error) {
	if err := api.Service.DeleteJob(ctx.JobID); err != nil {
		return nil, err
	}
	return success("Job deleted"), nil
}

// JobUpload creates units from an upload, in a new job if the URL
// names none.
func (api *restAPI) JobUpload(ctx *context) (interface{}, error) {
	rows, err := uploadRows(ctx)
	if err != nil {
		return nil, err
	}
	return api.Service.Upload(ctx.JobID, rows)
}

func (api *restAPI) JobCopy(ctx *context) (interface{}, error) {
	return api.Service.CopyJob(ctx.JobID, ctx.BoolParam("all_units", false), ctx.BoolParam("gold", false))
}

// JobCommand builds a handler for a parameterless job command.
func (api *restAPI) JobCommand(command func(int64) error, done string) func(*context) (interface{}, error) {
	return func(ctx *context) (interface{}, error) {
		if err := command(ctx.JobID); err != nil {
			return nil, err
		}
		return success(fmt.Sprintf("Job %v %v", ctx.JobID, done)), nil
	}
}

func (api *restAPI) JobPing(ctx *context) (interface{}, error) {
	return api.Service.Ping(ctx.JobID)
}

func (api *restAPI) JobLegend(ctx *context) (interface{}, error) {
	return api.Service.Legend(ctx.JobID)
}

func (api *restAPI) JobTags(ctx *context) (interface{}, error) {
	return api.Service.Tags(ctx.JobID)
}

type tagsRequest struct {
	Tags []string `mapstructure:"tags"`
}

func (api *restAPI) JobSetTags(ctx *context) (interface{}, error) {
	var req tagsRequest
	if err := decodeForm(ctx, &req); err != nil {
		return nil, err
	}
	if err := api.Service.SetTags(ctx.JobID, req.Tags); err != nil {
		return nil, err
	}
	return api.Service.Tags(ctx.JobID)
}

func (api *restAPI) JobAddTags(ctx *context) (interface{}, error) {
	var req tagsRequest
	if err := decodeForm(ctx, &req); err != nil {
		return nil, err
	}
	if err := api.Service.AddTags(ctx.JobID, req.Tags); err != nil {
		return nil, err
	}
	return api.Service.Tags(ctx.JobID)
}

func (api *restAPI) JobChannels(ctx *context) (interface{}, error) {
	return api.Service.Channels(ctx.JobID)
}

type channelsRequest struct {
	Channels []string `mapstructure:"channels"`
}

func (api *restAPI) JobSetChannels(ctx *context) (interface{}, error) {
	var req channelsRequest
	if err := decodeForm(ctx, &req); err != nil {
		return nil, err
	}
	if err := api.Service.SetChannels(ctx.JobID, req.Channels); err != nil {
		return nil, err
	}
	return api.Service.Channels(ctx.JobID)
}

type orderRequest struct {
	Debit struct {
		UnitsCount int `mapstructure:"units_count"`
	} `mapstructure:"debit"`
	Channels []string `mapstructure:"channels"`
}

func (api *restAPI) JobOrder(ctx *context) (interface{}, error) {
	var req orderRequest
	if err := decodeForm(ctx, &req); err != nil {
		return nil, err
	}
	return api.Service.CreateOrder(ctx.JobID, req.Debit.UnitsCount, req.Channels)
}

func (api *restAPI) JobRegenerate(ctx *context) (interface{}, error) {
	if err := api.Service.Regenerate(ctx.JobID, ctx.QueryParams.Get("type")); err != nil {
		return nil, err
	}
	return success("Report is being generated"), nil
}

// JobReport sends the job's report as a zip archive of JSON lines, or
// 202 Accepted if it is not ready yet.
func (api *restAPI) JobReport(ctx *context) (interface{}, error) {
	if t := ctx.QueryParams.Get("type"); t != restdata.ReportType {
		return nil, restdata.ErrUnprocessable{Problems: []string{"unsupported report type " + t}}
	}
	records, ready, err := api.Service.Report(ctx.JobID)
	if err != nil {
		return nil, err
	}
	if !ready {
		return rawResponse{
			StatusCode:  http.StatusAccepted,
			ContentType: restdata.JSONMediaType,
			Body:        []byte(`{"success":{"message":"Report is being generated"}}`),
		}, nil
	}
	var buf bytes.Buffer
	name := fmt.Sprintf("job_%v.json", ctx.JobID)
	if err := restdata.WriteReport(&buf, name, records); err != nil {
		return nil, err
	}
	return rawResponse{ContentType: restdata.ZipMediaType, Body: buf.Bytes()}, nil
}
