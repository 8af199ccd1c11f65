// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/gorilla/mux"
)

func workerPath(suffix string) string {
	return jobPath("/workers/{worker:[0-9]+}" + suffix)
}

func (api *restAPI) PopulateWorker(r *mux.Router) {
	r.Path(workerPath(".json")).Name("worker").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.WorkerGet,
		Put:     api.WorkerPut,
	})
	r.Path(workerPath("/bonus.json")).Name("bonus").Handler(&resourceHandler{
		Context: api.Context,
		Post:    api.WorkerBonus,
	})
	r.Path(workerPath("/notify.json")).Name("notify").Handler(&resourceHandler{
		Context: api.Context,
		Post:    api.WorkerNotify,
	})
	r.Path(workerPath("/reject.json")).Name("reject").Handler(&resourceHandler{
		Context: api.Context,
		Put:     api.WorkerReject,
	})
}

func (api *restAPI) WorkerGet(ctx *context) (interface{}, error) {
	return api.Service.Worker(ctx.JobID, ctx.WorkerID)
}

// WorkerPut flags or deflags a worker, depending on which form
// parameter is present.  Either may be empty.
func (api *restAPI) WorkerPut(ctx *context) (interface{}, error) {
	if reason, ok := ctx.Form["flag"]; ok {
		err := api.Service.FlagWorker(ctx.JobID, ctx.WorkerID, last(reason))
		if err != nil {
			return nil, err
		}
		return success("Worker flagged"), nil
	}
	if reason, ok := ctx.Form["deflag"]; ok {
		err := api.Service.DeflagWorker(ctx.JobID, ctx.WorkerID, last(reason))
		if err != nil {
			return nil, err
		}
		return success("Worker deflagged"), nil
	}
	return nil, errMissingParam("flag or deflag")
}

type bonusRequest struct {
	Amount int    `mapstructure:"amount"`
	Reason string `mapstructure:"reason"`
}

func (api *restAPI) WorkerBonus(ctx *context) (interface{}, error) {
	var req bonusRequest
	if err := decodeForm(ctx, &req); err != nil {
		return nil, err
	}
	if err := api.Service.BonusWorker(ctx.JobID, ctx.WorkerID, req.Amount, req.Reason); err != nil {
		return nil, err
	}
	return success("Bonus paid"), nil
}

func (api *restAPI) WorkerNotify(ctx *context) (interface{}, error) {
	err := api.Service.NotifyWorker(ctx.JobID, ctx.WorkerID, ctx.Form.Get("message"))
	if err != nil {
		return nil, err
	}
	return success("Notification sent"), nil
}

func (api *restAPI) WorkerReject(ctx *context) (interface{}, error) {
	if err := api.Service.RejectWorker(ctx.JobID, ctx.WorkerID); err != nil {
		return nil, err
	}
	return success("Worker rejected"), nil
}

func last(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}
