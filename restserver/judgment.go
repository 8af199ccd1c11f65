// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/gorilla/mux"
)

func (api *restAPI) PopulateJudgment(r *mux.Router) {
	r.Path(jobPath("/judgments.json")).Name("judgments").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JudgmentAggregates,
	})
	r.Path(jobPath("/judgments/{judgment:[0-9]+}.json")).Name("judgment").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.JudgmentGet,
		Put:     api.JudgmentPut,
	})
}

// JudgmentAggregates lists one aggregate per finalized unit, keyed
// by unit id.
func (api *restAPI) JudgmentAggregates(ctx *context) (interface{}, error) {
	return api.Service.JudgmentAggregates(ctx.JobID, ctx.Page())
}

func (api *restAPI) JudgmentGet(ctx *context) (interface{}, error) {
	return api.Service.Judgment(ctx.JobID, ctx.JudgmentID)
}

func (api *restAPI) JudgmentPut(ctx *context) (interface{}, error) {
	return api.Service.UpdateJudgment(ctx.JobID, ctx.JudgmentID, ctx.Fields("judgment"))
}
