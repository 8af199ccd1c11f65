// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/gorilla/mux"
)

func unitPath(suffix string) string {
	return jobPath("/units/{unit:[0-9]+}" + suffix)
}

func (api *restAPI) PopulateUnit(r *mux.Router) {
	r.Path(jobPath("/units.json")).Name("units").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.UnitList,
		Post:    api.UnitCreate,
	})
	r.Path(unitPath(".json")).Name("unit").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.UnitGet,
		Put:     api.UnitPut,
		Delete:  api.UnitDelete,
	})
	r.Path(unitPath("/cancel.json")).Name("unitCancel").Handler(&resourceHandler{
		Context: api.Context,
		Post:    api.UnitCancel,
	})
}

func (api *restAPI) UnitList(ctx *context) (interface{}, error) {
	return api.Service.Units(ctx.JobID, ctx.Page())
}

func (api *restAPI) UnitCreate(ctx *context) (interface{}, error) {
	return api.Service.CreateUnit(ctx.JobID, ctx.Fields("unit"))
}

func (api *restAPI) UnitGet(ctx *context) (interface{}, error) {
	return api.Service.Unit(ctx.JobID, ctx.UnitID)
}

func (api *restAPI) UnitPut(ctx *context) (interface{}, error) {
	return api.Service.UpdateUnit(ctx.JobID, ctx.UnitID, ctx.Fields("unit"))
}

func (api *restAPI) UnitDelete(ctx *context) (interface{}, error) {
	if err := api.Service.DeleteUnit(ctx.JobID, ctx.UnitID); err != nil {
		return nil, err
	}
	return success("Unit deleted"), nil
}

func (api *restAPI) UnitCancel(ctx *context) (interface{}, error) {
	if err := api.Service.CancelUnit(ctx.JobID, ctx.UnitID); err != nil {
		return nil, err
	}
	return success("Unit canceled"), nil
}
