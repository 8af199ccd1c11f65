// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"

	"github.com/diffeo/go-crowdflower/memory"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// Config holds the settings of a server.
type Config struct {
	// Key is the API key every request must carry.  If empty,
	// any key is accepted but one must still be present.
	Key string

	// Logger receives one entry per request.  If nil, requests
	// are not logged.
	Logger logrus.FieldLogger
}

// NewRouter creates a new HTTP handler that processes all API
// requests under /v1, e.g. /v1/jobs/1.json, behind the standard
// middleware.  For more control over this setup, create a mux.Router
// and call PopulateRouter instead.
func NewRouter(service *memory.Service, config Config) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r.PathPrefix("/v1").Subrouter(), service)
	return Middleware(r, config)
}

// PopulateRouter adds API routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the API under a different subpath:
//
//     r := mux.NewRouter()
//     s := r.PathPrefix("/crowdflower/v1").Subrouter()
//     PopulateRouter(s, memory.New())
func PopulateRouter(r *mux.Router, service *memory.Service) {
	api := &restAPI{Service: service, Router: r}
	api.PopulateRouter(r)
}

// Middleware wraps a handler with panic recovery, API key checking,
// and request logging.
func Middleware(h http.Handler, config Config) http.Handler {
	recovery := negroni.NewRecovery()
	recovery.PrintStack = false
	n := negroni.New(recovery)
	if config.Logger != nil {
		n.Use(&requestLogger{Logger: config.Logger})
	}
	n.Use(&keyChecker{Key: config.Key})
	n.UseHandler(h)
	return n
}

// restAPI holds the persistent state for the REST API.
type restAPI struct {
	Service *memory.Service
	Router  *mux.Router
}

// PopulateRouter adds all URL paths to a router.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	api.PopulateJob(r)
	api.PopulateUnit(r)
	api.PopulateJudgment(r)
	api.PopulateWorker(r)
}
