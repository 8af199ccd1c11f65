// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/diffeo/go-crowdflower/restdata"
	"github.com/gorilla/mux"
)

// context holds all of the information that can be extracted from
// URL parameters and the request body.
type context struct {
	JobID       int64
	UnitID      int64
	JudgmentID  int64
	WorkerID    int64
	QueryParams url.Values

	// Form holds the decoded body of a form-encoded request.
	Form url.Values

	// ContentType and Body hold any other request body.
	ContentType string
	Body        []byte
}

func (api *restAPI) Context(req *http.Request) (ctx *context, err error) {
	ctx = &context{QueryParams: req.URL.Query()}
	vars := mux.Vars(req)

	for name, out := range map[string]*int64{
		"job":      &ctx.JobID,
		"unit":     &ctx.UnitID,
		"judgment": &ctx.JudgmentID,
		"worker":   &ctx.WorkerID,
	} {
		if value, present := vars[name]; present && err == nil {
			*out, err = strconv.ParseInt(value, 10, 64)
			if err != nil {
				err = restdata.ErrNotFound{Err: err}
			}
		}
	}
	if err != nil {
		return
	}

	if req.Method != http.MethodPut && req.Method != http.MethodPost {
		return
	}
	ctx.ContentType = req.Header.Get("Content-Type")
	mediaType := ctx.ContentType
	if mediaType != "" {
		mediaType, _, err = mime.ParseMediaType(mediaType)
		if err != nil {
			err = restdata.ErrBadRequest{Err: err}
			return
		}
	}
	if mediaType == restdata.FormMediaType || mediaType == "" {
		err = req.ParseForm()
		if err != nil {
			err = restdata.ErrBadRequest{Err: err}
		}
		ctx.Form = req.PostForm
		return
	}
	ctx.Body, err = io.ReadAll(req.Body)
	return
}

// BoolParam looks at ctx.QueryParams for a parameter named name.  If
// it has a normally-truthy value (1, on, false, no, ...) then return
// that value.  Otherwise (empty string, foo, ...) return def.
func (ctx *context) BoolParam(name string, def bool) bool {
	switch strings.ToLower(ctx.QueryParams.Get(name)) {
	case "0", "f", "n", "false", "off", "no":
		return false
	case "1", "t", "y", "true", "on", "yes":
		return true
	default:
		return def
	}
}

// Page returns the 1-based page number requested, defaulting to 1.
func (ctx *context) Page() int {
	page, err := strconv.Atoi(ctx.QueryParams.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Fields returns the form parameters named prefix[...], unflattened.
func (ctx *context) Fields(prefix string) map[string]interface{} {
	return restdata.Unflatten(ctx.Form, prefix)
}
