// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines the wire conventions shared between the
// restclient and restserver packages.
//
// API Usage
//
// Every request goes to a path under the API root,
// https://api.crowdflower.com/v1/ by default, and carries the account's
// API key as the "key" query parameter.  The paths are RFC 6570 URI
// templates; for instance JobPath is
//
//     jobs/{job}.json
//
// and a caller substitutes the numeric job id for {job}.
//
// Request Bodies
//
// Creates, updates and most commands are sent as
// application/x-www-form-urlencoded bodies.  A resource's fields are
// named after the resource type, and nested mappings add one bracketed
// segment per level:
//
//     job[title]=Sentiment&job[options][track_clones]=true
//
// Sequences repeat the name with an empty segment, job[tags][]=a.
// Flatten produces these names; Unflatten reverses them.
//
// Uploads of unit data are sent as the raw file content with its own
// Content-Type, or for JSON rows as one JSON object per line.
//
// Responses
//
// Responses are JSON.  Single resources are objects.  The job list is
// an array; unit and judgment lists are objects keyed by unit id.
// Lists are paged with a "page" query parameter starting at 1, and
// a page with no entries marks the end.
//
// Full job reports are generated by a POST to RegeneratePath and
// downloaded from ReportPath as a zip archive holding one JSON object
// per line.
//
// Errors
//
// Failures are normally reported with a non-2xx status and an
// ErrorResponse body, though some endpoints answer 200 with an
// "error" member instead.
package restdata

// JSONMediaType is the media type of responses and JSON uploads.
const JSONMediaType = "application/json"

// FormMediaType is the media type of flattened parameter bodies.
const FormMediaType = "application/x-www-form-urlencoded"

// ZipMediaType is the media type of report downloads.
const ZipMediaType = "application/zip"

// DefaultURL is the root of the public API.
const DefaultURL = "https://api.crowdflower.com/v1/"

// KeyParam is the query parameter carrying the API key.
const KeyParam = "key"

// Path templates, relative to the API root.  {job}, {unit},
// {judgment} and {worker} are numeric ids.
const (
	JobsPath         = "jobs.json{?page}"
	JobPath          = "jobs/{job}.json"
	UploadPath       = "jobs/upload.json{?force}"
	JobUploadPath    = "jobs/{job}/upload.json{?force}"
	CopyPath         = "jobs/{job}/copy.json{?all_units,gold}"
	PausePath        = "jobs/{job}/pause.json"
	ResumePath       = "jobs/{job}/resume.json"
	CancelPath       = "jobs/{job}/cancel.json"
	PingPath         = "jobs/{job}/ping.json"
	LegendPath       = "jobs/{job}/legend.json"
	TagsPath         = "jobs/{job}/tags.json"
	ChannelsPath     = "jobs/{job}/channels.json"
	OrdersPath       = "jobs/{job}/orders.json"
	RegeneratePath   = "jobs/{job}/regenerate.json{?type}"
	ReportPath       = "jobs/{job}.csv{?type}"
	UnitsPath        = "jobs/{job}/units.json{?page}"
	UnitPath         = "jobs/{job}/units/{unit}.json"
	UnitCancelPath   = "jobs/{job}/units/{unit}/cancel.json"
	JudgmentsPath    = "jobs/{job}/judgments.json{?page}"
	JudgmentPath     = "jobs/{job}/judgments/{judgment}.json"
	WorkerPath       = "jobs/{job}/workers/{worker}.json"
	WorkerBonusPath  = "jobs/{job}/workers/{worker}/bonus.json"
	WorkerNotifyPath = "jobs/{job}/workers/{worker}/notify.json"
	WorkerRejectPath = "jobs/{job}/workers/{worker}/reject.json"
)

// ReportType is the only report format this package reads: a zip of
// JSON lines, one judgment aggregate per unit.
const ReportType = "json"

// SuccessResponse is returned by commands and deletes that have no
// resource to return.
type SuccessResponse struct {
	Success SuccessMessage `json:"success"`
}

// SuccessMessage holds the text of a SuccessResponse.
type SuccessMessage struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of a failing response.
type ErrorResponse struct {
	Error *ErrorMessage `json:"error,omitempty"`

	// Errors is used by validation failures, one entry per
	// problem.
	Errors []string `json:"errors,omitempty"`
}

// ErrorMessage holds the text of an ErrorResponse.
type ErrorMessage struct {
	Message string `json:"message"`
}
