// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes a memory.Service as a REST service
// shaped like the CrowdFlower API.  The restclient package talks to
// it exactly as it talks to the real service, which makes it a test
// double for anything built on the client.
//
// HTTP Considerations
//
// Every request must carry the API key as the "key" query parameter;
// requests without it get 401 Unauthorized.  If the server is
// configured with an empty key, any non-empty key is accepted.
//
// Request bodies are form encoded, with nested values named in
// bracket notation (job[title], unit[data][url], tags[]).  Uploads
// carry JSON lines, CSV, or TSV bodies with the matching
// Content-Type: header.  Responses are JSON, except for job reports,
// which are zip archives.
//
// Errors are returned as {"error": {"message": "..."}}, or as
// {"errors": [...]} for 422 Unprocessable Entity validation
// failures.
//
// URL Scheme
//
// The following URLs are defined, relative to /v1:
//
//     /jobs.json
//     /jobs/upload.json
//     /jobs/{job}.json
//     /jobs/{job}.csv?type=json
//     /jobs/{job}/upload.json
//     /jobs/{job}/copy.json
//     /jobs/{job}/pause.json
//     /jobs/{job}/resume.json
//     /jobs/{job}/cancel.json
//     /jobs/{job}/ping.json
//     /jobs/{job}/legend.json
//     /jobs/{job}/tags.json
//     /jobs/{job}/channels.json
//     /jobs/{job}/orders.json
//     /jobs/{job}/regenerate.json
//     /jobs/{job}/units.json
//     /jobs/{job}/units/{unit}.json
//     /jobs/{job}/units/{unit}/cancel.json
//     /jobs/{job}/judgments.json
//     /jobs/{job}/judgments/{judgment}.json
//     /jobs/{job}/workers/{worker}.json
//     /jobs/{job}/workers/{worker}/bonus.json
//     /jobs/{job}/workers/{worker}/notify.json
//     /jobs/{job}/workers/{worker}/reject.json
package restserver
