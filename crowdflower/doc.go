// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package crowdflower defines the local model of CrowdFlower resources.
//
// Every resource type (jobs, units, judgments and so on) declares its
// fields once in a Schema.  Each field has an access mode: read-only
// fields come from the service and cannot be changed locally,
// read-write fields can be changed and sent back, and write-only
// fields can be sent but never read back.
//
// A Record holds one resource's state as two layers.  The baseline is
// the last representation the service returned; it only changes when
// a Commit replaces it wholesale.  The overlay holds local writes that
// have not been sent yet.  Reads of read-write fields see the overlay
// first.  Changes returns a snapshot of the overlay for sending, and a
// successful send ends with Commit of the service's response, which
// also clears the overlay.
//
//     r := crowdflower.NewRecord(crowdflower.JobSchema, data)
//     err := r.Set("title", "Sentiment")
//     title, err := r.Get("title")   // "Sentiment"
//     changes := r.Changes()         // [{title Sentiment}]
//     r.Commit(responseFromService)  // baseline replaced, overlay empty
//
// Records are not safe for concurrent use.  The HTTP side lives in the
// restclient package, and wire conventions in restdata.
package crowdflower
