// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
	"github.com/sirupsen/logrus"
)

// Remote is the service side of synchronization: it applies
// flattened field changes to the resource at path and returns the
// resource's full representation afterwards.
type Remote interface {
	Update(ctx context.Context, path string, params restdata.Params) (map[string]interface{}, error)
}

// Creator is implemented by remotes that create resources
// differently from updating them.  A resource the service does not
// know yet is sent to Create at its collection path; remotes without
// Create get it through Update.
type Creator interface {
	Create(ctx context.Context, path string, params restdata.Params) (map[string]interface{}, error)
}

// Syncable is a resource whose pending field writes can be sent to a
// Remote.  Every resource type gets the first three methods from its
// embedded crowdflower.Record.
type Syncable interface {
	// Schema identifies the resource type; its name is the
	// parameter prefix.
	Schema() *crowdflower.Schema

	// Changes returns the pending writes.
	Changes() crowdflower.Ordered

	// Commit replaces the baseline and clears the pending writes.
	Commit(data map[string]interface{})

	// Path returns the resource's location relative to the API
	// root.
	Path() (string, error)
}

// Unsaved is implemented by resources that can exist locally before
// the service knows about them.  While IsNew is true, Path returns the
// collection the resource will be created in.
type Unsaved interface {
	IsNew() bool
}

// Validator is implemented by resources with their own checks, which
// must pass before anything is sent.
type Validator interface {
	Validate() error
}

// Synchronizer sends pending field writes to a Remote.
type Synchronizer struct {
	Remote Remote
	Logger logrus.FieldLogger
}

// Synchronize validates s, sends its pending writes, and on success
// commits the service's answer as the new baseline.  A resource with
// no pending writes is not sent at all, so a second call right after
// a successful one does nothing.  On any failure s is left exactly
// as it was; remote failures are crowdflower.ErrRemote.
func (s *Synchronizer) Synchronize(ctx context.Context, r Syncable) error {
	if v, ok := r.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	changes := r.Changes()
	if len(changes) == 0 {
		return nil
	}

	path, err := r.Path()
	if err != nil {
		return err
	}

	typ := r.Schema().Type()
	params := restdata.Flatten(typ, changes)
	method, send := http.MethodPut, s.Remote.Update
	if u, ok := r.(Unsaved); ok && u.IsNew() {
		method = http.MethodPost
		if c, ok := s.Remote.(Creator); ok {
			send = c.Create
		}
	}
	result, err := send(ctx, path, params)
	if err != nil {
		var remote crowdflower.ErrRemote
		if !errors.As(err, &remote) {
			err = crowdflower.ErrRemote{Op: method, URL: path, Err: err}
		}
		return err
	}

	r.Commit(result)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"type":    typ,
			"method":  method,
			"path":    path,
			"changes": len(changes),
		}).Debug("synchronized")
	}
	return nil
}
