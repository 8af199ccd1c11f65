// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package crowdflower

import (
	"github.com/mitchellh/mapstructure"
)

// Record is the change-tracked state of one resource.  The baseline is
// the last state confirmed by the service and is only replaced by
// Commit.  The overlay holds local writes in the order they were
// first made.
type Record struct {
	schema   *Schema
	baseline map[string]interface{}
	overlay  map[string]interface{}
	order    []string
}

// NewRecord creates a record of a resource type with data as its
// baseline.  data is copied (shallowly) and may be nil.
func NewRecord(schema *Schema, data map[string]interface{}) *Record {
	return &Record{
		schema:   schema,
		baseline: copyMap(data),
		overlay:  make(map[string]interface{}),
	}
}

func copyMap(data map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(data))
	for k, v := range data {
		result[k] = v
	}
	return result
}

// Schema returns the schema of the record's resource type.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Get reads a declared field.
func (r *Record) Get(name string) (interface{}, error) {
	f, ok := r.schema.fields[name]
	if !ok {
		return nil, ErrUnknownField{Type: r.schema.typ, Field: name}
	}
	return f.Get(r)
}

// Set writes a declared field.  The value is not checked or
// converted; it is sent to the service as is.
func (r *Record) Set(name string, value interface{}) error {
	f, ok := r.schema.fields[name]
	if !ok {
		return ErrUnknownField{Type: r.schema.typ, Field: name}
	}
	return f.Set(r, value)
}

// put stores a value in the overlay.  Last write wins; the key keeps
// the position of its first write.
func (r *Record) put(key string, value interface{}) {
	if _, present := r.overlay[key]; !present {
		r.order = append(r.order, key)
	}
	r.overlay[key] = value
}

// Changes returns a copy of the pending writes, keyed by storage key,
// in the order they were first made.  The overlay is not cleared.
func (r *Record) Changes() Ordered {
	changes := make(Ordered, len(r.order))
	for i, key := range r.order {
		changes[i] = Pair{Key: key, Value: r.overlay[key]}
	}
	return changes
}

// HasChanges returns true if there are pending writes.
func (r *Record) HasChanges() bool {
	return len(r.order) > 0
}

// Commit replaces the baseline with data, normally the service's
// representation after an update, and clears the overlay.
func (r *Record) Commit(data map[string]interface{}) {
	baseline := copyMap(data)
	r.baseline, r.overlay, r.order = baseline, make(map[string]interface{}), nil
}

// Discard drops all pending writes.
func (r *Record) Discard() {
	r.overlay, r.order = make(map[string]interface{}), nil
}

// Value returns the effective value stored under key, the pending
// value if any else the baseline value, regardless of field modes.
// This is for validation and synchronization code, not for callers
// reading fields.
func (r *Record) Value(key string) interface{} {
	if v, present := r.overlay[key]; present {
		return v
	}
	return r.baseline[key]
}

// Baseline returns the baseline value stored under key and whether
// it was present.  This also reaches parts of the service's
// representation that are not declared fields.
func (r *Record) Baseline(key string) (interface{}, bool) {
	v, ok := r.baseline[key]
	return v, ok
}

// Decode copies the readable fields into out, which must be a pointer
// to a struct or a map.  Struct fields are matched by their json tags,
// and values are converted where that is unambiguous.
func (r *Record) Decode(out interface{}) error {
	view := make(map[string]interface{})
	for _, name := range r.schema.names {
		f := r.schema.fields[name]
		if f.Mode == WriteOnly {
			continue
		}
		v, err := f.Get(r)
		if err == nil && v != nil {
			view[name] = v
		}
	}
	config := mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err == nil {
		err = decoder.Decode(view)
	}
	return err
}
