// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package crowdflower

import (
	"fmt"
)

// Mode describes how a field may be accessed.
type Mode int

const (
	// ReadWrite fields read the pending value if there is one, else
	// the baseline value, and can be written.
	ReadWrite Mode = iota

	// ReadOnly fields read the baseline value and reject writes.
	ReadOnly

	// WriteOnly fields accept writes that are sent upstream, but
	// reject reads.
	WriteOnly
)

func (m Mode) String() string {
	switch m {
	case ReadWrite:
		return "read-write"
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Field declares one named field of a resource type.
type Field struct {
	// Name is the name callers use with Record.Get and Record.Set.
	Name string

	// Key is where the value is stored in the baseline and
	// overlay, and the name it has on the wire.  Usually the
	// same as Name.
	Key string

	// Mode is the access mode of the field.
	Mode Mode
}

// Get reads the field from a record according to its mode.
func (f Field) Get(r *Record) (interface{}, error) {
	switch f.Mode {
	case ReadOnly:
		return r.baseline[f.Key], nil
	case WriteOnly:
		return nil, ErrWriteOnlyField{Type: r.schema.typ, Field: f.Name}
	}
	if v, present := r.overlay[f.Key]; present {
		return v, nil
	}
	return r.baseline[f.Key], nil
}

// Set writes the field into a record's overlay according to its mode.
func (f Field) Set(r *Record, value interface{}) error {
	if f.Mode == ReadOnly {
		return ErrImmutableField{Type: r.schema.typ, Field: f.Name}
	}
	r.put(f.Key, value)
	return nil
}

// Schema is the field registry of one resource type.  Schemas are
// built once, normally in a package-level variable, and are read-only
// afterwards.
type Schema struct {
	typ    string
	fields map[string]Field
	names  []string
}

// NewSchema starts an empty schema for a resource type.  The type
// name is also the prefix used for its fields on the wire, e.g.
// "job" for job[title].
func NewSchema(typ string) *Schema {
	return &Schema{
		typ:    typ,
		fields: make(map[string]Field),
	}
}

// Declare adds a field to the schema.  If f.Key is empty the field is
// stored under its name.  Declaring the same name twice panics.
func (s *Schema) Declare(f Field) *Schema {
	if f.Name == "" {
		panic("crowdflower: field with empty name")
	}
	if _, dup := s.fields[f.Name]; dup {
		panic(fmt.Sprintf("crowdflower: field %q declared twice on %v", f.Name, s.typ))
	}
	if f.Key == "" {
		f.Key = f.Name
	}
	s.fields[f.Name] = f
	s.names = append(s.names, f.Name)
	return s
}

func (s *Schema) declareAll(mode Mode, names []string) *Schema {
	for _, name := range names {
		s.Declare(Field{Name: name, Mode: mode})
	}
	return s
}

// ReadOnly declares read-only fields.
func (s *Schema) ReadOnly(names ...string) *Schema {
	return s.declareAll(ReadOnly, names)
}

// ReadWrite declares read-write fields.
func (s *Schema) ReadWrite(names ...string) *Schema {
	return s.declareAll(ReadWrite, names)
}

// WriteOnly declares write-only fields.
func (s *Schema) WriteOnly(names ...string) *Schema {
	return s.declareAll(WriteOnly, names)
}

// Type returns the resource type name.
func (s *Schema) Type() string {
	return s.typ
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Fields returns all fields in declaration order.
func (s *Schema) Fields() []Field {
	result := make([]Field, len(s.names))
	for i, name := range s.names {
		result[i] = s.fields[name]
	}
	return result
}

// FieldsWithMode returns the fields that have a specific mode, in
// declaration order.
func (s *Schema) FieldsWithMode(mode Mode) []Field {
	var result []Field
	for _, name := range s.names {
		if f := s.fields[name]; f.Mode == mode {
			result = append(result, f)
		}
	}
	return result
}
