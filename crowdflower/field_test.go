// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package crowdflower

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSchemaDeclarationOrder(t *testing.T) {
	s := NewSchema("thing").
		ReadOnly("id").
		ReadWrite("name", "color").
		WriteOnly("password")
	names := []string{}
	for _, f := range s.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "name", "color", "password"}, names)
	assert.Equal(t, "thing", s.Type())

	f, ok := s.Field("color")
	assert.True(t, ok)
	assert.Equal(t, Field{Name: "color", Key: "color", Mode: ReadWrite}, f)

	_, ok = s.Field("size")
	assert.False(t, ok)
}

func TestSchemaDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("thing").ReadOnly("id").ReadWrite("id")
	})
	assert.Panics(t, func() {
		NewSchema("thing").Declare(Field{})
	})
}

func TestFieldDispatch(t *testing.T) {
	s := NewSchema("thing").
		Declare(Field{Name: "a", Mode: ReadOnly}).
		Declare(Field{Name: "b", Key: "_b", Mode: ReadWrite}).
		Declare(Field{Name: "c", Mode: WriteOnly})
	r := NewRecord(s, map[string]interface{}{"a": 1, "_b": 2, "c": 3})

	a, _ := s.Field("a")
	b, _ := s.Field("b")
	c, _ := s.Field("c")

	v, err := a.Get(r)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Error(t, a.Set(r, 10))

	v, err = b.Get(r)
	assert.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.NoError(t, b.Set(r, 20))
	v, _ = b.Get(r)
	assert.Equal(t, 20, v)

	_, err = c.Get(r)
	assert.Error(t, err)
	assert.NoError(t, c.Set(r, 30))

	assert.Equal(t, Ordered{{"_b", 20}, {"c", 30}}, r.Changes())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "read-only", ReadOnly.String())
	assert.Equal(t, "read-write", ReadWrite.String())
	assert.Equal(t, "write-only", WriteOnly.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestJobSchemaRequiredFields(t *testing.T) {
	for _, name := range JobRequiredFields {
		f, ok := JobSchema.Field(name)
		if assert.True(t, ok, name) {
			assert.Equal(t, ReadWrite, f.Mode, name)
		}
	}
}

func TestOrdered(t *testing.T) {
	var o Ordered
	o = o.Set("b", 1).Set("a", 2).Set("b", 3)
	assert.Equal(t, []string{"b", "a"}, o.Keys())
	v, ok := o.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = o.Get("c")
	assert.False(t, ok)
	assert.Equal(t, map[string]interface{}{"a": 2, "b": 3}, o.Map())
}

func TestErrorMessages(t *testing.T) {
	assert.EqualError(t, ErrValidation{Type: "job", Missing: []string{"title", "cml"}},
		"job requires non-empty title, cml")
	assert.EqualError(t, ErrImmutableField{Type: "job", Field: "id"},
		`cannot change read only field "id" of job`)
	assert.EqualError(t, ErrRemote{Op: "PUT", URL: "https://x/jobs/1.json", StatusCode: 422, Message: "bad"},
		"PUT https://x/jobs/1.json: status 422: bad")
	assert.EqualError(t, ErrTypeUnknown{Filename: "data.bin"},
		`content type not set and could not guess type of "data.bin"`)
}
