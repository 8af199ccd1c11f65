// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package crowdflower

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

var allSchemas = []*Schema{
	JobSchema,
	UnitSchema,
	JudgmentSchema,
	JudgmentAggregateSchema,
	OrderSchema,
	WorkerSchema,
}

// jobData is a job as the service returns it.
func jobData() map[string]interface{} {
	return map[string]interface{}{
		"id":           int64(746777),
		"title":        "TITLE",
		"instructions": "INSTRUCTIONS",
		"cml":          "CML",
		"state":        "paused",
		"units_count":  int64(148),
		"options": map[string]interface{}{
			"req_ttl_in_seconds": int64(1800),
			"track_clones":       true,
		},
		"included_countries": []interface{}{
			map[string]interface{}{"name": "Finland", "code": "FI"},
		},
		"fields": map[string]interface{}{"sentiment": "agg"},
	}
}

func TestGetBaseline(t *testing.T) {
	data := jobData()
	r := NewRecord(JobSchema, data)
	for k, v := range data {
		got, err := r.Get(k)
		if assert.NoError(t, err, k) {
			assert.Equal(t, v, got, k)
		}
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	for _, schema := range allSchemas {
		r := NewRecord(schema, nil)
		for _, f := range schema.FieldsWithMode(ReadWrite) {
			v := struct{ Name string }{f.Name}
			require.NoError(t, r.Set(f.Name, v), "%v.%v", schema.Type(), f.Name)
			got, err := r.Get(f.Name)
			if assert.NoError(t, err) {
				assert.Equal(t, v, got)
			}
			changed, present := r.Changes().Get(f.Key)
			assert.True(t, present, "%v.%v", schema.Type(), f.Name)
			assert.Equal(t, v, changed)
		}
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	for _, schema := range allSchemas {
		r := NewRecord(schema, map[string]interface{}{})
		for _, f := range schema.FieldsWithMode(ReadOnly) {
			before, _ := r.Get(f.Name)
			err := r.Set(f.Name, "FAIL")
			assert.Equal(t, ErrImmutableField{Type: schema.Type(), Field: f.Name}, err)
			after, _ := r.Get(f.Name)
			assert.Equal(t, before, after)
		}
		assert.False(t, r.HasChanges())
	}

	r := NewRecord(JobSchema, jobData())
	assert.Error(t, r.Set("id", int64(1)))
	id, err := r.Get("id")
	assert.NoError(t, err)
	assert.Equal(t, int64(746777), id)
}

func TestWriteOnlyRejectsReads(t *testing.T) {
	fields := JobSchema.FieldsWithMode(WriteOnly)
	require.NotEmpty(t, fields)
	r := NewRecord(JobSchema, nil)
	for _, f := range fields {
		require.NoError(t, r.Set(f.Name, "s3cr3t"))
		_, err := r.Get(f.Name)
		assert.Equal(t, ErrWriteOnlyField{Type: "job", Field: f.Name}, err)
		v, present := r.Changes().Get(f.Key)
		assert.True(t, present)
		assert.Equal(t, "s3cr3t", v)
		assert.Equal(t, "s3cr3t", r.Value(f.Key))
	}
}

func TestUnknownField(t *testing.T) {
	r := NewRecord(UnitSchema, nil)
	_, err := r.Get("nope")
	assert.Equal(t, ErrUnknownField{Type: "unit", Field: "nope"}, err)
	err = r.Set("nope", 1)
	assert.Equal(t, ErrUnknownField{Type: "unit", Field: "nope"}, err)
	assert.False(t, r.HasChanges())
}

func TestLastWriteWins(t *testing.T) {
	r := NewRecord(JobSchema, jobData())
	assert.NoError(t, r.Set("title", "one"))
	assert.NoError(t, r.Set("css", "body{}"))
	assert.NoError(t, r.Set("title", "two"))

	title, _ := r.Get("title")
	assert.Equal(t, "two", title)
	assert.Equal(t, Ordered{{"title", "two"}, {"css", "body{}"}}, r.Changes())

	// the baseline is untouched
	v, _ := r.Baseline("title")
	assert.Equal(t, "TITLE", v)
}

func TestChangesIsSnapshot(t *testing.T) {
	r := NewRecord(JobSchema, nil)
	assert.NoError(t, r.Set("title", "T"))
	changes := r.Changes()
	changes[0].Value = "mutated"
	assert.NoError(t, r.Set("cml", "C"))

	assert.Len(t, changes, 1)
	title, _ := r.Get("title")
	assert.Equal(t, "T", title)
	assert.Len(t, r.Changes(), 2)
}

func TestCommit(t *testing.T) {
	r := NewRecord(JobSchema, jobData())
	assert.NoError(t, r.Set("title", "T"))
	assert.NoError(t, r.Set("secret", "S"))

	merged := map[string]interface{}{
		"id":    int64(42),
		"title": "T",
		"cml":   "C",
	}
	r.Commit(merged)
	assert.Empty(t, r.Changes())
	assert.False(t, r.HasChanges())

	for k, v := range merged {
		got, err := r.Get(k)
		if assert.NoError(t, err) {
			assert.Equal(t, v, got)
		}
	}
	// Full replacement: keys absent from the new data are gone.
	instructions, err := r.Get("instructions")
	assert.NoError(t, err)
	assert.Nil(t, instructions)

	// Later changes to the committed map do not leak in.
	merged["title"] = "changed"
	title, _ := r.Get("title")
	assert.Equal(t, "T", title)
}

func TestCommitWithoutChanges(t *testing.T) {
	r := NewRecord(UnitSchema, map[string]interface{}{"state": "new"})
	r.Commit(map[string]interface{}{"state": "judgable"})
	state, _ := r.Get("state")
	assert.Equal(t, "judgable", state)
	assert.Empty(t, r.Changes())

	r.Commit(nil)
	state, _ = r.Get("state")
	assert.Nil(t, state)
}

func TestDiscard(t *testing.T) {
	r := NewRecord(JobSchema, jobData())
	assert.NoError(t, r.Set("title", "T"))
	r.Discard()
	assert.False(t, r.HasChanges())
	title, _ := r.Get("title")
	assert.Equal(t, "TITLE", title)
}

func TestStorageKey(t *testing.T) {
	r := NewRecord(JudgmentAggregateSchema, map[string]interface{}{
		"_agreement": 0.5,
		"_ids":       []interface{}{int64(1), int64(2)},
		"agreement":  "not this one",
	})
	agreement, err := r.Get("agreement")
	assert.NoError(t, err)
	assert.Equal(t, 0.5, agreement)
	ids, err := r.Get("ids")
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), int64(2)}, ids)
}

func TestDecode(t *testing.T) {
	var job struct {
		ID         int                    `json:"id"`
		Title      string                 `json:"title"`
		UnitsCount string                 `json:"units_count"`
		Options    map[string]interface{} `json:"options"`
		Secret     string                 `json:"secret"`
	}
	r := NewRecord(JobSchema, jobData())
	assert.NoError(t, r.Set("title", "pending"))
	assert.NoError(t, r.Set("secret", "hidden"))
	if assert.NoError(t, r.Decode(&job)) {
		assert.Equal(t, 746777, job.ID)
		assert.Equal(t, "pending", job.Title)
		assert.Equal(t, "148", job.UnitsCount)
		assert.Equal(t, int64(1800), job.Options["req_ttl_in_seconds"])
		assert.Equal(t, "", job.Secret)
	}
}
