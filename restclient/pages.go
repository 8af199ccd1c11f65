// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/diffeo/go-crowdflower/crowdflower"
	"github.com/diffeo/go-crowdflower/restdata"
)

// pager pulls the pages of a list resource one at a time.  It stops
// at the first empty page or the first error, and cannot be
// restarted.
type pager struct {
	r        *resource
	template string
	vars     map[string]interface{}
	page     int
	items    []map[string]interface{}
	done     bool
	err      error
}

func newPager(r *resource, template string, vars map[string]interface{}) *pager {
	return &pager{r: r, template: template, vars: vars}
}

func (p *pager) next(ctx context.Context) (map[string]interface{}, bool) {
	for len(p.items) == 0 {
		if p.done || p.err != nil {
			return nil, false
		}
		p.page++
		vars := make(map[string]interface{}, len(p.vars)+1)
		for k, v := range p.vars {
			vars[k] = v
		}
		vars["page"] = strconv.Itoa(p.page)
		u, err := p.r.template(p.template, vars)
		if err != nil {
			p.err = err
			return nil, false
		}
		var page interface{}
		if err := p.r.do(ctx, http.MethodGet, u, nil, &page); err != nil {
			p.err = err
			return nil, false
		}
		items, err := pageItems(page)
		if err != nil {
			p.err = crowdflower.ErrRemote{
				Op:      http.MethodGet,
				URL:     restdata.RedactKey(u),
				Message: "unexpected page",
				Err:     err,
			}
			return nil, false
		}
		if len(items) == 0 {
			p.done = true
		}
		p.items = items
	}
	item := p.items[0]
	p.items = p.items[1:]
	return item, true
}

var errPageItem = errors.New("page entry is not an object")

// pageItems extracts the entries of one page.  A page is either a
// list, or an object keyed by id whose entries are returned in id
// order.
func pageItems(page interface{}) ([]map[string]interface{}, error) {
	var items []map[string]interface{}
	switch p := page.(type) {
	case nil:
	case []interface{}:
		for _, raw := range p {
			item, ok := raw.(map[string]interface{})
			if !ok {
				return nil, errPageItem
			}
			items = append(items, item)
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, aerr := strconv.ParseInt(keys[i], 10, 64)
			b, berr := strconv.ParseInt(keys[j], 10, 64)
			if aerr == nil && berr == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		for _, k := range keys {
			item, ok := p[k].(map[string]interface{})
			if !ok {
				return nil, errPageItem
			}
			items = append(items, item)
		}
	default:
		return nil, errPageItem
	}
	return items, nil
}

// JobIterator walks the account's jobs.
//
//     it := client.Jobs()
//     for it.Next(ctx) {
//         job := it.Job()
//     }
//     if err := it.Err(); err != nil { ... }
type JobIterator struct {
	client *Client
	pager  *pager
	job    *Job
}

// Next advances to the next job, fetching a page if needed.  It
// returns false at the end of the list or on error.
func (it *JobIterator) Next(ctx context.Context) bool {
	data, ok := it.pager.next(ctx)
	it.job = nil
	if ok {
		it.job = newJob(it.client, data)
	}
	return ok
}

// Job returns the current job.
func (it *JobIterator) Job() *Job {
	return it.job
}

// Err returns the error that stopped iteration, if any.
func (it *JobIterator) Err() error {
	return it.pager.err
}

// UnitIterator walks a job's units in the same way as JobIterator.
type UnitIterator struct {
	job   *Job
	pager *pager
	unit  *Unit
}

// Next advances to the next unit.
func (it *UnitIterator) Next(ctx context.Context) bool {
	data, ok := it.pager.next(ctx)
	it.unit = nil
	if ok {
		it.unit = newUnit(it.job, data)
	}
	return ok
}

// Unit returns the current unit.
func (it *UnitIterator) Unit() *Unit {
	return it.unit
}

// Err returns the error that stopped iteration, if any.
func (it *UnitIterator) Err() error {
	return it.pager.err
}

// JudgmentAggregateIterator walks a job's judgment aggregates in the
// same way as JobIterator.
type JudgmentAggregateIterator struct {
	job       *Job
	pager     *pager
	aggregate *JudgmentAggregate
}

// Next advances to the next aggregate.
func (it *JudgmentAggregateIterator) Next(ctx context.Context) bool {
	data, ok := it.pager.next(ctx)
	it.aggregate = nil
	if ok {
		it.aggregate = newJudgmentAggregate(it.job, data)
	}
	return ok
}

// JudgmentAggregate returns the current aggregate.
func (it *JudgmentAggregateIterator) JudgmentAggregate() *JudgmentAggregate {
	return it.aggregate
}

// Err returns the error that stopped iteration, if any.
func (it *JudgmentAggregateIterator) Err() error {
	return it.pager.err
}
