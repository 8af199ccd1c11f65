// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package memory

import (
	"container/heap"
)

// availableUnits is a priority queue of units waiting for judgments.
type availableUnits []*unit

// Add a unit to this queue in the appropriate spot.
func (q *availableUnits) Add(u *unit) {
	heap.Push(q, u)
}

// Next removes and returns the unit that should be judged next.
func (q *availableUnits) Next() *unit {
	return heap.Pop(q).(*unit)
}

// Peek returns the unit that should be judged next without removing
// it.
func (q availableUnits) Peek() *unit {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

// Remove a specific unit.
func (q *availableUnits) Remove(u *unit) {
	if u.availableIndex > 0 {
		heap.Remove(q, u.availableIndex-1)
	}
}

// Reprioritize a specific unit (when its judgment count changes).
func (q *availableUnits) Reprioritize(u *unit) {
	if u.availableIndex > 0 {
		heap.Fix(q, u.availableIndex-1)
	}
}

// sort.Interface

func (q availableUnits) Len() int {
	return len(q)
}

// isUnitHigherPriority returns true if a should be judged before b:
// units with fewer judgments come first, then older units.
func isUnitHigherPriority(a, b *unit) bool {
	if len(a.judgments) != len(b.judgments) {
		return len(a.judgments) < len(b.judgments)
	}
	return a.id < b.id
}

func (q availableUnits) Less(i, j int) bool {
	// Position 0 is highest priority, so Less(i, j) is true iff
	// q[i] is higher priority than q[j].
	return isUnitHigherPriority(q[i], q[j])
}

func (q availableUnits) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].availableIndex = i + 1
	q[j].availableIndex = j + 1
}

// collections/heap.Interface

func (q *availableUnits) Push(x interface{}) {
	u := x.(*unit)
	u.availableIndex = len(*q) + 1
	*q = append(*q, u)
}

func (q *availableUnits) Pop() interface{} {
	if len(*q) == 0 {
		return nil
	}
	u := (*q)[len(*q)-1]
	*q = (*q)[:len(*q)-1]
	u.availableIndex = 0
	return u
}
