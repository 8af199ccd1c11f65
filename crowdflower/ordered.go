// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package crowdflower

// Pair is one entry of an Ordered mapping.
type Pair struct {
	Key   string
	Value interface{}
}

// Ordered is a string-keyed mapping that remembers the order its keys
// were added in.  It can be used anywhere a nested field value is
// accepted when the order of the flattened parameters matters;
// a plain map[string]interface{} is flattened in sorted key order.
type Ordered []Pair

// Get returns the value for key and whether it was present.
func (o Ordered) Get(key string) (interface{}, bool) {
	for _, p := range o {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of an existing key in place, or appends a
// new key at the end.
func (o Ordered) Set(key string, value interface{}) Ordered {
	for i, p := range o {
		if p.Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Pair{Key: key, Value: value})
}

// Keys returns the keys in order.
func (o Ordered) Keys() []string {
	keys := make([]string, len(o))
	for i, p := range o {
		keys[i] = p.Key
	}
	return keys
}

// Map converts to an unordered map.  Nested values are not converted.
func (o Ordered) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(o))
	for _, p := range o {
		m[p.Key] = p.Value
	}
	return m
}
