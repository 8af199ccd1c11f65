// Copyright 2026 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/diffeo/go-crowdflower/crowdflower"
)

// Param is a single flattened request parameter.  Value is whatever
// the caller set, unconverted.
type Param struct {
	Name  string
	Value interface{}
}

// Params is an ordered list of request parameters.
type Params []Param

// Flatten converts a set of fields into bracketed parameter names.
// Each top-level key k becomes prefix[k] (or just k if prefix is
// empty); a nested mapping under it adds [sub] per level, to any
// depth, and a sequence adds [] per element.  Any map with string
// keys counts as a mapping and any slice or array other than []byte
// as a sequence.  An empty mapping is sent as an empty value so that
// it clears the field; an empty sequence sends nothing.  Keys of a
// crowdflower.Ordered keep their order; keys of a plain map are
// sorted, since a map has no order of its own.
func Flatten(prefix string, fields crowdflower.Ordered) Params {
	var params Params
	for _, p := range fields {
		name := p.Key
		if prefix != "" {
			name = prefix + "[" + p.Key + "]"
		}
		params = flattenValue(params, name, p.Value)
	}
	return params
}

// FlattenMap is Flatten for an unordered map.
func FlattenMap(prefix string, fields map[string]interface{}) Params {
	return Flatten(prefix, orderMap(fields))
}

func orderMap(m map[string]interface{}) crowdflower.Ordered {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	o := make(crowdflower.Ordered, len(keys))
	for i, k := range keys {
		o[i] = crowdflower.Pair{Key: k, Value: m[k]}
	}
	return o
}

func flattenValue(params Params, name string, value interface{}) Params {
	switch v := value.(type) {
	case crowdflower.Ordered:
		if len(v) == 0 {
			return append(params, Param{Name: name, Value: ""})
		}
		for _, p := range v {
			params = flattenValue(params, name+"["+p.Key+"]", p.Value)
		}
	case map[string]interface{}:
		if len(v) == 0 {
			return append(params, Param{Name: name, Value: ""})
		}
		for _, p := range orderMap(v) {
			params = flattenValue(params, name+"["+p.Key+"]", p.Value)
		}
	case []interface{}:
		for _, item := range v {
			params = flattenValue(params, name+"[]", item)
		}
	case []byte:
		params = append(params, Param{Name: name, Value: value})
	default:
		params = flattenReflect(params, name, value)
	}
	return params
}

// flattenReflect handles typed maps with string keys and typed
// sequences.  Anything else is a single parameter.
func flattenReflect(params Params, name string, value interface{}) Params {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return flattenValue(params, name, m)
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		for i := 0; i < rv.Len(); i++ {
			params = flattenValue(params, name+"[]", rv.Index(i).Interface())
		}
		return params
	}
	return append(params, Param{Name: name, Value: value})
}

// FormatValue renders a parameter value as a string.  nil becomes
// the empty string.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

// Encode produces a form-encoded body, keeping the parameter order.
func (params Params) Encode() string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(FormatValue(p.Value)))
	}
	return b.String()
}

// Get returns the value of the first parameter named name.
func (params Params) Get(name string) (interface{}, bool) {
	for _, p := range params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Map returns the parameters as a map.  If a name repeats, the last
// value wins.
func (params Params) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(params))
	for _, p := range params {
		m[p.Name] = p.Value
	}
	return m
}

// splitName splits "job[options][x]" into "job", "options", "x".
// ok is false if the brackets are unbalanced.
func splitName(name string) (segments []string, ok bool) {
	open := strings.IndexByte(name, '[')
	if open < 0 {
		return []string{name}, true
	}
	segments = append(segments, name[:open])
	rest := name[open:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, false
		}
		segments = append(segments, rest[1:end])
		rest = rest[end+1:]
	}
	return segments, true
}

// Unflatten reverses Flatten for a decoded form.  Only names under
// prefix are considered (every name, if prefix is empty), and the
// prefix segment is dropped.  Values are strings; a name ending in []
// produces a []interface{} of all its values.  Malformed names are
// skipped.
func Unflatten(form url.Values, prefix string) map[string]interface{} {
	result := make(map[string]interface{})
	names := make([]string, 0, len(form))
	for name := range form {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		segments, ok := splitName(name)
		if !ok {
			continue
		}
		if prefix != "" {
			if segments[0] != prefix || len(segments) < 2 {
				continue
			}
			segments = segments[1:]
		}
		values := form[name]
		var value interface{}
		if segments[len(segments)-1] == "" {
			segments = segments[:len(segments)-1]
			list := make([]interface{}, len(values))
			for i, v := range values {
				list[i] = v
			}
			value = list
		} else if len(values) > 0 {
			value = values[len(values)-1]
		}
		if len(segments) == 0 {
			continue
		}
		insert(result, segments, value)
	}
	return result
}

func insert(m map[string]interface{}, path []string, value interface{}) {
	for _, seg := range path[:len(path)-1] {
		next, ok := m[seg].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[seg] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
