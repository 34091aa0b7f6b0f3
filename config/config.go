// Package config provides the ordered, nested key-value configuration model
// shared by flow, topology and job specifications.
//
// A Config is a tree of scopes. Keys are unique within a scope and keep
// their declaration order. Values are addressed by dotted paths, e.g.
// "flow.name" names the "name" key inside the "flow" scope. All mutating
// operations return a modified copy; a Config held by a caller is never
// changed underneath it.
package config

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Config is an ordered, nested key-value configuration scope.
// The zero value is not usable; construct with New or FromMap.
type Config struct {
	keys   []string
	values map[string]any
}

// New returns an empty configuration.
func New() *Config {
	return &Config{values: make(map[string]any)}
}

// FromMap builds a configuration from a plain map. Dotted keys and nested
// maps both produce nested scopes. Map iteration order is undefined, so
// keys are inserted in sorted order to keep the result deterministic.
func FromMap(m map[string]any) *Config {
	c := New()
	for _, k := range sortedKeys(m) {
		c.set(k, m[k])
	}
	return c
}

// Has reports whether a value exists at the given dotted path.
func (c *Config) Has(path string) bool {
	_, ok := c.Get(path)
	return ok
}

// Get returns the value at the given dotted path. A nested scope is
// returned as a *Config.
func (c *Config) Get(path string) (any, bool) {
	if c == nil || path == "" {
		return nil, false
	}
	segs := strings.Split(path, ".")
	cur := c
	for i, s := range segs {
		v, ok := cur.values[s]
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		nested, ok := v.(*Config)
		if !ok {
			return nil, false
		}
		cur = nested
	}
	return nil, false
}

// String returns the string value at path. Non-string scalars are not
// coerced.
func (c *Config) String(path string) (string, bool) {
	v, ok := c.Get(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int64 returns the integer value at path, coercing common numeric
// representations including decimal strings.
func (c *Config) Int64(path string) (int64, bool) {
	v, ok := c.Get(path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// StringSlice returns the list value at path. Accepts []string, []any with
// string elements, and comma-separated strings.
func (c *Config) StringSlice(path string) ([]string, bool) {
	v, ok := c.Get(path)
	if !ok {
		return nil, false
	}
	switch list := v.(type) {
	case []string:
		return slices.Clone(list), true
	case []any:
		out := make([]string, 0, len(list))
		for _, e := range list {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		parts := strings.Split(list, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, true
	}
	return nil, false
}

// WithValue returns a copy of the configuration with the value set at the
// given dotted path. Intermediate scopes are created as needed; setting a
// path through an existing scalar replaces the scalar with a scope.
func (c *Config) WithValue(path string, v any) *Config {
	nc := c.copy()
	nc.set(path, v)
	return nc
}

// WithoutPath returns a copy of the configuration with the value at the
// given dotted path removed. Removing an absent path is a no-op.
func (c *Config) WithoutPath(path string) *Config {
	nc := c.copy()
	if path == "" {
		return nc
	}
	segs := strings.Split(path, ".")
	cur := nc
	for _, s := range segs[:len(segs)-1] {
		nested, ok := cur.values[s].(*Config)
		if !ok {
			return nc
		}
		cur = nested
	}
	last := segs[len(segs)-1]
	if _, ok := cur.values[last]; !ok {
		return nc
	}
	delete(cur.values, last)
	cur.keys = slices.DeleteFunc(cur.keys, func(k string) bool { return k == last })
	return nc
}

// Merge returns the deep merge of the receiver and override, with override
// values winning on key collision. Scopes merge recursively; a scalar on
// either side replaces a scope on the other. Base keys keep their order,
// new override keys append in override order.
func (c *Config) Merge(override *Config) *Config {
	res := c.copy()
	if override == nil {
		return res
	}
	res.mergeFrom(override)
	return res
}

// Paths returns every leaf path in declaration order.
func (c *Config) Paths() []string {
	if c == nil {
		return nil
	}
	var out []string
	c.walk("", func(path string, _ any) {
		out = append(out, path)
	})
	return out
}

// Flatten returns the flat properties view of the configuration: every leaf
// path mapped to the string form of its value.
func (c *Config) Flatten() map[string]string {
	out := make(map[string]string)
	if c == nil {
		return out
	}
	c.walk("", func(path string, v any) {
		if s, ok := v.(string); ok {
			out[path] = s
			return
		}
		out[path] = fmt.Sprintf("%v", v)
	})
	return out
}

// Equal reports whether two configurations hold the same leaf values,
// ignoring declaration order.
func (c *Config) Equal(other *Config) bool {
	return maps.Equal(c.Flatten(), other.Flatten())
}

// Copy returns a deep copy of the configuration.
func (c *Config) Copy() *Config {
	return c.copy()
}

func (c *Config) copy() *Config {
	if c == nil {
		return New()
	}
	nc := &Config{
		keys:   slices.Clone(c.keys),
		values: make(map[string]any, len(c.values)),
	}
	for k, v := range c.values {
		if nested, ok := v.(*Config); ok {
			nc.values[k] = nested.copy()
			continue
		}
		nc.values[k] = v
	}
	return nc
}

func (c *Config) set(path string, v any) {
	segs := strings.Split(path, ".")
	cur := c
	for _, s := range segs[:len(segs)-1] {
		next, ok := cur.values[s].(*Config)
		if !ok {
			next = New()
			if _, exists := cur.values[s]; !exists {
				cur.keys = append(cur.keys, s)
			}
			cur.values[s] = next
		}
		cur = next
	}
	last := segs[len(segs)-1]
	if _, exists := cur.values[last]; !exists {
		cur.keys = append(cur.keys, last)
	}
	cur.values[last] = normalize(v)
}

func (c *Config) mergeFrom(src *Config) {
	for _, k := range src.keys {
		sv := src.values[k]
		sNested, srcIsScope := sv.(*Config)
		dNested, dstIsScope := c.values[k].(*Config)
		if srcIsScope && dstIsScope {
			dNested.mergeFrom(sNested)
			continue
		}
		if _, exists := c.values[k]; !exists {
			c.keys = append(c.keys, k)
		}
		if srcIsScope {
			c.values[k] = sNested.copy()
			continue
		}
		c.values[k] = sv
	}
}

func (c *Config) walk(prefix string, fn func(path string, v any)) {
	for _, k := range c.keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := c.values[k].(*Config); ok {
			nested.walk(path, fn)
			continue
		}
		fn(path, c.values[k])
	}
}

func normalize(v any) any {
	switch m := v.(type) {
	case map[string]any:
		nested := New()
		for _, k := range sortedKeys(m) {
			nested.set(k, m[k])
		}
		return nested
	case *Config:
		return m.copy()
	}
	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
