package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathLookup(t *testing.T) {
	c := New().
		WithValue("flow.name", "flowA").
		WithValue("flow.group", "group1").
		WithValue("job.schedule", "0 0 * * *")

	name, ok := c.String("flow.name")
	require.True(t, ok)
	assert.Equal(t, "flowA", name)

	assert.True(t, c.Has("job.schedule"))
	assert.False(t, c.Has("job.name"))
	assert.False(t, c.Has("flow.name.extra"))

	// Intermediate scopes resolve to nested configs
	v, ok := c.Get("flow")
	require.True(t, ok)
	nested, ok := v.(*Config)
	require.True(t, ok)
	group, ok := nested.String("group")
	require.True(t, ok)
	assert.Equal(t, "group1", group)
}

func TestDeclarationOrder(t *testing.T) {
	c := New().
		WithValue("b.second", 2).
		WithValue("a.first", 1).
		WithValue("b.third", 3)

	assert.Equal(t, []string{"b.second", "b.third", "a.first"}, c.Paths())
}

func TestWithValueDoesNotMutateOriginal(t *testing.T) {
	base := New().WithValue("flow.name", "original")
	modified := base.WithValue("flow.name", "changed").WithValue("extra", true)

	name, _ := base.String("flow.name")
	assert.Equal(t, "original", name)
	assert.False(t, base.Has("extra"))

	name, _ = modified.String("flow.name")
	assert.Equal(t, "changed", name)
}

func TestWithoutPath(t *testing.T) {
	c := New().
		WithValue("job.schedule", "0 0 * * *").
		WithValue("job.name", "flowA")

	stripped := c.WithoutPath("job.schedule")
	assert.False(t, stripped.Has("job.schedule"))
	assert.True(t, stripped.Has("job.name"))

	// Original untouched
	assert.True(t, c.Has("job.schedule"))

	// Absent path is a no-op
	same := c.WithoutPath("does.not.exist")
	assert.True(t, c.Equal(same))
}

func TestMergeOverrideWins(t *testing.T) {
	defaults := New().
		WithValue("source.class", "DefaultSource").
		WithValue("writer.format", "avro").
		WithValue("writer.threads", 4)

	overrides := New().
		WithValue("writer.format", "orc").
		WithValue("flow.name", "flowA")

	merged := defaults.Merge(overrides)

	format, _ := merged.String("writer.format")
	assert.Equal(t, "orc", format)

	class, _ := merged.String("source.class")
	assert.Equal(t, "DefaultSource", class)

	threads, ok := merged.Int64("writer.threads")
	require.True(t, ok)
	assert.Equal(t, int64(4), threads)

	assert.True(t, merged.Has("flow.name"))

	// Neither input is mutated
	assert.False(t, defaults.Has("flow.name"))
	fmtVal, _ := overrides.String("writer.format")
	assert.Equal(t, "orc", fmtVal)
}

func TestMergeScalarReplacesScope(t *testing.T) {
	defaults := New().WithValue("writer.format", "avro")
	overrides := New().WithValue("writer", "disabled")

	merged := defaults.Merge(overrides)
	v, ok := merged.String("writer")
	require.True(t, ok)
	assert.Equal(t, "disabled", v)
	assert.False(t, merged.Has("writer.format"))
}

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]any{
		"flow.name": "flowA",
		"writer": map[string]any{
			"format": "avro",
		},
	})

	name, _ := c.String("flow.name")
	assert.Equal(t, "flowA", name)
	formatVal, _ := c.String("writer.format")
	assert.Equal(t, "avro", formatVal)
}

func TestFlatten(t *testing.T) {
	c := New().
		WithValue("flow.name", "flowA").
		WithValue("writer.threads", 4).
		WithValue("writer.dryRun", false)

	props := c.Flatten()
	assert.Equal(t, map[string]string{
		"flow.name":      "flowA",
		"writer.threads": "4",
		"writer.dryRun":  "false",
	}, props)
}

func TestInt64Coercion(t *testing.T) {
	c := New().
		WithValue("a", 7).
		WithValue("b", int64(8)).
		WithValue("c", "9").
		WithValue("d", 10.0).
		WithValue("e", "not a number")

	for path, want := range map[string]int64{"a": 7, "b": 8, "c": 9, "d": 10} {
		got, ok := c.Int64(path)
		require.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := c.Int64("e")
	assert.False(t, ok)
}

func TestStringSlice(t *testing.T) {
	c := New().
		WithValue("a", []string{"x", "y"}).
		WithValue("b", []any{"x", "y"}).
		WithValue("c", "x, y ,z").
		WithValue("d", 3)

	for _, path := range []string{"a", "b"} {
		got, ok := c.StringSlice(path)
		require.True(t, ok, path)
		assert.Equal(t, []string{"x", "y"}, got, path)
	}

	got, ok := c.StringSlice("c")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, got)

	_, ok = c.StringSlice("d")
	assert.False(t, ok)
}

func TestHelpers(t *testing.T) {
	doc := map[string]any{
		"description": "nightly ingest",
		"defaults":    map[string]any{"writer.format": "avro"},
		"enabled":     true,
	}

	assert.Equal(t, "nightly ingest", GetString(doc, "description", ""))
	assert.Equal(t, "fallback", GetString(doc, "missing", "fallback"))
	assert.Equal(t, "fallback", GetString(doc, "enabled", "fallback"))

	m, ok := GetMap(doc, "defaults")
	require.True(t, ok)
	assert.Equal(t, "avro", m["writer.format"])

	_, ok = GetMap(doc, "description")
	assert.False(t, ok)

	assert.True(t, GetBool(doc, "enabled", false))
	assert.False(t, GetBool(doc, "missing", false))
}
