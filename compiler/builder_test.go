package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/flowcompiler/config"
	"github.com/c360/flowcompiler/errors"
	"github.com/c360/flowcompiler/spec"
	"github.com/c360/flowcompiler/template"
)

func testFlow(t *testing.T, templateURIs ...string) *spec.FlowSpec {
	t.Helper()
	cfg := config.New().
		WithValue(spec.KeyFlowName, "flowA").
		WithValue(spec.KeyFlowGroup, "group1").
		WithValue(spec.KeyJobSchedule, "0 0 * * *")
	return spec.NewFlowSpec("/group1/flowA", cfg, "test flow", "1", templateURIs...)
}

func TestBuildWithoutTemplate(t *testing.T) {
	builder := NewJobSpecBuilder(nil, nil)
	flow := testFlow(t)

	job, err := builder.Build(context.Background(), flow, "", "/group1/flowA")
	require.NoError(t, err)

	// Flow config minus the schedule, plus injected identity fields
	assert.False(t, job.Config.Has(spec.KeyJobSchedule))

	name, _ := job.Config.String(spec.KeyJobName)
	assert.Equal(t, "flowA", name)
	group, _ := job.Config.String(spec.KeyJobGroup)
	assert.Equal(t, "group1", group)

	execID, ok := job.Config.Int64(spec.KeyFlowExecutionID)
	require.True(t, ok)
	assert.Equal(t, flow.ExecutionID(), execID)

	assert.Empty(t, job.TemplateURI)
	assert.Equal(t, "test flow", job.Description)
	assert.Equal(t, "1", job.Version)

	// The caller's flow config is untouched
	assert.True(t, flow.Config.Has(spec.KeyJobSchedule))
	assert.False(t, flow.Config.Has(spec.KeyJobName))
}

func TestBuildWithTemplateFlowOverridesWin(t *testing.T) {
	catalog := template.NewMemoryCatalog()
	catalog.Put(&template.JobTemplate{
		URI: "templates/ingest",
		Defaults: config.New().
			WithValue("writer.format", "avro").
			WithValue("writer.threads", 4).
			WithValue("source.class", "KafkaSource"),
	})

	builder := NewJobSpecBuilder(catalog, nil)

	cfg := config.New().
		WithValue(spec.KeyFlowName, "flowA").
		WithValue(spec.KeyFlowGroup, "group1").
		WithValue("writer.format", "orc")
	flow := spec.NewFlowSpec("/group1/flowA", cfg, "", "1", "templates/ingest")

	job, err := builder.Build(context.Background(), flow, "templates/ingest", "/group1/flowA")
	require.NoError(t, err)
	assert.Equal(t, "templates/ingest", job.TemplateURI)

	// Flow-supplied values win over template defaults on collision
	format, _ := job.Config.String("writer.format")
	assert.Equal(t, "orc", format)

	// Template defaults fill the gaps
	class, _ := job.Config.String("source.class")
	assert.Equal(t, "KafkaSource", class)
	threads, ok := job.Config.Int64("writer.threads")
	require.True(t, ok)
	assert.Equal(t, int64(4), threads)
}

func TestBuildTemplateResolutionFailureIsHard(t *testing.T) {
	builder := NewJobSpecBuilder(template.NewMemoryCatalog(), nil)
	flow := testFlow(t, "templates/missing")

	job, err := builder.Build(context.Background(), flow, "templates/missing", "/group1/flowA")
	require.Error(t, err)
	assert.Nil(t, job)
	assert.ErrorIs(t, err, errors.ErrTemplateNotFound)
	assert.Contains(t, err.Error(), "could not resolve template")
}

func TestBuildWithoutCatalogFallsBackUnresolved(t *testing.T) {
	// No catalog configured is configuration absence, not an error
	builder := NewJobSpecBuilder(nil, nil)
	flow := testFlow(t, "templates/ingest")

	job, err := builder.Build(context.Background(), flow, "templates/ingest", "/group1/flowA")
	require.NoError(t, err)
	assert.Empty(t, job.TemplateURI)
	name, _ := job.Config.String(spec.KeyJobName)
	assert.Equal(t, "flowA", name)
}

func TestPropertiesViewMatchesConfig(t *testing.T) {
	builder := NewJobSpecBuilder(nil, nil)
	flow := testFlow(t)

	job, err := builder.Build(context.Background(), flow, "", "/group1/flowA")
	require.NoError(t, err)

	// Properties is the flat view of the final config, regenerated last
	assert.Equal(t, job.Config.Flatten(), job.Properties)
	_, ok := job.Properties[spec.KeyJobSchedule]
	assert.False(t, ok)
	assert.Equal(t, "flowA", job.Properties[spec.KeyJobName])
}

func TestBuildSharesExecutionIDAcrossHops(t *testing.T) {
	builder := NewJobSpecBuilder(nil, nil)
	flow := testFlow(t)

	first, err := builder.Build(context.Background(), flow, "", "/group1/flowA/a-b")
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), flow, "", "/group1/flowA/b-c")
	require.NoError(t, err)

	firstID, _ := first.Config.Int64(spec.KeyFlowExecutionID)
	secondID, _ := second.Config.Int64(spec.KeyFlowExecutionID)
	assert.Equal(t, firstID, secondID)
}
