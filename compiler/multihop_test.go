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

func newMultiHop(t *testing.T, cfg Config) *MultiHopCompiler {
	t.Helper()
	c, err := NewMultiHopCompiler(cfg)
	require.NoError(t, err)
	return c
}

func multiHopCatalog(t *testing.T) *template.MemoryCatalog {
	t.Helper()
	catalog := template.NewMemoryCatalog()
	catalog.Put(&template.JobTemplate{
		URI: "templates/extract",
		Defaults: config.New().
			WithValue(spec.KeyJobRequiredCapability, "batch").
			WithValue("source.class", "KafkaSource"),
	})
	catalog.Put(&template.JobTemplate{
		URI: "templates/load",
		Defaults: config.New().
			WithValue(spec.KeyJobRequiredCapability, "warehouse").
			WithValue("writer.format", "orc"),
	})
	return catalog
}

func TestMultiHopCompilesChain(t *testing.T) {
	c := newMultiHop(t, Config{Catalog: multiHopCatalog(t)})
	c.OnAdd(testTopology("/topologies/hadoop01", "batch"))
	c.OnAdd(testTopology("/topologies/warehouse01", "warehouse"))

	flow := testFlow(t, "templates/extract", "templates/load")
	d, err := c.CompileFlow(context.Background(), flow)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())
	assert.True(t, d.IsAcyclic())

	order, err := d.TopologicalSort()
	require.NoError(t, err)

	first := order[0].Value
	second := order[1].Value

	// Hops route by capability
	assert.Equal(t, "/topologies/hadoop01", first.Topology.URI)
	assert.Equal(t, "/topologies/warehouse01", second.Topology.URI)

	// Hop qualifiers encode the source and target nodes
	assert.Equal(t, "/group1/flowA/source-hadoop01", first.Job.URI)
	assert.Equal(t, "/group1/flowA/hadoop01-warehouse01", second.Job.URI)

	// The positional naming contract holds for every hop
	for _, node := range d.Nodes() {
		name, err := spec.JobNameFromURI(node.Value.Job.URI)
		require.NoError(t, err)
		assert.Equal(t, "flowA", name)
	}

	// Exactly one root, chain edges in place
	roots := d.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, first.Job.URI, roots[0].Value.Job.URI)
	require.Len(t, roots[0].Children(), 1)
	assert.Equal(t, second.Job.URI, roots[0].Children()[0].Value.Job.URI)
}

func TestMultiHopSharesOneExecutionID(t *testing.T) {
	c := newMultiHop(t, Config{Catalog: multiHopCatalog(t)})
	c.OnAdd(testTopology("/topologies/hadoop01", "batch"))
	c.OnAdd(testTopology("/topologies/warehouse01", "warehouse"))

	flow := testFlow(t, "templates/extract", "templates/load")
	d, err := c.CompileFlow(context.Background(), flow)
	require.NoError(t, err)

	ids := make(map[int64]struct{})
	for _, node := range d.Nodes() {
		id, ok := node.Value.Job.Config.Int64(spec.KeyFlowExecutionID)
		require.True(t, ok)
		ids[id] = struct{}{}
	}
	assert.Len(t, ids, 1)
}

func TestMultiHopFailsWholeCompileOnMissingTemplate(t *testing.T) {
	catalog := template.NewMemoryCatalog()
	catalog.Put(&template.JobTemplate{
		URI:      "templates/extract",
		Defaults: config.New().WithValue("source.class", "KafkaSource"),
	})

	c := newMultiHop(t, Config{Catalog: catalog})
	c.OnAdd(testTopology("/topologies/a"))

	flow := testFlow(t, "templates/extract", "templates/missing")
	d, err := c.CompileFlow(context.Background(), flow)
	require.Error(t, err)
	assert.Nil(t, d, "no partial DAG may escape a failed compile")
	assert.ErrorIs(t, err, errors.ErrTemplateNotFound)
}

func TestMultiHopRoutingFailureAbortsCompile(t *testing.T) {
	c := newMultiHop(t, Config{Catalog: multiHopCatalog(t)})
	// Only the batch topology exists; the warehouse hop cannot route
	c.OnAdd(testTopology("/topologies/hadoop01", "batch"))

	flow := testFlow(t, "templates/extract", "templates/load")
	d, err := c.CompileFlow(context.Background(), flow)
	require.Error(t, err)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, errors.ErrNoEligibleTopology)
}

func TestMultiHopWithoutTemplatesCompilesSingleHop(t *testing.T) {
	c := newMultiHop(t, Config{})
	c.OnAdd(testTopology("/topologies/a"))

	flow := testFlow(t)
	d, err := c.CompileFlow(context.Background(), flow)
	require.NoError(t, err)
	require.Equal(t, 1, d.Len())

	job := d.Nodes()[0].Value.Job
	assert.Equal(t, "/group1/flowA/source-a", job.URI)
	assert.Empty(t, job.TemplateURI)
}

func TestMultiHopDeclaredSourceNode(t *testing.T) {
	c := newMultiHop(t, Config{})
	c.OnAdd(testTopology("/topologies/a"))

	cfg := config.New().
		WithValue(spec.KeyFlowName, "flowA").
		WithValue(spec.KeyFlowGroup, "group1").
		WithValue(spec.KeyFlowSource, "edge-dc")
	flow := spec.NewFlowSpec("/group1/flowA", cfg, "", "1")

	d, err := c.CompileFlow(context.Background(), flow)
	require.NoError(t, err)
	assert.Equal(t, "/group1/flowA/edge-dc-a", d.Nodes()[0].Value.Job.URI)
}

func TestMultiHopRecompileIsDeterministic(t *testing.T) {
	build := func() []string {
		c := newMultiHop(t, Config{Catalog: multiHopCatalog(t)})
		c.OnAdd(testTopology("/topologies/warehouse01", "warehouse"))
		c.OnAdd(testTopology("/topologies/hadoop01", "batch"))
		c.OnAdd(testTopology("/topologies/hadoop02", "batch"))

		flow := testFlow(t, "templates/extract", "templates/load")
		d, err := c.CompileFlow(context.Background(), flow)
		require.NoError(t, err)

		var uris []string
		for _, node := range d.Nodes() {
			uris = append(uris, node.Value.Job.URI, node.Value.Topology.URI)
		}
		return uris
	}

	assert.Equal(t, build(), build())
}
