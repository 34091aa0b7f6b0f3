// Package compiler turns flow specifications into DAGs of job execution
// plans. Two strategies exist: the identity compiler emits one job per
// flow, the multi-hop compiler emits one job per template reference, wired
// into a linear dependency chain. Both share the same job spec builder,
// naming and topology selection policies, and instrumentation.
package compiler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360/flowcompiler/dag"
	"github.com/c360/flowcompiler/errors"
	"github.com/c360/flowcompiler/metric"
	"github.com/c360/flowcompiler/registry"
	"github.com/c360/flowcompiler/spec"
	"github.com/c360/flowcompiler/template"
)

// SpecCompiler compiles flow specifications into DAGs of job execution
// plans. A SpecCompiler is also a listener on topology spec-catalog
// changes: notifications mutate its registry without affecting an
// in-flight compile, which works against the snapshot it took at start.
type SpecCompiler interface {
	registry.Listener

	// CompileFlow compiles the flow against a point-in-time snapshot of
	// the topology registry. It either returns a complete DAG or an error;
	// a partial plan is never produced.
	CompileFlow(ctx context.Context, flow *spec.FlowSpec) (*dag.Dag[spec.JobExecutionPlan], error)
}

// Config carries the collaborators shared by all compiler strategies.
type Config struct {
	// Catalog resolves job templates. Optional: without a catalog, flows
	// compile unresolved from their own configuration.
	Catalog template.Catalog
	// CatalogRoot constructs a filesystem catalog at this path when
	// Catalog is nil. A root that cannot be read fails compiler
	// construction; the compiler must not come up half-configured.
	CatalogRoot string
	// Naming overrides the job URI generation policy. Each strategy
	// supplies its own default.
	Naming URIGenerator
	// Selector overrides the topology selection policy. Defaults to
	// CapabilitySelector.
	Selector TopologySelector
	// Logger receives structured compile logs. Defaults to slog.Default().
	Logger *slog.Logger
	// Metrics enables instrumentation when non-nil. Instrumentation is
	// observability only; disabling it never changes a compile outcome.
	Metrics *metric.MetricsRegistry
}

// base bundles the collaborators every compiler strategy shares and
// implements the topology spec-catalog listener role.
type base struct {
	name     string
	registry *registry.TopologyRegistry
	builder  *JobSpecBuilder
	naming   URIGenerator
	selector TopologySelector
	logger   *slog.Logger
	metrics  *compilerMetrics
}

func newBase(name string, cfg Config, defaultNaming URIGenerator) (*base, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	catalog := cfg.Catalog
	if catalog == nil && cfg.CatalogRoot != "" {
		fsCatalog, err := template.NewFSCatalog(cfg.CatalogRoot, logger)
		if err != nil {
			return nil, errors.Wrap(err, "compiler", "newBase", "construct template catalog")
		}
		catalog = fsCatalog
	}

	metrics, err := newCompilerMetrics(cfg.Metrics)
	if err != nil {
		return nil, errors.Wrap(err, "compiler", "newBase", "register metrics")
	}

	naming := cfg.Naming
	if naming == nil {
		naming = defaultNaming
	}
	selector := cfg.Selector
	if selector == nil {
		selector = CapabilitySelector
	}

	return &base{
		name:     name,
		registry: registry.NewTopologyRegistry(logger),
		builder:  NewJobSpecBuilder(catalog, logger),
		naming:   naming,
		selector: selector,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Registry exposes the compiler's topology registry for inspection.
func (b *base) Registry() *registry.TopologyRegistry {
	return b.registry
}

// OnAdd implements registry.Listener.
func (b *base) OnAdd(topology spec.TopologySpec) {
	b.registry.Add(topology)
	b.metrics.recordTopologyCount(b.registry.Len())
}

// OnUpdate implements registry.Listener.
func (b *base) OnUpdate(topology spec.TopologySpec) {
	b.registry.Update(topology)
	b.metrics.recordTopologyCount(b.registry.Len())
}

// OnDelete implements registry.Listener. headers is accepted per the
// notification contract but carries nothing the registry needs.
func (b *base) OnDelete(uri, version string, _ map[string]string) {
	b.registry.Remove(uri, version)
	b.metrics.recordTopologyCount(b.registry.Len())
}

// finishCompile closes out one compile attempt: records metrics, logs the
// outcome, and guarantees no partial DAG escapes on failure.
func (b *base) finishCompile(
	flow *spec.FlowSpec, traceID string, start time.Time,
	d *dag.Dag[spec.JobExecutionPlan], err error,
) (*dag.Dag[spec.JobExecutionPlan], error) {
	elapsed := time.Since(start)
	flowURI := ""
	if flow != nil {
		flowURI = flow.URI
	}
	if err != nil {
		b.metrics.recordCompile(b.name, false, elapsed.Seconds())
		b.logger.Error("Flow compilation failed",
			"compiler", b.name,
			"flow", flowURI,
			"trace_id", traceID,
			"elapsed", elapsed,
			"error", err)
		return nil, err
	}

	b.metrics.recordCompile(b.name, true, elapsed.Seconds())
	b.logger.Info("Flow compilation succeeded",
		"compiler", b.name,
		"flow", flowURI,
		"trace_id", traceID,
		"jobs", d.Len(),
		"elapsed", elapsed)
	return d, nil
}

// newTraceID tags one compile call's log lines with a shared correlation
// id.
func newTraceID() string {
	return uuid.NewString()
}
