package compiler

import (
	"context"
	"time"

	"github.com/c360/flowcompiler/dag"
	"github.com/c360/flowcompiler/spec"
)

// IdentityCompiler compiles a flow into a single job bound to one
// topology. Only the first template URI is honored; the job is named after
// the flow itself.
type IdentityCompiler struct {
	*base
}

// NewIdentityCompiler constructs an identity compiler with the given
// collaborators.
func NewIdentityCompiler(cfg Config) (*IdentityCompiler, error) {
	b, err := newBase("identity", cfg, IdentityURIGenerator)
	if err != nil {
		return nil, err
	}
	return &IdentityCompiler{base: b}, nil
}

// CompileFlow implements SpecCompiler.
func (c *IdentityCompiler) CompileFlow(
	ctx context.Context, flow *spec.FlowSpec) (*dag.Dag[spec.JobExecutionPlan], error) {
	start := time.Now()
	traceID := newTraceID()

	if err := flow.Validate(); err != nil {
		return c.finishCompile(flow, traceID, start, nil, err)
	}

	// One snapshot for the whole compile; registry mutations committed
	// after this point are invisible to this call.
	snapshot := c.registry.Snapshot()

	templateURI := ""
	if len(flow.TemplateURIs) > 0 {
		// Only the first template URI is honored for identity compilation.
		templateURI = flow.TemplateURIs[0]
	}

	job, err := c.builder.Build(ctx, flow, templateURI, c.naming(flow, nil))
	if err != nil {
		return c.finishCompile(flow, traceID, start, nil, err)
	}

	topology, err := c.selector(snapshot, job.Config)
	if err != nil {
		return c.finishCompile(flow, traceID, start, nil, err)
	}

	d := dag.New[spec.JobExecutionPlan]()
	d.AddNode(spec.JobExecutionPlan{Job: job, Topology: topology})
	return c.finishCompile(flow, traceID, start, d, nil)
}
