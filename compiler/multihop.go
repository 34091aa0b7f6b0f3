package compiler

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/flowcompiler/dag"
	"github.com/c360/flowcompiler/errors"
	"github.com/c360/flowcompiler/spec"
	"github.com/c360/flowcompiler/template"
)

// defaultSourceNode names the logical origin of a multi-hop flow when the
// flow configuration does not declare one.
const defaultSourceNode = "source"

// MultiHopCompiler compiles a flow with N template references into a chain
// of N jobs, one per hop, each bound to its own topology. Hop i+1 depends
// on hop i; the executing runtime must not start a hop before its upstream
// hop's plan is scheduled.
type MultiHopCompiler struct {
	*base
}

// NewMultiHopCompiler constructs a multi-hop compiler with the given
// collaborators.
func NewMultiHopCompiler(cfg Config) (*MultiHopCompiler, error) {
	b, err := newBase("multihop", cfg, HopURIGenerator)
	if err != nil {
		return nil, err
	}
	return &MultiHopCompiler{base: b}, nil
}

// CompileFlow implements SpecCompiler. Any hop failing to build fails the
// whole compilation; a partial chain never reaches the runtime.
func (c *MultiHopCompiler) CompileFlow(
	ctx context.Context, flow *spec.FlowSpec) (*dag.Dag[spec.JobExecutionPlan], error) {
	start := time.Now()
	traceID := newTraceID()

	if err := flow.Validate(); err != nil {
		return c.finishCompile(flow, traceID, start, nil, err)
	}

	snapshot := c.registry.Snapshot()

	templateURIs := flow.TemplateURIs
	if len(templateURIs) == 0 {
		// A flow without templates still compiles: one unresolved hop.
		templateURIs = []string{""}
	}

	templates, err := c.resolveTemplates(ctx, templateURIs)
	if err != nil {
		return c.finishCompile(flow, traceID, start, nil, err)
	}

	d := dag.New[spec.JobExecutionPlan]()
	source := defaultSourceNode
	if declared, ok := flow.Config.String(spec.KeyFlowSource); ok {
		source = declared
	}

	var prev *dag.Node[spec.JobExecutionPlan]
	for i, templateURI := range templateURIs {
		tmpl := templates[i]

		// Routing sees the merged view so template-declared pins and
		// capability requirements participate in selection.
		routeCfg := flow.Config
		if tmpl != nil {
			routeCfg = tmpl.Defaults.Merge(flow.Config)
		}
		topology, err := c.selector(snapshot, routeCfg)
		if err != nil {
			return c.finishCompile(flow, traceID, start, nil,
				errors.Wrap(err, "MultiHopCompiler", "CompileFlow", fmt.Sprintf("route hop %d", i)))
		}

		hop := &Hop{
			Index:       i,
			TemplateURI: templateURI,
			Source:      source,
			Target:      topology.Name(),
		}
		job := c.builder.BuildResolved(flow, tmpl, c.naming(flow, hop))

		node := d.AddNode(spec.JobExecutionPlan{Job: job, Topology: topology})
		if prev != nil {
			if err := d.AddEdge(prev, node); err != nil {
				return c.finishCompile(flow, traceID, start, nil,
					errors.Wrap(err, "MultiHopCompiler", "CompileFlow", fmt.Sprintf("chain hop %d", i)))
			}
		}
		prev = node
		source = topology.Name()
	}

	return c.finishCompile(flow, traceID, start, d, nil)
}

// resolveTemplates fetches every hop's template. Resolution is the only
// potentially blocking call in a compile; hops resolve concurrently and
// the first failure aborts the whole batch. No registry lock is held here.
func (c *MultiHopCompiler) resolveTemplates(
	ctx context.Context, templateURIs []string) ([]*template.JobTemplate, error) {
	templates := make([]*template.JobTemplate, len(templateURIs))
	if c.builder.catalog == nil {
		return templates, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, uri := range templateURIs {
		if uri == "" {
			continue
		}
		i, uri := i, uri
		g.Go(func() error {
			tmpl, err := c.builder.catalog.Resolve(gctx, uri)
			if err != nil {
				return errors.Wrap(err, "MultiHopCompiler", "resolveTemplates",
					fmt.Sprintf("could not resolve template %s", uri))
			}
			templates[i] = tmpl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return templates, nil
}
