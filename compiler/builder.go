package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/c360/flowcompiler/errors"
	"github.com/c360/flowcompiler/spec"
	"github.com/c360/flowcompiler/template"
)

// JobSpecBuilder materializes one JobSpec per hop of a flow. The whole
// build runs as a single deterministic pass: resolve, merge, strip the
// schedule, inject identity fields, then regenerate the flat properties
// view last so the two representations never drift apart.
type JobSpecBuilder struct {
	catalog template.Catalog
	logger  *slog.Logger
}

// NewJobSpecBuilder creates a builder. catalog may be nil, in which case
// every job compiles unresolved from the flow configuration alone.
func NewJobSpecBuilder(catalog template.Catalog, logger *slog.Logger) *JobSpecBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobSpecBuilder{catalog: catalog, logger: logger}
}

// Build produces the job spec for one hop of the flow, resolving
// templateURI against the catalog when both are present. A resolution
// failure is hard: the job must never silently fall back to an unresolved
// configuration, because execution would then differ from what the flow
// author intended.
func (b *JobSpecBuilder) Build(
	ctx context.Context, flow *spec.FlowSpec, templateURI, jobURI string) (*spec.JobSpec, error) {
	var tmpl *template.JobTemplate
	if templateURI != "" && b.catalog != nil {
		resolved, err := b.catalog.Resolve(ctx, templateURI)
		if err != nil {
			return nil, errors.Wrap(err, "JobSpecBuilder", "Build",
				fmt.Sprintf("could not resolve template %s", templateURI))
		}
		tmpl = resolved
	}
	return b.BuildResolved(flow, tmpl, jobURI), nil
}

// BuildResolved assembles the job spec from an already resolved template.
// tmpl may be nil for flows that bypass templates; that path is logged
// explicitly since it means the flow is not using reusable templates.
func (b *JobSpecBuilder) BuildResolved(
	flow *spec.FlowSpec, tmpl *template.JobTemplate, jobURI string) *spec.JobSpec {
	cfg := flow.Config
	templateURI := ""
	if tmpl != nil {
		templateURI = tmpl.URI
		cfg = tmpl.Defaults.Merge(flow.Config)
		b.logger.Info("Resolved job spec",
			"job", jobURI,
			"template", templateURI,
			"properties", len(cfg.Paths()))
	} else {
		b.logger.Info("Building unresolved job spec, flow bypasses templates",
			"flow", flow.URI,
			"job", jobURI,
			"properties", len(cfg.Paths()))
	}

	// One transformation pass over the merged configuration. The schedule
	// stays flow-level only: a compiled job must never self-schedule.
	cfg = cfg.WithoutPath(spec.KeyJobSchedule)
	if name, ok := flow.Config.Get(spec.KeyFlowName); ok {
		cfg = cfg.WithValue(spec.KeyJobName, name)
	}
	if group, ok := flow.Config.Get(spec.KeyFlowGroup); ok {
		cfg = cfg.WithValue(spec.KeyJobGroup, group)
	}
	cfg = cfg.WithValue(spec.KeyFlowExecutionID, flow.ExecutionID())

	return &spec.JobSpec{
		URI:         jobURI,
		Config:      cfg,
		Description: flow.Description,
		Version:     flow.Version,
		TemplateURI: templateURI,
		Properties:  cfg.Flatten(),
	}
}
