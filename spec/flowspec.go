// Package spec defines the data model of the flow compiler: flow, topology
// and job specifications plus the job execution plan binding them together.
package spec

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/c360/flowcompiler/config"
	"github.com/c360/flowcompiler/errors"
)

// FlowSpec is a user-submitted pipeline declaration. It is immutable once
// submitted; the compiler reads it but never writes through it.
type FlowSpec struct {
	// URI uniquely identifies the flow, shaped /<group>/<name>.
	URI string
	// Config is the flow's declared configuration.
	Config *config.Config
	// Description is free-form text for humans.
	Description string
	// Version is the flow author's version tag.
	Version string
	// TemplateURIs is an optional ordered list of job template references.
	// The first element is authoritative for single-template resolution; a
	// multi-hop compiler consumes the whole list, one hop per entry.
	TemplateURIs []string

	execOnce sync.Once
	execID   int64
}

// NewFlowSpec constructs a FlowSpec with a copy of the given configuration,
// so later changes by the caller cannot leak into a submitted flow.
func NewFlowSpec(uri string, cfg *config.Config, description, version string, templateURIs ...string) *FlowSpec {
	return &FlowSpec{
		URI:          uri,
		Config:       cfg.Copy(),
		Description:  description,
		Version:      version,
		TemplateURIs: templateURIs,
	}
}

// Validate checks that the flow is structurally usable by a compiler.
func (f *FlowSpec) Validate() error {
	if f == nil {
		return errors.WrapInvalid(errors.ErrInvalidFlowSpec, "spec", "Validate", "flow spec is nil")
	}
	if f.URI == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: empty URI", errors.ErrInvalidFlowSpec),
			"spec", "Validate", "flow URI validation")
	}
	if !strings.HasPrefix(f.URI, "/") {
		return errors.WrapInvalid(
			fmt.Errorf("%w: URI %q must be path-shaped", errors.ErrInvalidFlowSpec, f.URI),
			"spec", "Validate", "flow URI validation")
	}
	segs := strings.Split(strings.Trim(f.URI, "/"), "/")
	if len(segs) < 2 || segs[0] == "" || segs[1] == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: URI %q must carry group and name segments", errors.ErrInvalidFlowSpec, f.URI),
			"spec", "Validate", "flow URI validation")
	}
	if f.Config == nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: nil configuration", errors.ErrInvalidFlowSpec),
			"spec", "Validate", "flow config validation")
	}
	for i, uri := range f.TemplateURIs {
		if uri == "" {
			return errors.WrapInvalid(
				fmt.Errorf("%w: empty template URI at index %d", errors.ErrInvalidFlowSpec, i),
				"spec", "Validate", "template URI validation")
		}
	}
	return nil
}

// ExecutionID returns the flow execution id for this compilation,
// get-or-create: the first call assigns it, every later call on the same
// FlowSpec instance returns the identical value. A flow author may pin the
// id by setting flow.executionId in the flow configuration.
func (f *FlowSpec) ExecutionID() int64 {
	f.execOnce.Do(func() {
		if pinned, ok := f.Config.Int64(KeyFlowExecutionID); ok {
			f.execID = pinned
			return
		}
		f.execID = time.Now().UnixMilli()
	})
	return f.execID
}
