package compiler

import (
	"fmt"
	"strings"

	"github.com/c360/flowcompiler/spec"
)

// Hop identifies one stage of a multi-hop flow for URI generation.
type Hop struct {
	// Index is the hop's position in the flow's template list.
	Index int
	// TemplateURI is the template compiled for this hop, empty when none.
	TemplateURI string
	// Source and Target are the node identifiers the hop moves data
	// between, encoded into the hop qualifier of the job URI.
	Source string
	Target string
}

// URIGenerator derives the URI of a compiled job. Every policy must keep
// the positional naming contract: splitting the result on "/" yields the
// flow name at zero-based index two, because downstream state-store and
// log-monitoring components parse the name out of that position. hop is
// nil for single-hop compilation.
type URIGenerator func(flow *spec.FlowSpec, hop *Hop) string

// IdentityURIGenerator names the job after the flow itself. With flow URIs
// shaped /<group>/<name> the positional contract holds directly.
func IdentityURIGenerator(flow *spec.FlowSpec, _ *Hop) string {
	return flow.URI
}

// HopURIGenerator appends a source-target hop qualifier to the flow URI,
// e.g. /group1/flowA/source-azkaban01. The qualifier extends the path, so
// the flow name keeps its fixed position.
func HopURIGenerator(flow *spec.FlowSpec, hop *Hop) string {
	if hop == nil {
		return flow.URI
	}
	return fmt.Sprintf("%s/%s-%s", strings.TrimRight(flow.URI, "/"), hop.Source, hop.Target)
}
