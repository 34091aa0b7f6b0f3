package spec

import (
	"fmt"
	"strings"

	"github.com/c360/flowcompiler/config"
	"github.com/c360/flowcompiler/errors"
)

// JobSpec is the compiled, executable description of one unit of work.
// Instances are produced by the compiler's job spec builder; once returned,
// the configuration is owned by the JobSpec and must not be mutated by
// other components.
type JobSpec struct {
	// URI identifies the job. Splitting it on "/" yields the flow name at
	// zero-based index two; downstream state-store and log-monitoring
	// components parse the job name out of that position.
	URI string
	// Config is the fully materialized job configuration: template defaults
	// deep-merged under flow overrides, schedule stripped, name, group and
	// execution id injected.
	Config *config.Config
	// Description is copied from the owning flow.
	Description string
	// Version is copied from the owning flow.
	Version string
	// TemplateURI references the template the configuration was resolved
	// against, empty when the flow bypassed templates.
	TemplateURI string
	// Properties is the flat view of Config, re-derived whenever the
	// configuration is finalized. The two representations stay consistent
	// because Properties is always regenerated last, never maintained on
	// its own.
	Properties map[string]string
}

// JobNameFromURI extracts the flow name encoded at the fixed position of a
// job URI. External consumers parse the name positionally, so the contract
// is validated here rather than assumed.
func JobNameFromURI(uri string) (string, error) {
	segs := strings.Split(uri, "/")
	if len(segs) < 3 || segs[2] == "" {
		return "", errors.WrapInvalid(
			fmt.Errorf("job URI %q lacks a name at path segment three", uri),
			"spec", "JobNameFromURI", "positional parse")
	}
	return segs[2], nil
}

// JobGroupFromURI extracts the flow group encoded at path segment two of a
// job URI.
func JobGroupFromURI(uri string) (string, error) {
	segs := strings.Split(uri, "/")
	if len(segs) < 2 || segs[1] == "" {
		return "", errors.WrapInvalid(
			fmt.Errorf("job URI %q lacks a group at path segment two", uri),
			"spec", "JobGroupFromURI", "positional parse")
	}
	return segs[1], nil
}
