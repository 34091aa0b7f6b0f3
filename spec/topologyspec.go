package spec

import (
	"strings"

	"github.com/c360/flowcompiler/config"
)

// TopologySpec declares one execution environment capable of running
// compiled jobs. Instances enter and leave the system only through topology
// registry notifications; the compiler treats them as read-only.
type TopologySpec struct {
	// URI uniquely identifies the topology and keys the registry.
	URI string
	// Config holds connection and execution parameters for the environment.
	Config *config.Config
}

// Name returns the topology's short name, the last URI path segment.
func (t TopologySpec) Name() string {
	trimmed := strings.Trim(t.URI, "/")
	if trimmed == "" {
		return ""
	}
	segs := strings.Split(trimmed, "/")
	return segs[len(segs)-1]
}

// Capabilities returns the capability tags the topology advertises.
func (t TopologySpec) Capabilities() []string {
	caps, _ := t.Config.StringSlice(KeyTopologyCapabilities)
	return caps
}

// HasCapability reports whether the topology advertises the named
// capability.
func (t TopologySpec) HasCapability(capability string) bool {
	for _, c := range t.Capabilities() {
		if c == capability {
			return true
		}
	}
	return false
}
