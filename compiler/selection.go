package compiler

import (
	"fmt"
	"sort"

	"github.com/c360/flowcompiler/config"
	"github.com/c360/flowcompiler/errors"
	"github.com/c360/flowcompiler/spec"
)

// TopologySelector picks the topology that runs one job, given the compile
// call's registry snapshot and the job's effective configuration. A
// selector must be deterministic: identical snapshot and configuration
// always yield the same topology.
type TopologySelector func(snapshot map[string]spec.TopologySpec, jobConfig *config.Config) (spec.TopologySpec, error)

// CapabilitySelector is the default selection policy:
//
//  1. a job.topology pin selects that exact topology, failing if it is not
//     in the snapshot;
//  2. otherwise a job.requiredCapability restricts the candidates to
//     topologies advertising the capability, first by sorted URI;
//  3. otherwise the first topology by sorted URI wins.
func CapabilitySelector(snapshot map[string]spec.TopologySpec, jobConfig *config.Config) (spec.TopologySpec, error) {
	if len(snapshot) == 0 {
		return spec.TopologySpec{}, errors.WrapInvalid(
			fmt.Errorf("%w: registry snapshot is empty", errors.ErrNoEligibleTopology),
			"compiler", "CapabilitySelector", "topology selection")
	}

	if pinned, ok := jobConfig.String(spec.KeyJobTopology); ok {
		topology, found := snapshot[pinned]
		if !found {
			return spec.TopologySpec{}, errors.WrapInvalid(
				fmt.Errorf("%w: pinned topology %s not in snapshot", errors.ErrTopologyNotFound, pinned),
				"compiler", "CapabilitySelector", "topology selection")
		}
		return topology, nil
	}

	uris := make([]string, 0, len(snapshot))
	for uri := range snapshot {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	if capability, ok := jobConfig.String(spec.KeyJobRequiredCapability); ok {
		for _, uri := range uris {
			if snapshot[uri].HasCapability(capability) {
				return snapshot[uri], nil
			}
		}
		return spec.TopologySpec{}, errors.WrapInvalid(
			fmt.Errorf("%w: no topology advertises capability %q", errors.ErrNoEligibleTopology, capability),
			"compiler", "CapabilitySelector", "topology selection")
	}

	return snapshot[uris[0]], nil
}
