// Package registry owns the live set of known execution topologies. The
// registry is fed by spec-catalog change notifications and read by compile
// calls through point-in-time snapshots. Mutations are serialized; a
// snapshot already handed out is never affected by a later mutation.
package registry

import (
	"log/slog"
	"maps"
	"sync"

	"github.com/c360/flowcompiler/spec"
)

// Listener receives spec-catalog change notifications for topology specs.
// The headers bag on delete is accepted for forward compatibility; current
// registry logic ignores it.
type Listener interface {
	OnAdd(topology spec.TopologySpec)
	OnUpdate(topology spec.TopologySpec)
	OnDelete(uri, version string, headers map[string]string)
}

// TopologyRegistry maintains the URI to TopologySpec mapping. It is safe
// for concurrent use from multiple notification sources and compile calls.
type TopologyRegistry struct {
	mu         sync.RWMutex
	topologies map[string]spec.TopologySpec
	logger     *slog.Logger
}

// NewTopologyRegistry creates an empty registry.
func NewTopologyRegistry(logger *slog.Logger) *TopologyRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &TopologyRegistry{
		topologies: make(map[string]spec.TopologySpec),
		logger:     logger,
	}
}

// Add inserts or overwrites the entry for the topology's URI. Re-adding an
// existing URI is idempotent overwrite, never an error. The full topology
// configuration is logged for observability.
func (r *TopologyRegistry) Add(topology spec.TopologySpec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Info("Loading topology", "uri", topology.URI)
	props := topology.Config.Flatten()
	for _, path := range topology.Config.Paths() {
		r.logger.Info("Topology configuration", "uri", topology.URI, "key", path, "value", props[path])
	}

	r.topologies[topology.URI] = topology
}

// Update overwrites the entry for the topology's URI. Behavior matches Add;
// the operation stays distinct to preserve the notification taxonomy.
func (r *TopologyRegistry) Update(topology spec.TopologySpec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Info("Updating topology", "uri", topology.URI)
	r.topologies[topology.URI] = topology
}

// Remove deletes the entry for the given URI. Removing an absent entry is a
// silent no-op.
func (r *TopologyRegistry) Remove(uri, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.topologies[uri]; !ok {
		return
	}
	r.logger.Info("Removing topology", "uri", uri, "version", version)
	delete(r.topologies, uri)
}

// Snapshot returns a point-in-time copy of the URI to TopologySpec view.
// The caller owns the returned map; later registry mutations do not show
// through, and mutating the copy does not touch the registry.
func (r *TopologyRegistry) Snapshot() map[string]spec.TopologySpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.topologies)
}

// Get returns the topology registered under uri.
func (r *TopologyRegistry) Get(uri string) (spec.TopologySpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.topologies[uri]
	return t, ok
}

// Len returns the number of registered topologies.
func (r *TopologyRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topologies)
}
