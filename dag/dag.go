// Package dag provides a small generic directed acyclic graph used for
// compiled flow plans. Edges encode execution-order dependency: a child
// node must not start before its parent.
package dag

import (
	"fmt"

	"github.com/c360/flowcompiler/errors"
)

// Dag is a directed acyclic graph. It is not safe for concurrent mutation;
// a compiled plan is owned by a single compile call.
type Dag[T any] struct {
	nodes []*Node[T]
}

// Node is one vertex of the graph.
type Node[T any] struct {
	Value T

	owner    *Dag[T]
	parents  []*Node[T]
	children []*Node[T]
}

// Parents returns the node's upstream dependencies.
func (n *Node[T]) Parents() []*Node[T] { return n.parents }

// Children returns the node's downstream dependents.
func (n *Node[T]) Children() []*Node[T] { return n.children }

// New creates an empty DAG.
func New[T any]() *Dag[T] {
	return &Dag[T]{}
}

// AddNode appends a node carrying the given value and returns it.
func (d *Dag[T]) AddNode(value T) *Node[T] {
	node := &Node[T]{Value: value, owner: d}
	d.nodes = append(d.nodes, node)
	return node
}

// AddEdge records that "to" depends on "from". The edge is rejected if it
// would close a cycle or reference a node from another graph.
func (d *Dag[T]) AddEdge(from, to *Node[T]) error {
	if from == nil || to == nil || from.owner != d || to.owner != d {
		return errors.WrapInvalid(errors.ErrUnknownNode, "dag", "AddEdge", "edge endpoint check")
	}
	if from == to {
		return errors.WrapInvalid(
			fmt.Errorf("%w: self edge", errors.ErrCyclicDependency),
			"dag", "AddEdge", "cycle check")
	}
	if reachable(to, from) {
		return errors.WrapInvalid(errors.ErrCyclicDependency, "dag", "AddEdge", "cycle check")
	}
	from.children = append(from.children, to)
	to.parents = append(to.parents, from)
	return nil
}

// Nodes returns the graph's nodes in insertion order.
func (d *Dag[T]) Nodes() []*Node[T] {
	out := make([]*Node[T], len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Roots returns every node with no parents.
func (d *Dag[T]) Roots() []*Node[T] {
	var roots []*Node[T]
	for _, n := range d.nodes {
		if len(n.parents) == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// Len returns the number of nodes.
func (d *Dag[T]) Len() int { return len(d.nodes) }

// IsAcyclic reports whether the graph contains no cycle. Edges are only
// admitted through AddEdge, so this holds by construction; the check exists
// for validation of assembled plans.
func (d *Dag[T]) IsAcyclic() bool {
	_, err := d.TopologicalSort()
	return err == nil
}

// TopologicalSort returns the nodes in dependency order: every parent
// precedes all of its children. Ties keep insertion order, so the result is
// deterministic for identical graphs.
func (d *Dag[T]) TopologicalSort() ([]*Node[T], error) {
	indegree := make(map[*Node[T]]int, len(d.nodes))
	for _, n := range d.nodes {
		indegree[n] = len(n.parents)
	}

	var queue []*Node[T]
	for _, n := range d.nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*Node[T], 0, len(d.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, child := range n.children {
			indegree[child]--
			if indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(d.nodes) {
		return nil, errors.WrapInvalid(errors.ErrCyclicDependency, "dag", "TopologicalSort", "order check")
	}
	return order, nil
}

func reachable[T any](from, target *Node[T]) bool {
	if from == target {
		return true
	}
	for _, child := range from.children {
		if reachable(child, target) {
			return true
		}
	}
	return false
}
