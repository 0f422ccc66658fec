package dag

import (
	"fmt"
	"sort"

	"github.com/vk/monoplan/internal/action"
)

// newGraph creates and returns an initialized, empty Graph.
func newGraph() *Graph {
	return &Graph{
		index:   make(map[string]NodeIndex),
		edgeSet: make(map[Edge]struct{}),
	}
}

// addNode inserts n unless a node with the same key already exists. It
// returns the index of the node and whether it was newly created.
func (g *Graph) addNode(n action.Node) (NodeIndex, bool) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	key := n.Key()
	if idx, ok := g.index[key]; ok {
		return idx, false
	}

	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.index[key] = idx
	g.deps = append(g.deps, nil)
	g.dependents = append(g.dependents, nil)
	return idx, true
}

// addEdge creates a directed edge from the `from` node to the `to` node.
// This signifies that `to` has a dependency on `from`. Adding an existing
// edge is a no-op. An error is returned if either node does not exist or if
// the edge would create a self-reference.
func (g *Graph) addEdge(from, to NodeIndex) error {
	if from == to {
		return fmt.Errorf("self-referential edge not allowed: %d -> %d", from, to)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if !g.has(from) {
		return fmt.Errorf("source node not found: %d", from)
	}
	if !g.has(to) {
		return fmt.Errorf("destination node not found: %d", to)
	}

	e := Edge{From: from, To: to}
	if _, ok := g.edgeSet[e]; ok {
		return nil
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.deps[to] = append(g.deps[to], from)
	g.dependents[from] = append(g.dependents[from], to)
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Node returns the node at idx.
func (g *Graph) Node(idx NodeIndex) (action.Node, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	if !g.has(idx) {
		return nil, false
	}
	return g.nodes[idx], true
}

// Nodes returns every node in index order.
func (g *Graph) Nodes() []action.Node {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	out := make([]action.Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []Edge {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Lookup returns the index of the node with the given key.
func (g *Graph) Lookup(key string) (NodeIndex, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	idx, ok := g.index[key]
	return idx, ok
}

// Dependencies returns the nodes that idx depends on, in index order.
func (g *Graph) Dependencies(idx NodeIndex) ([]NodeIndex, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	if !g.has(idx) {
		return nil, fmt.Errorf("node not found: %d", idx)
	}
	return sortedCopy(g.deps[idx]), nil
}

// Dependents returns the nodes that depend on idx, in index order.
func (g *Graph) Dependents(idx NodeIndex) ([]NodeIndex, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	if !g.has(idx) {
		return nil, fmt.Errorf("node not found: %d", idx)
	}
	return sortedCopy(g.dependents[idx]), nil
}

func (g *Graph) has(idx NodeIndex) bool {
	return idx >= 0 && int(idx) < len(g.nodes)
}

func (g *Graph) mark() mark {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return mark{nodes: len(g.nodes), edges: len(g.edges)}
}

// rollback discards every node and edge added after m. Adjacency lists are
// appended in edge order, so the discarded edges are always their tails.
func (g *Graph) rollback(m mark) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	for i := len(g.edges) - 1; i >= m.edges; i-- {
		e := g.edges[i]
		delete(g.edgeSet, e)
		g.deps[e.To] = g.deps[e.To][:len(g.deps[e.To])-1]
		g.dependents[e.From] = g.dependents[e.From][:len(g.dependents[e.From])-1]
	}
	g.edges = g.edges[:m.edges]

	for _, n := range g.nodes[m.nodes:] {
		delete(g.index, n.Key())
	}
	g.nodes = g.nodes[:m.nodes]
	g.deps = g.deps[:m.nodes]
	g.dependents = g.dependents[:m.nodes]
}

func sortedCopy(in []NodeIndex) []NodeIndex {
	out := make([]NodeIndex, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
