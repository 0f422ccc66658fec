package dag

import (
	"sync"

	"github.com/vk/monoplan/internal/action"
)

// NodeIndex is the stable position of a node in a Graph. Indices are
// assigned in insertion order and never reused.
type NodeIndex int

// Edge is a directed dependency: To cannot start before From has finished.
type Edge struct {
	From NodeIndex
	To   NodeIndex
}

// Batch is a group of nodes with no dependencies between them.
type Batch []NodeIndex

// Graph is an arena of action nodes and the edges between them. Nodes are
// unique by action.Node Key. All operations on the graph are
// concurrency-safe.
type Graph struct {
	mutex sync.RWMutex

	nodes []action.Node
	index map[string]NodeIndex
	edges []Edge
	// edgeSet deduplicates edges.
	edgeSet map[Edge]struct{}

	// deps holds the predecessors of each node.
	deps [][]NodeIndex
	// dependents holds the successors of each node.
	dependents [][]NodeIndex
}

// mark is a position in the insertion history, used to discard the nodes
// and edges added by a failed expansion.
type mark struct {
	nodes int
	edges int
}
