package dag

import (
	"container/heap"

	"github.com/vk/monoplan/internal/action"
)

// SortTopological returns every node in dependency order. Among nodes that
// are ready at the same time the lowest index comes first, so the order is
// deterministic for a given graph.
func (g *Graph) SortTopological() ([]NodeIndex, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	indegree := g.indegrees()
	ready := &indexHeap{}
	for i, d := range indegree {
		if d == 0 {
			heap.Push(ready, NodeIndex(i))
		}
	}

	order := make([]NodeIndex, 0, len(g.nodes))
	for ready.Len() > 0 {
		idx := heap.Pop(ready).(NodeIndex)
		order = append(order, idx)
		for _, succ := range g.dependents[idx] {
			indegree[succ]--
			if indegree[succ] == 0 {
				heap.Push(ready, succ)
			}
		}
	}

	if len(order) < len(g.nodes) {
		return nil, g.cycleError(indegree)
	}
	return order, nil
}

// SortBatchedTopological groups the nodes into batches that can each run
// in parallel once every earlier batch has finished:
//
//   - every node appears in exactly one batch, after all of its dependencies;
//   - each interactive task is alone in its batch, emitted after the rest of
//     the layer it became ready in;
//   - persistent tasks are held back until no other work can make progress,
//     and then only those that finite work still waits on are released.
//     When nothing waits on them they are released together as the tail.
//
// Nodes within a batch are ordered by index.
func (g *Graph) SortBatchedTopological() ([]Batch, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	indegree := g.indegrees()
	done := make([]bool, len(g.nodes))
	processed := 0

	var ready []NodeIndex
	for i, d := range indegree {
		if d == 0 {
			ready = append(ready, NodeIndex(i))
		}
	}

	complete := func(wave []NodeIndex) {
		for _, idx := range wave {
			done[idx] = true
			processed++
			for _, succ := range g.dependents[idx] {
				indegree[succ]--
				if indegree[succ] == 0 {
					ready = append(ready, succ)
				}
			}
		}
	}

	var (
		batches []Batch
		held    []NodeIndex
	)
	for processed < len(g.nodes) {
		var finite []NodeIndex
		for _, idx := range ready {
			if action.IsPersistent(g.nodes[idx]) {
				held = append(held, idx)
			} else {
				finite = append(finite, idx)
			}
		}
		ready = nil

		if len(finite) > 0 {
			batches = g.appendIsolated(batches, finite)
			complete(finite)
			continue
		}

		if len(held) == 0 {
			return nil, g.cycleError(indegree)
		}

		wave, rest := g.splitBlocking(held, done)
		if len(wave) == 0 {
			wave, rest = held, nil
		}
		held = rest
		batches = g.appendIsolated(batches, wave)
		complete(wave)
	}
	return batches, nil
}

// appendIsolated sorts a wave of ready nodes and appends it to batches,
// moving each interactive node into a batch of its own after the rest.
func (g *Graph) appendIsolated(batches []Batch, wave []NodeIndex) []Batch {
	wave = sortedCopy(wave)

	var rest, interactive []NodeIndex
	for _, idx := range wave {
		if action.IsInteractive(g.nodes[idx]) {
			interactive = append(interactive, idx)
		} else {
			rest = append(rest, idx)
		}
	}

	if len(rest) > 0 {
		batches = append(batches, Batch(rest))
	}
	for _, idx := range interactive {
		batches = append(batches, Batch{idx})
	}
	return batches
}

// splitBlocking partitions held persistent nodes into those that some
// unfinished non-persistent node transitively depends on, and the rest.
func (g *Graph) splitBlocking(held []NodeIndex, done []bool) (blocking, rest []NodeIndex) {
	for _, idx := range held {
		if g.blocksFiniteWork(idx, done) {
			blocking = append(blocking, idx)
		} else {
			rest = append(rest, idx)
		}
	}
	return blocking, rest
}

func (g *Graph) blocksFiniteWork(from NodeIndex, done []bool) bool {
	seen := map[NodeIndex]bool{from: true}
	stack := []NodeIndex{from}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, succ := range g.dependents[idx] {
			if seen[succ] {
				continue
			}
			seen[succ] = true
			if !done[succ] && !action.IsPersistent(g.nodes[succ]) {
				return true
			}
			stack = append(stack, succ)
		}
	}
	return false
}

func (g *Graph) indegrees() []int {
	indegree := make([]int, len(g.nodes))
	for i := range g.nodes {
		indegree[i] = len(g.deps[i])
	}
	return indegree
}

// cycleError names the lowest-index node that could not be ordered.
func (g *Graph) cycleError(indegree []int) error {
	for i, d := range indegree {
		if d == 0 {
			continue
		}
		err := &CycleError{Node: g.nodes[i].Label()}
		if rt, ok := g.nodes[i].(action.RunTask); ok {
			err.Target = rt.Target
		}
		return err
	}
	return ErrCycleDetected
}

type indexHeap []NodeIndex

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(NodeIndex)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
