package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/monoplan/internal/action"
	"github.com/vk/monoplan/internal/target"
	"github.com/vk/monoplan/internal/testutil"
)

// graphOf builds a graph of RunTask nodes named after their position.
// Edges are given as (from, to) pairs.
func graphOf(t *testing.T, nodes []action.Node, edges ...[2]int) *Graph {
	t.Helper()
	g := newGraph()
	for _, n := range nodes {
		_, created := g.addNode(n)
		require.True(t, created)
	}
	for _, e := range edges {
		require.NoError(t, g.addEdge(NodeIndex(e[0]), NodeIndex(e[1])))
	}
	return g
}

func persistent(raw string) action.RunTask {
	n := runNode(raw)
	n.Persistent = true
	return n
}

func interactive(raw string) action.RunTask {
	n := runNode(raw)
	n.Interactive = true
	return n
}

func TestSortTopological(t *testing.T) {
	g := graphOf(t,
		[]action.Node{runNode("p:a"), runNode("p:b"), runNode("p:c"), runNode("p:d")},
		[2]int{3, 1},
	)

	order, err := g.SortTopological()
	require.NoError(t, err)
	assert.Equal(t, []NodeIndex{0, 2, 3, 1}, order)
}

func TestSortTopological_Cycle(t *testing.T) {
	g := graphOf(t,
		[]action.Node{runNode("p:a"), runNode("p:b"), runNode("p:c")},
		[2]int{0, 1}, [2]int{1, 0},
	)

	_, err := g.SortTopological()
	require.ErrorIs(t, err, ErrCycleDetected)
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "RunTask(p:a)", cycleErr.Node)
	assert.Equal(t, target.MustParse("p:a"), cycleErr.Target)

	_, err = g.SortBatchedTopological()
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestSortBatchedTopological(t *testing.T) {
	testCases := []struct {
		name     string
		nodes    []action.Node
		edges    [][2]int
		expected []Batch
	}{
		{
			name:     "empty graph",
			expected: nil,
		},
		{
			name:     "diamond",
			nodes:    []action.Node{runNode("p:a"), runNode("p:b"), runNode("p:c"), runNode("p:d")},
			edges:    [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}},
			expected: []Batch{{0}, {1, 2}, {3}},
		},
		{
			name:     "independent nodes share a batch",
			nodes:    []action.Node{runNode("p:a"), runNode("p:b"), runNode("p:c")},
			expected: []Batch{{0, 1, 2}},
		},
		{
			name: "interactive tasks are isolated after their layer",
			nodes: []action.Node{
				runNode("p:x"), interactive("p:one"), runNode("p:y"), interactive("p:two"), runNode("p:z"),
			},
			edges:    [][2]int{{1, 4}},
			expected: []Batch{{0, 2}, {1}, {3}, {4}},
		},
		{
			name: "persistent tasks form the tail",
			nodes: []action.Node{
				runNode("p:build"), persistent("p:dev"), runNode("p:lint"), persistent("p:serve"), runNode("p:test"),
			},
			edges:    [][2]int{{0, 1}, {0, 4}},
			expected: []Batch{{0, 2}, {4}, {1, 3}},
		},
		{
			name:     "persistent task released early when finite work needs it",
			nodes:    []action.Node{persistent("p:db"), runNode("p:migrate"), runNode("p:lint"), persistent("p:serve")},
			edges:    [][2]int{{0, 1}},
			expected: []Batch{{2}, {0}, {1}, {3}},
		},
		{
			name:     "persistent chain",
			nodes:    []action.Node{persistent("p:one"), persistent("p:two"), runNode("p:x")},
			edges:    [][2]int{{0, 1}},
			expected: []Batch{{2}, {0}, {1}},
		},
		{
			name: "interactive persistent task",
			nodes: []action.Node{
				runNode("p:build"),
				action.RunTask{Target: target.MustParse("p:dev"), Runtime: action.System, Persistent: true, Interactive: true},
				persistent("p:serve"),
			},
			edges:    [][2]int{{0, 1}},
			expected: []Batch{{0}, {2}, {1}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := graphOf(t, tc.nodes, tc.edges...)
			batches, err := g.SortBatchedTopological()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, batches)
		})
	}
}

// TestSortBatchedTopological_Properties checks batch soundness on a graph
// built from a realistic workspace.
func TestSortBatchedTopological_Properties(t *testing.T) {
	ws := testutil.NewWorkspace(t).
		Toolchain("deno", "1.30.0").
		Project("app",
			testutil.DependsOn("lib", "ui"),
			testutil.WithTask("build", testutil.Deps("^:build")),
			testutil.WithTask("dev", testutil.Persistent(), testutil.Deps("~:build")),
			testutil.WithTask("e2e", testutil.Interactive(), testutil.Deps("~:build")),
			testutil.WithTask("test", testutil.Deps("~:build")),
		).
		Project("lib", testutil.WithTask("build", testutil.Deps("~:codegen")), testutil.WithTask("codegen"), testutil.WithTask("test")).
		Project("ui", testutil.DependsOn("lib"), testutil.WithTask("build", testutil.Deps("^:build")), testutil.WithTask("storybook", testutil.Persistent(), testutil.Interactive())).
		Project("edge", testutil.Platform("deno"), testutil.ProjectInstall(), testutil.WithTask("build"), testutil.WithTask("serve", testutil.Persistent(), testutil.Deps("~:build"))).
		Project("scripts", testutil.Platform("system"), testutil.WithTask("lint")).
		Build()

	b := NewBuilder(context.Background(), ws)
	for _, raw := range []string{":build", ":test", ":dev", "app:e2e", "ui:storybook", "edge:serve", ":lint"} {
		_, err := b.RunTarget(target.MustParse(raw), nil)
		require.NoError(t, err, raw)
	}
	g := b.Build()

	batches, err := g.SortBatchedTopological()
	require.NoError(t, err)

	batchOf := make(map[NodeIndex]int)
	for i, batch := range batches {
		require.NotEmpty(t, batch)
		for _, idx := range batch {
			_, seen := batchOf[idx]
			require.False(t, seen, "node %d appears twice", idx)
			batchOf[idx] = i
		}
	}
	require.Len(t, batchOf, g.Len(), "every node is scheduled")

	for _, e := range g.Edges() {
		assert.Less(t, batchOf[e.From], batchOf[e.To], "edge %d -> %d", e.From, e.To)
	}

	lastFinite := -1
	for i, batch := range batches {
		hasInteractive := false
		for _, idx := range batch {
			n, _ := g.Node(idx)
			if action.IsInteractive(n) {
				hasInteractive = true
			}
			if !action.IsPersistent(n) {
				lastFinite = i
			}
		}
		if hasInteractive {
			assert.Len(t, batch, 1, "interactive tasks run alone")
		}
	}
	for i := lastFinite + 1; i < len(batches); i++ {
		for _, idx := range batches[i] {
			n, _ := g.Node(idx)
			assert.True(t, action.IsPersistent(n))
		}
	}
	assert.Less(t, lastFinite, len(batches)-1, "persistent tasks run last")

	order, err := g.SortTopological()
	require.NoError(t, err)
	assert.Len(t, order, g.Len())
}
