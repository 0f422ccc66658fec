package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/monoplan/internal/action"
	"github.com/vk/monoplan/internal/target"
)

func TestToDOT(t *testing.T) {
	b := NewBuilder(context.Background(), tasksWorkspace(t))
	_, err := b.RunTarget(target.MustParse("basic:build"), nil)
	require.NoError(t, err)

	expected := `digraph {
    0 [ label="SetupToolchain(node@16.0.0)" style=filled, shape=oval, fillcolor=gray ]
    1 [ label="InstallDependencies(node@16.0.0)" style=filled, shape=oval, fillcolor=palegreen ]
    2 [ label="SyncProject(node, basic)" style=filled, shape=oval, fillcolor=lightskyblue ]
    3 [ label="RunTask(basic:build)" style=filled, shape=oval, fillcolor=gold ]
    0 -> 1 [ arrowhead=box, arrowtail=box ]
    0 -> 2 [ arrowhead=box, arrowtail=box ]
    0 -> 3 [ arrowhead=box, arrowtail=box ]
    1 -> 3 [ arrowhead=box, arrowtail=box ]
    2 -> 3 [ arrowhead=box, arrowtail=box ]
}
`
	assert.Equal(t, expected, b.Build().ToDOT())
}

func TestToDOT_Empty(t *testing.T) {
	assert.Equal(t, "digraph {\n}\n", newGraph().ToDOT())
}

func TestToDOT_EscapesLabels(t *testing.T) {
	g := newGraph()
	g.addNode(action.SetupToolchain{Runtime: action.Runtime{Platform: `we"ird`}})
	assert.Contains(t, g.ToDOT(), `label="SetupToolchain(we\"ird)"`)
}
