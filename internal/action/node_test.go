package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/monoplan/internal/target"
)

func TestRuntime_String(t *testing.T) {
	assert.Equal(t, "system", System.String())
	assert.Equal(t, "system", Runtime{}.String())
	assert.Equal(t, "node@16.0.0", Runtime{Platform: "node", Version: "16.0.0"}.String())
	assert.Equal(t, "deno", Runtime{Platform: "deno"}.String())
}

func TestNode_KeysAndLabels(t *testing.T) {
	node := Runtime{Platform: "node", Version: "16.0.0"}

	testCases := []struct {
		name  string
		node  Node
		kind  Kind
		label string
	}{
		{"setup", SetupToolchain{Runtime: node}, KindSetupToolchain, "SetupToolchain(node@16.0.0)"},
		{"workspace install", InstallDependencies{Runtime: node}, KindInstallDependencies, "InstallDependencies(node@16.0.0)"},
		{"project install", InstallDependencies{Runtime: node, ProjectID: "app"}, KindInstallDependencies, "InstallDependencies(node@16.0.0, app)"},
		{"sync", SyncProject{Runtime: node, ProjectID: "app"}, KindSyncProject, "SyncProject(node, app)"},
		{"run", RunTask{Target: target.MustParse("app:build"), Runtime: node}, KindRunTask, "RunTask(app:build)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.node.Kind())
			assert.Equal(t, tc.label, tc.node.Label())
			assert.NotEmpty(t, tc.node.Key())
		})
	}
}

func TestRunTask_KeyIgnoresRuntime(t *testing.T) {
	a := RunTask{Target: target.MustParse("app:build"), Runtime: System}
	b := RunTask{Target: target.MustParse("app:build"), Runtime: Runtime{Platform: "node"}}
	assert.Equal(t, a.Key(), b.Key())
}

func TestFlags(t *testing.T) {
	dev := RunTask{Target: target.MustParse("app:dev"), Persistent: true}
	shell := RunTask{Target: target.MustParse("app:shell"), Interactive: true}

	assert.True(t, IsPersistent(dev))
	assert.False(t, IsInteractive(dev))
	assert.True(t, IsInteractive(shell))
	assert.False(t, IsPersistent(SetupToolchain{Runtime: System}))
}
