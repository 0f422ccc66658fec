package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/monoplan/internal/dag"
	"github.com/vk/monoplan/internal/testutil"
)

var workspaceFiles = map[string]string{
	"workspace.hcl": `
		toolchain "node" {
		  version = "16.0.0"
		}
	`,
	"apps/web/project.hcl": `
		project "web" {
		  platform   = "node"
		  depends_on = ["ui"]

		  task "build" {
		    command = "vite"
		    args    = ["build"]
		    inputs  = ["src/**/*"]
		    deps    = ["^:build"]
		  }

		  task "dev" {
		    command    = "vite"
		    persistent = true
		  }
		}
	`,
	"libs/ui/project.hcl": `
		project "ui" {
		  platform = "node"

		  task "build" {
		    command = "tsc"
		    inputs  = ["src/**/*"]
		  }
		}
	`,
}

// execute runs the command line against a fresh workspace.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := testutil.WriteFiles(t, workspaceFiles)
	out := &bytes.Buffer{}
	errOut := &testutil.SafeBuffer{}

	cmd := NewRootCommand(out, errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--workspace", root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestExecute_Help(t *testing.T) {
	out := &bytes.Buffer{}
	err := Execute([]string{"--help"}, out, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
	for _, sub := range []string{"run", "sync", "graph", "task", "query"} {
		assert.Contains(t, out.String(), sub)
	}
}

func TestRun_Text(t *testing.T) {
	out, err := execute(t, "", "run", "web:build")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Batch 1:\n  - SetupToolchain(node@16.0.0)\n"), out)
	assert.Contains(t, out, "  - RunTask(ui:build)\n")
	assert.Contains(t, out, "Batch 4:\n  - RunTask(web:build)\n")
	assert.True(t, strings.HasSuffix(out, "6 actions in 4 batches.\n"), out)
}

func TestRun_PersistentFlagIsShown(t *testing.T) {
	out, err := execute(t, "", "run", "web:dev")
	require.NoError(t, err)
	assert.Contains(t, out, "RunTask(web:dev) (persistent)")
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(t, "", "run", "web:build", "--format", "json")
	require.NoError(t, err)

	var plan dag.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.Len(t, plan.Batches, 4)
	assert.Equal(t, 6, plan.Len())

	last := plan.Batches[3].Actions
	require.Len(t, last, 1)
	assert.Equal(t, "RunTask", last[0].Kind)
	assert.Equal(t, "web:build", last[0].Target)
	assert.Len(t, last[0].DependsOn, 4)
}

func TestRun_Touched(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		out, err := execute(t, "", "run", ":build", "--touched", "libs/ui/src/button.ts")
		require.NoError(t, err)
		assert.Contains(t, out, "RunTask(ui:build)")
		assert.NotContains(t, out, "RunTask(web:build)")
	})

	t.Run("stdin", func(t *testing.T) {
		out, err := execute(t, "# changed\napps/web/src/main.ts\n", "run", ":build", "--touched-file", "-")
		require.NoError(t, err)
		assert.Contains(t, out, "RunTask(web:build)")
		assert.Contains(t, out, "RunTask(ui:build)", "dependencies of affected tasks are always planned")
	})

	t.Run("nothing affected", func(t *testing.T) {
		out, err := execute(t, "", "run", ":build", "--touched", "README.md")
		require.NoError(t, err)
		assert.Equal(t, "Nothing to do.\n", out)
	})
}

func TestSync_YAML(t *testing.T) {
	out, err := execute(t, "", "sync", "web", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: SyncProject")
	assert.Contains(t, out, "SyncProject(node, ui)")
	assert.Contains(t, out, "SyncProject(node, web)")
}

func TestGraph_DOT(t *testing.T) {
	out, err := execute(t, "", "graph", "ui:build")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph {\n"), out)
	assert.Contains(t, out, `label="RunTask(ui:build)"`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestTask(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "", "task", "web:build")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "web:build\n\n"), out)
		assert.Contains(t, out, "Command:     vite build\n")
		assert.Contains(t, out, "Inputs:      apps/web/src/**/*\n")
		assert.Contains(t, out, "Deps:        ^:build\n")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "", "task", "ui:build", "--json")
		require.NoError(t, err)

		var v taskView
		require.NoError(t, json.Unmarshal([]byte(out), &v))
		assert.Equal(t, "ui:build", v.Target)
		assert.Equal(t, "libs/ui", v.Source)
		assert.Equal(t, "node@16.0.0", v.Runtime)
		assert.Equal(t, []string{"libs/ui/src/**/*"}, v.Inputs)
	})
}

func TestQuery_Projects(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "", "query", "projects")
		require.NoError(t, err)
		assert.Equal(t, "ui | libs/ui | node | unknown\nweb | apps/web | node | unknown\n", out)
	})

	t.Run("json with task filter", func(t *testing.T) {
		out, err := execute(t, "", "query", "projects", "--tasks", "^dev$", "--json")
		require.NoError(t, err)

		var result struct {
			Projects []projectView `json:"projects"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Projects, 1)
		assert.Equal(t, "web", result.Projects[0].ID)
		assert.Equal(t, []string{"build", "dev"}, result.Projects[0].Tasks)
		assert.Equal(t, []string{"ui"}, result.Projects[0].DependsOn)
	})

	t.Run("affected", func(t *testing.T) {
		out, err := execute(t, "libs/ui/src/button.ts\n", "query", "projects", "--affected", "--touched-file", "-")
		require.NoError(t, err)
		assert.Equal(t, "ui | libs/ui | node | unknown\n", out)
	})

	t.Run("affected without touched files", func(t *testing.T) {
		out, err := execute(t, "", "query", "projects", "--affected")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestQuery_Tasks(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "", "query", "tasks", "--id", "web")
		require.NoError(t, err)
		assert.Equal(t, "web\n\t:build | vite build\n\t:dev | vite\n", out)
	})

	t.Run("affected json", func(t *testing.T) {
		out, err := execute(t, "", "query", "tasks", "--affected", "--touched", "libs/ui/src/button.ts", "--json")
		require.NoError(t, err)

		var result struct {
			Tasks map[string]map[string]taskView `json:"tasks"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Len(t, result.Tasks, 1)
		assert.Equal(t, "ui:build", result.Tasks["ui"]["build"].Target)
	})
}

func TestExecute_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		args   []string
		code   int
		errMsg string
	}{
		{"unknown flag", []string{"run", "web:build", "--nope"}, 2, "unknown flag"},
		{"missing targets", []string{"run"}, 2, "requires at least 1 arg"},
		{"invalid target", []string{"run", "web:b*ld"}, 2, "invalid target"},
		{"bare task id is self scoped", []string{"run", "web"}, 2, "Self scope (~:) is not supported in run contexts"},
		{"relative scope in graph", []string{"graph", "^:build"}, 2, "Dependencies scope (^:) is not supported in run contexts"},
		{"relative scope in task", []string{"task", "~:build"}, 2, "not supported in task contexts"},
		{"invalid format", []string{"run", "web:build", "--format", "xml"}, 2, "invalid format"},
		{"invalid log level", []string{"--log-level", "loud", "run", "web:build"}, 2, "invalid log-level"},
		{"unknown project", []string{"run", "api:build"}, 1, "No project has been configured"},
		{"relative scope", []string{"run", "~:build"}, 2, "not supported"},
		{"task needs a project", []string{"task", ":build"}, 1, "not supported in task contexts"},
		{"unknown command", []string{"deploy"}, 2, "unknown command"},
		{"invalid query filter", []string{"query", "projects", "--id", "("}, 2, "invalid query"},
		{"query takes no arguments", []string{"query", "tasks", "web"}, 2, "unknown command"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := testutil.WriteFiles(t, workspaceFiles)
			err := Execute(append([]string{"--workspace", root}, tc.args...), &bytes.Buffer{}, &bytes.Buffer{})

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
			assert.Equal(t, tc.code, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.errMsg)
		})
	}
}
