package hcl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/monoplan/internal/config"
	"github.com/vk/monoplan/internal/target"
	"github.com/vk/monoplan/internal/testutil"
)

func TestLoader_Load(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{
		"workspace.hcl": `
			toolchain "node" {
			  version = "18.0.0"
			}

			file_group "sources" {
			  patterns = ["src/**/*", "types/**/*"]
			}
		`,
		"apps/web/project.hcl": `
			project "web" {
			  alias      = "@org/web"
			  language   = "typescript"
			  platform   = "node"
			  depends_on = ["ui"]

			  task "build" {
			    command = "vite"
			    args    = ["build", "--outDir", "${workspace.root}/dist/${project.id}"]
			    inputs  = ["src/**/*", "/package.json"]
			    deps    = ["^:build"]
			  }

			  task "dev" {
			    command    = "vite"
			    persistent = true
			    env        = { NODE_ENV = upper("development") }
			  }

			  task "lint" {
			    command = "eslint"
			    args    = [project.source]
			    inputs  = []
			  }
			}
		`,
		"libs/project.hcl": `
			project "ui" {
			  source        = "libs/ui"
			  install_scope = "project"

			  task "build" {
			    command     = "tsc"
			    interactive = true
			    inputs      = ["@group(sources)"]
			  }
			}
		`,
		".monoplan/ignored.hcl": `this is not valid hcl {`,
	})

	ws, err := NewLoader().Load(context.Background(), root)
	require.NoError(t, err)
	require.NoError(t, ws.Finalize())

	assert.Equal(t, "18.0.0", ws.Toolchain["node"].Version)

	web, err := ws.GetProject("@org/web")
	require.NoError(t, err)
	assert.Equal(t, "web", web.ID)
	assert.Equal(t, "apps/web", web.Source, "source defaults to the directory of the file")
	assert.Equal(t, "typescript", web.Language)
	assert.Equal(t, []string{"ui"}, web.DependsOn)
	assert.Equal(t, "node@18.0.0", web.Runtime.String())

	build, err := web.GetTask("build")
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "--outDir", root + "/dist/web"}, build.Args)
	assert.Equal(t, []string{"apps/web/src/**/*", "package.json"}, build.Inputs)
	assert.Equal(t, []target.Target{target.MustParse("^:build")}, build.Deps)

	dev, _ := web.GetTask("dev")
	assert.True(t, dev.Persistent)
	assert.Equal(t, map[string]string{"NODE_ENV": "DEVELOPMENT"}, dev.Env)
	assert.Equal(t, []string{"apps/web/**/*"}, dev.Inputs)

	lint, _ := web.GetTask("lint")
	assert.Equal(t, []string{"apps/web"}, lint.Args)
	assert.NotNil(t, lint.Inputs)
	assert.Empty(t, lint.Inputs)

	ui, err := ws.GetProject("ui")
	require.NoError(t, err)
	assert.Equal(t, "libs/ui", ui.Source)
	assert.Equal(t, config.InstallScopeProject, ui.InstallScope)
	uiBuild, _ := ui.GetTask("build")
	assert.True(t, uiBuild.Interactive)
	assert.Equal(t, []string{"libs/ui/src/**/*", "libs/ui/types/**/*"}, uiBuild.Inputs)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		files  map[string]string
		errMsg string
	}{
		{
			name: "project defined twice",
			files: map[string]string{
				"a.hcl": `project "app" {}`,
				"b.hcl": `project "app" {}`,
			},
			errMsg: `project "app" is defined in both`,
		},
		{
			name: "toolchain defined twice",
			files: map[string]string{
				"a.hcl": `toolchain "node" { version = "16.0.0" }`,
				"b.hcl": `toolchain "node" { version = "18.0.0" }`,
			},
			errMsg: `toolchain "node" is defined in both`,
		},
		{
			name: "task defined twice",
			files: map[string]string{
				"a.hcl": `
					project "app" {
					  task "build" {}
					  task "build" {}
					}
				`,
			},
			errMsg: `task "build" is defined more than once`,
		},
		{
			name: "invalid dependency target",
			files: map[string]string{
				"a.hcl": `
					project "app" {
					  task "build" { deps = ["a:b:c"] }
					}
				`,
			},
			errMsg: `task "build" has invalid deps`,
		},
		{
			name:   "syntax error",
			files:  map[string]string{"a.hcl": `project "app" {`},
			errMsg: "failed to parse HCL file",
		},
		{
			name: "unknown variable",
			files: map[string]string{
				"a.hcl": `
					project "app" {
					  task "build" { command = project.nope }
					}
				`,
			},
			errMsg: `failed to decode project "app"`,
		},
		{
			name:   "missing toolchain version",
			files:  map[string]string{"a.hcl": `toolchain "node" {}`},
			errMsg: "failed to decode HCL file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := testutil.WriteFiles(t, tc.files)
			_, err := NewLoader().Load(context.Background(), root)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestLoader_EmptyWorkspace(t *testing.T) {
	ws, err := NewLoader().Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, ws.ProjectMap)
	require.NoError(t, ws.Finalize())
}
