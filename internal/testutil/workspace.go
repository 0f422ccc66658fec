package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/monoplan/internal/config"
	"github.com/vk/monoplan/internal/target"
)

// WorkspaceFixture builds an in-memory, finalized workspace for tests.
type WorkspaceFixture struct {
	t  testing.TB
	ws *config.Workspace
}

// ProjectOption customizes a fixture project.
type ProjectOption func(*config.Project)

// TaskOption customizes a fixture task.
type TaskOption func(*config.Task)

// NewWorkspace starts a fixture with a node 16.0.0 toolchain.
func NewWorkspace(t testing.TB) *WorkspaceFixture {
	ws := config.NewWorkspace("/workspace")
	ws.Toolchain["node"] = &config.ToolchainConfig{Platform: "node", Version: "16.0.0"}
	return &WorkspaceFixture{t: t, ws: ws}
}

// Toolchain pins a platform version.
func (f *WorkspaceFixture) Toolchain(platform, version string) *WorkspaceFixture {
	f.ws.Toolchain[platform] = &config.ToolchainConfig{Platform: platform, Version: version}
	return f
}

// Project adds a node project sourced from a directory named after id.
func (f *WorkspaceFixture) Project(id string, opts ...ProjectOption) *WorkspaceFixture {
	p := &config.Project{ID: id, Platform: "node", Tasks: make(map[string]*config.Task)}
	for _, opt := range opts {
		opt(p)
	}
	f.ws.ProjectMap[id] = p
	return f
}

// Build finalizes the workspace, failing the test on error.
func (f *WorkspaceFixture) Build() *config.Workspace {
	f.t.Helper()
	require.NoError(f.t, f.ws.Finalize())
	return f.ws
}

// Platform sets the project platform.
func Platform(platform string) ProjectOption {
	return func(p *config.Project) { p.Platform = platform }
}

// DependsOn declares project dependencies.
func DependsOn(ids ...string) ProjectOption {
	return func(p *config.Project) { p.DependsOn = append(p.DependsOn, ids...) }
}

// Aliases declares alternative project names.
func Aliases(aliases ...string) ProjectOption {
	return func(p *config.Project) { p.Aliases = append(p.Aliases, aliases...) }
}

// ProjectInstall scopes dependency installs to the project.
func ProjectInstall() ProjectOption {
	return func(p *config.Project) { p.InstallScope = config.InstallScopeProject }
}

// WithTask declares a task on the project.
func WithTask(id string, opts ...TaskOption) ProjectOption {
	return func(p *config.Project) {
		task := &config.Task{Command: id}
		for _, opt := range opts {
			opt(task)
		}
		p.Tasks[id] = task
	}
}

// Deps declares task dependencies in target syntax.
func Deps(targets ...string) TaskOption {
	return func(task *config.Task) {
		for _, raw := range targets {
			task.Deps = append(task.Deps, target.MustParse(raw))
		}
	}
}

// Inputs declares task inputs relative to the project source.
func Inputs(inputs ...string) TaskOption {
	return func(task *config.Task) { task.Inputs = append([]string{}, inputs...) }
}

// TaskPlatform overrides the platform of a single task.
func TaskPlatform(platform string) TaskOption {
	return func(task *config.Task) { task.Platform = platform }
}

// Persistent marks a long-running task.
func Persistent() TaskOption {
	return func(task *config.Task) { task.Persistent = true }
}

// Interactive marks a task that needs the terminal.
func Interactive() TaskOption {
	return func(task *config.Task) { task.Interactive = true }
}
