package config

import (
	"sort"

	"github.com/vk/monoplan/internal/action"
	"github.com/vk/monoplan/internal/target"
)

// InstallScope controls where a project's dependencies are installed.
type InstallScope string

const (
	// InstallScopeWorkspace installs once at the workspace root, shared by
	// every project of the same runtime.
	InstallScopeWorkspace InstallScope = "workspace"
	// InstallScopeProject installs into the project itself.
	InstallScopeProject InstallScope = "project"
)

// Workspace is the unified, format-agnostic representation of the entire
// workspace configuration. It implements Lookup once finalized.
type Workspace struct {
	Root       string
	Toolchain  map[string]*ToolchainConfig
	ProjectMap map[string]*Project
	// FileGroups are named input patterns that tasks reference with
	// `@group(name)`. Patterns are relative to the referencing project.
	FileGroups map[string][]string

	aliases map[string]string
	sorted  []*Project
}

var _ Lookup = (*Workspace)(nil)

// ToolchainConfig pins the version of a platform's runtime.
type ToolchainConfig struct {
	Platform string
	Version  string
}

// Project is the format-agnostic representation of a project.
type Project struct {
	ID     string
	Source string // workspace-relative directory
	// Aliases are alternative names, e.g. a package name.
	Aliases      []string
	Language     string
	Platform     string
	Runtime      action.Runtime
	DependsOn    []string
	InstallScope InstallScope
	Tasks        map[string]*Task
}

// Task is the format-agnostic representation of a task.
type Task struct {
	ID        string
	ProjectID string
	Command   string
	Args      []string
	Env       map[string]string
	Deps      []target.Target
	// Inputs are files or globs. Loaders leave this nil when the task does
	// not declare inputs, and an empty non-nil slice when it declares none.
	// After Finalize every entry is workspace relative.
	Inputs      []string
	Outputs     []string
	Platform    string
	Runtime     action.Runtime
	Persistent  bool
	Interactive bool
}

// NewWorkspace creates an empty workspace rooted at root.
func NewWorkspace(root string) *Workspace {
	return &Workspace{
		Root:       root,
		Toolchain:  make(map[string]*ToolchainConfig),
		ProjectMap: make(map[string]*Project),
		FileGroups: make(map[string][]string),
	}
}

// GetProject implements Lookup.
func (w *Workspace) GetProject(idOrAlias string) (*Project, error) {
	if p, ok := w.ProjectMap[idOrAlias]; ok {
		return p, nil
	}
	if id, ok := w.aliases[idOrAlias]; ok {
		return w.ProjectMap[id], nil
	}
	return nil, &UnknownProjectError{Name: idOrAlias}
}

// Projects implements Lookup.
func (w *Workspace) Projects() []*Project {
	if w.sorted == nil {
		w.sorted = sortedProjects(w.ProjectMap)
	}
	out := make([]*Project, len(w.sorted))
	copy(out, w.sorted)
	return out
}

// GetTask returns the task declared with the given id.
func (p *Project) GetTask(id string) (*Task, error) {
	if t, ok := p.Tasks[id]; ok {
		return t, nil
	}
	return nil, &UnknownTaskError{Project: p.ID, Task: id}
}

// TaskIDs returns the declared task ids in lexicographic order.
func (p *Project) TaskIDs() []string {
	ids := make([]string, 0, len(p.Tasks))
	for id := range p.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Target returns the fully-qualified target of the task.
func (t *Task) Target() target.Target {
	return target.Target{Scope: target.ScopeProject, ProjectID: t.ProjectID, TaskID: t.ID}
}

func sortedProjects(projects map[string]*Project) []*Project {
	out := make([]*Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
