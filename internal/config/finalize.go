package config

import (
	"path"
	"strings"

	"github.com/vk/monoplan/internal/action"
)

// Finalize validates the workspace and resolves derived fields: aliases,
// runtimes, dependency ids and workspace-relative task inputs. Loaders call
// it once after all files have been translated and env overrides applied.
func (w *Workspace) Finalize() error {
	w.aliases = make(map[string]string)
	w.sorted = sortedProjects(w.ProjectMap)

	for _, p := range w.sorted {
		for _, alias := range p.Aliases {
			if _, clash := w.ProjectMap[alias]; clash && alias != p.ID {
				return invalidf("alias %q of project %q collides with a project id", alias, p.ID)
			}
			if owner, clash := w.aliases[alias]; clash && owner != p.ID {
				return invalidf("alias %q is used by both %q and %q", alias, owner, p.ID)
			}
			w.aliases[alias] = p.ID
		}
	}

	for _, p := range w.sorted {
		if err := w.finalizeProject(p); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workspace) finalizeProject(p *Project) error {
	if p.Source == "" {
		p.Source = p.ID
	}
	p.Source = cleanRelative(p.Source)

	switch p.InstallScope {
	case "":
		p.InstallScope = InstallScopeWorkspace
	case InstallScopeWorkspace, InstallScopeProject:
	default:
		return invalidf("project %q has unknown install scope %q", p.ID, p.InstallScope)
	}

	p.Runtime = w.resolveRuntime(p.Platform)

	deps := make([]string, 0, len(p.DependsOn))
	for _, name := range p.DependsOn {
		dep, err := w.GetProject(name)
		if err != nil {
			return invalidf("project %q depends on unknown project %q", p.ID, name)
		}
		if dep.ID == p.ID {
			return invalidf("project %q depends on itself", p.ID)
		}
		deps = append(deps, dep.ID)
	}
	p.DependsOn = deps

	if p.Tasks == nil {
		p.Tasks = make(map[string]*Task)
	}
	for id, t := range p.Tasks {
		t.ID = id
		t.ProjectID = p.ID
		if t.Platform == "" {
			t.Platform = p.Platform
		}
		t.Runtime = w.resolveRuntime(t.Platform)
		inputs, err := w.expandFileGroups(p.ID, id, t.Inputs)
		if err != nil {
			return err
		}
		t.Inputs = resolveInputs(p.Source, inputs)
	}
	return nil
}

// resolveRuntime maps a platform to its configured runtime. Platforms
// without a toolchain entry fall back to the system runtime.
func (w *Workspace) resolveRuntime(platform string) action.Runtime {
	if platform == "" || platform == action.PlatformSystem {
		return action.System
	}
	tc, ok := w.Toolchain[platform]
	if !ok {
		return action.System
	}
	return action.Runtime{Platform: platform, Version: tc.Version}
}

// expandFileGroups replaces each `@group(name)` input with the patterns of
// that file group.
func (w *Workspace) expandFileGroups(projectID, taskID string, inputs []string) ([]string, error) {
	if inputs == nil {
		return nil, nil
	}
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		name, ok := strings.CutPrefix(in, "@group(")
		if !ok {
			out = append(out, in)
			continue
		}
		name, ok = strings.CutSuffix(name, ")")
		if !ok {
			return nil, invalidf("task %s:%s has malformed input %q", projectID, taskID, in)
		}
		group, ok := w.FileGroups[name]
		if !ok {
			return nil, invalidf("task %s:%s references unknown file group %q", projectID, taskID, name)
		}
		out = append(out, group...)
	}
	return out, nil
}

// resolveInputs makes every input workspace relative. Undeclared inputs
// default to everything in the project source.
func resolveInputs(source string, inputs []string) []string {
	if inputs == nil {
		return []string{path.Join(source, "**/*")}
	}
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if strings.HasPrefix(in, "/") {
			out = append(out, cleanRelative(in))
			continue
		}
		out = append(out, path.Join(source, in))
	}
	return out
}

func cleanRelative(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}
