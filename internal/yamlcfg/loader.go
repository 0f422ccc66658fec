package yamlcfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vk/monoplan/internal/action"
	"github.com/vk/monoplan/internal/config"
	"github.com/vk/monoplan/internal/ctxlog"
	"github.com/vk/monoplan/internal/target"
)

const (
	// WorkspaceFile is the workspace configuration, relative to the root.
	WorkspaceFile = ".monoplan/workspace.yml"
	// ProjectFile is the per-project configuration, relative to its source.
	ProjectFile = "project.yml"
)

// languagePlatforms maps project languages to the platform that runs them.
var languagePlatforms = map[string]string{
	"javascript": "node",
	"typescript": "node",
	"bash":       action.PlatformSystem,
	"batch":      action.PlatformSystem,
	"unknown":    action.PlatformSystem,
}

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Detect reports whether root holds a YAML workspace.
func Detect(root string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(WorkspaceFile)))
	return err == nil
}

// Load reads the workspace file and the project file of every listed
// project. A project whose source has no project file has no tasks. The
// returned workspace is not finalized.
func (l *Loader) Load(ctx context.Context, root string) (*config.Workspace, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "root", root)

	var wf workspaceFile
	wsPath := filepath.Join(root, filepath.FromSlash(WorkspaceFile))
	found, err := decodeFile(wsPath, &wf)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s not found", config.ErrInvalidConfig, wsPath)
	}

	ws := config.NewWorkspace(root)
	for platform, tc := range wf.Toolchain {
		ws.Toolchain[platform] = &config.ToolchainConfig{Platform: platform, Version: tc.Version}
	}
	for name, patterns := range wf.FileGroups {
		ws.FileGroups[name] = patterns
	}

	ids := make([]string, 0, len(wf.Projects))
	for id := range wf.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p, err := l.loadProject(ctx, root, id, wf.Projects[id])
		if err != nil {
			return nil, err
		}
		ws.ProjectMap[id] = p
	}

	logger.Debug("YAML loading complete.", "toolchains", len(ws.Toolchain), "projects", len(ws.ProjectMap))
	return ws, nil
}

func (l *Loader) loadProject(ctx context.Context, root, id, source string) (*config.Project, error) {
	p := &config.Project{ID: id, Source: source, Tasks: make(map[string]*config.Task)}

	var pf projectFile
	path := filepath.Join(root, filepath.FromSlash(source), ProjectFile)
	found, err := decodeFile(path, &pf)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: project %q has no source directory %s", config.ErrInvalidConfig, id, source)
		}
		return nil, err
	}
	if !found {
		ctxlog.FromContext(ctx).Debug("Project has no configuration file.", "project", id, "source", source)
		return p, nil
	}

	p.Aliases = pf.Aliases
	p.DependsOn = pf.DependsOn
	p.InstallScope = config.InstallScope(pf.InstallScope)
	p.Language = pf.Language
	p.Platform = pf.Platform
	if p.Platform == "" {
		p.Platform = platformFor(pf.Language)
	}

	for taskID, te := range pf.Tasks {
		task, err := translateTask(taskID, te)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
		p.Tasks[taskID] = task
	}
	return p, nil
}

func translateTask(id string, te taskEntry) (*config.Task, error) {
	deps, err := target.ParseAll(te.Deps)
	if err != nil {
		return nil, fmt.Errorf("task %q has invalid deps: %w", id, err)
	}

	task := &config.Task{
		ID:          id,
		Args:        te.Args,
		Env:         te.Env,
		Deps:        deps,
		Outputs:     te.Outputs,
		Platform:    te.Platform,
		Persistent:  te.Options.Persistent,
		Interactive: te.Options.Interactive,
	}
	if len(te.Command) > 0 {
		task.Command = te.Command[0]
		task.Args = append(append([]string{}, te.Command[1:]...), te.Args...)
	}
	if te.Inputs != nil {
		task.Inputs = append([]string{}, (*te.Inputs)...)
	}
	return task, nil
}

func platformFor(language string) string {
	if platform, ok := languagePlatforms[language]; ok {
		return platform
	}
	return language
}

// decodeFile strictly decodes a YAML file into out. A missing file is not
// an error when its directory exists; found reports whether it was read.
func decodeFile(path string, out any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if _, dirErr := os.Stat(filepath.Dir(path)); dirErr == nil {
				return false, nil
			}
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("%w: failed to decode %s: %v", config.ErrInvalidConfig, path, err)
	}
	return true, nil
}
