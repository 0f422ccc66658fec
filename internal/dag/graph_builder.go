package dag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/monoplan/internal/action"
	"github.com/vk/monoplan/internal/affected"
	"github.com/vk/monoplan/internal/config"
	"github.com/vk/monoplan/internal/ctxlog"
	"github.com/vk/monoplan/internal/target"
)

// Builder expands requested targets into a graph of action nodes. It is
// used for a single planning pass and is not safe for concurrent use.
type Builder struct {
	lookup   config.Lookup
	detector *affected.Detector
	logger   *slog.Logger
	graph    *Graph

	// inProgress holds the keys of nodes whose dependencies are still being
	// expanded. Reaching one of them again means the request is cyclic.
	inProgress map[string]struct{}
	finalized  bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithDetector shares an affected-file detector, and its match cache,
// between builders.
func WithDetector(d *affected.Detector) Option {
	return func(b *Builder) { b.detector = d }
}

// NewBuilder creates a builder that resolves projects through lookup.
func NewBuilder(ctx context.Context, lookup config.Lookup, opts ...Option) *Builder {
	b := &Builder{
		lookup:     lookup,
		logger:     ctxlog.FromContext(ctx),
		graph:      newGraph(),
		inProgress: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RunTarget adds RunTask nodes for t and everything they transitively need.
// When touched is non-empty, only requested tasks whose inputs match a
// touched file are added; their dependencies are always added in full. It
// returns the RunTask nodes created for t itself, in project order.
//
// A failed request leaves the graph exactly as it was before the call.
func (b *Builder) RunTarget(t target.Target, touched affected.Set) ([]NodeIndex, error) {
	if b.finalized {
		return nil, ErrBuilderFinalized
	}
	if err := t.RequireRunnable("run"); err != nil {
		return nil, err
	}

	logger := b.logger.With("target", t.String())
	logger.Debug("RunTarget: Expanding target.")

	m := b.graph.mark()
	roots, err := b.runTarget(logger, t, touched)
	if err != nil {
		b.graph.rollback(m)
		clear(b.inProgress)
		logger.Debug("RunTarget: Expansion failed, graph rolled back.", "error", err)
		return nil, err
	}

	logger.Debug("RunTarget: Expansion complete.", "roots", len(roots), "node_count", b.graph.Len())
	return roots, nil
}

// SyncProject adds a SyncProject node for the project and for every
// project it depends on.
func (b *Builder) SyncProject(idOrAlias string) (NodeIndex, error) {
	if b.finalized {
		return 0, ErrBuilderFinalized
	}
	p, err := b.lookup.GetProject(idOrAlias)
	if err != nil {
		return 0, err
	}

	m := b.graph.mark()
	idx, err := b.syncProject(p)
	if err != nil {
		b.graph.rollback(m)
		clear(b.inProgress)
		b.logger.Debug("SyncProject: Expansion failed, graph rolled back.", "project", p.ID, "error", err)
		return 0, err
	}
	return idx, nil
}

// Build finalizes the builder and returns the graph. Further calls to
// RunTarget or SyncProject fail with ErrBuilderFinalized.
func (b *Builder) Build() *Graph {
	b.finalized = true
	b.logger.Debug("Build: Graph construction successful.", "node_count", b.graph.Len())
	return b.graph
}

func (b *Builder) runTarget(logger *slog.Logger, t target.Target, touched affected.Set) ([]NodeIndex, error) {
	tasks, err := b.resolveRequested(t)
	if err != nil {
		return nil, err
	}

	var roots []NodeIndex
	for _, rt := range tasks {
		if len(touched) > 0 {
			ok, err := b.isAffected(rt.task, touched)
			if err != nil {
				return nil, err
			}
			if !ok {
				logger.Debug("RunTarget: Skipping unaffected task.", "task", rt.task.Target().String())
				continue
			}
		}

		idx, err := b.runTask(rt.project, rt.task)
		if err != nil {
			return nil, err
		}
		roots = append(roots, idx)
	}
	return roots, nil
}

func (b *Builder) isAffected(task *config.Task, touched affected.Set) (bool, error) {
	if b.detector == nil {
		d, err := affected.NewDetector(0)
		if err != nil {
			return false, err
		}
		b.detector = d
	}
	ok, err := b.detector.IsAffected(task.Inputs, touched)
	if err != nil {
		return false, fmt.Errorf("task %s: %w", task.Target(), err)
	}
	return ok, nil
}

// runTask inserts the RunTask node before expanding its dependencies, so a
// dependency that leads back to it is caught as a cycle rather than
// recursing forever.
func (b *Builder) runTask(p *config.Project, task *config.Task) (NodeIndex, error) {
	node := action.RunTask{
		Target:      task.Target(),
		Runtime:     task.Runtime,
		Persistent:  task.Persistent,
		Interactive: task.Interactive,
	}
	key := node.Key()
	if _, ok := b.inProgress[key]; ok {
		return 0, &CycleError{Node: node.Label(), Target: node.Target}
	}
	if idx, ok := b.graph.Lookup(key); ok {
		return idx, nil
	}

	setup := b.setupToolchain(task.Runtime)
	install, hasInstall, err := b.installDependencies(task.Runtime, p)
	if err != nil {
		return 0, err
	}
	syncIdx, err := b.syncProject(p)
	if err != nil {
		return 0, err
	}

	idx, _ := b.graph.addNode(node)
	b.logger.Debug("RunTask: Node created.", "node", node.Label(), "index", idx)

	if err := b.graph.addEdge(setup, idx); err != nil {
		return 0, err
	}
	if hasInstall {
		if err := b.graph.addEdge(install, idx); err != nil {
			return 0, err
		}
	}
	if err := b.graph.addEdge(syncIdx, idx); err != nil {
		return 0, err
	}

	b.inProgress[key] = struct{}{}
	defer delete(b.inProgress, key)

	for _, dep := range task.Deps {
		resolved, err := b.resolveDependency(p, task, dep)
		if err != nil {
			return 0, err
		}
		for _, rd := range resolved {
			depIdx, err := b.runTask(rd.project, rd.task)
			if err != nil {
				return 0, err
			}
			if err := b.graph.addEdge(depIdx, idx); err != nil {
				return 0, err
			}
		}
	}
	return idx, nil
}

func (b *Builder) setupToolchain(rt action.Runtime) NodeIndex {
	idx, created := b.graph.addNode(action.SetupToolchain{Runtime: rt})
	if created {
		b.logger.Debug("SetupToolchain: Node created.", "runtime", rt.String(), "index", idx)
	}
	return idx
}

// installDependencies adds the install node for the runtime, scoped to the
// workspace or to the project. The system runtime has nothing to install.
func (b *Builder) installDependencies(rt action.Runtime, p *config.Project) (NodeIndex, bool, error) {
	if rt.IsSystem() {
		return 0, false, nil
	}

	node := action.InstallDependencies{Runtime: rt}
	if p.InstallScope == config.InstallScopeProject {
		node.ProjectID = p.ID
	}

	setup := b.setupToolchain(rt)
	idx, created := b.graph.addNode(node)
	if !created {
		return idx, true, nil
	}
	b.logger.Debug("InstallDependencies: Node created.", "node", node.Label(), "index", idx)
	if err := b.graph.addEdge(setup, idx); err != nil {
		return 0, false, err
	}
	return idx, true, nil
}

func (b *Builder) syncProject(p *config.Project) (NodeIndex, error) {
	node := action.SyncProject{Runtime: p.Runtime, ProjectID: p.ID}
	key := node.Key()
	if _, ok := b.inProgress[key]; ok {
		return 0, &CycleError{Node: node.Label()}
	}
	if idx, ok := b.graph.Lookup(key); ok {
		return idx, nil
	}

	setup := b.setupToolchain(p.Runtime)
	idx, _ := b.graph.addNode(node)
	b.logger.Debug("SyncProject: Node created.", "node", node.Label(), "index", idx)
	if err := b.graph.addEdge(setup, idx); err != nil {
		return 0, err
	}

	b.inProgress[key] = struct{}{}
	defer delete(b.inProgress, key)

	for _, depID := range p.DependsOn {
		dep, err := b.lookup.GetProject(depID)
		if err != nil {
			return 0, err
		}
		depIdx, err := b.syncProject(dep)
		if err != nil {
			return 0, err
		}
		if err := b.graph.addEdge(depIdx, idx); err != nil {
			return 0, err
		}
	}
	return idx, nil
}
