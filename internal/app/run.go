package app

import (
	"fmt"

	"github.com/vk/monoplan/internal/affected"
	"github.com/vk/monoplan/internal/ctxlog"
	"github.com/vk/monoplan/internal/dag"
	"github.com/vk/monoplan/internal/target"
)

// Plan builds the graph of every action needed to run the targets. When
// touched is non-empty, requested tasks unaffected by it are left out.
func (a *App) Plan(targets []target.Target, touched affected.Set) (*dag.Graph, error) {
	ctx, logger := ctxlog.With(a.ctx, "operation", "plan")
	logger.Debug("App.Plan started.", "targets", len(targets), "touched", len(touched))

	b := dag.NewBuilder(ctx, a.workspace, dag.WithDetector(a.detector))
	for _, t := range targets {
		roots, err := b.RunTarget(t, touched)
		if err != nil {
			return nil, fmt.Errorf("failed to plan %s: %w", t, err)
		}
		if len(roots) == 0 {
			logger.Info("No tasks matched target.", "target", t.String())
		}
	}

	g := b.Build()
	logger.Debug("App.Plan finished.", "node_count", g.Len())
	return g, nil
}

// Sync builds the graph that syncs the named projects, or every project
// when none are named.
func (a *App) Sync(projects []string) (*dag.Graph, error) {
	if len(projects) == 0 {
		for _, p := range a.workspace.Projects() {
			projects = append(projects, p.ID)
		}
	}

	ctx, _ := ctxlog.With(a.ctx, "operation", "sync")
	b := dag.NewBuilder(ctx, a.workspace)
	for _, id := range projects {
		if _, err := b.SyncProject(id); err != nil {
			return nil, fmt.Errorf("failed to sync %s: %w", id, err)
		}
	}
	return b.Build(), nil
}
