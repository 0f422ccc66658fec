package app

import (
	"github.com/vk/monoplan/internal/config"
	"github.com/vk/monoplan/internal/target"
)

// Task resolves a single project-scoped target to its task.
func (a *App) Task(t target.Target) (*config.Project, *config.Task, error) {
	if t.Scope != target.ScopeProject {
		return nil, nil, &target.UnsupportedScopeError{Scope: t.Scope, Context: "task"}
	}
	a.logger.Debug("App.Task: Resolving task.", "target", t.String())
	p, err := a.workspace.GetProject(t.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	task, err := p.GetTask(t.TaskID)
	if err != nil {
		return nil, nil, err
	}
	return p, task, nil
}
