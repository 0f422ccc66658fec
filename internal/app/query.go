package app

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/vk/monoplan/internal/affected"
	"github.com/vk/monoplan/internal/config"
)

// ErrInvalidQuery is returned when a query filter cannot be compiled.
var ErrInvalidQuery = errors.New("invalid query")

// ProjectQuery selects projects. Each non-empty filter is a regular
// expression and a project must match all of them. Aliases and Tasks match
// when any alias or task id matches.
type ProjectQuery struct {
	ID       string
	Alias    string
	Source   string
	Language string
	Platform string
	Tasks    string

	// Affected keeps only what Touched affects. An empty Touched set
	// affects nothing.
	Affected bool
	Touched  affected.Set
}

// ProjectTasks groups the tasks of one project selected by QueryTasks.
type ProjectTasks struct {
	Project *config.Project
	Tasks   []*config.Task
}

type projectMatcher struct {
	id, alias, source, language, platform, tasks *regexp.Regexp
}

func compileFilter(name, expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s filter %q: %v", ErrInvalidQuery, name, expr, err)
	}
	return re, nil
}

func (q ProjectQuery) compile() (*projectMatcher, error) {
	m := &projectMatcher{}
	filters := []struct {
		name string
		expr string
		dst  **regexp.Regexp
	}{
		{"id", q.ID, &m.id},
		{"alias", q.Alias, &m.alias},
		{"source", q.Source, &m.source},
		{"language", q.Language, &m.language},
		{"platform", q.Platform, &m.platform},
		{"tasks", q.Tasks, &m.tasks},
	}
	for _, f := range filters {
		re, err := compileFilter(f.name, f.expr)
		if err != nil {
			return nil, err
		}
		*f.dst = re
	}
	return m, nil
}

func (m *projectMatcher) matches(p *config.Project) bool {
	switch {
	case m.id != nil && !m.id.MatchString(p.ID):
		return false
	case m.alias != nil && !slices.ContainsFunc(p.Aliases, m.alias.MatchString):
		return false
	case m.source != nil && !m.source.MatchString(p.Source):
		return false
	case m.language != nil && !m.language.MatchString(p.Language):
		return false
	case m.platform != nil && !m.platform.MatchString(p.Runtime.Platform):
		return false
	case m.tasks != nil && !slices.ContainsFunc(p.TaskIDs(), m.tasks.MatchString):
		return false
	}
	return true
}

// QueryProjects returns the matching projects ordered by id. With Affected
// set, a project is kept when a touched file lies inside its source.
func (a *App) QueryProjects(q ProjectQuery) ([]*config.Project, error) {
	m, err := q.compile()
	if err != nil {
		return nil, err
	}

	var out []*config.Project
	for _, p := range a.workspace.Projects() {
		if !m.matches(p) {
			continue
		}
		if q.Affected {
			scope := p.Source
			if scope == "." {
				scope = "**/*"
			}
			ok, err := a.detector.IsAffected([]string{scope}, q.Touched)
			if err != nil {
				return nil, fmt.Errorf("project %s: %w", p.ID, err)
			}
			if !ok {
				continue
			}
		}
		out = append(out, p)
	}
	a.logger.Debug("App.QueryProjects: Query complete.", "matched", len(out))
	return out, nil
}

// QueryTasks returns the tasks of the matching projects, grouped by project
// and ordered by id. With Affected set, only tasks whose inputs match a
// touched file are kept, and projects left without tasks are dropped.
func (a *App) QueryTasks(q ProjectQuery) ([]ProjectTasks, error) {
	m, err := q.compile()
	if err != nil {
		return nil, err
	}

	var out []ProjectTasks
	for _, p := range a.workspace.Projects() {
		if !m.matches(p) {
			continue
		}
		group := ProjectTasks{Project: p}
		for _, id := range p.TaskIDs() {
			task := p.Tasks[id]
			if q.Affected {
				ok, err := a.detector.IsAffected(task.Inputs, q.Touched)
				if err != nil {
					return nil, fmt.Errorf("task %s: %w", task.Target(), err)
				}
				if !ok {
					continue
				}
			}
			group.Tasks = append(group.Tasks, task)
		}
		if len(group.Tasks) > 0 {
			out = append(out, group)
		}
	}
	a.logger.Debug("App.QueryTasks: Query complete.", "projects", len(out))
	return out, nil
}
