package dag

import (
	"github.com/vk/monoplan/internal/config"
	"github.com/vk/monoplan/internal/target"
)

// resolvedTask pairs a task with the project that declares it.
type resolvedTask struct {
	project *config.Project
	task    *config.Task
}

// resolveRequested resolves a directly requested target. An all-scope
// target matches every project that declares the task, in project order,
// and may match none.
func (b *Builder) resolveRequested(t target.Target) ([]resolvedTask, error) {
	switch t.Scope {
	case target.ScopeAll:
		var out []resolvedTask
		for _, p := range b.lookup.Projects() {
			if task, ok := p.Tasks[t.TaskID]; ok {
				out = append(out, resolvedTask{project: p, task: task})
			}
		}
		return out, nil
	default:
		p, err := b.lookup.GetProject(t.ProjectID)
		if err != nil {
			return nil, err
		}
		task, err := p.GetTask(t.TaskID)
		if err != nil {
			return nil, err
		}
		return []resolvedTask{{project: p, task: task}}, nil
	}
}

// resolveDependency resolves one entry of a task's deps relative to the
// project that declares the task:
//
//	project:task  the named task, which must exist
//	~:task        a task of the same project, which must exist
//	^:task        the task in each depended-on project that declares it
//	:task         the task in every project that declares it, except this one
func (b *Builder) resolveDependency(p *config.Project, owner *config.Task, dep target.Target) ([]resolvedTask, error) {
	switch dep.Scope {
	case target.ScopeSelf:
		task, err := p.GetTask(dep.TaskID)
		if err != nil {
			return nil, err
		}
		return []resolvedTask{{project: p, task: task}}, nil

	case target.ScopeDeps:
		var out []resolvedTask
		for _, depID := range p.DependsOn {
			dp, err := b.lookup.GetProject(depID)
			if err != nil {
				return nil, err
			}
			if task, ok := dp.Tasks[dep.TaskID]; ok {
				out = append(out, resolvedTask{project: dp, task: task})
			}
		}
		return out, nil

	case target.ScopeAll:
		var out []resolvedTask
		for _, dp := range b.lookup.Projects() {
			task, ok := dp.Tasks[dep.TaskID]
			if !ok || (dp.ID == p.ID && task.ID == owner.ID) {
				continue
			}
			out = append(out, resolvedTask{project: dp, task: task})
		}
		return out, nil

	default:
		return b.resolveRequested(dep)
	}
}
