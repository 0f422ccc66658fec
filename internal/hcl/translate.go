package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/vk/monoplan/internal/config"
	"github.com/vk/monoplan/internal/ctxlog"
	"github.com/vk/monoplan/internal/target"
)

// translateProject converts the HCL-specific project schema into the
// agnostic model and decodes its tasks. A project without a source lives in
// the directory of the file that declares it.
func (l *Loader) translateProject(ctx context.Context, root, file string, pb *projectBlock) (*config.Project, error) {
	p := &config.Project{
		ID:           pb.ID,
		Source:       pb.Source,
		Aliases:      pb.Aliases,
		Language:     pb.Language,
		Platform:     pb.Platform,
		DependsOn:    pb.DependsOn,
		InstallScope: config.InstallScope(pb.InstallScope),
		Tasks:        make(map[string]*config.Task),
	}
	if pb.Alias != "" {
		p.Aliases = append([]string{pb.Alias}, p.Aliases...)
	}
	if p.Source == "" {
		if rel, err := filepath.Rel(root, filepath.Dir(file)); err == nil && rel != "." {
			p.Source = filepath.ToSlash(rel)
		} else {
			p.Source = p.ID
		}
	}

	var body projectBody
	evalCtx := projectContext(root, p.ID, p.Source)
	if diags := gohcl.DecodeBody(pb.Body, evalCtx, &body); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode project %q in %s: %w", p.ID, file, diags)
	}

	for _, tb := range body.Tasks {
		if _, dup := p.Tasks[tb.ID]; dup {
			return nil, fmt.Errorf("%w: task %q is defined more than once in project %q (%s)", config.ErrInvalidConfig, tb.ID, p.ID, file)
		}
		task, err := translateTask(ctx, evalCtx, tb)
		if err != nil {
			return nil, fmt.Errorf("in project %q (%s): %w", p.ID, file, err)
		}
		p.Tasks[tb.ID] = task
	}

	ctxlog.FromContext(ctx).Debug("Translated project.", "project", p.ID, "source", p.Source, "tasks", len(p.Tasks))
	return p, nil
}

// translateTask converts the HCL-specific task schema into the agnostic model.
func translateTask(ctx context.Context, evalCtx *hcl.EvalContext, tb *taskBlock) (*config.Task, error) {
	deps, err := target.ParseAll(tb.Deps)
	if err != nil {
		return nil, fmt.Errorf("task %q has invalid deps: %w", tb.ID, err)
	}

	task := &config.Task{
		ID:          tb.ID,
		Command:     tb.Command,
		Args:        tb.Args,
		Env:         tb.Env,
		Deps:        deps,
		Outputs:     tb.Outputs,
		Platform:    tb.Platform,
		Persistent:  tb.Persistent,
		Interactive: tb.Interactive,
	}

	if isExprDefined(ctx, tb.Inputs, "inputs") {
		var inputs []string
		if diags := gohcl.DecodeExpression(tb.Inputs, evalCtx, &inputs); diags.HasErrors() {
			return nil, fmt.Errorf("task %q has invalid inputs: %w", tb.ID, diags)
		}
		if inputs == nil {
			inputs = []string{}
		}
		task.Inputs = inputs
	}
	return task, nil
}
