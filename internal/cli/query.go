package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/monoplan/internal/affected"
	"github.com/vk/monoplan/internal/app"
	"github.com/vk/monoplan/internal/config"
)

// queryFlags are the project filters shared by the query subcommands.
type queryFlags struct {
	query   app.ProjectQuery
	touched touchedFlags
	asJSON  bool
}

func (f *queryFlags) register(cmd *cobra.Command, what string) {
	flags := cmd.Flags()
	flags.StringVar(&f.query.ID, "id", "", "filter projects whose id matches this regular expression")
	flags.StringVar(&f.query.Alias, "alias", "", "filter projects with an alias matching this regular expression")
	flags.StringVar(&f.query.Source, "source", "", "filter projects whose source path matches this regular expression")
	flags.StringVar(&f.query.Language, "language", "", "filter projects whose language matches this regular expression")
	flags.StringVar(&f.query.Platform, "platform", "", "filter projects whose runtime platform matches this regular expression")
	flags.StringVar(&f.query.Tasks, "tasks", "", "filter projects with a task id matching this regular expression")
	flags.BoolVar(&f.query.Affected, "affected", false, "filter "+what+" affected by the touched files")
	flags.BoolVar(&f.asJSON, "json", false, "print the "+what+" as JSON")
	f.touched.register(cmd)
}

func (f *queryFlags) build(cmd *cobra.Command) (app.ProjectQuery, error) {
	q := f.query
	if !q.Affected {
		return q, nil
	}
	set, err := f.touched.load(cmd)
	if err != nil {
		return q, err
	}
	if set == nil {
		set = affected.NewSet()
	}
	q.Touched = set
	return q, nil
}

func queryError(err error) error {
	if errors.Is(err, app.ErrInvalidQuery) {
		return usageError(err)
	}
	return failure(err)
}

func newQueryCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query projects and tasks of the workspace",
	}
	cmd.AddCommand(newQueryProjectsCommand(opts), newQueryTasksCommand(opts))
	return cmd
}

// projectView is the printable form of a project.
type projectView struct {
	ID        string   `json:"id"`
	Source    string   `json:"source"`
	Aliases   []string `json:"aliases,omitempty"`
	Language  string   `json:"language,omitempty"`
	Platform  string   `json:"platform"`
	Runtime   string   `json:"runtime"`
	DependsOn []string `json:"dependsOn,omitempty"`
	Tasks     []string `json:"tasks"`
}

func newProjectView(p *config.Project) projectView {
	return projectView{
		ID:        p.ID,
		Source:    p.Source,
		Aliases:   p.Aliases,
		Language:  p.Language,
		Platform:  p.Runtime.Platform,
		Runtime:   p.Runtime.String(),
		DependsOn: p.DependsOn,
		Tasks:     p.TaskIDs(),
	}
}

func newQueryProjectsCommand(opts *options) *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the projects matching the filters",
		Example: `  monoplan query projects --language typescript
  git diff --name-only main | monoplan query projects --affected --touched-file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := flags.build(cmd)
			if err != nil {
				return err
			}
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			projects, err := a.QueryProjects(q)
			if err != nil {
				return queryError(err)
			}

			if flags.asJSON {
				views := make([]projectView, 0, len(projects))
				for _, p := range projects {
					views = append(views, newProjectView(p))
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"projects": views})
			}
			return writeProjectsText(cmd.OutOrStdout(), projects)
		},
	}
	flags.register(cmd, "projects")
	return cmd
}

func newQueryTasksCommand(opts *options) *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks of the projects matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := flags.build(cmd)
			if err != nil {
				return err
			}
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			groups, err := a.QueryTasks(q)
			if err != nil {
				return queryError(err)
			}

			if flags.asJSON {
				byProject := make(map[string]map[string]taskView, len(groups))
				for _, g := range groups {
					views := make(map[string]taskView, len(g.Tasks))
					for _, t := range g.Tasks {
						views[t.ID] = newTaskView(g.Project, t)
					}
					byProject[g.Project.ID] = views
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"tasks": byProject})
			}
			return writeTasksText(cmd.OutOrStdout(), groups)
		},
	}
	flags.register(cmd, "tasks")
	return cmd
}

// writeProjectsText prints `id | source | platform | language`, one project
// per line.
func writeProjectsText(w io.Writer, projects []*config.Project) error {
	var sb strings.Builder
	for _, p := range projects {
		language := p.Language
		if language == "" {
			language = "unknown"
		}
		fmt.Fprintf(&sb, "%s | %s | %s | %s\n", p.ID, p.Source, p.Runtime.Platform, language)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeTasksText prints each project id followed by its tasks, one per
// line as `:task | command`.
func writeTasksText(w io.Writer, groups []app.ProjectTasks) error {
	var sb strings.Builder
	for _, g := range groups {
		sb.WriteString(g.Project.ID + "\n")
		for _, t := range g.Tasks {
			command := strings.TrimSpace(t.Command + " " + strings.Join(t.Args, " "))
			fmt.Fprintf(&sb, "\t:%s | %s\n", t.ID, command)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
