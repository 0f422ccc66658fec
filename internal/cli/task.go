package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/monoplan/internal/config"
)

// taskView is the printable form of a resolved task.
type taskView struct {
	Target      string            `json:"target"`
	Project     string            `json:"project"`
	Source      string            `json:"source"`
	Runtime     string            `json:"runtime"`
	Command     string            `json:"command,omitempty"`
	Args        []string          `json:"args,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	Deps        []string          `json:"deps,omitempty"`
	Inputs      []string          `json:"inputs"`
	Outputs     []string          `json:"outputs,omitempty"`
	Persistent  bool              `json:"persistent"`
	Interactive bool              `json:"interactive"`
}

func newTaskView(p *config.Project, t *config.Task) taskView {
	v := taskView{
		Target:      t.Target().String(),
		Project:     p.ID,
		Source:      p.Source,
		Runtime:     t.Runtime.String(),
		Command:     t.Command,
		Args:        t.Args,
		Env:         t.Env,
		Inputs:      t.Inputs,
		Outputs:     t.Outputs,
		Persistent:  t.Persistent,
		Interactive: t.Interactive,
	}
	if v.Inputs == nil {
		v.Inputs = []string{}
	}
	for _, d := range t.Deps {
		v.Deps = append(v.Deps, d.String())
	}
	return v
}

func newTaskCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "task TARGET",
		Short: "Show the resolved configuration of a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := parseTargets(args, "task")
			if err != nil {
				return err
			}

			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			p, t, err := a.Task(targets[0])
			if err != nil {
				return failure(err)
			}

			v := newTaskView(p, t)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			return writeTaskText(cmd.OutOrStdout(), v)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the task as JSON")
	return cmd
}

func writeTaskText(w io.Writer, v taskView) error {
	var sb strings.Builder
	sb.WriteString(v.Target + "\n\n")
	row := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "%-12s %s\n", name+":", value)
		}
	}
	row("Project", v.Project)
	row("Source", v.Source)
	row("Runtime", v.Runtime)
	row("Command", strings.TrimSpace(v.Command+" "+strings.Join(v.Args, " ")))
	row("Deps", strings.Join(v.Deps, ", "))
	row("Inputs", strings.Join(v.Inputs, ", "))
	row("Outputs", strings.Join(v.Outputs, ", "))
	if v.Persistent {
		row("Persistent", "yes")
	}
	if v.Interactive {
		row("Interactive", "yes")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
