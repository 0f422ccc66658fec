package cli

import (
	"github.com/spf13/cobra"

	"github.com/vk/monoplan/internal/dag"
)

func newRunCommand(opts *options) *cobra.Command {
	var (
		format  string
		touched touchedFlags
	)

	cmd := &cobra.Command{
		Use:   "run TARGET...",
		Short: "Plan the actions needed to run one or more targets",
		Example: `  monoplan run web:build
  monoplan run :test --touched apps/web/src/index.ts
  git diff --name-only main | monoplan run :lint --touched-file -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, "text", "json", "yaml"); err != nil {
				return err
			}
			targets, err := parseTargets(args, "run")
			if err != nil {
				return err
			}
			set, err := touched.load(cmd)
			if err != nil {
				return err
			}

			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			g, err := a.Plan(targets, set)
			if err != nil {
				return failure(err)
			}
			plan, err := dag.NewPlan(g)
			if err != nil {
				return failure(err)
			}
			return writePlan(cmd.OutOrStdout(), format, plan)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: 'text', 'json' or 'yaml'")
	touched.register(cmd)
	return cmd
}
