package cli

import (
	"github.com/spf13/cobra"

	"github.com/vk/monoplan/internal/dag"
)

func newSyncCommand(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "sync [PROJECT...]",
		Short: "Plan syncing projects and their dependencies (default: all projects)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, "text", "json", "yaml"); err != nil {
				return err
			}
			a, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			g, err := a.Sync(args)
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
	return cmd
}
