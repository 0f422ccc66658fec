package cli

import (
	"io"

	"github.com/spf13/cobra"
)

func newGraphCommand(opts *options) *cobra.Command {
	var touched touchedFlags

	cmd := &cobra.Command{
		Use:     "graph TARGET...",
		Short:   "Print the action graph of one or more targets in DOT format",
		Example: `  monoplan graph web:build | dot -Tsvg > graph.svg`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			_, err = io.WriteString(cmd.OutOrStdout(), g.ToDOT())
			return err
		},
	}
	touched.register(cmd)
	return cmd
}
