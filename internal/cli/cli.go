package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vk/monoplan/internal/app"
	"github.com/vk/monoplan/internal/target"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

func failure(err error) error {
	return &ExitError{Code: 1, Message: err.Error()}
}

// options are the persistent flags shared by every command.
type options struct {
	workspace    string
	configFormat string
	logLevel     string
	logFormat    string
}

// NewRootCommand builds the command tree. Command results are written to
// outW and logs to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "monoplan",
		Short: "Plan monorepo tasks as a batched dependency graph",
		Long: `monoplan reads a workspace of projects and tasks and plans what must run,
in which order and with which parallelism, to execute the requested targets.

Targets have the form project:task, :task (every project), ^:task (the
dependencies of a project) or ~:task (the same project).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(outW)
	rootCmd.SetErr(errW)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "w", ".", "workspace root directory")
	rootCmd.PersistentFlags().StringVar(&opts.configFormat, "config-format", "", "configuration format: 'hcl' or 'yaml' (default: detect)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "logging level: 'debug', 'info', 'warn' or 'error'")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log output format: 'text' or 'json'")

	rootCmd.AddCommand(
		newRunCommand(opts),
		newSyncCommand(opts),
		newGraphCommand(opts),
		newTaskCommand(opts),
		newQueryCommand(opts),
	)
	return rootCmd
}

// Execute runs the command line. Every returned error is an *ExitError.
func Execute(args []string, outW, errW io.Writer) error {
	rootCmd := NewRootCommand(outW, errW)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Remaining errors come from cobra itself: unknown commands and
	// argument count checks.
	return usageError(err)
}

// newApp loads the workspace selected by the persistent flags.
func (o *options) newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		WorkspaceRoot: o.workspace,
		ConfigFormat:  o.configFormat,
		LogLevel:      o.logLevel,
		LogFormat:     o.logFormat,
	})
	if err != nil {
		return nil, usageError(err)
	}

	a, err := app.NewApp(cmd.ErrOrStderr(), cfg, nil)
	if err != nil {
		return nil, failure(err)
	}
	return a, nil
}

// parseTargets parses the arguments of a command and rejects scopes the
// command cannot request directly, so both surface as usage errors.
func parseTargets(raws []string, context string) ([]target.Target, error) {
	targets, err := target.ParseAll(raws)
	if err != nil {
		return nil, usageError(err)
	}
	for _, t := range targets {
		if err := t.RequireRunnable(context); err != nil {
			return nil, usageError(err)
		}
	}
	return targets, nil
}

func validateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return usageError(fmt.Errorf("invalid format %q: must be one of %v", format, allowed))
}
