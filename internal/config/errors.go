package config

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownProject = errors.New("unknown project")
	ErrUnknownTask    = errors.New("unknown task")
	ErrInvalidConfig  = errors.New("invalid workspace configuration")
)

// UnknownProjectError reports a project id or alias that is not configured.
type UnknownProjectError struct {
	Name string
}

func (e *UnknownProjectError) Error() string {
	return fmt.Sprintf("No project has been configured with the name or alias %s", e.Name)
}

func (e *UnknownProjectError) Unwrap() error { return ErrUnknownProject }

// UnknownTaskError reports a task id that a project does not declare.
type UnknownTaskError struct {
	Project string
	Task    string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("Unknown task %s for project %s", e.Task, e.Project)
}

func (e *UnknownTaskError) Unwrap() error { return ErrUnknownTask }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
