package target

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTarget    = errors.New("invalid target")
	ErrUnsupportedScope = errors.New("unsupported target scope")
)

// ParseError reports a target string that does not follow the grammar.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid target %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrInvalidTarget }

// UnsupportedScopeError reports a relative scope used where an absolute
// target is required.
type UnsupportedScopeError struct {
	Scope   Scope
	Context string
}

func (e *UnsupportedScopeError) Error() string {
	name := e.Scope.String()
	return fmt.Sprintf("%s%s scope (%s) is not supported in %s contexts",
		strings.ToUpper(name[:1]), name[1:], e.Scope.Prefix(), e.Context)
}

func (e *UnsupportedScopeError) Unwrap() error { return ErrUnsupportedScope }
