package target

// Scope identifies which project(s) a target refers to.
type Scope int

const (
	// ScopeProject refers to a single project by id or alias.
	ScopeProject Scope = iota
	// ScopeAll refers to every project that declares the task (`:task`).
	ScopeAll
	// ScopeDeps refers to the dependencies of the current project (`^:task`).
	ScopeDeps
	// ScopeSelf refers to the current project (`~:task`).
	ScopeSelf
)

// String returns the lower-case name of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeProject:
		return "project"
	case ScopeAll:
		return "all"
	case ScopeDeps:
		return "dependencies"
	case ScopeSelf:
		return "self"
	default:
		return "unknown"
	}
}

// Prefix returns the scope portion of the canonical string form, including
// the trailing colon. Project scopes have no fixed prefix.
func (s Scope) Prefix() string {
	switch s {
	case ScopeAll:
		return ":"
	case ScopeDeps:
		return "^:"
	case ScopeSelf:
		return "~:"
	default:
		return ""
	}
}

// IsRelative reports whether the scope only has meaning relative to a
// project that is already being processed.
func (s Scope) IsRelative() bool {
	return s == ScopeDeps || s == ScopeSelf
}

// Target is an immutable reference to a task. It is comparable and may be
// used as a map key.
type Target struct {
	Scope Scope
	// ProjectID is only set for ScopeProject.
	ProjectID string
	TaskID    string
}

// String serializes the Target into its canonical `scope:task` form.
func (t Target) String() string {
	if t.Scope == ScopeProject {
		return t.ProjectID + ":" + t.TaskID
	}
	return t.Scope.Prefix() + t.TaskID
}

// ID is the identity of the target; it is the canonical string form.
func (t Target) ID() string {
	return t.String()
}

// RequireRunnable returns an error when the target uses a relative scope,
// which cannot be requested directly. The context names the command or
// situation (e.g. "run") for the error message.
func (t Target) RequireRunnable(context string) error {
	if t.Scope.IsRelative() {
		return &UnsupportedScopeError{Scope: t.Scope, Context: context}
	}
	return nil
}
