package target

import (
	"regexp"
	"strings"
)

const (
	projectIDPattern = `[A-Za-z0-9_@][A-Za-z0-9_.\-/@]*`
	taskIDPattern    = `[A-Za-z0-9_][A-Za-z0-9_.\-]*`
)

var (
	projectIDRegex = regexp.MustCompile(`^` + projectIDPattern + `$`)
	taskIDRegex    = regexp.MustCompile(`^` + taskIDPattern + `$`)
)

// Parse creates a Target from its canonical string representation. A bare
// task id without a colon is treated as a self-scoped reference (`~:task`).
func Parse(raw string) (Target, error) {
	if raw == "" {
		return Target{}, &ParseError{Input: raw, Reason: "target cannot be empty"}
	}

	scopePart, taskID, hasColon := strings.Cut(raw, ":")
	if !hasColon {
		scopePart, taskID = "~", raw
	}
	if strings.Contains(taskID, ":") {
		return Target{}, &ParseError{Input: raw, Reason: "too many scope separators"}
	}
	if !taskIDRegex.MatchString(taskID) {
		return Target{}, &ParseError{Input: raw, Reason: "invalid task id " + quote(taskID)}
	}

	switch scopePart {
	case "":
		return Target{Scope: ScopeAll, TaskID: taskID}, nil
	case "^":
		return Target{Scope: ScopeDeps, TaskID: taskID}, nil
	case "~":
		return Target{Scope: ScopeSelf, TaskID: taskID}, nil
	}

	if !projectIDRegex.MatchString(scopePart) {
		return Target{}, &ParseError{Input: raw, Reason: "invalid project id " + quote(scopePart)}
	}
	return Target{Scope: ScopeProject, ProjectID: scopePart, TaskID: taskID}, nil
}

// New creates a project-scoped target, validating both ids.
func New(projectID, taskID string) (Target, error) {
	raw := projectID + ":" + taskID
	if !projectIDRegex.MatchString(projectID) {
		return Target{}, &ParseError{Input: raw, Reason: "invalid project id " + quote(projectID)}
	}
	if !taskIDRegex.MatchString(taskID) {
		return Target{}, &ParseError{Input: raw, Reason: "invalid task id " + quote(taskID)}
	}
	return Target{Scope: ScopeProject, ProjectID: projectID, TaskID: taskID}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) Target {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseAll parses every string, stopping at the first error.
func ParseAll(raws []string) ([]Target, error) {
	out := make([]Target, 0, len(raws))
	for _, raw := range raws {
		t, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func quote(s string) string {
	return `"` + s + `"`
}
