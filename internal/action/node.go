// Package action defines the closed set of planned units of work. Every
// node in a planning graph is exactly one of SetupToolchain,
// InstallDependencies, SyncProject or RunTask.
package action

import (
	"fmt"

	"github.com/vk/monoplan/internal/target"
)

// Kind distinguishes between the node variants.
type Kind int

const (
	// KindSetupToolchain provisions a runtime version.
	KindSetupToolchain Kind = iota
	// KindInstallDependencies installs package manifests for a runtime scope.
	KindInstallDependencies
	// KindSyncProject reconciles generated and config files for a project.
	KindSyncProject
	// KindRunTask executes one resolved task.
	KindRunTask
)

func (k Kind) String() string {
	switch k {
	case KindSetupToolchain:
		return "SetupToolchain"
	case KindInstallDependencies:
		return "InstallDependencies"
	case KindSyncProject:
		return "SyncProject"
	case KindRunTask:
		return "RunTask"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is a single unit of planned work. The interface is sealed: only the
// types in this package implement it, so type switches over the four
// variants are exhaustive.
type Node interface {
	Kind() Kind
	// Key is the deterministic identity used for deduplication.
	Key() string
	// Label is the human-readable form used in graph output.
	Label() string

	sealed()
}

// SetupToolchain provisions a runtime.
type SetupToolchain struct {
	Runtime Runtime
}

func (SetupToolchain) Kind() Kind { return KindSetupToolchain }
func (n SetupToolchain) Key() string {
	return n.Label()
}
func (n SetupToolchain) Label() string {
	return fmt.Sprintf("SetupToolchain(%s)", n.Runtime)
}
func (SetupToolchain) sealed() {}

// InstallDependencies installs dependencies for a runtime, either once for
// the whole workspace (empty ProjectID) or for a single project.
type InstallDependencies struct {
	Runtime   Runtime
	ProjectID string
}

func (InstallDependencies) Kind() Kind { return KindInstallDependencies }
func (n InstallDependencies) Key() string {
	return n.Label()
}
func (n InstallDependencies) Label() string {
	if n.ProjectID == "" {
		return fmt.Sprintf("InstallDependencies(%s)", n.Runtime)
	}
	return fmt.Sprintf("InstallDependencies(%s, %s)", n.Runtime, n.ProjectID)
}

func (InstallDependencies) sealed() {}

// SyncProject reconciles a project's generated files for its runtime.
type SyncProject struct {
	Runtime   Runtime
	ProjectID string
}

func (SyncProject) Kind() Kind { return KindSyncProject }
func (n SyncProject) Key() string {
	return n.Label()
}
func (n SyncProject) Label() string {
	return fmt.Sprintf("SyncProject(%s, %s)", n.Runtime.Platform, n.ProjectID)
}
func (SyncProject) sealed() {}

// RunTask executes one task. The scheduling flags are copied from the task
// so the graph can be sorted without the lookup.
type RunTask struct {
	Target      target.Target
	Runtime     Runtime
	Persistent  bool
	Interactive bool
}

func (RunTask) Kind() Kind { return KindRunTask }

// Key is the fully-qualified target; the runtime does not take part in the
// identity, a target only runs once per plan.
func (n RunTask) Key() string {
	return "RunTask(" + n.Target.ID() + ")"
}
func (n RunTask) Label() string {
	return "RunTask(" + n.Target.String() + ")"
}
func (RunTask) sealed() {}

// IsPersistent reports whether the node is a long-running task.
func IsPersistent(n Node) bool {
	rt, ok := n.(RunTask)
	return ok && rt.Persistent
}

// IsInteractive reports whether the node needs exclusive terminal access.
func IsInteractive(n Node) bool {
	rt, ok := n.(RunTask)
	return ok && rt.Interactive
}
