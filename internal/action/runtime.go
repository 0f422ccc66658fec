package action

// PlatformSystem is the platform of tasks that run plain system commands
// and need no managed toolchain.
const PlatformSystem = "system"

// Runtime identifies a language/tool platform and the version to provision.
type Runtime struct {
	Platform string
	Version  string
}

// System is the runtime of tasks that run plain system commands.
var System = Runtime{Platform: PlatformSystem}

// IsSystem reports whether the runtime is the system runtime.
func (r Runtime) IsSystem() bool {
	return r.Platform == "" || r.Platform == PlatformSystem
}

// String renders the runtime as `platform@version`, or just the platform
// when no version is pinned.
func (r Runtime) String() string {
	if r.IsSystem() {
		return PlatformSystem
	}
	if r.Version == "" {
		return r.Platform
	}
	return r.Platform + "@" + r.Version
}
