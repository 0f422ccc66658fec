// Package config defines the format-agnostic workspace model for the
// application, along with the core interfaces (Loader, Lookup) for loading
// configuration and resolving projects and tasks from it.
//
// The `config.Workspace` is the single source of truth for the `dag`
// package, which only sees it through the narrow Lookup interface. Concrete
// loaders, such as for HCL and YAML, are provided in separate packages.
package config
