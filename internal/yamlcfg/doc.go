// Package yamlcfg loads a workspace described by YAML files:
// `.monoplan/workspace.yml` at the root lists toolchains, file groups and
// project sources, and each source directory may hold a `project.yml`.
package yamlcfg
