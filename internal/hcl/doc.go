// Package hcl provides the HCL implementation of config.Loader. It finds
// every *.hcl file under the workspace root, decodes `toolchain` and
// `project` blocks, and translates them into the format-agnostic
// config.Workspace.
//
// Task blocks are decoded in a second phase, once the enclosing project is
// known, so task attributes can reference `project.id`, `project.source`
// and `workspace.root`.
package hcl
