// Package dag is the planning layer of the application. It turns requested
// targets into a deduplicated graph of action nodes (toolchain setup,
// dependency installs, project syncs and task runs), detects cycles while
// expanding, and orders the result into batches that a runner can execute
// in parallel.
//
// A Builder borrows a config.Lookup for one planning pass. Build freezes the
// graph; the sorters and exporters only read it.
package dag
