// Package app contains the core application logic. It loads and finalizes
// the workspace once, then answers planning requests (run, sync, graph and
// task lookups) decoupled from any specific entrypoint like a CLI.
package app
