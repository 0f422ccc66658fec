package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the workspace rooted at root and translates it into the
	// format-agnostic model. The returned workspace is not yet finalized.
	Load(ctx context.Context, root string) (*Workspace, error)
}

// Lookup resolves projects and their tasks during a planning pass. It is
// borrowed read-only by the graph builder.
type Lookup interface {
	// GetProject resolves a project by id or alias. An unknown name returns
	// an *UnknownProjectError.
	GetProject(idOrAlias string) (*Project, error)

	// Projects returns every project ordered lexicographically by id.
	Projects() []*Project
}
