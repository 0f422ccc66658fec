package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Toolchains []*toolchainBlock `hcl:"toolchain,block"`
	FileGroups []*fileGroupBlock `hcl:"file_group,block"`
	Projects   []*projectBlock   `hcl:"project,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

type fileGroupBlock struct {
	Name     string   `hcl:"name,label"`
	Patterns []string `hcl:"patterns"`
}

type toolchainBlock struct {
	Platform string `hcl:"platform,label"`
	Version  string `hcl:"version"`
}

type projectBlock struct {
	ID           string   `hcl:"id,label"`
	Source       string   `hcl:"source,optional"`
	Alias        string   `hcl:"alias,optional"`
	Aliases      []string `hcl:"aliases,optional"`
	Language     string   `hcl:"language,optional"`
	Platform     string   `hcl:"platform,optional"`
	DependsOn    []string `hcl:"depends_on,optional"`
	InstallScope string   `hcl:"install_scope,optional"`
	// Body holds the task blocks, decoded once the project is known.
	Body hcl.Body `hcl:",remain"`
}

type projectBody struct {
	Tasks []*taskBlock `hcl:"task,block"`
}

type taskBlock struct {
	ID      string            `hcl:"id,label"`
	Command string            `hcl:"command,optional"`
	Args    []string          `hcl:"args,optional"`
	Env     map[string]string `hcl:"env,optional"`
	Deps    []string          `hcl:"deps,optional"`
	// Inputs stays an expression so an omitted attribute can be told apart
	// from an explicitly empty list.
	Inputs      hcl.Expression `hcl:"inputs,optional"`
	Outputs     []string       `hcl:"outputs,optional"`
	Platform    string         `hcl:"platform,optional"`
	Persistent  bool           `hcl:"persistent,optional"`
	Interactive bool           `hcl:"interactive,optional"`
}
