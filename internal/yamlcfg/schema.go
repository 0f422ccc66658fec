package yamlcfg

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type workspaceFile struct {
	Toolchain  map[string]toolchainEntry `yaml:"toolchain"`
	FileGroups map[string][]string       `yaml:"fileGroups"`
	// Projects maps project ids to workspace-relative source directories.
	Projects map[string]string `yaml:"projects"`
}

type toolchainEntry struct {
	Version string `yaml:"version"`
}

type projectFile struct {
	Language     string               `yaml:"language"`
	Platform     string               `yaml:"platform"`
	Aliases      []string             `yaml:"aliases"`
	DependsOn    []string             `yaml:"dependsOn"`
	InstallScope string               `yaml:"installScope"`
	Tasks        map[string]taskEntry `yaml:"tasks"`
}

type taskEntry struct {
	Command commandLine       `yaml:"command"`
	Args    []string          `yaml:"args"`
	Deps    []string          `yaml:"deps"`
	Env     map[string]string `yaml:"env"`
	// Inputs is a pointer so an omitted key differs from `inputs: []`.
	Inputs   *[]string   `yaml:"inputs"`
	Outputs  []string    `yaml:"outputs"`
	Platform string      `yaml:"platform"`
	Options  taskOptions `yaml:"options"`
}

type taskOptions struct {
	Persistent  bool `yaml:"persistent"`
	Interactive bool `yaml:"interactive"`
}

// commandLine accepts either a shell-like string or a list of words.
type commandLine []string

func (c *commandLine) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*c = strings.Fields(value.Value)
		return nil
	case yaml.SequenceNode:
		var words []string
		if err := value.Decode(&words); err != nil {
			return err
		}
		*c = words
		return nil
	default:
		return fmt.Errorf("line %d: command must be a string or a list of strings", value.Line)
	}
}
