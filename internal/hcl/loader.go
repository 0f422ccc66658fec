package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/monoplan/internal/config"
	"github.com/vk/monoplan/internal/ctxlog"
	"github.com/vk/monoplan/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every HCL file under root and merges the blocks into one
// workspace. A project or toolchain may only be defined once across all
// files. The returned workspace is not finalized.
func (l *Loader) Load(ctx context.Context, root string) (*config.Workspace, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "root", root)

	files, err := fsutil.FindFiles(root, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to discover HCL files under %s: %w", root, err)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	ws := config.NewWorkspace(root)
	parser := hclparse.NewParser()
	definedIn := make(map[string]string)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var decoded fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, workspaceContext(root), &decoded)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, tc := range decoded.Toolchains {
			key := "toolchain." + tc.Platform
			if prev, dup := definedIn[key]; dup {
				return nil, fmt.Errorf("%w: toolchain %q is defined in both %s and %s", config.ErrInvalidConfig, tc.Platform, prev, file)
			}
			definedIn[key] = file
			ws.Toolchain[tc.Platform] = &config.ToolchainConfig{Platform: tc.Platform, Version: tc.Version}
		}

		for _, fg := range decoded.FileGroups {
			key := "file_group." + fg.Name
			if prev, dup := definedIn[key]; dup {
				return nil, fmt.Errorf("%w: file group %q is defined in both %s and %s", config.ErrInvalidConfig, fg.Name, prev, file)
			}
			definedIn[key] = file
			ws.FileGroups[fg.Name] = fg.Patterns
		}

		for _, pb := range decoded.Projects {
			key := "project." + pb.ID
			if prev, dup := definedIn[key]; dup {
				return nil, fmt.Errorf("%w: project %q is defined in both %s and %s", config.ErrInvalidConfig, pb.ID, prev, file)
			}
			definedIn[key] = file

			p, err := l.translateProject(ctx, root, file, pb)
			if err != nil {
				return nil, err
			}
			ws.ProjectMap[p.ID] = p
		}
	}

	logger.Debug("HCL loading complete.", "toolchains", len(ws.Toolchain), "file_groups", len(ws.FileGroups), "projects", len(ws.ProjectMap))
	return ws, nil
}
