package app

import (
	"context"
	"fmt"

	"github.com/vk/monoplan/internal/config"
	"github.com/vk/monoplan/internal/ctxlog"
	"github.com/vk/monoplan/internal/hcl"
	"github.com/vk/monoplan/internal/yamlcfg"
)

// LoaderFor returns the loader for the given config format. An empty format
// detects it from the workspace root.
func LoaderFor(format, root string) (config.Loader, error) {
	switch format {
	case "hcl":
		return hcl.NewLoader(), nil
	case "yaml":
		return yamlcfg.NewLoader(), nil
	case "":
		return DetectLoader(root), nil
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}

// DetectLoader picks the YAML loader when the root holds a YAML workspace
// file, and the HCL loader otherwise.
func DetectLoader(root string) config.Loader {
	if yamlcfg.Detect(root) {
		return yamlcfg.NewLoader()
	}
	return hcl.NewLoader()
}

// loadWorkspace loads the workspace, applies environment overrides and
// finalizes it.
func loadWorkspace(ctx context.Context, loader config.Loader, root string) (*config.Workspace, error) {
	logger := ctxlog.FromContext(ctx)

	ws, err := loader.Load(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	env, err := config.LoadEnv(root)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(ws, env)

	if err := ws.Finalize(); err != nil {
		return nil, err
	}
	logger.Debug("Workspace loaded and finalized.", "projects", len(ws.ProjectMap), "toolchains", len(ws.Toolchain))
	return ws, nil
}
