package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the workspace honors.
const EnvPrefix = "MONOPLAN_"

// LoadEnv reads `<root>/.env` when present and overlays the process
// environment on top of it, so exported variables win over the file.
func LoadEnv(root string) (map[string]string, error) {
	env := make(map[string]string)

	dotenv := filepath.Join(root, ".env")
	if _, err := os.Stat(dotenv); err == nil {
		fileEnv, err := godotenv.Read(dotenv)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dotenv, err)
		}
		for k, v := range fileEnv {
			env[k] = v
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error accessing %s: %w", dotenv, err)
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}

// ToolchainVersionKey returns the variable that overrides a platform's
// toolchain version, e.g. MONOPLAN_NODE_VERSION.
func ToolchainVersionKey(platform string) string {
	key := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(platform))
	return EnvPrefix + key + "_VERSION"
}

// ApplyEnv overrides configured toolchain versions from env. Platforms that
// are not configured are left alone. Call before Finalize.
func ApplyEnv(w *Workspace, env map[string]string) {
	for platform, tc := range w.Toolchain {
		if v, ok := env[ToolchainVersionKey(platform)]; ok && v != "" {
			tc.Version = v
		}
	}
}
