package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/vk/monoplan/internal/affected"
	"github.com/vk/monoplan/internal/config"
	"github.com/vk/monoplan/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx       context.Context
	logger    *slog.Logger
	workspace *config.Workspace
	detector  *affected.Detector
}

// NewApp is the constructor for the main application. Logs go to logW. When
// loader is nil it is chosen by the config format or detected from the
// workspace root.
func NewApp(logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if loader == nil {
		var err error
		loader, err = LoaderFor(appConfig.ConfigFormat, appConfig.WorkspaceRoot)
		if err != nil {
			return nil, err
		}
	}

	ws, err := loadWorkspace(ctx, loader, appConfig.WorkspaceRoot)
	if err != nil {
		return nil, err
	}

	detector, err := affected.NewDetector(appConfig.MatchCacheSize)
	if err != nil {
		return nil, err
	}

	return &App{
		ctx:       ctx,
		logger:    logger,
		workspace: ws,
		detector:  detector,
	}, nil
}

// Workspace returns the finalized workspace.
func (a *App) Workspace() *config.Workspace {
	return a.workspace
}
