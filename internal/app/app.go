package app

import (
	"log/slog"

	"github.com/trebuchet-org/supersim-harness/internal/domain/config"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Progress reporting shared by the use cases
	Progress usecase.ProgressSink

	// Use cases
	CheckPorts       *usecase.CheckPorts
	WaitForChain     *usecase.WaitForChain
	SetupEnvironment *usecase.SetupEnvironment
	ChainStatus      *usecase.ChainStatus
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	progress usecase.ProgressSink,
	checkPorts *usecase.CheckPorts,
	waitForChain *usecase.WaitForChain,
	setupEnvironment *usecase.SetupEnvironment,
	chainStatus *usecase.ChainStatus,
) (*App, error) {
	return &App{
		Config:           cfg,
		Logger:           logger,
		Progress:         progress,
		CheckPorts:       checkPorts,
		WaitForChain:     waitForChain,
		SetupEnvironment: setupEnvironment,
		ChainStatus:      chainStatus,
	}, nil
}
