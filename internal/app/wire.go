//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/supersim-harness/internal/adapters"
	"github.com/trebuchet-org/supersim-harness/internal/config"
	"github.com/trebuchet-org/supersim-harness/internal/logging"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewCheckPorts,
		usecase.NewWaitForChain,
		usecase.NewSetupEnvironment,
		usecase.NewChainStatus,

		// App
		NewApp,
	)
	return nil, nil
}
