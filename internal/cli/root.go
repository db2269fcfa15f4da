package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/supersim-harness/internal/adapters/progress"
	"github.com/trebuchet-org/supersim-harness/internal/app"
	"github.com/trebuchet-org/supersim-harness/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "supersim-harness",
		Short: "Local multi-chain test environment for supersim",
		Long: `supersim-harness launches supersim, waits until every configured chain
answers RPC queries and tears the simulator down again. If the simulator ports
are already taken the run is skipped instead of failed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := resolveProjectRoot(cmd)
			if err != nil {
				return err
			}

			// Set up viper
			v := config.SetupViper(projectRoot)

			// Bind flags that have been set
			config.BindFlags(v, cmd)

			sink := progress.NewSink(v.GetBool("non_interactive"))

			// Initialize app with DI
			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("project-root", "", "Project root (defaults to the nearest directory with supersim.toml or foundry.toml)")
	rootCmd.PersistentFlags().String("binary", "", "Simulator executable (default \"supersim\")")
	rootCmd.PersistentFlags().String("logs-dir", "", "Directory for simulator logs, relative to the project root (default \".logs\")")
	rootCmd.PersistentFlags().StringSlice("chains", nil, "Chains as <chain-id>=<rpc-url> (default 901 and 902 on ports 9545/9546)")
	rootCmd.PersistentFlags().StringSlice("ports", nil, "Ports that must be free before launch (default: derived from the chain URLs)")
	rootCmd.PersistentFlags().Int("max-attempts", 0, "Readiness attempts per chain (default 10)")
	rootCmd.PersistentFlags().Duration("poll-interval", time.Second, "Pause between readiness attempts")
	rootCmd.PersistentFlags().Duration("stop-grace", 5*time.Second, "How long to wait after SIGTERM before killing the simulator")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable spinners and colors")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "diagnostics",
		Title: "Diagnostic Commands",
	})

	upCmd := NewUpCmd()
	upCmd.GroupID = "main"
	rootCmd.AddCommand(upCmd)

	statusCmd := NewStatusCmd()
	statusCmd.GroupID = "diagnostics"
	rootCmd.AddCommand(statusCmd)

	checkPortsCmd := NewCheckPortsCmd()
	checkPortsCmd.GroupID = "diagnostics"
	rootCmd.AddCommand(checkPortsCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// resolveProjectRoot honours --project-root before searching upwards
func resolveProjectRoot(cmd *cobra.Command) (string, error) {
	if f := cmd.Flag("project-root"); f != nil && f.Changed && f.Value.String() != "" {
		return f.Value.String(), nil
	}
	return config.FindProjectRoot()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
