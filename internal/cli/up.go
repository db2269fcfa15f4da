package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/supersim-harness/internal/cli/render"
	"github.com/trebuchet-org/supersim-harness/internal/domain"
)

// NewUpCmd creates the up command
func NewUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Start supersim and wait for every chain",
		Long: `Start supersim with interop autorelay, wait until every configured chain
answers eth_blockNumber and keep it running until interrupted.

If any simulator port is already in use the command prints a warning and exits
successfully without starting anything.`,
		Args: cobra.NoArgs,
		RunE: runUp,
	}
}

func runUp(cmd *cobra.Command, _ []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := render.NewEnvironmentRenderer(cmd.OutOrStdout())

	env, err := app.SetupEnvironment.Setup(ctx)
	stopSpinner(app.Progress)
	if err != nil {
		if domain.IsSkip(err) {
			renderer.RenderSkip(err)
			return nil
		}
		return err
	}
	defer app.SetupEnvironment.Teardown(context.WithoutCancel(ctx), env)

	if err := renderer.Render(env); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	select {
	case <-ctx.Done():
		fmt.Fprintln(cmd.OutOrStdout(), "Stopping supersim...")
		return nil
	case <-env.Process.Done():
		return env.Process.Err()
	}
}

// stopSpinner clears sinks that animate the terminal
func stopSpinner(sink any) {
	if s, ok := sink.(interface{ Stop() }); ok {
		s.Stop()
	}
}
