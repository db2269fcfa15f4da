package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/supersim-harness/internal/cli/render"
	"github.com/trebuchet-org/supersim-harness/internal/domain"
)

// NewCheckPortsCmd creates the check-ports command
func NewCheckPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-ports",
		Short: "Report whether the simulator ports are free",
		Long: `Try to connect to every simulator port on localhost. A port that accepts the
connection is in use, and "up" would skip the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			statuses := app.CheckPorts.Execute(cmd.Context(), app.Config.Ports)
			renderer := render.NewEnvironmentRenderer(cmd.OutOrStdout())
			renderer.RenderPorts(statuses)

			for _, s := range statuses {
				if s.InUse {
					renderer.RenderSkip(&domain.PortOccupiedError{Port: s.Port})
					return nil
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All simulator ports are free")
			return nil
		},
	}
}
