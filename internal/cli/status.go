package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/supersim-harness/internal/cli/render"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Probe every configured chain once",
		Long: `Check each configured chain without starting anything: whether its port is
taken, whether it answers eth_blockNumber and which chain ID it reports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			result, err := app.ChainStatus.Execute(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewStatusRenderer(cmd.OutOrStdout(), f).Render(result)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "table", "Output format: table, json or yaml")
	return cmd
}
