package cli

import (
	"github.com/robertvg253/arrankar-vehiculos-app/internal/client/config"
	"github.com/spf13/cobra"
)

// Command builds the editor's command tree. The configuration is loaded and
// the client connected before any subcommand runs.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "editor",
		Short:         "Edit vehicles and their photo galleries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	config.RegisterFlags(root)

	root.AddCommand(a.pingCmd(), a.vehicleCmd(), a.galleryCmd())
	return root
}

func (a *App) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.Ping(cmd.Context()); err != nil {
				return err
			}
			a.printf("server is online\n")
			return nil
		},
	}
}
