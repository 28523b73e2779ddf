package cli

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Serve the console HTTP API and live preview",
	Annotations: map[string]string{annotationLogs: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return application.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
