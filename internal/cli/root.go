package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"attendance/internal/app"
	"attendance/internal/config"
	"attendance/internal/logger"

	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

// annotationLogs marks commands that log to the console as well as to the files.
const annotationLogs = "logs"

var (
	application *app.App
	appLogger   *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "attendance",
	Short:         "Camera capture and attendance console for the face-recognition backend",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if cmd.Annotations[annotationLogs] == "true" {
			appLogger, err = logger.NewLogger(cfg)
			if err != nil {
				return err
			}
		} else {
			appLogger = logger.NewDiscard()
		}

		application, err = app.NewApp(cfg, appLogger)
		if err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			application.Close()
		}
		if appLogger != nil {
			appLogger.Close()
		}
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
