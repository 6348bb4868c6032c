// Package cli implements the caloriespot command line.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/config"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
)

const closeTimeout = 10 * time.Second

// BuildInfo is set from linker flags in main.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

type appKey struct{}

// NewRootCommand builds the command tree. The App is created before any subcommand runs
// and closed after it returns.
func NewRootCommand(build BuildInfo) *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "caloriespot",
		Short:         "caloriespot tracks your calorie goal and identifies cars from photos",
		Long:          "caloriespot keeps the daily calorie goal on this device, identifies cars through the hosted inference service and manages sign-in.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["offline"] == "true" {
				return nil
			}

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			lg := logger.New(cfg.LogLevel)

			app, err = newApp(cmd.Context(), cfg, lg, build)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			app.Close(ctx)
			app = nil
		},
	}

	root.AddCommand(
		newGoalCommand(),
		newIdentifyCommand(),
		newLeadCommand(),
		newAuthCommand(),
		newVersionCommand(build),
	)

	return root
}

// Execute runs the CLI with ctx, closing the App even when the command fails.
func Execute(ctx context.Context, build BuildInfo) error {
	root := NewRootCommand(build)
	return executeCommand(ctx, root)
}

func executeCommand(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil && root.PersistentPostRun != nil {
		// cobra skips post-run hooks when a command fails.
		root.PersistentPostRun(root, nil)
	}
	return err
}

func appFrom(cmd *cobra.Command) (*App, error) {
	app, ok := cmd.Context().Value(appKey{}).(*App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}
