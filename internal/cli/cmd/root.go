// Package cmd provides Cobra CLI commands for huewatch.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/huewatch/internal/cli"
	"github.com/bnema/huewatch/internal/domain/build"
)

var (
	app        *cli.App
	buildInfo  build.Info
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "huewatch",
		Short: "Watch desktop appearance settings",
		Long: `huewatch reports changes to the desktop appearance: dark mode, accent
color and accessibility preferences.

Raw change signals from the XDG Desktop Portal, gsettings and the huewatch
config file are coalesced, so a burst of related changes produces a single
notification.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that must work without a loadable config
			if cmd.Annotations[annotationNoApp] == "true" {
				return nil
			}
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}

			if !cli.ValidLogLevel(logLevel) {
				return fmt.Errorf("invalid --log-level %q", logLevel)
			}

			var err error
			app, err = cli.NewApp(configPath, logLevel)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// annotationNoApp marks commands that run without loading the config.
const annotationNoApp = "huewatch/no-app"

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/huewatch/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
	rootCmd.Version = info.Version
}
