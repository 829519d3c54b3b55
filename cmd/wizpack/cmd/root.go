package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wizclaw/wizpack/internal/exitcode"
	"github.com/wizclaw/wizpack/internal/logger"
	"github.com/wizclaw/wizpack/internal/service/pipeline"
	"github.com/wizclaw/wizpack/internal/version"
)

var (
	// configPath to the build manifest YAML file.
	configPath string
	// logLevel for console output.
	logLevel string
	// jsonOutput emits the final result as one JSON object on stdout.
	jsonOutput bool
	// skipDeps reuses an already provisioned sandbox without reinstalling.
	skipDeps bool
	// saveConfig persists the effective manifest next to the project.
	saveConfig bool

	// rootCmd represents the base command that runs the packaging pipeline.
	rootCmd = &cobra.Command{
		Use:          "wizpack",
		Short:        "Freeze the application into a platform-tagged executable",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			} else {
				logger.Warnf(ctx, "Unknown log level %q, keeping %q", logLevel, logger.Level())
			}

			options := &pipeline.Options{
				ConfigPath: configPath,
				SkipDeps:   skipDeps,
				SaveConfig: saveConfig,
			}

			result, err := pipeline.Run(ctx, options)
			if err != nil {
				logger.ErrorKV(ctx, "Packaging failed", "stage", result.FailureStage, "error", err)
			}

			if jsonOutput {
				encoder := json.NewEncoder(os.Stdout)
				_ = encoder.Encode(result)
			}

			return err
		},
	}
)

// Execute runs the wizpack CLI and exits with the failure category's code on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.FromError(err))
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the build manifest")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error, fatal)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the final result as JSON on stdout")
	rootCmd.Flags().BoolVar(&skipDeps, "skip-deps", false, "reuse the sandbox without reinstalling dependencies")
	rootCmd.Flags().BoolVar(&saveConfig, "save-config", false, "persist the effective manifest next to the project")
}
