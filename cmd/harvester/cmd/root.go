// Package cmd implements the harvester CLI commands.
//
// The root command sets up logging and dispatches to subcommands
// (replay, demo, version).
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	herrors "github.com/go-drift/harvester/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var (
	settings = viper.New()
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "harvester",
	Short: "Harvester - attach child controllers from boolean streams",
	Long: `Harvester drives a controller hierarchy from boolean streams:
a true event attaches a child controller to its parent, a false event
detaches it, optionally locking the parent's navigation meanwhile.

Use "harvester replay" to run a scenario file and watch the hierarchy
change step by step, or "harvester demo" for an interactive loader.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(cmd)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		handler := herrors.NewLogHandler(logger)
		handler.Verbose = settings.GetBool("verbose")
		herrors.SetHandler(handler)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging and stack traces")
	_ = settings.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	settings.SetEnvPrefix("HARVESTER")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI. An interrupt cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// newLogger builds a production logger on stderr, at debug level when
// verbose. Commands that own the terminal log to a file instead, or not
// at all.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if settings.GetBool("verbose") {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if cmd.Annotations[annotationOwnsTerminal] == "true" {
		path := settings.GetString("log-file")
		if path == "" {
			return zap.NewNop(), nil
		}
		config.OutputPaths = []string{path}
		config.ErrorOutputPaths = []string{path}
	}
	return config.Build()
}

const annotationOwnsTerminal = "owns-terminal"
