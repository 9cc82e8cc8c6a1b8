package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yourEmotion/goonrails/internal/config"
)

var (
	configPath string
	verbose    bool

	cfg      *config.Config
	logLevel = zap.NewAtomicLevel()
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "goonrails",
	Short: "GoOnRails - a small blog: post store, terminal reader and web pages",
	Long: `GoOnRails serves blog posts over HTTP (:4000) and gRPC (:50051) and
reads them back through a terminal reader or server-rendered web pages (:3000).

Settings come from the YAML file given by --config, overridden by the
POSTGRES_DSN, DB_DRIVER, REDIS_ADDR, REDIS_PASSWORD, REDIS_DB and
POST_STORE_URL environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		// The reader owns the terminal, so its logs go to a file.
		var outputs []string
		if cmd.Name() == readCmd.Name() {
			outputs = []string{cfg.Logging.ReaderFile}
		}
		logger, err = newLogger(cfg.Logging.Level, outputs)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "goonrails.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, readCmd, webCmd)
}

// newLogger builds a production logger whose level can be changed at runtime
// through logLevel. Empty outputs log to stderr.
func newLogger(level string, outputs []string) (*zap.Logger, error) {
	lvl, err := levelFor(level)
	if err != nil {
		return nil, err
	}
	logLevel.SetLevel(lvl)

	zc := zap.NewProductionConfig()
	zc.Level = logLevel
	if len(outputs) > 0 {
		zc.OutputPaths = outputs
		zc.ErrorOutputPaths = outputs
	}
	return zc.Build()
}

func levelFor(level string) (zapcore.Level, error) {
	if verbose {
		return zapcore.DebugLevel, nil
	}
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return lvl, fmt.Errorf("logging level: %w", err)
	}
	return lvl, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
