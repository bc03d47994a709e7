package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dyxcloud/workday-api/internal/chinacal"
	"github.com/dyxcloud/workday-api/internal/config"
	"github.com/dyxcloud/workday-api/internal/scheduler"
	"github.com/dyxcloud/workday-api/internal/secondary"
	"github.com/dyxcloud/workday-api/internal/server"
	"github.com/dyxcloud/workday-api/internal/workday"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "workday-api",
		Short: "中国工作日校验 API",
		Long:  "HTTP service answering whether a date is a working day in China, with holiday details and cross-source verification",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(refreshCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the workday API server with daily background refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			ruleset, err := chinacal.LoadDir(cfg.Calendar.DatasetDir, logger)
			if err != nil {
				return fmt.Errorf("failed to load rule data: %w", err)
			}
			source := chinacal.NewSnapshotSource(ruleset)

			store := secondary.NewFileStore(cfg.Secondary.CacheFile, logger)
			fetcher := secondary.NewFetcher(cfg.Secondary.APIURL, cfg.Secondary.GetTimeout(), logger)

			updater := chinacal.NewUpdater(cfg.Calendar.DatasetDir, cfg.Calendar.MirrorURL, source, logger)
			refresher := scheduler.NewCacheRefresher(fetcher, store, logger)

			sched := scheduler.New(
				cfg.Scheduler.GetLocation(),
				cfg.Scheduler.LibraryUpdate,
				cfg.Scheduler.CacheRefresh,
				updater,
				refresher,
				logger,
			)
			if err := sched.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			defer sched.Stop()

			resolver := workday.NewResolver(source, store, logger)
			handlers := server.NewHandlers(resolver, cfg.Server.DocsURL, logger)
			srv := server.New(cfg.Server.Listen, cfg.Server.BasePath, handlers, logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigChan:
				logger.Info("Received signal, shutting down",
					zap.String("signal", sig.String()))
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run the rule dataset update and cache refresh once, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			source := chinacal.NewSnapshotSource(nil)
			updater := chinacal.NewUpdater(cfg.Calendar.DatasetDir, cfg.Calendar.MirrorURL, source, logger)
			if err := updater.Run(); err != nil {
				logger.Warn("Rule dataset update failed", zap.Error(err))
			}

			store := secondary.NewFileStore(cfg.Secondary.CacheFile, logger)
			fetcher := secondary.NewFetcher(cfg.Secondary.APIURL, cfg.Secondary.GetTimeout(), logger)
			if err := scheduler.NewCacheRefresher(fetcher, store, logger).Run(); err != nil {
				return fmt.Errorf("cache refresh failed: %w", err)
			}

			logger.Info("Manual refresh completed")
			return nil
		},
	}
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
