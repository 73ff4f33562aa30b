package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jakechorley/trainer-directory/cmd/cli/commands"
	"github.com/jakechorley/trainer-directory/internal/config"
	"github.com/jakechorley/trainer-directory/pkg/clients/geocoder"
	"github.com/jakechorley/trainer-directory/pkg/clients/sheetsclient"
	"github.com/jakechorley/trainer-directory/pkg/core/listing"
	"github.com/jakechorley/trainer-directory/pkg/core/proximity"
	"github.com/jakechorley/trainer-directory/pkg/postgres"
	"github.com/jakechorley/trainer-directory/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
	cleanup []func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Trainer directory CLI - browse trainers and manage their availability",
		Long:  `A CLI tool for listing trainers, ranking them by distance to a place, and keeping their availability calendars.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			for i := len(cleanup) - 1; i >= 0; i-- {
				cleanup[i]()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to the console")
	_ = rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.ListTrainersCmd(app))
	rootCmd.AddCommand(commands.SortByCmd(app))
	rootCmd.AddCommand(commands.CalendarCmd(app))
	rootCmd.AddCommand(commands.CycleDayCmd(app))
	rootCmd.AddCommand(commands.SyncTrainersCmd(app))
	rootCmd.AddCommand(commands.DeleteTrainerCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, clients, and database
func initApp() error {
	var err error
	app.Ctx = context.Background()

	consoleLevel := zapcore.InfoLevel
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}
	app.Logger, err = logging.InitLogger(env, logging.WithConsoleLevel(consoleLevel))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Cycle, err = app.Cfg.Cycle()
	if err != nil {
		return fmt.Errorf("invalid availability labels: %w", err)
	}
	app.Location = app.Cfg.Location()

	app.Sorter, err = listing.NewSorter(app.Cfg.Locale)
	if err != nil {
		return fmt.Errorf("failed to create sorter: %w", err)
	}

	if app.Cfg.TrainerSheetID != "" {
		app.Logger.Info("Initializing sheets client")
		app.SheetsClient, err = sheetsclient.NewClient(app.Ctx, app.Cfg.GoogleCredentialsFile, env)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
		app.Logger.Debug("Sheets client initialized successfully")
	}

	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	cleanup = append(cleanup, database.Close)

	app.Logger.Info("Running database migrations")
	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Database = database
	app.Logger.Info("Database initialized successfully")

	var geo proximity.Geocoder = geocoder.NewNominatim(geocoder.Options{
		BaseURL:           app.Cfg.Geocoder.BaseURL,
		UserAgent:         app.Cfg.Geocoder.UserAgent,
		RequestsPerSecond: app.Cfg.Geocoder.RequestsPerSecond,
		Timeout:           app.Cfg.Geocoder.Timeout(),
	}, app.Logger)

	if app.Cfg.Redis != nil {
		app.Logger.Info("Enabling geocoding cache", zap.String("addr", app.Cfg.Redis.Addr))
		rdb := redis.NewClient(&redis.Options{
			Addr:     app.Cfg.Redis.Addr,
			Password: app.Cfg.Redis.Password,
			DB:       app.Cfg.Redis.DB,
		})
		cleanup = append(cleanup, func() { _ = rdb.Close() })
		geo = geocoder.NewCached(geo, rdb, app.Cfg.Redis.TTL(), app.Logger)
	}
	app.Geocoder = geo
	app.Ranker = proximity.NewRanker(geo, app.Logger)

	return nil
}
