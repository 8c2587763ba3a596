package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shiftdesk/shiftdesk/cmd/cli/commands"
	"github.com/shiftdesk/shiftdesk/internal/config"
	"github.com/shiftdesk/shiftdesk/pkg/core/engine"
	"github.com/shiftdesk/shiftdesk/pkg/db"
	"github.com/shiftdesk/shiftdesk/pkg/postgres"
	"github.com/shiftdesk/shiftdesk/pkg/utils/logging"
)

var (
	configPath string
	app        *commands.AppContext
	pgDB       *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftdesk",
		Short: "ShiftDesk CLI - Manage workforce rosters",
		Long:  `A CLI tool for importing schedule CSVs, tracking shift edits, and working schedule change requests.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
			if pgDB != nil {
				pgDB.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to shiftdesk.yaml (defaults to current then home directory)")

	// Add all commands
	rootCmd.AddCommand(commands.ImportCsvCmd(appRef()))
	rootCmd.AddCommand(commands.SyncSheetsCmd(appRef()))
	rootCmd.AddCommand(commands.EditShiftCmd(appRef()))
	rootCmd.AddCommand(commands.RequestsCmd(appRef()))
	rootCmd.AddCommand(commands.SubmitChangeCmd(appRef()))
	rootCmd.AddCommand(commands.SubmitSwapCmd(appRef()))
	rootCmd.AddCommand(commands.DecideCmd(appRef()))
	rootCmd.AddCommand(commands.MonthsCmd(appRef()))
	rootCmd.AddCommand(commands.SetMonthCmd(appRef()))
	rootCmd.AddCommand(commands.ExportCsvCmd(appRef()))
	rootCmd.AddCommand(commands.ModificationsCmd(appRef()))
	rootCmd.AddCommand(commands.SyncConfigCmd(appRef()))
	rootCmd.AddCommand(commands.ResetOverrideCmd(appRef()))
	rootCmd.AddCommand(commands.ReloadCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext. It is allocated once up front
// so command constructors can capture it before initApp fills it in.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, store and engine
func initApp() error {
	var err error
	a := appRef()
	a.Ctx = context.Background()

	a.Logger, err = logging.InitLogger("shiftdesk")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.Logger.Info("Starting application")

	a.Logger.Info("Loading configuration")
	if configPath != "" {
		a.Cfg, err = config.LoadFromPath(configPath)
	} else {
		a.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.Logger.Debug("Configuration loaded successfully")

	switch a.Cfg.Backend {
	case "postgres":
		a.Logger.Info("Connecting to postgres")
		pgDB, err = postgres.NewDB(a.Ctx, a.Cfg.Postgres.ConnString, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pgDB.RunMigrations(a.Ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		a.Store = pgDB
	default:
		a.Logger.Info("Opening data directory", zap.String("dir", a.Cfg.DataDir))
		a.Store, err = db.NewFileStore(a.Cfg.DataDir, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to open data directory: %w", err)
		}
	}

	timeout := time.Duration(a.Cfg.FetchTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	a.Engine = engine.New(a.Store, a.Logger, engine.NewHTTPFetcher(timeout))
	if err := a.Engine.LoadAll(a.Ctx); err != nil {
		return fmt.Errorf("failed to load roster data: %w", err)
	}
	a.Logger.Info("Engine initialized successfully")

	return nil
}
