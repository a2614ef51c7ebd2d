// Package cli implements the journal command-line tool.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Trading-Journal-Backend/internal/analytics"
	"github.com/ndewijer/Trading-Journal-Backend/internal/config"
	"github.com/ndewijer/Trading-Journal-Backend/internal/database"
	"github.com/ndewijer/Trading-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trading-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trading-Journal-Backend/internal/service"
)

// RootConfig holds the global flags shared by every subcommand.
type RootConfig struct {
	ConfigFile string
	DBPath     string
}

// NewRootCmd builds the journal command tree.
func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Trading journal ledger and analytics",
		Long: `journal manages a trading journal stored in SQLite.

Subcommands:
  migrate  - apply schema migrations
  import   - load entries and exits from a CSV file
  entries  - list entries with derived metrics
  summary  - print the monthly win/loss summary
  audit    - check the ledger for inconsistencies

Examples:
  journal import trades.csv
  journal entries --status open
  journal summary --year 2024`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&rc.ConfigFile, "config", "c", "", "YAML config file (default: $CONFIG_FILE)")
	cmd.PersistentFlags().StringVarP(&rc.DBPath, "db", "d", "", "path to SQLite database (overrides config)")

	cmd.AddCommand(
		newMigrateCmd(rc),
		newImportCmd(rc),
		newEntriesCmd(rc),
		newSummaryCmd(rc),
		newAuditCmd(rc),
	)

	return cmd
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// app is the wired service graph a subcommand works with.
type app struct {
	db      *sql.DB
	ledger  *service.LedgerService
	summary *service.SummaryService
	audit   *service.AuditService
	importS *service.ImportService
}

func (a *app) Close() error {
	return a.db.Close()
}

// openApp loads configuration, opens and migrates the database and wires the services.
// Logs go to stderr so command output stays clean.
func openApp(rc *RootConfig, stderr io.Writer) (*app, *config.Config, error) {
	cfg, err := config.LoadFile(rc.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if rc.DBPath != "" {
		cfg.Database.Path = rc.DBPath
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	if stderr == nil {
		stderr = os.Stderr
	}
	logger := logging.NewWithWriter(stderr, logging.ParseLevel(cfg.Log.Level))

	entryRepo := repository.NewEntryRepository(db)
	exitRepo := repository.NewExitRepository(db)
	calc := analytics.NewCalculator(cfg.Analytics.FXMultipliers, logger)

	ledger := service.NewLedgerService(db, entryRepo, exitRepo, calc, logger)

	return &app{
		db:      db,
		ledger:  ledger,
		summary: service.NewSummaryService(db, entryRepo, exitRepo, calc),
		audit:   service.NewAuditService(entryRepo, logger),
		importS: service.NewImportService(ledger, logger),
	}, cfg, nil
}
