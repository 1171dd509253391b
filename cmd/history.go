package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/internal/iocache"
	"github.com/huangsam/cigate/internal/outwriter"
	"github.com/huangsam/cigate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errNoHistoryBackend is returned by history subcommands when tracking is disabled.
var errNoHistoryBackend = errors.New("no history backend configured (set --history-backend or CIGATE_HISTORY_BACKEND)")

// historySetup loads configuration for history operations and optionally opens the store.
// Unlike sharedSetup it requires a backend, since there is nothing to manage without one.
func historySetup(openStore bool) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	if cfg.HistoryBackend == schema.NoneBackend {
		return errNoHistoryBackend
	}

	cfg.HistoryDBConnect = contract.ResolveHistoryConnect(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if !openStore {
		return nil
	}
	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historySetupWrapper opens the history store before the command runs.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup(true)
}

// historyMaintenanceSetupWrapper validates the backend without creating tables,
// so migrations and clears can run against a fresh or foreign database.
func historyMaintenanceSetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup(false)
}

// historyStore returns the opened history store or an error when none is available.
func historyStore() (contract.HistoryStore, error) {
	store := storeManager.GetHistoryStore()
	if store == nil {
		return nil, errNoHistoryBackend
	}
	return store, nil
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded scan runs",
	Long: `Manage the history of scan runs recorded by 'cigate scan'.

When a history backend is configured, every scan stores:
- Run metadata (timestamp, artifacts directory, duration)
- Test totals and coverage counters
- The coverage threshold and gate outcome

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show history statistics
  list    - Show recent runs with coverage deltas
  export  - Export runs to Parquet
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Record runs in the default SQLite file
  CIGATE_HISTORY_BACKEND=sqlite cigate scan

  # Show the last 10 runs
  cigate history list --history-backend sqlite --limit 10`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, the number of recorded runs, the newest and oldest run,
how many runs failed their gate, and the table sizes.

Examples:
  cigate history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := historyStore()
		if err != nil {
			return err
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get history status: %w", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
		return nil
	},
}

// historyListCmd lists recent runs.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent runs with coverage deltas",
	Long: `List recorded runs, newest first, with the coverage change against the
previous run. Supports table, json and csv output.

Examples:
  cigate history list --limit 5
  cigate history list --output json --output-file runs.json`,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := historyStore()
		if err != nil {
			return err
		}
		runs, err := store.ListRuns(cfg.HistoryLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		return outwriter.PrintHistoryRuns(os.Stdout, runs, cfg)
	},
}

// historyExportCmd exports run history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export every recorded run to a Parquet file.

Requires: --output-file parameter

Examples:
  cigate history export --output-file runs.parquet
  duckdb -c "SELECT run_time, coverage_percent FROM read_parquet('runs.parquet')"`,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := historyStore()
		if err != nil {
			return err
		}
		return iocache.ExecuteHistoryExport(os.Stdout, store, cfg.OutputFile)
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete all recorded runs. For SQLite the database file is removed; for
MySQL and PostgreSQL the runs table is dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  cigate history export --output-file backup.parquet
  cigate history clear`,
	PreRunE: historyMaintenanceSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := iocache.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.HistoryDBConnect); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Println("Run history cleared successfully.")
		return nil
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  cigate history migrate

  # Migrate to specific version
  cigate history migrate --target-version 1

  # Rollback to initial state
  cigate history migrate --target-version 0`,
	PreRunE: historyMaintenanceSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	},
}
