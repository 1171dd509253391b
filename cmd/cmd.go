// Package cmd defines the command-line interface for cigate.
package cmd

import (
	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or table or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", contract.DefaultColor, "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of scanCmd to Viper
	scanCmd.Flags().String("cov-min", contract.DefaultCovMin, "Minimum line coverage percentage (env COV_MIN)")
	scanCmd.Flags().String("enforce", contract.DefaultEnforce, "Exit non-zero when the gate fails (yes/no/true/false/1/0)")
	scanCmd.Flags().String("annotations", contract.DefaultAnnotations, "Emit workflow command annotations (yes/no/true/false/1/0)")
	scanCmd.Flags().String("summary-file", "", "Markdown file to append the step summary to (env GITHUB_STEP_SUMMARY)")
	scanCmd.Flags().String("metrics-file", "", "Optional Prometheus textfile to write run metrics to")
	scanCmd.Flags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	if err := viper.BindPFlags(scanCmd.Flags()); err != nil {
		contract.LogFatal("Error binding scan flags", err)
	}

	// Bind all flags of historyListCmd to Viper
	historyListCmd.Flags().IntP("limit", "l", schema.DefaultHistoryLimit, "Number of runs to display")
	if err := viper.BindPFlags(historyListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history list flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
