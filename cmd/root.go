package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/internal/iocache"
	"github.com/huangsam/cigate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager = iocache.Manager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "cigate",
	Short:              "Aggregate CI test and coverage artifacts into a summary and a gate.",
	Long:               `cigate scans JUnit XML and lcov files left behind by CI jobs, reports totals and line coverage, and decides whether the run passes.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in ENV variables and sets defaults.
func initConfig() {
	setConfigPaths()

	// Set environment variable prefix
	viper.SetEnvPrefix("CIGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// CI runners export these without our prefix
	_ = viper.BindEnv("cov-min", "CIGATE_COV_MIN", "COV_MIN")
	_ = viper.BindEnv("summary-file", "CIGATE_SUMMARY_FILE", "GITHUB_STEP_SUMMARY")

	// Set defaults in Viper
	viper.SetDefault("cov-min", contract.DefaultCovMin)
	viper.SetDefault("enforce", contract.DefaultEnforce)
	viper.SetDefault("annotations", contract.DefaultAnnotations)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("limit", schema.DefaultHistoryLimit)
	viper.SetDefault("history-backend", "")
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", contract.DefaultColor)
}

// setConfigPaths points viper at --config or the default .cigate.yaml locations.
func setConfigPaths() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".cigate") // Name of config file (without extension)
	viper.SetConfigType("yaml")    // We'll use YAML format
	viper.AddConfigPath(".")       // Look in the current directory
	viper.AddConfigPath("$HOME")   // Look in the home directory
}

// loadConfig reads the config file and unmarshals every resolved value into input.
func loadConfig() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	// Handle positional arguments (which Viper doesn't do).
	input.ArtifactsDirStr = ""
	if len(args) == 1 {
		input.ArtifactsDirStr = args[0]
	}

	// Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// Initialize persistence layer with validated config
	connStr := contract.ResolveHistoryConnect(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err := iocache.InitStores(cfg.HistoryBackend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
