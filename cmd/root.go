// =============================================================================
// EDI Order Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ediconv)
//   ├── convertCmd (ediconv convert)
//   ├── listCmd    (ediconv list)
//   └── versionCmd (ediconv version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration file (--config, optional when not given)
//   2. Layers EDICONV_* environment variables and bound flags over it
//   3. Sets up the zap logger
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Disha-1203/EDI-parser/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// overrides holds the environment and flag overrides.
var overrides = config.NewViper()

// appConfig is the effective configuration, set before a subcommand runs.
var appConfig *config.Config

// logger is the application logger, set before a subcommand runs.
var logger = zap.NewNop()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ediconv",
	Short: "EDI Order Converter - Convert purchase orders between EDI, TXT, JSON and XLSX",
	Long: `EDI Order Converter reads purchase orders from an X12 850 EDI, text, JSON
or XLSX file, optionally selects a subset of them, and writes the selection
in another format.

Example Usage:
  ediconv convert --input orders.edi --format json
  ediconv convert --input orders.edi --format json --from 20240101 --to 20240131
  ediconv convert --input orders.txt --format edi --select 1,3
  ediconv list --input orders.json`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (optional unless given explicitly)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().String(
		"output-dir",
		"",
		"Directory for output files (overrides output_dir)",
	)
	if err := overrides.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir")); err != nil {
		panic(fmt.Sprintf("failed to bind flag output-dir: %v", err))
	}
}

// initConfig loads the configuration and builds the logger.
func initConfig(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOptional(cfgFile)
	}
	if err != nil {
		return err
	}

	if err := cfg.Overlay(overrides); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := newLogger(cfg.LogLevel, verbose)
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = l
	logger.Debug("Configuration loaded",
		zap.String("config", cfgFile),
		zap.String("output_dir", cfg.OutputDir),
		zap.String("input_encoding", cfg.InputEncoding))
	return nil
}

// newLogger builds a console logger writing to stderr.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopmentConfig().Build()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

// bindFlag binds a command flag to a configuration key.
func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := overrides.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
	}
}
