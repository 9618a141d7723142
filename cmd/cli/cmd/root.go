// Package cmd provides the CLI commands for tollgrid.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tollgrid/core/engine"
	"tollgrid/core/output"
	"tollgrid/internal/config"
	"tollgrid/internal/errors"
	"tollgrid/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile      string
	verbose      bool
	pricesDir    string
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tollgrid",
	Short: "Build toll entry/exit price matrices from published price lists",
	Long: `tollgrid loads toll price lists published as flat, matrix or triangle
tables, merges them into one price table keyed by entry station, exit
station and vehicle category, and fills the entry/exit matrices of a toll
definition file from it.

Examples:
  tollgrid build-matrix tolls.json
  tollgrid get-prices "saint arnoult"
  tollgrid check-prices --errors
  tollgrid serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	return errors.ExitCode(err)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, .json, .yaml or .hcl (default is ./tollgrid.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&pricesDir, "prices-dir", "", "root of the price lists (flat/, matrix/, triangle/, alias.csv)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "output format (text, json)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("tollgrid.yaml"); err == nil {
			path = "tollgrid.yaml"
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(ExitCode(err))
	}
	if pricesDir != "" {
		cfg.SetPricesDir(pricesDir)
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	// Initialize logging
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// loadEngine validates the configuration and loads every price list
func loadEngine() (*engine.Engine, error) {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return engine.New(cfg)
}

// render writes result in the configured format
func render(cmd *cobra.Command, result output.Result) error {
	format, err := output.ParseFormat(config.Get().Output.Format)
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "invalid format", err)
	}
	return output.Render(cmd.OutOrStdout(), format, result)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tollgrid version %s\n", Version)
	},
}
