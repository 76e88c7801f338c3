// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the Liblift
// application using the Cobra library. It defines the root command, the
// subcommand groups (apps, certs, extract), flags, and the main entry
// point for execution.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/liblift/liblift/internal/config"
	"github.com/liblift/liblift/internal/db"
	"github.com/liblift/liblift/internal/extract"
	"github.com/liblift/liblift/internal/i18n"
	"github.com/liblift/liblift/internal/logging"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA

var cfgFile string
var verbose bool

var appConfig config.Config

// setupDefaultServices loads the configuration and initializes i18n,
// logging, and the database. It runs before every command.
func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"database.type":    "sqlite",
		"database.dsn":     "./liblift.db",
		"language":         "en",
		"scratch_root":     config.DefaultScratchRoot(),
		"library_suffixes": extract.DefaultLibrarySuffixes,
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optionalConfigPath)
	// A "file not found" error is expected on first run; create a default
	// config so subsequent runs have a persisted file to inspect.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			logging.Warnf("could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Post-process config so critical values are never empty, falling back
	// to defaults when the user's config file blanks them out.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.ScratchRoot == "" {
		appConfig.ScratchRoot = config.DefaultScratchRoot()
	}
	if len(appConfig.LibrarySuffixes) == 0 {
		appConfig.LibrarySuffixes = extract.DefaultLibrarySuffixes
	}

	logging.SetDebug(verbose || appConfig.Debug)
	i18n.Init(appConfig.Language)

	if !db.IsInitialized() {
		if err := db.InitDB(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
	}

	return nil
}

// Execute runs the CLI entrypoint. The root main package should call this
// function with a signal-aware context and handle process exit; ctx
// cancellation reaches long-running commands like extract.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	return rootCmd.ExecuteContext(ctx)
}

// getConfigPathFromCli returns the path from an explicitly set --config
// flag, after checking the file exists.
func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates and configures a new root cobra command. This function
// is used to create the main application command as well as fresh instances
// for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liblift",
		Short: "Liblift extracts and curates dynamic libraries from app bundles.",
		Long: `Liblift stages the contents of an application bundle into a scratch
directory, classifies the dynamic libraries it finds, and lets you pick
which ones to keep. Everything else is cleaned up. A database keeps the
inventory of known application bundles and signing certificates.

Running without a subcommand prints this help.`,
		PersistentPreRunE: setupDefaultServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	composite := version
	if gitCommit != "" && gitCommit != "dev" {
		composite = composite + " (" + gitCommit + ")"
	}
	cmd.Version = composite

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Output language ("en", "de")`)
	applyDefaultFlags(cmd)

	cmd.AddCommand(newAppsCmd())
	cmd.AddCommand(newCertsCmd())
	cmd.AddCommand(newExtractCmd())

	return cmd
}

// applyDefaultFlags registers the database flags on a command, skipping
// flags that already exist. pflag panics on duplicate definitions, and
// NewRootCmd may be called multiple times in tests.
func applyDefaultFlags(cmd *cobra.Command) {
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", "Database type (e.g., sqlite, postgres, mysql)")
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "./liblift.db", "Database connection string (DSN)")
	}
}
