// Package main provides the fkmig command-line tool.
//
// Usage:
//
//	fkmig foreign-keys <table>                 # List the foreign keys of a table
//	fkmig add-foreign-key <from> <to>          # Add a foreign key
//	fkmig remove-foreign-key <from> [to]       # Remove a foreign key
//	fkmig dump <table>...                      # Print add_foreign_key lines
//	fkmig load <file>                          # Apply add_foreign_key lines
//	fkmig migrate <file> [--down]              # Run a YAML migration
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hlop3z/fkmig/internal/cli"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// Global flags
var (
	databaseURL string
	configFile  string
	dialectName string
	verbose     bool
	noColor     bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fkmig",
		Short:         "Foreign-key migrations for PostgreSQL, MySQL and SQLite",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr())
			if noColor {
				cli.SetMode(cli.Plain)
			}
		},
	}

	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&databaseURL, "database-url", "d", "", "Database connection URL")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "fkmig.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dialectName, "dialect", "", "Database dialect (postgres, mysql, sqlite); detected from the URL by default")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log every executed statement")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		foreignKeysCmd(),
		addForeignKeyCmd(),
		removeForeignKeyCmd(),
		dumpCmd(),
		loadCmd(),
		migrateCmd(),
	)
	return rootCmd
}

// setupLogging installs a text handler at info, or debug with --verbose.
func setupLogging(w io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError prints err with connection troubleshooting when it applies.
func printError(w io.Writer, err error) {
	fmt.Fprint(w, cli.FormatError(err))
	for _, hint := range connectionHints(err) {
		fmt.Fprintf(w, "%s: %s\n", cli.Help("help"), hint)
	}
}
